package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS skus (
		id UUID PRIMARY KEY,
		sku_name VARCHAR(255) NOT NULL,
		sku_description TEXT NOT NULL DEFAULT '',
		unit_of_measure VARCHAR(50) NOT NULL DEFAULT 'pcs',
		current_stock_level INTEGER NOT NULL DEFAULT 0 CHECK (current_stock_level >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY,
		sku_id UUID NOT NULL REFERENCES skus(id),
		sale_date TIMESTAMPTZ NOT NULL,
		quantity_sold INTEGER NOT NULL CHECK (quantity_sold >= 1),
		selling_price NUMERIC(14, 4) NOT NULL CHECK (selling_price >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_sku_date ON sales (sku_id, sale_date)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id UUID PRIMARY KEY,
		supplier_name VARCHAR(255) NOT NULL,
		contact_info VARCHAR(500) NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id UUID PRIMARY KEY,
		sku_id UUID NOT NULL REFERENCES skus(id),
		supplier_id UUID NOT NULL REFERENCES suppliers(id),
		order_quantity INTEGER NOT NULL CHECK (order_quantity >= 1),
		order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expected_arrival_date TIMESTAMPTZ NOT NULL,
		order_status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		received_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders (order_status, expected_arrival_date)`,
	`CREATE TABLE IF NOT EXISTS ai_history (
		id UUID PRIMARY KEY,
		sku_id UUID NOT NULL REFERENCES skus(id),
		insight_type VARCHAR(20) NOT NULL,
		ai_output TEXT NOT NULL,
		input_params JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_history_type_created ON ai_history (insight_type, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_history_sku_created ON ai_history (sku_id, created_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they are missing.
func EnsureSchema(ctx context.Context, db *DB) error {
	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		log.Info().Int("statements", len(schema)).Msg("database schema ensured")
		return nil
	})
}
