package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const skuColumns = `id, sku_name, sku_description, unit_of_measure, current_stock_level, is_active, created_at, updated_at`

type skuRepository struct {
	db *DB
}

func NewSKURepository(db *DB) repository.SKURepository {
	return &skuRepository{db: db}
}

func (r *skuRepository) Create(ctx context.Context, sku *domain.SKU) error {
	query := `
		INSERT INTO skus (` + skuColumns + `)
		VALUES (:id, :sku_name, :sku_description, :unit_of_measure, :current_stock_level, :is_active, :created_at, :updated_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, sku); err != nil {
		return fmt.Errorf("failed to insert sku: %w", err)
	}
	return nil
}

func (r *skuRepository) Get(ctx context.Context, id uuid.UUID) (*domain.SKU, error) {
	var sku domain.SKU
	query := `SELECT ` + skuColumns + ` FROM skus WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &sku, query, id); err != nil {
		return nil, notFound(err, "sku "+id.String())
	}
	return &sku, nil
}

func (r *skuRepository) List(ctx context.Context, filter repository.SKUFilter) ([]*domain.SKU, error) {
	query := `
		SELECT ` + skuColumns + `
		FROM skus
		WHERE ($1 = FALSE OR is_active = TRUE)
		  AND ($2 = '' OR sku_name ILIKE $3 ESCAPE '\' OR id::text ILIKE $3 ESCAPE '\')
		ORDER BY sku_name DESC
	`
	var skus []*domain.SKU
	if err := sqlx.SelectContext(ctx, r.db, &skus, query, filter.ActiveOnly, filter.Search, containsPattern(filter.Search)); err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	return skus, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that matches search literally.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

func (r *skuRepository) Update(ctx context.Context, sku *domain.SKU) error {
	sku.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE skus SET
			sku_name = :sku_name,
			sku_description = :sku_description,
			unit_of_measure = :unit_of_measure,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id
	`
	res, err := sqlx.NamedExecContext(ctx, r.db, query, sku)
	if err != nil {
		return fmt.Errorf("failed to update sku: %w", err)
	}
	return expectOneRow(res, "sku "+sku.ID.String())
}

func (r *skuRepository) SetStock(ctx context.Context, id uuid.UUID, level int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE skus SET current_stock_level = $2, updated_at = NOW() WHERE id = $1`, id, level)
	if err != nil {
		return fmt.Errorf("failed to set stock level: %w", err)
	}
	return expectOneRow(res, "sku "+id.String())
}

func (r *skuRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var level int
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &level,
			`SELECT current_stock_level FROM skus WHERE id = $1 FOR UPDATE`, id); err != nil {
			return notFound(err, "sku "+id.String())
		}
		if level+delta < 0 {
			return fmt.Errorf("stock %d cannot cover %d units: %w", level, -delta, domain.ErrInsufficientStock)
		}
		level += delta
		_, err := tx.ExecContext(ctx,
			`UPDATE skus SET current_stock_level = $2, updated_at = NOW() WHERE id = $1`, id, level)
		if err != nil {
			return fmt.Errorf("failed to adjust stock level: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return level, nil
}

func (r *skuRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM skus`); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count skus: %w", err)
	}
	return n, nil
}
