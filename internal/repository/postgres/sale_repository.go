package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type saleRepository struct {
	db *DB
}

func NewSaleRepository(db *DB) repository.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, sku_id, sale_date, quantity_sold, selling_price)
		VALUES (:id, :sku_id, :sale_date, :quantity_sold, :selling_price)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, sale); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (r *saleRepository) ListBySKU(ctx context.Context, skuID uuid.UUID) ([]domain.Sale, error) {
	query := `
		SELECT id, sku_id, sale_date, quantity_sold, selling_price
		FROM sales
		WHERE sku_id = $1
		ORDER BY sale_date
	`
	var sales []domain.Sale
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, skuID); err != nil {
		return nil, fmt.Errorf("failed to list sales for sku: %w", err)
	}
	return sales, nil
}

func (r *saleRepository) ListAll(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := sqlx.SelectContext(ctx, r.db, &sales,
		`SELECT id, sku_id, sale_date, quantity_sold, selling_price FROM sales ORDER BY sale_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
