package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (id, supplier_name, contact_info, notes, created_at)
		VALUES (:id, :supplier_name, :contact_info, :notes, :created_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, s); err != nil {
		return fmt.Errorf("failed to insert supplier: %w", err)
	}
	return nil
}

func (r *supplierRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	var s domain.Supplier
	err := sqlx.GetContext(ctx, r.db, &s,
		`SELECT id, supplier_name, contact_info, notes, created_at FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err, "supplier "+id.String())
	}
	return &s, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	var suppliers []*domain.Supplier
	err := sqlx.SelectContext(ctx, r.db, &suppliers,
		`SELECT id, supplier_name, contact_info, notes, created_at FROM suppliers ORDER BY supplier_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}
