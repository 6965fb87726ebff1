package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/google/uuid"
)

// SKUFilter narrows SKU listings. Search matches name or id, case-insensitively.
type SKUFilter struct {
	ActiveOnly bool
	Search     string
}

type SKURepository interface {
	Create(ctx context.Context, sku *domain.SKU) error
	// Get returns domain.ErrNotFound for unknown ids.
	Get(ctx context.Context, id uuid.UUID) (*domain.SKU, error)
	// List orders by name, descending.
	List(ctx context.Context, filter SKUFilter) ([]*domain.SKU, error)
	Update(ctx context.Context, sku *domain.SKU) error
	SetStock(ctx context.Context, id uuid.UUID, level int) error
	// AdjustStock adds delta to the stock level and returns the new level.
	// A change that would go below zero fails with domain.ErrInsufficientStock.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
	Count(ctx context.Context) (int, error)
}

type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	// ListBySKU returns the SKU's sales ordered by sale date.
	ListBySKU(ctx context.Context, skuID uuid.UUID) ([]domain.Sale, error)
	ListAll(ctx context.Context) ([]domain.Sale, error)
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	// List orders by supplier name.
	List(ctx context.Context) ([]*domain.Supplier, error)
}

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *domain.PurchaseOrder) error
	Get(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	// ListByStatus orders by expected arrival date.
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PurchaseOrder, error)
	// ListOverdue returns pending orders expected strictly before the given instant.
	ListOverdue(ctx context.Context, before time.Time) ([]*domain.PurchaseOrder, error)
	// MarkReceived moves a pending order to Received. It reports false when the
	// order was not pending, leaving it untouched.
	MarkReceived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type AIHistoryRepository interface {
	Create(ctx context.Context, entry *domain.AIHistory) error
	// Latest returns the newest entry of the given type or domain.ErrNotFound.
	Latest(ctx context.Context, kind domain.InsightType) (*domain.AIHistory, error)
	// ListBySKU returns newest first. An empty kind matches every type and
	// limit <= 0 means no limit.
	ListBySKU(ctx context.Context, skuID uuid.UUID, kind domain.InsightType, limit int) ([]*domain.AIHistory, error)
}

// Store bundles the repositories a service layer needs.
type Store struct {
	SKUs      SKURepository
	Sales     SaleRepository
	Suppliers SupplierRepository
	Orders    PurchaseOrderRepository
	Insights  AIHistoryRepository
	Health    HealthChecker
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
