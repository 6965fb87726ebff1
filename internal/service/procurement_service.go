package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/cache"
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProcurementService struct {
	skus      repository.SKURepository
	suppliers repository.SupplierRepository
	orders    repository.PurchaseOrderRepository
	cache     cache.DashboardCache
	now       func() time.Time
}

func NewProcurementService(
	skus repository.SKURepository,
	suppliers repository.SupplierRepository,
	orders repository.PurchaseOrderRepository,
	cacheImpl cache.DashboardCache,
) *ProcurementService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &ProcurementService{
		skus:      skus,
		suppliers: suppliers,
		orders:    orders,
		cache:     cacheImpl,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreateSupplierInput struct {
	Name        string
	ContactInfo string
	Notes       string
}

func (s *ProcurementService) CreateSupplier(ctx context.Context, in CreateSupplierInput) (*domain.Supplier, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("supplier_name is required: %w", domain.ErrInvalidInput)
	}
	if len(name) > maxSKUNameLength || len(in.ContactInfo) > 500 {
		return nil, fmt.Errorf("supplier fields too long: %w", domain.ErrInvalidInput)
	}

	supplier := &domain.Supplier{
		ID:          uuid.New(),
		Name:        name,
		ContactInfo: in.ContactInfo,
		Notes:       in.Notes,
		CreatedAt:   s.now(),
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *ProcurementService) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

type CreateOrderInput struct {
	SKUID      uuid.UUID
	SupplierID uuid.UUID
	Quantity   int
	// ExpectedArrival must be YYYY-MM-DD.
	ExpectedArrival string
}

func (s *ProcurementService) CreatePurchaseOrder(ctx context.Context, in CreateOrderInput) (*domain.PurchaseOrder, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("order_quantity must be at least 1: %w", domain.ErrInvalidInput)
	}
	arrival, err := analytics.ParseISODate(in.ExpectedArrival)
	if err != nil {
		return nil, fmt.Errorf("expected_arrival_date must use YYYY-MM-DD: %w", domain.ErrInvalidInput)
	}

	if _, err := s.skus.Get(ctx, in.SKUID); err != nil {
		return nil, err
	}
	if _, err := s.suppliers.Get(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	order := &domain.PurchaseOrder{
		ID:                  uuid.New(),
		SKUID:               in.SKUID,
		SupplierID:          in.SupplierID,
		OrderQuantity:       in.Quantity,
		OrderDate:           s.now(),
		ExpectedArrivalDate: arrival,
		Status:              domain.OrderPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("sku_id", order.SKUID.String()).
		Int("quantity", order.OrderQuantity).
		Msg("purchase order recorded")
	return order, nil
}

func (s *ProcurementService) ListPendingOrders(ctx context.Context) ([]*domain.PurchaseOrder, error) {
	return s.orders.ListByStatus(ctx, domain.OrderPending)
}

// ListOrders returns orders in the given status. Overdue selects pending orders
// past their expected arrival and reports them as Overdue.
func (s *ProcurementService) ListOrders(ctx context.Context, status domain.OrderStatus) ([]*domain.PurchaseOrder, error) {
	if status != domain.OrderOverdue {
		return s.orders.ListByStatus(ctx, status)
	}

	now := s.now()
	orders, err := s.orders.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Status = o.StatusAt(now)
	}
	return orders, nil
}

type ReceiveResult struct {
	Order           *domain.PurchaseOrder
	SKUName         string
	NewStockLevel   int
	AlreadyReceived bool
}

// ReceivePurchaseOrder adds the ordered quantity to stock and marks the order
// received. Receiving twice is a no-op.
func (s *ProcurementService) ReceivePurchaseOrder(ctx context.Context, id uuid.UUID) (*ReceiveResult, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderReceived {
		return &ReceiveResult{Order: order, AlreadyReceived: true}, nil
	}

	sku, err := s.skus.Get(ctx, order.SKUID)
	if err != nil {
		return nil, err
	}
	newLevel, err := s.skus.AdjustStock(ctx, order.SKUID, order.OrderQuantity)
	if err != nil {
		return nil, err
	}

	at := s.now()
	marked, err := s.orders.MarkReceived(ctx, id, at)
	if err != nil || !marked {
		s.restoreStock(ctx, order)
		if err != nil {
			return nil, err
		}
		// Received concurrently; the other receipt owns the increment.
		current, getErr := s.orders.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return &ReceiveResult{Order: current, AlreadyReceived: true}, nil
	}
	order.Status = domain.OrderReceived
	order.ReceivedAt = &at

	invalidateDashboard(ctx, s.cache)
	return &ReceiveResult{Order: order, SKUName: sku.Name, NewStockLevel: newLevel}, nil
}

func (s *ProcurementService) restoreStock(ctx context.Context, order *domain.PurchaseOrder) {
	if _, err := s.skus.AdjustStock(ctx, order.SKUID, -order.OrderQuantity); err != nil {
		log.Error().Err(err).
			Str("order_id", order.ID.String()).
			Str("sku_id", order.SKUID.String()).
			Msg("failed to restore stock after receive error")
	}
}

// OverdueAlerts lists pending orders whose expected arrival has passed.
func (s *ProcurementService) OverdueAlerts(ctx context.Context) ([]domain.OverdueAlert, error) {
	now := s.now()
	orders, err := s.orders.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.OverdueAlert, 0, len(orders))
	for _, o := range orders {
		alerts = append(alerts, domain.OverdueAlert{
			OrderID:         o.ID,
			SKUID:           o.SKUID,
			ExpectedArrival: analytics.FormatDate(o.ExpectedArrivalDate),
			DaysOverdue:     o.DaysOverdue(now),
		})
	}
	return alerts, nil
}
