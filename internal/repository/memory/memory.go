// Package memory provides in-process repositories used by tests and by the
// server when DB_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
)

// NewStore returns a repository.Store backed by maps.
func NewStore() repository.Store {
	return repository.Store{
		SKUs:      NewSKURepository(),
		Sales:     NewSaleRepository(),
		Suppliers: NewSupplierRepository(),
		Orders:    NewPurchaseOrderRepository(),
		Insights:  NewAIHistoryRepository(),
		Health:    healthy{},
	}
}

type healthy struct{}

func (healthy) Ping(context.Context) error { return nil }

// SKURepository provides in-memory SKU storage
type SKURepository struct {
	mu   sync.RWMutex
	skus map[uuid.UUID]domain.SKU
}

var _ repository.SKURepository = (*SKURepository)(nil)

func NewSKURepository() *SKURepository {
	return &SKURepository{skus: make(map[uuid.UUID]domain.SKU)}
}

func (r *SKURepository) Create(_ context.Context, sku *domain.SKU) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.skus[sku.ID]; exists {
		return fmt.Errorf("sku %s already exists", sku.ID)
	}
	r.skus[sku.ID] = *sku
	return nil
}

func (r *SKURepository) Get(_ context.Context, id uuid.UUID) (*domain.SKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sku, ok := r.skus[id]
	if !ok {
		return nil, fmt.Errorf("sku %s: %w", id, domain.ErrNotFound)
	}
	return &sku, nil
}

func (r *SKURepository) List(_ context.Context, filter repository.SKUFilter) ([]*domain.SKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	out := make([]*domain.SKU, 0, len(r.skus))
	for _, sku := range r.skus {
		if filter.ActiveOnly && !sku.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sku.Name), search) &&
			!strings.Contains(sku.ID.String(), search) {
			continue
		}
		sku := sku
		out = append(out, &sku)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (r *SKURepository) Update(_ context.Context, sku *domain.SKU) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.skus[sku.ID]
	if !ok {
		return fmt.Errorf("sku %s: %w", sku.ID, domain.ErrNotFound)
	}
	sku.UpdatedAt = time.Now().UTC()
	// Stock only moves through SetStock and AdjustStock.
	sku.CurrentStockLevel = existing.CurrentStockLevel
	r.skus[sku.ID] = *sku
	return nil
}

func (r *SKURepository) SetStock(_ context.Context, id uuid.UUID, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sku, ok := r.skus[id]
	if !ok {
		return fmt.Errorf("sku %s: %w", id, domain.ErrNotFound)
	}
	sku.CurrentStockLevel = level
	sku.UpdatedAt = time.Now().UTC()
	r.skus[id] = sku
	return nil
}

func (r *SKURepository) AdjustStock(_ context.Context, id uuid.UUID, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sku, ok := r.skus[id]
	if !ok {
		return 0, fmt.Errorf("sku %s: %w", id, domain.ErrNotFound)
	}
	if sku.CurrentStockLevel+delta < 0 {
		return 0, fmt.Errorf("stock %d cannot cover %d units: %w", sku.CurrentStockLevel, -delta, domain.ErrInsufficientStock)
	}
	sku.CurrentStockLevel += delta
	sku.UpdatedAt = time.Now().UTC()
	r.skus[id] = sku
	return sku.CurrentStockLevel, nil
}

func (r *SKURepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.skus), nil
}

// SaleRepository keeps sales in insertion order.
type SaleRepository struct {
	mu    sync.RWMutex
	sales []domain.Sale
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

func NewSaleRepository() *SaleRepository {
	return &SaleRepository{}
}

func (r *SaleRepository) Create(_ context.Context, sale *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, *sale)
	return nil
}

func (r *SaleRepository) ListBySKU(_ context.Context, skuID uuid.UUID) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Sale
	for _, s := range r.sales {
		if s.SKUID == skuID {
			out = append(out, s)
		}
	}
	sortSales(out)
	return out, nil
}

func (r *SaleRepository) ListAll(context.Context) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]domain.Sale(nil), r.sales...)
	sortSales(out)
	return out, nil
}

func sortSales(sales []domain.Sale) {
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].SaleDate.Before(sales[j].SaleDate) })
}

type SupplierRepository struct {
	mu        sync.RWMutex
	suppliers map[uuid.UUID]domain.Supplier
}

var _ repository.SupplierRepository = (*SupplierRepository)(nil)

func NewSupplierRepository() *SupplierRepository {
	return &SupplierRepository{suppliers: make(map[uuid.UUID]domain.Supplier)}
}

func (r *SupplierRepository) Create(_ context.Context, s *domain.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = *s
	return nil
}

func (r *SupplierRepository) Get(_ context.Context, id uuid.UUID) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *SupplierRepository) List(context.Context) ([]*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type PurchaseOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]domain.PurchaseOrder
}

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)

func NewPurchaseOrderRepository() *PurchaseOrderRepository {
	return &PurchaseOrderRepository{orders: make(map[uuid.UUID]domain.PurchaseOrder)}
}

func (r *PurchaseOrderRepository) Create(_ context.Context, o *domain.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r *PurchaseOrderRepository) Get(_ context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	return &o, nil
}

func (r *PurchaseOrderRepository) ListByStatus(_ context.Context, status domain.OrderStatus) ([]*domain.PurchaseOrder, error) {
	return r.filter(func(o domain.PurchaseOrder) bool { return o.Status == status }), nil
}

func (r *PurchaseOrderRepository) ListOverdue(_ context.Context, before time.Time) ([]*domain.PurchaseOrder, error) {
	return r.filter(func(o domain.PurchaseOrder) bool {
		return o.Status == domain.OrderPending && o.ExpectedArrivalDate.Before(before)
	}), nil
}

func (r *PurchaseOrderRepository) filter(keep func(domain.PurchaseOrder) bool) []*domain.PurchaseOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.PurchaseOrder
	for _, o := range r.orders {
		if keep(o) {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpectedArrivalDate.Before(out[j].ExpectedArrivalDate)
	})
	return out
}

func (r *PurchaseOrderRepository) MarkReceived(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return false, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	if o.Status != domain.OrderPending {
		return false, nil
	}
	o.Status = domain.OrderReceived
	o.ReceivedAt = &at
	r.orders[id] = o
	return true, nil
}

type AIHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.AIHistory
}

var _ repository.AIHistoryRepository = (*AIHistoryRepository)(nil)

func NewAIHistoryRepository() *AIHistoryRepository {
	return &AIHistoryRepository{}
}

func (r *AIHistoryRepository) Create(_ context.Context, e *domain.AIHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *AIHistoryRepository) Latest(_ context.Context, kind domain.InsightType) (*domain.AIHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.AIHistory
	for i := range r.entries {
		e := r.entries[i]
		if e.InsightType != kind {
			continue
		}
		if latest == nil || !e.CreatedAt.Before(latest.CreatedAt) {
			latest = &e
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("ai history %s: %w", kind, domain.ErrNotFound)
	}
	return latest, nil
}

func (r *AIHistoryRepository) ListBySKU(_ context.Context, skuID uuid.UUID, kind domain.InsightType, limit int) ([]*domain.AIHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.AIHistory
	for i := range r.entries {
		if r.entries[i].SKUID == skuID && (kind == "" || r.entries[i].InsightType == kind) {
			e := r.entries[i]
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
