package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSKURepository_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewSKURepository()

	for _, sku := range []domain.SKU{
		{ID: uuid.New(), Name: "Apple Juice", IsActive: true},
		{ID: uuid.New(), Name: "Banana Chips", IsActive: true},
		{ID: uuid.New(), Name: "Apple Pie", IsActive: false},
	} {
		sku := sku
		require.NoError(t, repo.Create(ctx, &sku))
	}

	all, err := repo.List(ctx, repository.SKUFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Banana Chips", all[0].Name)

	found, err := repo.List(ctx, repository.SKUFilter{ActiveOnly: true, Search: "APPLE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Apple Juice", found[0].Name)

	wildcard, err := repo.List(ctx, repository.SKUFilter{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, wildcard)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSKURepository_AdjustStock(t *testing.T) {
	ctx := context.Background()
	repo := NewSKURepository()
	sku := domain.SKU{ID: uuid.New(), Name: "Widget", CurrentStockLevel: 10, IsActive: true}
	require.NoError(t, repo.Create(ctx, &sku))

	level, err := repo.AdjustStock(ctx, sku.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, level)

	_, err = repo.AdjustStock(ctx, sku.ID, -7)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	_, err = repo.AdjustStock(ctx, uuid.New(), 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSKURepository_UpdateKeepsStock(t *testing.T) {
	ctx := context.Background()
	repo := NewSKURepository()
	sku := domain.SKU{ID: uuid.New(), Name: "Widget", CurrentStockLevel: 10, IsActive: true}
	require.NoError(t, repo.Create(ctx, &sku))

	changed := sku
	changed.Name = "Widget XL"
	changed.CurrentStockLevel = 999
	require.NoError(t, repo.Update(ctx, &changed))

	got, err := repo.Get(ctx, sku.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", got.Name)
	assert.Equal(t, 10, got.CurrentStockLevel)
}

func TestPurchaseOrderRepository_Overdue(t *testing.T) {
	ctx := context.Background()
	repo := NewPurchaseOrderRepository()
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	late := domain.PurchaseOrder{ID: uuid.New(), Status: domain.OrderPending, ExpectedArrivalDate: now.AddDate(0, 0, -3)}
	later := domain.PurchaseOrder{ID: uuid.New(), Status: domain.OrderPending, ExpectedArrivalDate: now.AddDate(0, 0, -1)}
	future := domain.PurchaseOrder{ID: uuid.New(), Status: domain.OrderPending, ExpectedArrivalDate: now.AddDate(0, 0, 2)}
	done := domain.PurchaseOrder{ID: uuid.New(), Status: domain.OrderReceived, ExpectedArrivalDate: now.AddDate(0, 0, -9)}
	for _, o := range []domain.PurchaseOrder{later, future, done, late} {
		o := o
		require.NoError(t, repo.Create(ctx, &o))
	}

	overdue, err := repo.ListOverdue(ctx, now)
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, late.ID, overdue[0].ID)
	assert.Equal(t, later.ID, overdue[1].ID)

	marked, err := repo.MarkReceived(ctx, late.ID, now)
	require.NoError(t, err)
	assert.True(t, marked)
	pending, err := repo.ListByStatus(ctx, domain.OrderPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	marked, err = repo.MarkReceived(ctx, late.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, marked)
	got, err := repo.Get(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, now, *got.ReceivedAt)

	_, err = repo.MarkReceived(ctx, uuid.New(), now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAIHistoryRepository_Latest(t *testing.T) {
	ctx := context.Background()
	repo := NewAIHistoryRepository()
	sku := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Latest(ctx, domain.InsightRecommendation)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	for i, kind := range []domain.InsightType{domain.InsightRecommendation, domain.InsightForecast, domain.InsightRecommendation} {
		e := domain.AIHistory{ID: uuid.New(), SKUID: sku, InsightType: kind, Output: fmt.Sprintf("%s-%d", kind, i), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, &e))
	}

	latest, err := repo.Latest(ctx, domain.InsightRecommendation)
	require.NoError(t, err)
	assert.Equal(t, "Recommendation-2", latest.Output)

	history, err := repo.ListBySKU(ctx, sku, "", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Recommendation-2", history[0].Output)
	assert.Equal(t, "Forecast-1", history[1].Output)

	recs, err := repo.ListBySKU(ctx, sku, domain.InsightRecommendation, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Recommendation-0", recs[1].Output)
}
