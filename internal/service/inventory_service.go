package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/cache"
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	maxSKUNameLength = 255
	maxUnitLength    = 50
)

type InventoryService struct {
	skus  repository.SKURepository
	cache cache.DashboardCache
}

func NewInventoryService(skus repository.SKURepository, cacheImpl cache.DashboardCache) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &InventoryService{skus: skus, cache: cacheImpl}
}

type CreateSKUInput struct {
	Name          string
	Description   string
	UnitOfMeasure string
	InitialStock  int
}

func (s *InventoryService) CreateSKU(ctx context.Context, in CreateSKUInput) (*domain.SKU, error) {
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.UnitOfMeasure)
	if err := validateSKUFields(name, unit); err != nil {
		return nil, err
	}
	if in.InitialStock < 0 {
		return nil, fmt.Errorf("initial stock cannot be negative: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	sku := &domain.SKU{
		ID:                uuid.New(),
		Name:              name,
		Description:       in.Description,
		UnitOfMeasure:     unit,
		CurrentStockLevel: in.InitialStock,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.skus.Create(ctx, sku); err != nil {
		return nil, err
	}

	log.Info().Str("sku_id", sku.ID.String()).Str("name", sku.Name).Msg("sku created")
	invalidateDashboard(ctx, s.cache)
	return sku, nil
}

// ListSKUs returns active SKUs whose name or id contains search.
func (s *InventoryService) ListSKUs(ctx context.Context, search string) ([]*domain.SKU, error) {
	return s.skus.List(ctx, repository.SKUFilter{ActiveOnly: true, Search: strings.TrimSpace(search)})
}

func (s *InventoryService) GetSKU(ctx context.Context, id uuid.UUID) (*domain.SKU, error) {
	return s.skus.Get(ctx, id)
}

// UpdateSKUInput holds optional field changes; nil means unchanged.
type UpdateSKUInput struct {
	Name          *string
	Description   *string
	UnitOfMeasure *string
	IsActive      *bool
}

func (s *InventoryService) UpdateSKU(ctx context.Context, id uuid.UUID, in UpdateSKUInput) (*domain.SKU, error) {
	sku, err := s.skus.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		sku.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		sku.Description = *in.Description
	}
	if in.UnitOfMeasure != nil {
		sku.UnitOfMeasure = strings.TrimSpace(*in.UnitOfMeasure)
	}
	if in.IsActive != nil {
		sku.IsActive = *in.IsActive
	}
	if err := validateSKUFields(sku.Name, sku.UnitOfMeasure); err != nil {
		return nil, err
	}

	if err := s.skus.Update(ctx, sku); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache)
	return sku, nil
}

func (s *InventoryService) SetStockLevel(ctx context.Context, id uuid.UUID, level int) error {
	if level < 0 {
		return fmt.Errorf("stock level cannot be negative: %w", domain.ErrInvalidInput)
	}
	if err := s.skus.SetStock(ctx, id, level); err != nil {
		return err
	}

	log.Info().Str("sku_id", id.String()).Int("stock", level).Msg("stock level set")
	invalidateDashboard(ctx, s.cache)
	return nil
}

// ArchiveSKU hides a SKU from listings and portfolio metrics.
func (s *InventoryService) ArchiveSKU(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateSKU(ctx, id, UpdateSKUInput{IsActive: &inactive})
	return err
}

func validateSKUFields(name, unit string) error {
	if name == "" || unit == "" {
		return fmt.Errorf("sku_name and unit_of_measure are required: %w", domain.ErrInvalidInput)
	}
	if len(name) > maxSKUNameLength {
		return fmt.Errorf("sku_name exceeds %d characters: %w", maxSKUNameLength, domain.ErrInvalidInput)
	}
	if len(unit) > maxUnitLength {
		return fmt.Errorf("unit_of_measure exceeds %d characters: %w", maxUnitLength, domain.ErrInvalidInput)
	}
	return nil
}

func invalidateDashboard(ctx context.Context, c cache.DashboardCache) {
	if err := c.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidate failed")
	}
}
