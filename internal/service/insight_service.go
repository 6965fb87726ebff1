package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/cache"
	"github.com/andresuchdata/stockwise/internal/config"
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/llm"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const DefaultForecastPeriod = "next 4 weeks"

// InsightSettings holds the reorder defaults applied when a request omits them.
type InsightSettings struct {
	MinimumWeeklyDemand decimal.Decimal
	DefaultLeadTimeDays int
	DefaultSafetyStock  int
}

func DefaultInsightSettings() InsightSettings {
	return InsightSettings{
		MinimumWeeklyDemand: decimal.NewFromInt(analytics.DefaultMinimumWeeklyDemand),
		DefaultLeadTimeDays: 7,
		DefaultSafetyStock:  50,
	}
}

func InsightSettingsFromConfig(cfg config.InventoryConfig) InsightSettings {
	s := DefaultInsightSettings()
	if cfg.MinimumWeeklyDemand.IsPositive() {
		s.MinimumWeeklyDemand = cfg.MinimumWeeklyDemand
	}
	if cfg.DefaultLeadTimeDays > 0 {
		s.DefaultLeadTimeDays = cfg.DefaultLeadTimeDays
	}
	if cfg.DefaultSafetyStock >= 0 {
		s.DefaultSafetyStock = cfg.DefaultSafetyStock
	}
	return s
}

type InsightService struct {
	skus     repository.SKURepository
	sales    repository.SaleRepository
	history  repository.AIHistoryRepository
	llm      llm.Client
	cache    cache.DashboardCache
	settings InsightSettings
}

func NewInsightService(
	skus repository.SKURepository,
	sales repository.SaleRepository,
	history repository.AIHistoryRepository,
	client llm.Client,
	cacheImpl cache.DashboardCache,
	settings InsightSettings,
) *InsightService {
	if client == nil {
		client = llm.Unavailable()
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &InsightService{
		skus:     skus,
		sales:    sales,
		history:  history,
		llm:      client,
		cache:    cacheImpl,
		settings: settings,
	}
}

type ForecastInput struct {
	Period          string
	ExternalFactors string
}

type ForecastResult struct {
	SKUID           uuid.UUID              `json:"sku_id"`
	SKUName         string                 `json:"sku_name"`
	ForecastPeriod  string                 `json:"forecast_period"`
	ExternalFactors string                 `json:"external_factors"`
	Trend           analytics.TrendSummary `json:"trend"`
	Suggestion      string                 `json:"ai_suggestion"`
}

func (s *InsightService) Forecast(ctx context.Context, skuID uuid.UUID, in ForecastInput) (*ForecastResult, error) {
	period := strings.TrimSpace(in.Period)
	if period == "" {
		period = DefaultForecastPeriod
	}

	sku, trend, err := s.weeklyTrend(ctx, skuID)
	if err != nil {
		return nil, err
	}

	prompt, err := forecastPrompt(sku, period, in.ExternalFactors, trend)
	if err != nil {
		return nil, err
	}
	output, err := s.generate(ctx, forecastSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	s.save(ctx, skuID, domain.InsightForecast, output, domain.Params{
		"forecast_period":     period,
		"external_factors":    in.ExternalFactors,
		"average_sales_units": trend.AverageSalesPerPeriod.InexactFloat64(),
	})

	return &ForecastResult{
		SKUID:           skuID,
		SKUName:         sku.Name,
		ForecastPeriod:  period,
		ExternalFactors: in.ExternalFactors,
		Trend:           trend,
		Suggestion:      output,
	}, nil
}

// RecommendationInput leaves fields nil to use the configured defaults.
type RecommendationInput struct {
	LeadTimeDays *int
	SafetyStock  *int
}

type RecommendationResult struct {
	SKUID             uuid.UUID                `json:"sku_id"`
	SKUName           string                   `json:"sku_name"`
	CurrentStockLevel int                      `json:"current_stock_level"`
	LeadTimeDays      int                      `json:"lead_time_days"`
	SafetyStockUnits  int                      `json:"safety_stock_units"`
	Baseline          analytics.BaselineDemand `json:"baseline_demand"`
	Plan              analytics.ReorderPlan    `json:"reorder_plan"`
	Position          analytics.StockPosition  `json:"stock_position"`
	Recommendation    string                   `json:"ai_recommendation"`
}

// Recommend computes the reorder plan from weekly sales and asks the model to
// explain it. Invalid reorder inputs fail before any model call.
func (s *InsightService) Recommend(ctx context.Context, skuID uuid.UUID, in RecommendationInput) (*RecommendationResult, error) {
	lead := s.settings.DefaultLeadTimeDays
	if in.LeadTimeDays != nil {
		lead = *in.LeadTimeDays
	}
	safety := s.settings.DefaultSafetyStock
	if in.SafetyStock != nil {
		safety = *in.SafetyStock
	}
	if lead <= 0 || safety < 0 {
		return nil, fmt.Errorf("lead time and safety stock must be valid non-negative integers: %w", domain.ErrInvalidInput)
	}

	sku, trend, err := s.weeklyTrend(ctx, skuID)
	if err != nil {
		return nil, err
	}

	baseline := analytics.EstimateBaseline(trend.AverageSalesPerPeriod, s.settings.MinimumWeeklyDemand)
	plan, err := analytics.ComputeReorder(baseline.Value, lead, safety)
	if err != nil {
		return nil, err
	}
	position := analytics.Assess(plan, sku.CurrentStockLevel)

	prompt, err := recommendationPrompt(sku, baseline, plan, position)
	if err != nil {
		return nil, err
	}
	output, err := s.generate(ctx, recommendationSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	s.save(ctx, skuID, domain.InsightRecommendation, output, domain.Params{
		"lead_time_days":            lead,
		"safety_stock_units":        safety,
		"current_stock":             sku.CurrentStockLevel,
		"average_weekly_sales_used": baseline.Value.InexactFloat64(),
		"baseline_substituted":      baseline.Substituted,
		"reorder_point":             plan.ReorderPoint.InexactFloat64(),
		"reorder_quantity":          plan.ReorderQuantity.InexactFloat64(),
	})
	// The dashboard shows the latest recommendation.
	invalidateDashboard(ctx, s.cache)

	return &RecommendationResult{
		SKUID:             skuID,
		SKUName:           sku.Name,
		CurrentStockLevel: sku.CurrentStockLevel,
		LeadTimeDays:      lead,
		SafetyStockUnits:  safety,
		Baseline:          baseline,
		Plan:              plan,
		Position:          position,
		Recommendation:    output,
	}, nil
}

type ScenarioResult struct {
	SKUID    uuid.UUID `json:"sku_id"`
	Scenario string    `json:"scenario"`
	Analysis string    `json:"ai_analysis"`
}

func (s *InsightService) Scenario(ctx context.Context, skuID uuid.UUID, description string) (*ScenarioResult, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("scenario_description is required: %w", domain.ErrInvalidInput)
	}

	sku, trend, err := s.weeklyTrend(ctx, skuID)
	if err != nil {
		return nil, err
	}

	prompt, err := scenarioPrompt(sku, description, trend)
	if err != nil {
		return nil, err
	}
	output, err := s.generate(ctx, scenarioSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	s.save(ctx, skuID, domain.InsightScenario, output, domain.Params{
		"scenario":             description,
		"current_stock":        sku.CurrentStockLevel,
		"average_weekly_sales": trend.AverageSalesPerPeriod.InexactFloat64(),
	})

	return &ScenarioResult{SKUID: skuID, Scenario: description, Analysis: output}, nil
}

// History lists saved insights for a SKU, newest first. An empty kind lists
// every type.
func (s *InsightService) History(ctx context.Context, skuID uuid.UUID, kind domain.InsightType, limit int) ([]*domain.AIHistory, error) {
	if _, err := s.skus.Get(ctx, skuID); err != nil {
		return nil, err
	}
	return s.history.ListBySKU(ctx, skuID, kind, limit)
}

func (s *InsightService) weeklyTrend(ctx context.Context, skuID uuid.UUID) (*domain.SKU, analytics.TrendSummary, error) {
	sku, events, err := loadSalesHistory(ctx, s.skus, s.sales, skuID)
	if err != nil {
		return nil, analytics.TrendSummary{}, err
	}
	return sku, analytics.Aggregate(events, analytics.PeriodWeek), nil
}

func (s *InsightService) generate(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	out, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		return "", err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("insight generated")
	return strings.TrimSpace(out), nil
}

// save records the insight. A failed save is logged; the caller still gets the text.
func (s *InsightService) save(ctx context.Context, skuID uuid.UUID, kind domain.InsightType, output string, params domain.Params) {
	entry := &domain.AIHistory{
		ID:          uuid.New(),
		SKUID:       skuID,
		InsightType: kind,
		Output:      output,
		InputParams: params,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.history.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("sku_id", skuID.String()).Str("insight_type", string(kind)).Msg("failed to save ai history")
	}
}
