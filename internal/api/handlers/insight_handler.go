package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 20

type InsightHandler struct {
	insights *service.InsightService
}

func NewInsightHandler(insights *service.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// bindOptionalJSON decodes the body when present. An empty body leaves req untouched.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return false
	}
	return true
}

type forecastRequest struct {
	ForecastPeriod  string `json:"forecast_period"`
	ExternalFactors string `json:"external_factors"`
}

func (h *InsightHandler) Forecast(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	var req forecastRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.insights.Forecast(c.Request.Context(), id, service.ForecastInput{
		Period:          req.ForecastPeriod,
		ExternalFactors: req.ExternalFactors,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type recommendationRequest struct {
	LeadTime    *int `json:"lead_time"`
	SafetyStock *int `json:"safety_stock"`
}

func (h *InsightHandler) Recommendation(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Lead time and Safety Stock must be valid non-negative integers.")
		return
	}

	res, err := h.insights.Recommend(c.Request.Context(), id, service.RecommendationInput{
		LeadTimeDays: req.LeadTime,
		SafetyStock:  req.SafetyStock,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type scenarioRequest struct {
	Description string `json:"scenario_description"`
}

// WhatIf analyses a hypothetical scenario for the SKU.
func (h *InsightHandler) WhatIf(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	var req scenarioRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if req.Description == "" {
		badRequest(c, "Missing required field: scenario_description.")
		return
	}

	res, err := h.insights.Scenario(c.Request.Context(), id, req.Description)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *InsightHandler) History(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	limit := parsePositiveIntWithDefault(c.Query("limit"), defaultHistoryLimit)

	var kind domain.InsightType
	if raw := c.Query("type"); raw != "" {
		parsed, ok := domain.ParseInsightType(raw)
		if !ok {
			badRequest(c, "Invalid insight type. Use forecast, recommendation or scenario.")
			return
		}
		kind = parsed
	}

	entries, err := h.insights.History(c.Request.Context(), id, kind, limit)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.AIHistory{}
	}
	c.JSON(http.StatusOK, gin.H{"sku_id": id, "insights": entries})
}
