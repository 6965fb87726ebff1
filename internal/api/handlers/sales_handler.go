package handlers

import (
	"net/http"
	"strings"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type SalesHandler struct {
	sales *service.SalesService
}

func NewSalesHandler(sales *service.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

type recordSaleRequest struct {
	SKUID        string           `json:"skuid"`
	QuantitySold *int             `json:"quantity_sold"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	SaleDate     string           `json:"sale_date"`
}

// RecordSale stores a sale and decrements stock.
func (h *SalesHandler) RecordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid format for SKU ID, quantity, price, or date")
		return
	}
	if req.SKUID == "" || req.QuantitySold == nil || req.SellingPrice == nil {
		badRequest(c, "Missing required fields: skuid, quantity_sold, selling_price")
		return
	}
	skuID, err := uuid.Parse(strings.TrimSpace(req.SKUID))
	if err != nil {
		badRequest(c, "Invalid SKU ID format")
		return
	}

	res, err := h.sales.RecordSale(c.Request.Context(), service.RecordSaleInput{
		SKUID:        skuID,
		Quantity:     *req.QuantitySold,
		SellingPrice: *req.SellingPrice,
		SaleDate:     req.SaleDate,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Sale recorded and stock adjusted successfully",
		"sale_id":   res.Sale.ID,
		"new_stock": res.NewStock,
		"sale_date": analytics.FormatDate(res.Sale.SaleDate),
	})
}

// GetSalesSummary aggregates a SKU's sales by ?period= within an optional
// start_date/end_date window.
func (h *SalesHandler) GetSalesSummary(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	period, err := analytics.ParsePeriod(c.Query("period"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	dateRange := analytics.DateRange{
		Start: strings.TrimSpace(c.Query("start_date")),
		End:   strings.TrimSpace(c.Query("end_date")),
	}

	summary, err := h.sales.Summary(c.Request.Context(), id, period, dateRange)
	if err != nil {
		errorResponse(c, err)
		return
	}

	log.Debug().
		Str("sku_id", id.String()).
		Str("period", string(period)).
		Int("buckets", len(summary.Data.SalesOverTime)).
		Msg("sales summary computed")
	c.JSON(http.StatusOK, summary)
}
