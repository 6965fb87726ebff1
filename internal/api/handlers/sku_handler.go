package handlers

import (
	"fmt"
	"net/http"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/gin-gonic/gin"
)

type SKUHandler struct {
	inventory *service.InventoryService
}

func NewSKUHandler(inventory *service.InventoryService) *SKUHandler {
	return &SKUHandler{inventory: inventory}
}

type createSKURequest struct {
	Name          string `json:"sku_name"`
	Description   string `json:"sku_description"`
	UnitOfMeasure string `json:"unit_of_measure"`
	InitialStock  int    `json:"current_stock_level"`
}

// CreateSKU adds a product to the catalogue.
func (h *SKUHandler) CreateSKU(c *gin.Context) {
	var req createSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Name == "" || req.UnitOfMeasure == "" {
		badRequest(c, "Missing required fields: sku_name, unit_of_measure")
		return
	}

	sku, err := h.inventory.CreateSKU(c.Request.Context(), service.CreateSKUInput{
		Name:          req.Name,
		Description:   req.Description,
		UnitOfMeasure: req.UnitOfMeasure,
		InitialStock:  req.InitialStock,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "SKU added successfully",
		"sku_id":  sku.ID,
	})
}

// ListSKUs returns active SKUs, optionally filtered by ?search=.
func (h *SKUHandler) ListSKUs(c *gin.Context) {
	skus, err := h.inventory.ListSKUs(c.Request.Context(), c.Query("search"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	if skus == nil {
		skus = []*domain.SKU{}
	}
	c.JSON(http.StatusOK, skus)
}

func (h *SKUHandler) GetSKU(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	sku, err := h.inventory.GetSKU(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, sku)
}

type updateSKURequest struct {
	Name          *string `json:"sku_name"`
	Description   *string `json:"sku_description"`
	UnitOfMeasure *string `json:"unit_of_measure"`
	IsActive      *bool   `json:"is_active"`
}

func (h *SKUHandler) UpdateSKU(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	var req updateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sku, err := h.inventory.UpdateSKU(c.Request.Context(), id, service.UpdateSKUInput{
		Name:          req.Name,
		Description:   req.Description,
		UnitOfMeasure: req.UnitOfMeasure,
		IsActive:      req.IsActive,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("SKU %s details updated successfully", id),
		"sku":     sku,
	})
}

type stockLevelRequest struct {
	NewStockLevel *int `json:"new_stock_level"`
}

func (h *SKUHandler) UpdateStockLevel(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	var req stockLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid SKU ID or stock level format")
		return
	}
	if req.NewStockLevel == nil {
		badRequest(c, "Missing field: new_stock_level")
		return
	}

	if err := h.inventory.SetStockLevel(c.Request.Context(), id, *req.NewStockLevel); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Stock level for SKU %s updated to %d", id, *req.NewStockLevel),
	})
}

// ArchiveSKU soft-deletes a SKU.
func (h *SKUHandler) ArchiveSKU(c *gin.Context) {
	id, ok := uuidParam(c, "id", "SKU")
	if !ok {
		return
	}
	if err := h.inventory.ArchiveSKU(c.Request.Context(), id); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("SKU %s archived", id)})
}
