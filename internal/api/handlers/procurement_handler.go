package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProcurementHandler struct {
	procurement *service.ProcurementService
}

func NewProcurementHandler(procurement *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurement: procurement}
}

type createSupplierRequest struct {
	Name        string `json:"supplier_name"`
	ContactInfo string `json:"contact_info"`
	Notes       string `json:"notes"`
}

func (h *ProcurementHandler) CreateSupplier(c *gin.Context) {
	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, "Missing required field: supplier_name")
		return
	}

	supplier, err := h.procurement.CreateSupplier(c.Request.Context(), service.CreateSupplierInput{
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		Notes:       req.Notes,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Supplier added successfully",
		"supplier_id": supplier.ID,
	})
}

func (h *ProcurementHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.procurement.ListSuppliers(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	if suppliers == nil {
		suppliers = []*domain.Supplier{}
	}
	c.JSON(http.StatusOK, suppliers)
}

type createOrderRequest struct {
	SKUID               string `json:"skuid"`
	SupplierID          string `json:"supplier_id"`
	OrderQuantity       *int   `json:"order_quantity"`
	ExpectedArrivalDate string `json:"expected_arrival_date"`
}

func (h *ProcurementHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid format for IDs, quantity, or arrival date (use YYYY-MM-DD).")
		return
	}
	if req.SKUID == "" || req.SupplierID == "" || req.OrderQuantity == nil || req.ExpectedArrivalDate == "" {
		badRequest(c, "Missing required fields: skuid, supplier_id, order_quantity, expected_arrival_date")
		return
	}
	skuID, err := uuid.Parse(strings.TrimSpace(req.SKUID))
	if err != nil {
		badRequest(c, "Invalid SKU ID format")
		return
	}
	supplierID, err := uuid.Parse(strings.TrimSpace(req.SupplierID))
	if err != nil {
		badRequest(c, "Invalid Supplier ID format")
		return
	}

	order, err := h.procurement.CreatePurchaseOrder(c.Request.Context(), service.CreateOrderInput{
		SKUID:           skuID,
		SupplierID:      supplierID,
		Quantity:        *req.OrderQuantity,
		ExpectedArrival: req.ExpectedArrivalDate,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Purchase Order recorded successfully",
		"order_id": order.ID,
		"status":   order.Status,
	})
}

type orderView struct {
	OrderID         uuid.UUID          `json:"order_id"`
	SKUID           uuid.UUID          `json:"sku_id"`
	SupplierID      uuid.UUID          `json:"supplier_id"`
	OrderQuantity   int                `json:"order_quantity"`
	ExpectedArrival string             `json:"expected_arrival"`
	Status          domain.OrderStatus `json:"status"`
}

// ListPendingOrders returns pending orders, earliest expected arrival first.
func (h *ProcurementHandler) ListPendingOrders(c *gin.Context) {
	orders, err := h.procurement.ListPendingOrders(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, orderViews(orders))
}

// ListOrders filters orders by the status query parameter (default pending).
func (h *ProcurementHandler) ListOrders(c *gin.Context) {
	status, ok := domain.ParseOrderStatus(c.DefaultQuery("status", string(domain.OrderPending)))
	if !ok {
		badRequest(c, "Invalid order status. Use pending, received or overdue.")
		return
	}

	orders, err := h.procurement.ListOrders(c.Request.Context(), status)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, orderViews(orders))
}

func orderViews(orders []*domain.PurchaseOrder) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView{
			OrderID:         o.ID,
			SKUID:           o.SKUID,
			SupplierID:      o.SupplierID,
			OrderQuantity:   o.OrderQuantity,
			ExpectedArrival: analytics.FormatDate(o.ExpectedArrivalDate),
			Status:          o.Status,
		})
	}
	return views
}

func (h *ProcurementHandler) ReceiveOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Purchase Order")
	if !ok {
		return
	}

	res, err := h.procurement.ReceivePurchaseOrder(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if res.AlreadyReceived {
		c.JSON(http.StatusOK, gin.H{"message": "Order already marked as received."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         fmt.Sprintf("Order %s received. Stock for %s updated.", id, res.SKUName),
		"new_stock_level": res.NewStockLevel,
	})
}

func (h *ProcurementHandler) OverdueAlerts(c *gin.Context) {
	alerts, err := h.procurement.OverdueAlerts(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alert_count":    len(alerts),
		"overdue_orders": alerts,
	})
}
