package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/api/handlers"
	"github.com/andresuchdata/stockwise/internal/api/middleware"
	"github.com/andresuchdata/stockwise/internal/ingest"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Inventory   *service.InventoryService
	Sales       *service.SalesService
	Procurement *service.ProcurementService
	Insights    *service.InsightService
	Reports     *service.ReportService
	Importer    *ingest.Importer
	Store       repository.Store
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "StockWise AI API is active. Access services via /api/..."})
	})

	apiGroup := router.Group("/api")

	if services == nil {
		return router
	}

	if services.Store.SKUs != nil {
		health := handlers.NewHealthHandler(services.Store.Health, services.Store.SKUs)
		apiGroup.GET("/health", health.Check)
	}

	skuGroup := apiGroup.Group("/skus")

	if services.Inventory != nil {
		skuHandler := handlers.NewSKUHandler(services.Inventory)
		skuGroup.POST("", skuHandler.CreateSKU)
		skuGroup.GET("", skuHandler.ListSKUs)
		skuGroup.GET("/:id", skuHandler.GetSKU)
		skuGroup.PUT("/:id", skuHandler.UpdateSKU)
		skuGroup.PATCH("/:id/stock", skuHandler.UpdateStockLevel)
		skuGroup.DELETE("/:id", skuHandler.ArchiveSKU)
	}

	if services.Sales != nil {
		salesHandler := handlers.NewSalesHandler(services.Sales)
		apiGroup.POST("/sales", salesHandler.RecordSale)
		skuGroup.GET("/:id/sales/summary", salesHandler.GetSalesSummary)
	}

	if services.Importer != nil {
		importHandler := handlers.NewImportHandler(services.Importer)
		apiGroup.POST("/sales/import", importHandler.UploadSales)
	}

	if services.Insights != nil {
		insightHandler := handlers.NewInsightHandler(services.Insights)
		skuGroup.POST("/:id/forecast", insightHandler.Forecast)
		skuGroup.POST("/:id/recommendation", insightHandler.Recommendation)
		skuGroup.POST("/:id/whatif", insightHandler.WhatIf)
		skuGroup.GET("/:id/insights", insightHandler.History)
	}

	if services.Procurement != nil {
		procurementHandler := handlers.NewProcurementHandler(services.Procurement)
		apiGroup.POST("/suppliers", procurementHandler.CreateSupplier)
		apiGroup.GET("/suppliers", procurementHandler.ListSuppliers)

		orderGroup := apiGroup.Group("/orders")
		{
			orderGroup.POST("", procurementHandler.CreateOrder)
			orderGroup.GET("", procurementHandler.ListOrders)
			orderGroup.GET("/pending", procurementHandler.ListPendingOrders)
			orderGroup.GET("/alerts", procurementHandler.OverdueAlerts)
			orderGroup.PATCH("/:id/receive", procurementHandler.ReceiveOrder)
		}
	}

	if services.Reports != nil {
		reportHandler := handlers.NewReportHandler(services.Reports)
		apiGroup.GET("/dashboard/metrics", reportHandler.GetDashboardMetrics)
		apiGroup.GET("/reports/summary", reportHandler.GetSummary)
		apiGroup.POST("/reports/export", reportHandler.Export)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
