package handlers

import (
	"fmt"
	"net/http"

	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) GetDashboardMetrics(c *gin.Context) {
	metrics, err := h.reports.DashboardMetrics(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetSummary returns the summary report as JSON, or as a CSV/XLSX download
// when ?format= asks for one.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	if format == service.ReportText {
		report, err := h.reports.SummaryReport(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	body, err := h.reports.Render(c.Request.Context(), format)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=stockwise_report.%s", format.Extension()))
	c.Data(http.StatusOK, format.ContentType(), body)
}

// Export uploads the rendered report to object storage.
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := service.ParseReportFormat(c.DefaultQuery("format", string(service.ReportCSV)))
	if err != nil {
		errorResponse(c, err)
		return
	}

	key, err := h.reports.Export(c.Request.Context(), format)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Report exported",
		"key":     key,
		"format":  format,
	})
}
