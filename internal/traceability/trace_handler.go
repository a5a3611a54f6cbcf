package traceability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ReportExporter interface {
	AppendReport(row []interface{}) error
}

type TraceHandler struct {
	Service  *TraceabilityService
	Exporter ReportExporter
}

func NewTraceHandler(s *TraceabilityService, exporter ReportExporter) *TraceHandler {
	return &TraceHandler{
		Service:  s,
		Exporter: exporter,
	}
}

func (h *TraceHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/trace/products/:code", h.TraceProduct)
	router.GET("/trace/lots/:lotCode", h.TraceLot)
	router.GET("/trace/report", h.PeriodReport)
	router.POST("/trace/report/export", h.ExportReport)
}

func (h *TraceHandler) TraceProduct(c *gin.Context) {
	trace, err := h.Service.TraceProduct(c.Param("code"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to trace product"})
		return
	}

	c.JSON(http.StatusOK, trace)
}

func (h *TraceHandler) TraceLot(c *gin.Context) {
	trace, err := h.Service.TraceLot(c.Param("lotCode"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to trace lot"})
		return
	}
	if trace == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Lot not found"})
		return
	}

	c.JSON(http.StatusOK, trace)
}

func (h *TraceHandler) PeriodReport(c *gin.Context) {
	start, end, err := parsePeriod(c.Query("start"), c.Query("end"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid start or end date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.Service.PeriodReport(start, end)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *TraceHandler) ExportReport(c *gin.Context) {
	if h.Exporter == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Report export is not configured"})
		return
	}

	start, end, err := parsePeriod(c.Query("start"), c.Query("end"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid start or end date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.Service.PeriodReport(start, end)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	row := []interface{}{
		report.Start.Format("2006-01-02"),
		report.End.Format("2006-01-02"),
		report.TotalIntakes,
		report.TotalValidations,
		report.TotalDispatches,
		report.UniqueProducts,
	}

	if err := h.Exporter.AppendReport(row); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// parsePeriod interprets start and end as calendar days; the end date is
// extended to the last instant of that day so the range is inclusive.
func parsePeriod(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}
