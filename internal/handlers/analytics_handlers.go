package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/services"
)

// AnalyticsHandler exposes the on-demand reporting views.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	reorder   *services.ReorderService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, reorder *services.ReorderService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, reorder: reorder}
}

// parsePeriod reads from/to query parameters, defaulting to the trailing 30 days.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be RFC3339")
			return from, to, false
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be RFC3339")
			return from, to, false
		}
		to = parsed
	}
	if to.Before(from) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must not precede from")
		return from, to, false
	}
	return from, to, true
}

// Dashboard returns the operational overview
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	snapshot, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DashboardResponse{Success: true, Data: snapshot})
}

// Valuation returns the average-cost valuation report
func (h *AnalyticsHandler) Valuation(c *gin.Context) {
	report, err := h.analytics.Valuation(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ValuationResponse{Success: true, Data: report})
}

// Turnover returns consumption against inventory value for a period
func (h *AnalyticsHandler) Turnover(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.analytics.Turnover(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TurnoverResponse{Success: true, Data: report})
}

// FullReport returns the complete analytics bundle for a period
func (h *AnalyticsHandler) FullReport(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.analytics.FullReport(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FullReportResponse{Success: true, Data: report})
}

// ReorderSuggestions returns purchase suggestions, most urgent first
func (h *AnalyticsHandler) ReorderSuggestions(c *gin.Context) {
	suggestions, err := h.reorder.Suggestions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ReorderSuggestionsResponse{Success: true, Data: suggestions})
}
