package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	orderapp "github.com/orderdesk/backend/internal/application/order"
)

// AnalyticsHandler serves the back-office dashboard aggregates
type AnalyticsHandler struct {
	BaseHandler
	analytics *orderapp.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics *orderapp.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard returns order counts, revenue aggregates, recent orders and
// the daily trend window in one payload
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	resp, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DailyTrends returns per-day order and revenue totals. The window
// defaults to the last 7 days.
func (h *AnalyticsHandler) DailyTrends(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			h.BadRequest(c, "days must be an integer between 1 and 90")
			return
		}
		days = parsed
	}

	trends, err := h.analytics.DailyTrends(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trends)
}
