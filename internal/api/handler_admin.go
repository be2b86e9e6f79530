package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSummary handles GET /summary, the dashboard's combined read-model.
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.aggregator.Summary(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetHistory handles GET /history?limit=N, newest entry first.
func (h *Handler) GetHistory(c *gin.Context) {
	limit := h.history.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	if limit > h.history.MaxLimit {
		limit = h.history.MaxLimit
	}

	records, err := h.store.RecentMovements(c.Request.Context(), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetCashouts handles GET /cashouts, the shift-closure audit trail.
func (h *Handler) GetCashouts(c *gin.Context) {
	reports, err := h.store.ListCashouts(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetAlerts handles GET /alerts, the most recent security alerts.
func (h *Handler) GetAlerts(c *gin.Context) {
	alerts, err := h.store.RecentAlerts(c.Request.Context(), 50)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}
