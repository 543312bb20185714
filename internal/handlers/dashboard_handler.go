package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/resource"
	"github.com/affablelink/service-partner/internal/services"
)

// DashboardHandler serves the composed partner dashboard.
type DashboardHandler struct {
	dashboard *services.DashboardService
	logger    *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard *services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// slotJSON renders one dashboard slot as {data, error}. A slot that
// never ran (its gate stayed closed) renders as both nil.
func slotJSON[T any](s resource.State[T]) gin.H {
	out := gin.H{"data": nil, "error": nil}
	if s.Data != nil {
		out["data"] = s.Data
	}
	if s.Err != nil {
		out["error"] = s.Err
	}
	return out
}

// GetDashboard returns all dashboard slots for the authenticated
// partner in a single response.
// @Summary Get the partner dashboard
// @Tags Dashboard
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param refresh query bool false "Force refresh (bypass loaded-range check)"
// @Success 200 {object} map[string]interface{}
// @Router /partner/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dateRange, errMsg := parseDateRange(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}
	forceRefresh := c.Query("refresh") == "true"

	dash := h.dashboard.Compose(c.Request.Context(), partnerID, dateRange, forceRefresh)

	if dash.Profile.Err != nil {
		h.logger.Warn("dashboard profile failed",
			zap.String("partner_id", partnerID.String()),
			zap.String("code", string(dash.Profile.Err.Code)),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":     slotJSON(dash.Profile),
		"conversions": slotJSON(dash.Conversions),
		"links":       slotJSON(dash.Links),
		"analytics":   slotJSON(dash.Analytics),
		"date_range": gin.H{
			"start": dateRange.Start.Format("2006-01-02"),
			"end":   dateRange.End.Format("2006-01-02"),
		},
	})
}
