package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/services"
)

// AnalyticsHandler serves partner analytics endpoints.
type AnalyticsHandler struct {
	partnerService   *services.PartnerService
	analyticsService *services.AnalyticsService
	cacheService     *services.AnalyticsCacheService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(
	partnerService *services.PartnerService,
	analyticsService *services.AnalyticsService,
	cacheService *services.AnalyticsCacheService,
	logger *zap.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		partnerService:   partnerService,
		analyticsService: analyticsService,
		cacheService:     cacheService,
		logger:           logger,
	}
}

// GetAnalytics returns combined analytics for the authenticated partner
// @Summary Get partner analytics
// @Tags Analytics
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param refresh query bool false "Force refresh (bypass cache)"
// @Success 200 {object} services.RangeAnalytics
// @Router /partner/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
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

	startStr := dateRange.Start.Format("2006-01-02")
	endStr := dateRange.End.Format("2006-01-02")

	// Try the cache first (unless force refresh)
	if h.cacheService != nil && !forceRefresh {
		cached, _ := h.cacheService.Get(c.Request.Context(), partnerID.String(), startStr, endStr)
		if cached != nil {
			h.logger.Debug("serving analytics from cache", zap.String("partner_id", partnerID.String()))
			c.JSON(http.StatusOK, gin.H{
				"date_range": gin.H{"start": startStr, "end": endStr},
				"analytics": gin.H{
					"stats":           cached.Stats,
					"series":          cached.Series,
					"top_links":       cached.TopLinks,
					"traffic_sources": cached.TrafficSources,
				},
				"from_cache": true,
				"cached_at":  cached.CachedAt,
			})
			return
		}
	}

	partner, err := h.partnerService.Get(c.Request.Context(), partnerID)
	if err != nil {
		h.logger.Error("failed to get partner", zap.Error(err), zap.String("partner_id", partnerID.String()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	result, err := h.analyticsService.Range(c.Request.Context(), partner, dateRange, forceRefresh)
	if err != nil {
		h.logger.Error("failed to assemble analytics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	if h.cacheService != nil {
		cacheData := &services.CachedAnalytics{
			Stats:          result.Stats,
			Series:         result.Series,
			TopLinks:       result.TopLinks,
			TrafficSources: result.TrafficSources,
			CachedAt:       time.Now(),
		}
		if err := h.cacheService.Set(c.Request.Context(), partnerID.String(), startStr, endStr, cacheData); err != nil {
			h.logger.Warn("failed to cache analytics", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"date_range": gin.H{"start": startStr, "end": endStr},
		"analytics":  result,
		"from_cache": false,
	})
}

// rangeAnalytics loads the full analytics for the authenticated partner,
// from cache when available. Shared by the single-facet endpoints below.
func (h *AnalyticsHandler) rangeAnalytics(c *gin.Context) (*services.RangeAnalytics, bool) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	dateRange, errMsg := parseDateRange(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return nil, false
	}

	forceRefresh := c.Query("refresh") == "true"
	startStr := dateRange.Start.Format("2006-01-02")
	endStr := dateRange.End.Format("2006-01-02")

	if h.cacheService != nil && !forceRefresh {
		cached, _ := h.cacheService.Get(c.Request.Context(), partnerID.String(), startStr, endStr)
		if cached != nil {
			return &services.RangeAnalytics{
				Start:          startStr,
				End:            endStr,
				Stats:          cached.Stats,
				Series:         cached.Series,
				TopLinks:       cached.TopLinks,
				TrafficSources: cached.TrafficSources,
			}, true
		}
	}

	partner, err := h.partnerService.Get(c.Request.Context(), partnerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return nil, false
	}

	result, err := h.analyticsService.Range(c.Request.Context(), partner, dateRange, forceRefresh)
	if err != nil {
		h.logger.Error("failed to assemble analytics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return nil, false
	}
	return result, true
}

// GetDaily returns only the dense daily series for charting.
// @Summary Get the daily clicks/conversions series
// @Tags Analytics
// @Success 200 {array} analytics.DailyPoint
// @Router /partner/analytics/daily [get]
func (h *AnalyticsHandler) GetDaily(c *gin.Context) {
	result, ok := h.rangeAnalytics(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": result.Series})
}

// GetTopLinks returns the partner's best-performing tracked links.
// @Summary Get top links
// @Tags Analytics
// @Success 200 {array} providers.TopLink
// @Router /partner/analytics/top-links [get]
func (h *AnalyticsHandler) GetTopLinks(c *gin.Context) {
	result, ok := h.rangeAnalytics(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_links": result.TopLinks})
}

// GetTrafficSources returns the traffic source breakdown.
// @Summary Get traffic sources
// @Tags Analytics
// @Success 200 {array} providers.TrafficSource
// @Router /partner/analytics/traffic [get]
func (h *AnalyticsHandler) GetTrafficSources(c *gin.Context) {
	result, ok := h.rangeAnalytics(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"traffic_sources": result.TrafficSources})
}
