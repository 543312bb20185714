package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/affablelink/service-partner/internal/auth"
	"github.com/affablelink/service-partner/internal/handlers"
	"github.com/affablelink/service-partner/internal/middleware"
)

// RouteConfig holds configuration for routes
type RouteConfig struct {
	PartnerHandler    *handlers.PartnerHandler
	DashboardHandler  *handlers.DashboardHandler
	AnalyticsHandler  *handlers.AnalyticsHandler
	CampaignHandler   *handlers.CampaignHandler
	LinkHandler       *handlers.LinkHandler
	ConversionHandler *handlers.ConversionHandler
	PayoutHandler     *handlers.PayoutHandler
	LeadHandler       *handlers.LeadHandler
	JWTManager        *auth.JWTManager
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouteConfig) {
	// API v1 routes
	v1 := router.Group("/api/v1")

	// Public routes (no auth required)
	v1.POST("/leads", cfg.LeadHandler.CaptureLead)
	v1.POST("/postbacks/conversions", cfg.ConversionHandler.RecordConversion)

	// Partner routes (require authentication and partner role)
	partner := v1.Group("/partner")
	partner.Use(middleware.AuthMiddleware(cfg.JWTManager))
	partner.Use(middleware.RequireRole(auth.RolePartner))
	{
		partner.GET("/profile", cfg.PartnerHandler.GetProfile)
		partner.PUT("/profile", cfg.PartnerHandler.UpdateProfile)

		partner.GET("/dashboard", cfg.DashboardHandler.GetDashboard)

		partner.GET("/analytics", cfg.AnalyticsHandler.GetAnalytics)
		partner.GET("/analytics/daily", cfg.AnalyticsHandler.GetDaily)
		partner.GET("/analytics/top-links", cfg.AnalyticsHandler.GetTopLinks)
		partner.GET("/analytics/traffic", cfg.AnalyticsHandler.GetTrafficSources)

		partner.GET("/campaigns", cfg.CampaignHandler.ListActiveCampaigns)
		partner.GET("/campaigns/:id", cfg.CampaignHandler.GetCampaign)

		partner.GET("/links", cfg.LinkHandler.ListLinks)
		partner.POST("/links", cfg.LinkHandler.CreateLink)
		partner.DELETE("/links/:id", cfg.LinkHandler.DeleteLink)

		partner.GET("/conversions", cfg.ConversionHandler.ListConversions)

		partner.GET("/payouts", cfg.PayoutHandler.ListPayouts)
		partner.POST("/payouts", cfg.PayoutHandler.RequestPayout)
		partner.GET("/payouts/:id", cfg.PayoutHandler.GetPayout)
	}

	// Vendor routes (require authentication and vendor role)
	vendor := v1.Group("/vendor")
	vendor.Use(middleware.AuthMiddleware(cfg.JWTManager))
	vendor.Use(middleware.RequireRole(auth.RoleVendor))
	{
		vendor.GET("/campaigns", cfg.CampaignHandler.ListVendorCampaigns)
		vendor.POST("/campaigns", cfg.CampaignHandler.CreateCampaign)
		vendor.PUT("/campaigns/:id", cfg.CampaignHandler.UpdateCampaign)
	}

	// Admin routes (require authentication and admin role)
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTManager))
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/leads", cfg.LeadHandler.ListLeads)
		admin.PUT("/conversions/:id/status", cfg.ConversionHandler.SetConversionStatus)
	}
}
