package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/services"
)

// CampaignHandler serves campaign management for vendors and campaign
// discovery for partners.
type CampaignHandler struct {
	campaignService *services.CampaignService
	logger          *zap.Logger
}

// NewCampaignHandler creates a new campaign handler.
func NewCampaignHandler(campaignService *services.CampaignService, logger *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, logger: logger}
}

// CreateCampaign creates a draft campaign for the authenticated vendor.
// @Summary Create campaign
// @Tags Campaigns
// @Param body body services.CreateCampaignInput true "Campaign"
// @Success 201 {object} models.Campaign
// @Router /vendor/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.VendorID = vendorID

	campaign, err := h.campaignService.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"campaign": campaign})
}

// UpdateCampaign updates a campaign the authenticated vendor owns.
// @Summary Update campaign
// @Tags Campaigns
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Router /vendor/campaigns/{id} [put]
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
		return
	}

	existing, err := h.campaignService.Get(c.Request.Context(), campaignID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}
	if existing.VendorID != vendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Campaign belongs to another vendor"})
		return
	}

	var input services.UpdateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.CampaignID = campaignID

	campaign, err := h.campaignService.Update(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// ListVendorCampaigns lists the authenticated vendor's campaigns.
// @Summary List vendor campaigns
// @Tags Campaigns
// @Success 200 {array} models.Campaign
// @Router /vendor/campaigns [get]
func (h *CampaignHandler) ListVendorCampaigns(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	campaigns, err := h.campaignService.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.logger.Error("failed to list vendor campaigns", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// ListActiveCampaigns lists campaigns partners can join.
// @Summary List active campaigns
// @Tags Campaigns
// @Success 200 {array} models.Campaign
// @Router /partner/campaigns [get]
func (h *CampaignHandler) ListActiveCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list active campaigns", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// GetCampaign returns one campaign.
// @Summary Get campaign
// @Tags Campaigns
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Router /partner/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
		return
	}

	campaign, err := h.campaignService.Get(c.Request.Context(), campaignID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}
