package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/services"
)

// PartnerHandler serves the partner profile endpoints.
type PartnerHandler struct {
	partnerService *services.PartnerService
	logger         *zap.Logger
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(partnerService *services.PartnerService, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService, logger: logger}
}

// GetProfile returns the authenticated partner's profile.
// @Summary Get partner profile
// @Tags Partners
// @Success 200 {object} models.Partner
// @Router /partner/profile [get]
func (h *PartnerHandler) GetProfile(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	partner, err := h.partnerService.Get(c.Request.Context(), partnerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// UpdateProfile updates the authenticated partner's mutable fields.
// @Summary Update partner profile
// @Tags Partners
// @Param body body services.UpdatePartnerInput true "Profile fields"
// @Success 200 {object} models.Partner
// @Router /partner/profile [put]
func (h *PartnerHandler) UpdateProfile(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.UpdatePartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.PartnerID = partnerID

	partner, err := h.partnerService.Update(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("failed to update partner", zap.Error(err), zap.String("partner_id", partnerID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}
