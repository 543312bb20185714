package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/services"
)

// LinkHandler serves tracked-link management for partners.
type LinkHandler struct {
	linkService *services.LinkService
	logger      *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(linkService *services.LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{linkService: linkService, logger: logger}
}

// CreateLink mints a tracked link into a campaign for the authenticated
// partner.
// @Summary Create tracked link
// @Tags Links
// @Param body body services.CreateLinkInput true "Link"
// @Success 201 {object} models.TrackedLink
// @Router /partner/links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.CreateLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.PartnerID = partnerID

	link, err := h.linkService.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"link": link})
}

// ListLinks lists the authenticated partner's tracked links.
// @Summary List tracked links
// @Tags Links
// @Success 200 {array} models.TrackedLink
// @Router /partner/links [get]
func (h *LinkHandler) ListLinks(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	links, err := h.linkService.ListByPartner(c.Request.Context(), partnerID)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// DeleteLink removes a tracked link the partner owns.
// @Summary Delete tracked link
// @Tags Links
// @Param id path string true "Link ID"
// @Success 204
// @Router /partner/links/{id} [delete]
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return
	}

	if err := h.linkService.Delete(c.Request.Context(), partnerID, linkID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
