package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/services"
)

// LeadHandler serves the public interest-capture endpoint and the
// admin lead listing.
type LeadHandler struct {
	leadService *services.LeadService
	logger      *zap.Logger
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(leadService *services.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leadService: leadService, logger: logger}
}

// CaptureLead accepts a marketing-site form submission. Public.
// @Summary Capture lead
// @Tags Leads
// @Param body body services.CaptureLeadInput true "Lead"
// @Success 201 {object} models.Lead
// @Router /leads [post]
func (h *LeadHandler) CaptureLead(c *gin.Context) {
	var input services.CaptureLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leadService.Capture(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("failed to capture lead", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lead": lead})
}

// ListLeads returns the most recent leads. Admin only.
// @Summary List leads
// @Tags Leads
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {array} models.Lead
// @Router /admin/leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	limit := 100
	if s := c.Query("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	leads, err := h.leadService.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}
