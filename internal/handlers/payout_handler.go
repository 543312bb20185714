package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/services"
)

// PayoutHandler serves payout requests and history.
type PayoutHandler struct {
	payoutService *services.PayoutService
	logger        *zap.Logger
}

// NewPayoutHandler creates a new payout handler.
func NewPayoutHandler(payoutService *services.PayoutService, logger *zap.Logger) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService, logger: logger}
}

// RequestPayout disburses the partner's approved commission for a
// period through billing.
// @Summary Request payout
// @Tags Payouts
// @Param body body services.RequestPayoutInput true "Period"
// @Success 201 {object} models.Payout
// @Router /partner/payouts [post]
func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.RequestPayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.PartnerID = partnerID

	payout, err := h.payoutService.Request(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("payout request failed",
			zap.String("partner_id", partnerID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payout": payout})
}

// ListPayouts lists the authenticated partner's payouts.
// @Summary List payouts
// @Tags Payouts
// @Success 200 {array} models.Payout
// @Router /partner/payouts [get]
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payouts, err := h.payoutService.ListByPartner(c.Request.Context(), partnerID)
	if err != nil {
		h.logger.Error("failed to list payouts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payouts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

// GetPayout returns one payout the partner owns.
// @Summary Get payout
// @Tags Payouts
// @Param id path string true "Payout ID"
// @Success 200 {object} models.Payout
// @Router /partner/payouts/{id} [get]
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payout ID"})
		return
	}

	payout, err := h.payoutService.Get(c.Request.Context(), payoutID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payout not found"})
		return
	}
	if payout.PartnerID != partnerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Payout belongs to another partner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payout": payout})
}
