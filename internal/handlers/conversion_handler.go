package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
	"github.com/affablelink/service-partner/internal/services"
)

// ConversionHandler serves conversion postbacks and listings.
type ConversionHandler struct {
	conversionService *services.ConversionService
	verifier          *affiliate.Signature
	logger            *zap.Logger
}

// NewConversionHandler creates a new conversion handler. The verifier
// may be nil when no postback secret is configured; postbacks are then
// accepted unsigned.
func NewConversionHandler(conversionService *services.ConversionService, verifier *affiliate.Signature, logger *zap.Logger) *ConversionHandler {
	return &ConversionHandler{conversionService: conversionService, verifier: verifier, logger: logger}
}

// RecordConversion accepts a tracking-network postback attributing a
// conversion to a link slug. The signature covers the timestamp and the
// raw body, so the body is read before binding.
// @Summary Record conversion postback
// @Tags Conversions
// @Param body body services.RecordConversionInput true "Conversion"
// @Success 201 {object} models.Conversion
// @Router /postbacks/conversions [post]
func (h *ConversionHandler) RecordConversion(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if h.verifier != nil {
		timestamp := c.GetHeader("X-Postback-Timestamp")
		provided := c.GetHeader("X-Postback-Signature")
		if timestamp == "" || provided == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing postback signature"})
			return
		}

		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil || !affiliate.ValidateTimestamp(ts, time.Now().Unix()) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Postback timestamp out of range"})
			return
		}

		if !h.verifier.VerifyPostback(timestamp, body, provided) {
			h.logger.Warn("postback signature verification failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid postback signature"})
			return
		}
	}

	var input services.RecordConversionInput
	if err := binding.JSON.BindBody(body, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversion, err := h.conversionService.Record(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("failed to record conversion", zap.String("slug", input.Slug), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversion": conversion})
}

// ListConversions lists the authenticated partner's conversions within
// a window.
// @Summary List conversions
// @Tags Conversions
// @Success 200 {array} models.Conversion
// @Router /partner/conversions [get]
func (h *ConversionHandler) ListConversions(c *gin.Context) {
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

	conversions, err := h.conversionService.ListByPartner(c.Request.Context(), partnerID, dateRange.Start, dateRange.End, 100)
	if err != nil {
		h.logger.Error("failed to list conversions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversions": conversions})
}

// SetConversionStatus transitions a conversion's approval state. Admin
// only.
// @Summary Set conversion status
// @Tags Conversions
// @Param id path string true "Conversion ID"
// @Success 200
// @Router /admin/conversions/{id}/status [put]
func (h *ConversionHandler) SetConversionStatus(c *gin.Context) {
	conversionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversion ID"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.conversionService.SetStatus(c.Request.Context(), conversionID, body.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": body.Status})
}
