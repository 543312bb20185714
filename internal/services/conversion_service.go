package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/affablelink/service-partner/internal/events"
	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/repository"
)

// ConversionService records attributed conversions and manages their
// approval lifecycle.
type ConversionService struct {
	conversions *repository.ConversionRepository
	links       *repository.LinkRepository
	campaigns   *repository.CampaignRepository
	publisher   *events.Publisher
	logger      *zap.Logger
}

// RecordConversionInput carries an inbound conversion postback.
type RecordConversionInput struct {
	Slug       string         `json:"slug" binding:"required"`
	Value      float64        `json:"value" binding:"required"`
	Currency   string         `json:"currency"`
	OccurredAt time.Time      `json:"occurred_at"`
	Metadata   map[string]any `json:"metadata"`
}

// NewConversionService creates a new conversion service. The publisher
// may be nil when NATS is not configured.
func NewConversionService(
	conversions *repository.ConversionRepository,
	links *repository.LinkRepository,
	campaigns *repository.CampaignRepository,
	publisher *events.Publisher,
	logger *zap.Logger,
) *ConversionService {
	return &ConversionService{
		conversions: conversions,
		links:       links,
		campaigns:   campaigns,
		publisher:   publisher,
		logger:      logger,
	}
}

// Record attributes a conversion to the link identified by slug,
// computes commission from the campaign rate, persists it pending, and
// publishes conversion.recorded.
func (s *ConversionService) Record(ctx context.Context, input RecordConversionInput) (*models.Conversion, error) {
	link, err := s.links.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, fmt.Errorf("unknown link slug %q: %w", input.Slug, err)
	}

	campaign, err := s.campaigns.GetByID(ctx, link.CampaignID)
	if err != nil {
		return nil, err
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	var metadata datatypes.JSON
	if input.Metadata != nil {
		metadata, err = marshalJSON(input.Metadata)
		if err != nil {
			return nil, err
		}
	}

	conversion := models.Conversion{
		ID:         uuid.New(),
		LinkID:     link.ID,
		CampaignID: campaign.ID,
		PartnerID:  link.PartnerID,
		Value:      input.Value,
		Commission: input.Value * campaign.CommissionRate,
		Currency:   currency,
		Status:     models.ConversionStatusPending,
		Metadata:   metadata,
		OccurredAt: occurredAt,
	}

	if err := s.conversions.Create(ctx, &conversion); err != nil {
		return nil, err
	}

	s.logger.Info("conversion recorded",
		zap.String("conversion_id", conversion.ID.String()),
		zap.String("partner_id", conversion.PartnerID.String()),
		zap.Float64("commission", conversion.Commission),
	)

	if s.publisher != nil {
		err := s.publisher.PublishConversionRecorded(&events.ConversionRecordedEvent{
			ConversionID: conversion.ID,
			PartnerID:    conversion.PartnerID,
			CampaignID:   conversion.CampaignID,
			LinkID:       conversion.LinkID,
			Commission:   conversion.Commission,
			OccurredAt:   conversion.OccurredAt,
		})
		if err != nil {
			s.logger.Warn("failed to publish conversion recorded event", zap.Error(err))
		}
	}

	return &conversion, nil
}

// SetStatus transitions a conversion between pending/approved/reversed.
func (s *ConversionService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case models.ConversionStatusPending, models.ConversionStatusApproved, models.ConversionStatusReversed:
	default:
		return fmt.Errorf("unknown conversion status: %s", status)
	}
	return s.conversions.UpdateStatus(ctx, id, status)
}

// ListByPartner returns a partner's conversions within a window.
func (s *ConversionService) ListByPartner(ctx context.Context, partnerID uuid.UUID, start, end time.Time, limit int) ([]models.Conversion, error) {
	return s.conversions.ListByPartner(ctx, partnerID, start, end, limit)
}

// marshalJSON converts a metadata map to a datatypes.JSON column value.
func marshalJSON(m map[string]any) (datatypes.JSON, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return datatypes.JSON(b), nil
}
