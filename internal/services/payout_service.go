package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/clients"
	"github.com/affablelink/service-partner/internal/events"
	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/repository"
	"github.com/affablelink/service-partner/internal/resource"
)

// Minimum commission balance before a payout can be requested.
const minPayoutAmount = 10.0

// PayoutService turns approved commission into billing disbursements.
type PayoutService struct {
	payouts   *repository.PayoutRepository
	partners  *repository.PartnerRepository
	earnings  *repository.ConversionRepository
	billing   *clients.BillingClient
	publisher *events.Publisher
	logger    *zap.Logger

	requestMut *resource.Mutation[RequestPayoutInput, models.Payout]
}

// RequestPayoutInput identifies the partner and the commission period to
// disburse.
type RequestPayoutInput struct {
	PartnerID   uuid.UUID `json:"-"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}

// NewPayoutService creates a new payout service. The publisher may be
// nil when NATS is not configured.
func NewPayoutService(
	payouts *repository.PayoutRepository,
	partners *repository.PartnerRepository,
	earnings *repository.ConversionRepository,
	billing *clients.BillingClient,
	publisher *events.Publisher,
	logger *zap.Logger,
) *PayoutService {
	s := &PayoutService{
		payouts:   payouts,
		partners:  partners,
		earnings:  earnings,
		billing:   billing,
		publisher: publisher,
		logger:    logger,
	}
	s.requestMut = resource.NewMutation(s.request)
	return s
}

// Request creates a payout for the partner's approved commission over
// the period and submits it to billing.
func (s *PayoutService) Request(ctx context.Context, input RequestPayoutInput) (models.Payout, error) {
	return s.requestMut.Mutate(ctx, input)
}

// RequestState returns the current snapshot of the request mutation.
func (s *PayoutService) RequestState() resource.State[models.Payout] {
	return s.requestMut.State()
}

// ResetRequest clears the request mutation back to idle.
func (s *PayoutService) ResetRequest() {
	s.requestMut.Reset()
}

func (s *PayoutService) request(ctx context.Context, input RequestPayoutInput) (models.Payout, error) {
	if !input.PeriodEnd.After(input.PeriodStart) {
		return models.Payout{}, errors.New("period end must be after period start")
	}

	partner, err := s.partners.GetByID(ctx, input.PartnerID)
	if err != nil {
		return models.Payout{}, err
	}
	if partner.PayoutAddress == "" {
		return models.Payout{}, errors.New("partner has no payout address configured")
	}

	amount, err := s.earnings.ApprovedCommission(ctx, input.PartnerID, input.PeriodStart, input.PeriodEnd)
	if err != nil {
		return models.Payout{}, err
	}
	if amount < minPayoutAmount {
		return models.Payout{}, fmt.Errorf("approved commission %.2f is below the %.2f payout minimum", amount, minPayoutAmount)
	}

	payout := models.Payout{
		ID:          uuid.New(),
		PartnerID:   input.PartnerID,
		Amount:      amount,
		Currency:    "USD",
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		Status:      models.PayoutStatusRequested,
	}
	if err := s.payouts.Create(ctx, &payout); err != nil {
		return models.Payout{}, err
	}

	disbursement, err := s.billing.ExecutePayout(ctx, &clients.DisbursementRequest{
		PayoutID:      payout.ID.String(),
		PartnerID:     payout.PartnerID.String(),
		Amount:        payout.Amount,
		Currency:      payout.Currency,
		PayoutAddress: partner.PayoutAddress,
	})
	if err != nil {
		s.markFailed(ctx, &payout, err)
		return models.Payout{}, err
	}

	payout.Status = models.PayoutStatusPaid
	payout.ExternalRef = disbursement.Reference
	if err := s.payouts.Update(ctx, &payout); err != nil {
		return models.Payout{}, err
	}

	s.logger.Info("payout disbursed",
		zap.String("payout_id", payout.ID.String()),
		zap.String("partner_id", payout.PartnerID.String()),
		zap.Float64("amount", payout.Amount),
		zap.String("external_ref", payout.ExternalRef),
	)

	if s.publisher != nil {
		err := s.publisher.PublishPayoutCompleted(&events.PayoutCompletedEvent{
			PayoutID:    payout.ID,
			PartnerID:   payout.PartnerID,
			Amount:      payout.Amount,
			ExternalRef: payout.ExternalRef,
			Timestamp:   time.Now(),
		})
		if err != nil {
			s.logger.Warn("failed to publish payout completed event", zap.Error(err))
		}
	}

	return payout, nil
}

// markFailed records a billing rejection. The payout row stays as an
// audit trail of the attempt.
func (s *PayoutService) markFailed(ctx context.Context, payout *models.Payout, cause error) {
	payout.Status = models.PayoutStatusFailed
	if err := s.payouts.Update(ctx, payout); err != nil {
		s.logger.Error("failed to mark payout as failed",
			zap.String("payout_id", payout.ID.String()),
			zap.Error(err),
		)
	}

	if s.publisher != nil {
		err := s.publisher.PublishPayoutFailed(&events.PayoutFailedEvent{
			PayoutID:  payout.ID,
			PartnerID: payout.PartnerID,
			Amount:    payout.Amount,
			Error:     cause.Error(),
			Timestamp: time.Now(),
		})
		if err != nil {
			s.logger.Warn("failed to publish payout failed event", zap.Error(err))
		}
	}
}

// Get returns a single payout.
func (s *PayoutService) Get(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	return s.payouts.GetByID(ctx, id)
}

// ListByPartner returns a partner's payouts, newest first.
func (s *PayoutService) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Payout, error) {
	return s.payouts.ListByPartner(ctx, partnerID)
}
