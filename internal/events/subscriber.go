// Package events wires the partner service into the AffableLink NATS
// bus: it publishes conversion/payout lifecycle events and reacts to
// click and conversion traffic by keeping counters and caches current.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event subjects
const (
	SubjectLinkClicked        = "link.clicked"
	SubjectConversionRecorded = "conversion.recorded"
	SubjectPayoutCompleted    = "payout.completed"
	SubjectPayoutFailed       = "payout.failed"
)

// LinkClickedEvent represents a click reported by the tracking edge.
type LinkClickedEvent struct {
	LinkID    uuid.UUID `json:"link_id"`
	Slug      string    `json:"slug"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversionRecordedEvent represents a newly attributed conversion.
type ConversionRecordedEvent struct {
	ConversionID uuid.UUID `json:"conversion_id"`
	PartnerID    uuid.UUID `json:"partner_id"`
	CampaignID   uuid.UUID `json:"campaign_id"`
	LinkID       uuid.UUID `json:"link_id"`
	Commission   float64   `json:"commission"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PayoutCompletedEvent represents a successfully disbursed payout.
type PayoutCompletedEvent struct {
	PayoutID    uuid.UUID `json:"payout_id"`
	PartnerID   uuid.UUID `json:"partner_id"`
	Amount      float64   `json:"amount"`
	ExternalRef string    `json:"external_ref"`
	Timestamp   time.Time `json:"timestamp"`
}

// PayoutFailedEvent represents a payout that billing rejected.
type PayoutFailedEvent struct {
	PayoutID  uuid.UUID `json:"payout_id"`
	PartnerID uuid.UUID `json:"partner_id"`
	Amount    float64   `json:"amount"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// EventHandler defines the interface for handling inbound events.
type EventHandler interface {
	HandleLinkClicked(event *LinkClickedEvent) error
	HandleConversionRecorded(event *ConversionRecordedEvent) error
}

// Subscriber handles NATS event subscriptions.
type Subscriber struct {
	nc      *nats.Conn
	logger  *zap.Logger
	handler EventHandler
	subs    []*nats.Subscription
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(nc *nats.Conn, handler EventHandler, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		nc:      nc,
		logger:  logger,
		handler: handler,
		subs:    make([]*nats.Subscription, 0),
	}
}

// Start subscribes to all relevant events.
func (s *Subscriber) Start() error {
	sub, err := s.nc.Subscribe(SubjectLinkClicked, s.handleLinkClicked)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	s.logger.Info("Subscribed to event", zap.String("subject", SubjectLinkClicked))

	sub, err = s.nc.Subscribe(SubjectConversionRecorded, s.handleConversionRecorded)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	s.logger.Info("Subscribed to event", zap.String("subject", SubjectConversionRecorded))

	s.logger.Info("NATS subscriber started with all subscriptions")
	return nil
}

// Stop unsubscribes from all events.
func (s *Subscriber) Stop() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.logger.Info("NATS subscriber stopped")
}

// handleLinkClicked processes click events from the tracking edge.
func (s *Subscriber) handleLinkClicked(msg *nats.Msg) {
	var event LinkClickedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Error("Failed to unmarshal link clicked event", zap.Error(err))
		return
	}

	if err := s.handler.HandleLinkClicked(&event); err != nil {
		s.logger.Error("Failed to handle link clicked event",
			zap.String("link_id", event.LinkID.String()),
			zap.Error(err),
		)
	}
}

// handleConversionRecorded processes conversion events.
func (s *Subscriber) handleConversionRecorded(msg *nats.Msg) {
	var event ConversionRecordedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Error("Failed to unmarshal conversion recorded event", zap.Error(err))
		return
	}

	s.logger.Info("Received conversion recorded event",
		zap.String("conversion_id", event.ConversionID.String()),
		zap.String("partner_id", event.PartnerID.String()),
		zap.Float64("commission", event.Commission),
	)

	if err := s.handler.HandleConversionRecorded(&event); err != nil {
		s.logger.Error("Failed to handle conversion recorded event",
			zap.String("conversion_id", event.ConversionID.String()),
			zap.Error(err),
		)
	}
}

// Publisher handles publishing events to NATS.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(nc *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{nc: nc, logger: logger}
}

// PublishConversionRecorded publishes a conversion recorded event.
func (p *Publisher) PublishConversionRecorded(event *ConversionRecordedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectConversionRecorded, data)
}

// PublishPayoutCompleted publishes a payout completed event.
func (p *Publisher) PublishPayoutCompleted(event *PayoutCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectPayoutCompleted, data)
}

// PublishPayoutFailed publishes a payout failed event.
func (p *Publisher) PublishPayoutFailed(event *PayoutFailedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectPayoutFailed, data)
}
