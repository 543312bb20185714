package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/events"
	"github.com/affablelink/service-partner/internal/repository"
)

// EventReactor applies bus traffic to local state: clicks bump link
// counters, conversions invalidate the partner's cached analytics so
// the next dashboard load refetches.
type EventReactor struct {
	links          *repository.LinkRepository
	analytics      *AnalyticsService
	analyticsCache *AnalyticsCacheService
	logger         *zap.Logger
}

var _ events.EventHandler = (*EventReactor)(nil)

// NewEventReactor creates a new event reactor. The analytics cache may
// be nil when Redis is not configured.
func NewEventReactor(
	links *repository.LinkRepository,
	analytics *AnalyticsService,
	analyticsCache *AnalyticsCacheService,
	logger *zap.Logger,
) *EventReactor {
	return &EventReactor{
		links:          links,
		analytics:      analytics,
		analyticsCache: analyticsCache,
		logger:         logger,
	}
}

// HandleLinkClicked increments the clicked link's counter.
func (r *EventReactor) HandleLinkClicked(event *events.LinkClickedEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.links.IncrementClicks(ctx, event.LinkID, 1); err != nil {
		return err
	}

	r.logger.Debug("link click counted",
		zap.String("link_id", event.LinkID.String()),
		zap.String("slug", event.Slug),
	)
	return nil
}

// HandleConversionRecorded drops the partner's cached analytics so the
// new conversion shows up on the next fetch.
func (r *EventReactor) HandleConversionRecorded(event *events.ConversionRecordedEvent) error {
	r.analytics.InvalidateWindow(event.PartnerID)

	if r.analyticsCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.analyticsCache.Invalidate(ctx, event.PartnerID.String()); err != nil {
			r.logger.Warn("failed to invalidate analytics cache",
				zap.String("partner_id", event.PartnerID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}
