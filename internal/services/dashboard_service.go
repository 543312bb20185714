package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/repository"
	"github.com/affablelink/service-partner/internal/resource"
)

// conversionListLimit caps the recent-conversions slot on the dashboard.
const conversionListLimit = 50

// DashboardService composes the partner dashboard: the profile loads
// first, and the conversions, links, and analytics slots are gated on a
// resolved partner before running concurrently. Slots complete
// independently; one failing leaves the others intact.
type DashboardService struct {
	partners    *repository.PartnerRepository
	links       *repository.LinkRepository
	conversions *repository.ConversionRepository
	analytics   *AnalyticsService
	logger      *zap.Logger
}

// Dashboard holds the per-slot snapshots for one composition pass.
type Dashboard struct {
	Profile     resource.State[models.Partner]
	Conversions resource.State[[]models.Conversion]
	Links       resource.State[[]models.TrackedLink]
	Analytics   resource.State[RangeAnalytics]
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	partners *repository.PartnerRepository,
	links *repository.LinkRepository,
	conversions *repository.ConversionRepository,
	analyticsService *AnalyticsService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		partners:    partners,
		links:       links,
		conversions: conversions,
		analytics:   analyticsService,
		logger:      logger,
	}
}

// Compose assembles the dashboard for a partner over a date window.
// The returned Dashboard always has a resolved profile slot; dependent
// slots are idle when the profile failed, since their fetches never ran.
func (s *DashboardService) Compose(ctx context.Context, partnerID uuid.UUID, dateRange affiliate.DateRange, forceRefresh bool) *Dashboard {
	profileRes := resource.New(func(ctx context.Context) (models.Partner, error) {
		p, err := s.partners.GetByID(ctx, partnerID)
		if err != nil {
			return models.Partner{}, err
		}
		return *p, nil
	})
	profileRes.SetKey(partnerID)

	profile := profileRes.Run(ctx)

	conversionsRes := resource.New(func(ctx context.Context) ([]models.Conversion, error) {
		return s.conversions.ListByPartner(ctx, partnerID, dateRange.Start, dateRange.End, conversionListLimit)
	})
	linksRes := resource.New(func(ctx context.Context) ([]models.TrackedLink, error) {
		return s.links.ListByPartner(ctx, partnerID)
	})
	analyticsRes := resource.New(func(ctx context.Context) (RangeAnalytics, error) {
		partner := profile.Data
		a, err := s.analytics.Range(ctx, partner, dateRange, forceRefresh)
		if err != nil {
			return RangeAnalytics{}, err
		}
		return *a, nil
	})

	// Dependent slots only run once a partner is resolved.
	gated := profile.Data != nil
	conversionsRes.SetEnabled(gated)
	linksRes.SetEnabled(gated)
	analyticsRes.SetEnabled(gated)

	key := dateRange.Key()
	conversionsRes.SetKey(partnerID, key)
	linksRes.SetKey(partnerID)
	analyticsRes.SetKey(partnerID, key, forceRefresh)

	// Independent slots run concurrently. Failures land in each slot's
	// own state, so the group never returns an error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { conversionsRes.Run(gctx); return nil })
	g.Go(func() error { linksRes.Run(gctx); return nil })
	g.Go(func() error { analyticsRes.Run(gctx); return nil })
	_ = g.Wait()

	if err := profile.Err; err != nil {
		s.logger.Warn("dashboard profile fetch failed",
			zap.String("partner_id", partnerID.String()),
			zap.String("code", err.Code.String()),
		)
	}

	return &Dashboard{
		Profile:     profile,
		Conversions: conversionsRes.State(),
		Links:       linksRes.State(),
		Analytics:   analyticsRes.State(),
	}
}
