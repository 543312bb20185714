package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/analytics"
	"github.com/affablelink/service-partner/internal/domain/affiliate"
	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/providers"
	"github.com/affablelink/service-partner/internal/repository"
)

// AnalyticsService assembles partner analytics: click series from the
// tracking network merged with conversion totals from the service
// database, gap filled into a dense daily series.
//
// Per partner it keeps the widest-range bookkeeping of what has already
// been fetched from the tracker, so narrowing the dashboard window does
// not trigger a network round trip.
type AnalyticsService struct {
	conversions *repository.ConversionRepository
	provider    providers.TrackerProvider
	logger      *zap.Logger

	mu      sync.Mutex
	windows map[uuid.UUID]*partnerWindow
}

// partnerWindow is the per-partner fetch bookkeeping: the recorded
// loaded range plus the sparse tracker series backing it.
type partnerWindow struct {
	loaded *affiliate.LoadedRange
	daily  []providers.DailyStat
	stats  *providers.PartnerStats
}

// RangeAnalytics is the assembled analytics for one requested window.
type RangeAnalytics struct {
	Start          string                    `json:"start"`
	End            string                    `json:"end"`
	Stats          *providers.PartnerStats   `json:"stats,omitempty"`
	Series         []analytics.DailyPoint    `json:"series"`
	TopLinks       []providers.TopLink       `json:"top_links,omitempty"`
	TrafficSources []providers.TrafficSource `json:"traffic_sources,omitempty"`
	TotalClicks    int64                     `json:"total_clicks"`
	TotalConvs     int64                     `json:"total_conversions"`
	Refetched      bool                      `json:"refetched"`
}

// NewAnalyticsService creates a new analytics service. The provider may
// be nil, in which case series carry conversion data only.
func NewAnalyticsService(
	conversions *repository.ConversionRepository,
	provider providers.TrackerProvider,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		conversions: conversions,
		provider:    provider,
		logger:      logger,
		windows:     make(map[uuid.UUID]*partnerWindow),
	}
}

// windowFor returns the fetch bookkeeping for a partner, creating it on
// first use.
func (s *AnalyticsService) windowFor(partnerID uuid.UUID) *partnerWindow {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[partnerID]
	if !ok {
		w = &partnerWindow{loaded: affiliate.NewLoadedRange()}
		s.windows[partnerID] = w
	}
	return w
}

// InvalidateWindow drops the fetch bookkeeping for a partner so the
// next request refetches from the tracker.
func (s *AnalyticsService) InvalidateWindow(partnerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.windows[partnerID]; ok {
		w.loaded.Reset()
		w.daily = nil
		w.stats = nil
	}
}

// refreshWindow fetches tracker data for the window when it extends
// past what was already loaded, or when force is set. The loaded range
// is recorded only once the daily fetch succeeds, so a failed fetch is
// retried on the next request. Returns whether a fetch was due.
func (s *AnalyticsService) refreshWindow(ctx context.Context, partner *models.Partner, dateRange affiliate.DateRange, force bool) (*partnerWindow, bool) {
	w := s.windowFor(partner.ID)

	needsFetch := force || w.loaded.NeedsFetch(dateRange)
	if !needsFetch || s.provider == nil || partner.TrackerID == "" {
		return w, needsFetch
	}

	params := providers.StatsQueryParams{
		PartnerRef: partner.TrackerID,
		StartDate:  dateRange.Start,
		EndDate:    dateRange.End,
		Limit:      10,
	}

	daily, err := s.provider.GetDailyStats(ctx, params)
	if err != nil {
		s.logger.Warn("failed to get daily stats from tracker",
			zap.String("partner_id", partner.ID.String()),
			zap.Error(err),
		)
	} else {
		s.mu.Lock()
		w.daily = daily
		w.loaded.Remember(dateRange)
		s.mu.Unlock()
	}

	stats, err := s.provider.GetPartnerStats(ctx, params)
	if err != nil {
		s.logger.Warn("failed to get partner stats from tracker", zap.Error(err))
	} else {
		s.mu.Lock()
		w.stats = stats
		s.mu.Unlock()
	}

	return w, needsFetch
}

// Range assembles analytics for the requested window. A tracker fetch
// happens only when the window extends past what was already loaded, or
// when force is set.
func (s *AnalyticsService) Range(ctx context.Context, partner *models.Partner, dateRange affiliate.DateRange, force bool) (*RangeAnalytics, error) {
	w, needsFetch := s.refreshWindow(ctx, partner, dateRange, force)

	totals, err := s.conversions.DailyTotals(ctx, partner.ID, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	daily := w.daily
	stats := w.stats
	s.mu.Unlock()

	sparse := mergeDaily(daily, totals)
	series := analytics.FillDaily(sparse, dateRange)
	clicks, convs := analytics.Totals(series)

	result := &RangeAnalytics{
		Start:       dateRange.Start.Format("2006-01-02"),
		End:         dateRange.End.Format("2006-01-02"),
		Stats:       stats,
		Series:      series,
		TotalClicks: clicks,
		TotalConvs:  convs,
		Refetched:   needsFetch,
	}

	if needsFetch && s.provider != nil && partner.TrackerID != "" {
		params := providers.StatsQueryParams{
			PartnerRef: partner.TrackerID,
			StartDate:  dateRange.Start,
			EndDate:    dateRange.End,
			Limit:      10,
		}

		topLinks, err := s.provider.GetTopLinks(ctx, params)
		if err != nil {
			s.logger.Warn("failed to get top links from tracker", zap.Error(err))
		}
		result.TopLinks = topLinks

		traffic, err := s.provider.GetTrafficSources(ctx, params)
		if err != nil {
			s.logger.Warn("failed to get traffic sources from tracker", zap.Error(err))
		}
		result.TrafficSources = traffic
	}

	return result, nil
}

// mergeDaily joins tracker click traffic with conversion totals from
// the service database, keyed by calendar day. Clicks come from the
// tracker; conversion counts from our records, which are the source of
// truth for commission.
func mergeDaily(daily []providers.DailyStat, totals []repository.DailyTotal) []analytics.DailyPoint {
	byDay := make(map[string]analytics.DailyPoint, len(daily)+len(totals))

	key := func(t time.Time) string { return t.Format("2006-01-02") }

	for _, d := range daily {
		p := byDay[key(d.Date)]
		p.Date = d.Date
		p.Clicks = d.Clicks
		byDay[key(d.Date)] = p
	}

	for _, t := range totals {
		p := byDay[key(t.Day)]
		p.Date = t.Day
		p.Conversions = t.Count
		byDay[key(t.Day)] = p
	}

	sparse := make([]analytics.DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		sparse = append(sparse, p)
	}
	return sparse
}
