package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/providers"
	"github.com/affablelink/service-partner/internal/repository"
)

// fakeTracker counts daily-stat fetches and can be flipped to fail.
type fakeTracker struct {
	dailyCalls int
	fail       bool
}

func (f *fakeTracker) GetPartnerStats(ctx context.Context, params providers.StatsQueryParams) (*providers.PartnerStats, error) {
	return &providers.PartnerStats{}, nil
}

func (f *fakeTracker) GetDailyStats(ctx context.Context, params providers.StatsQueryParams) ([]providers.DailyStat, error) {
	f.dailyCalls++
	if f.fail {
		return nil, affiliate.NewAPIError(affiliate.CodeServerError, "tracker down", 500)
	}
	return []providers.DailyStat{{Date: params.StartDate, Clicks: 7}}, nil
}

func (f *fakeTracker) GetTopLinks(ctx context.Context, params providers.StatsQueryParams) ([]providers.TopLink, error) {
	return nil, nil
}

func (f *fakeTracker) GetTrafficSources(ctx context.Context, params providers.StatsQueryParams) ([]providers.TrafficSource, error) {
	return nil, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRefreshWindowSkipsFetchOnceLoaded(t *testing.T) {
	tracker := &fakeTracker{}
	svc := NewAnalyticsService(nil, tracker, zap.NewNop())
	partner := &models.Partner{ID: uuid.New(), TrackerID: "cw-partner-1"}
	r := affiliate.NewDateRange(day(2026, 10, 1), day(2026, 10, 3))

	w, fetched := svc.refreshWindow(context.Background(), partner, r, false)
	assert.True(t, fetched)
	require.Equal(t, 1, tracker.dailyCalls)
	require.Len(t, w.daily, 1)

	_, fetched = svc.refreshWindow(context.Background(), partner, r, false)
	assert.False(t, fetched)
	assert.Equal(t, 1, tracker.dailyCalls)
}

func TestRefreshWindowRetriesAfterFailedFetch(t *testing.T) {
	tracker := &fakeTracker{fail: true}
	svc := NewAnalyticsService(nil, tracker, zap.NewNop())
	partner := &models.Partner{ID: uuid.New(), TrackerID: "cw-partner-1"}
	r := affiliate.NewDateRange(day(2026, 10, 1), day(2026, 10, 3))

	w, fetched := svc.refreshWindow(context.Background(), partner, r, false)
	assert.True(t, fetched)
	require.Equal(t, 1, tracker.dailyCalls)
	assert.Empty(t, w.daily)

	// The failed fetch was not recorded as loaded, so the identical
	// request fetches again.
	tracker.fail = false
	w, fetched = svc.refreshWindow(context.Background(), partner, r, false)
	assert.True(t, fetched)
	assert.Equal(t, 2, tracker.dailyCalls)
	assert.Len(t, w.daily, 1)
}

func TestMergeDailyJoinsByCalendarDay(t *testing.T) {
	daily := []providers.DailyStat{
		{Date: day(2026, 10, 1), Clicks: 50},
		{Date: day(2026, 10, 2), Clicks: 30},
	}
	totals := []repository.DailyTotal{
		{Day: day(2026, 10, 2), Count: 3, Commission: 45.0},
		{Day: day(2026, 10, 3), Count: 1, Commission: 15.0},
	}

	merged := mergeDaily(daily, totals)
	require.Len(t, merged, 3)

	byDay := map[string]struct {
		clicks int64
		convs  int64
	}{}
	for _, p := range merged {
		byDay[p.Date.Format("2006-01-02")] = struct {
			clicks int64
			convs  int64
		}{p.Clicks, p.Conversions}
	}

	assert.Equal(t, int64(50), byDay["2026-10-01"].clicks)
	assert.Zero(t, byDay["2026-10-01"].convs)

	assert.Equal(t, int64(30), byDay["2026-10-02"].clicks)
	assert.Equal(t, int64(3), byDay["2026-10-02"].convs)

	assert.Zero(t, byDay["2026-10-03"].clicks)
	assert.Equal(t, int64(1), byDay["2026-10-03"].convs)
}

func TestMergeDailyEmptyInputs(t *testing.T) {
	assert.Empty(t, mergeDaily(nil, nil))

	onlyClicks := mergeDaily([]providers.DailyStat{{Date: day(2026, 1, 5), Clicks: 9}}, nil)
	require.Len(t, onlyClicks, 1)
	assert.Equal(t, int64(9), onlyClicks[0].Clicks)

	onlyConvs := mergeDaily(nil, []repository.DailyTotal{{Day: day(2026, 1, 5), Count: 2}})
	require.Len(t, onlyConvs, 1)
	assert.Equal(t, int64(2), onlyConvs[0].Conversions)
}
