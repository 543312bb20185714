package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFillDailySynthesizesMissingDays(t *testing.T) {
	sparse := []DailyPoint{
		{Date: day(2026, 10, 1), Clicks: 5, Conversions: 1},
		{Date: day(2026, 10, 3), Clicks: 2},
	}
	r := affiliate.NewDateRange(day(2026, 10, 1), day(2026, 10, 3))

	filled := FillDaily(sparse, r)

	require.Len(t, filled, 3)
	assert.Equal(t, "Oct 1", filled[0].Label)
	assert.Equal(t, "Oct 2", filled[1].Label)
	assert.Equal(t, "Oct 3", filled[2].Label)

	assert.Equal(t, int64(5), filled[0].Clicks)
	assert.Equal(t, int64(1), filled[0].Conversions)

	assert.Zero(t, filled[1].Clicks)
	assert.Zero(t, filled[1].Conversions)

	assert.Equal(t, int64(2), filled[2].Clicks)
	assert.Zero(t, filled[2].Conversions)
}

func TestFillDailySingleSparseDayInThreeDayWindow(t *testing.T) {
	sparse := []DailyPoint{
		{Date: day(2024, 10, 2), Clicks: 10, Conversions: 1},
	}
	r := affiliate.NewDateRange(day(2024, 10, 1), day(2024, 10, 3))

	filled := FillDaily(sparse, r)

	require.Len(t, filled, 3)

	assert.Equal(t, "Oct 1", filled[0].Label)
	assert.Zero(t, filled[0].Clicks)
	assert.Zero(t, filled[0].Conversions)

	assert.Equal(t, "Oct 2", filled[1].Label)
	assert.Equal(t, int64(10), filled[1].Clicks)
	assert.Equal(t, int64(1), filled[1].Conversions)

	assert.Equal(t, "Oct 3", filled[2].Label)
	assert.Zero(t, filled[2].Clicks)
	assert.Zero(t, filled[2].Conversions)
}

func TestFillDailyLengthIsInclusiveDayCount(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", day(2026, 3, 15), day(2026, 3, 15), 1},
		{"one week", day(2026, 3, 1), day(2026, 3, 7), 7},
		{"across month end", day(2026, 1, 30), day(2026, 2, 2), 4},
		{"thirty days", day(2026, 4, 1), day(2026, 4, 30), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled := FillDaily(nil, affiliate.NewDateRange(tt.start, tt.end))
			assert.Len(t, filled, tt.want)
		})
	}
}

func TestFillDailyInvertedRangeIsEmpty(t *testing.T) {
	r := affiliate.NewDateRange(day(2026, 10, 3), day(2026, 10, 1))
	filled := FillDaily([]DailyPoint{{Date: day(2026, 10, 2), Clicks: 9}}, r)
	assert.Empty(t, filled)
}

func TestFillDailyAscendingOrder(t *testing.T) {
	// Input order must not matter; output is ascending by construction.
	sparse := []DailyPoint{
		{Date: day(2026, 6, 5), Clicks: 3},
		{Date: day(2026, 6, 2), Clicks: 8},
	}
	filled := FillDaily(sparse, affiliate.NewDateRange(day(2026, 6, 1), day(2026, 6, 5)))

	require.Len(t, filled, 5)
	for i := 1; i < len(filled); i++ {
		assert.True(t, filled[i].Date.After(filled[i-1].Date))
	}
	assert.Equal(t, int64(8), filled[1].Clicks)
	assert.Equal(t, int64(3), filled[4].Clicks)
}

func TestFillDailyDoesNotMutateInput(t *testing.T) {
	sparse := []DailyPoint{{Date: day(2026, 10, 1), Clicks: 5}}
	FillDaily(sparse, affiliate.NewDateRange(day(2026, 10, 1), day(2026, 10, 3)))

	assert.Equal(t, int64(5), sparse[0].Clicks)
	assert.Empty(t, sparse[0].Label, "labels are set on the output, not the input")
}

func TestFillDailyMidnightLocalKeys(t *testing.T) {
	// A late-evening timestamp still lands on its local calendar day.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	late := time.Date(2026, 10, 2, 23, 30, 0, 0, loc)
	sparse := []DailyPoint{{Date: late, Clicks: 4}}

	r := affiliate.NewDateRange(
		time.Date(2026, 10, 1, 0, 0, 0, 0, loc),
		time.Date(2026, 10, 3, 0, 0, 0, 0, loc),
	)
	filled := FillDaily(sparse, r)

	require.Len(t, filled, 3)
	assert.Equal(t, int64(4), filled[1].Clicks, "Oct 2 23:30 local belongs to Oct 2")
}

func TestTotals(t *testing.T) {
	series := []DailyPoint{
		{Clicks: 10, Conversions: 2},
		{Clicks: 0, Conversions: 0},
		{Clicks: 7, Conversions: 1},
	}

	clicks, conversions := Totals(series)
	assert.Equal(t, int64(17), clicks)
	assert.Equal(t, int64(3), conversions)
}
