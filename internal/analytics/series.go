// Package analytics assembles the dense daily series the partner
// dashboard charts consume from sparse click/conversion records.
package analytics

import (
	"time"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

// DailyPoint is one day of partner activity. Source data is sparse: only
// days with at least one recorded event necessarily appear.
type DailyPoint struct {
	Date        time.Time `json:"-"`
	Label       string    `json:"date"`
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
}

// dayKey builds the calendar-day index key from local date fields rather
// than a UTC timestamp, avoiding off-by-one at timezone boundaries.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// dayLabel renders the short human-readable chart label, e.g. "Oct 2".
func dayLabel(t time.Time) string {
	return t.Format("Jan 2")
}

// FillDaily converts sparse points into a dense day-by-day series
// spanning the inclusive range, synthesizing zero-valued entries for
// missing days. Output length equals the inclusive day count and is
// ascending by construction. An inverted range yields an empty series,
// indistinguishable from "no data"; callers that own user input must
// validate bounds before asking.
func FillDaily(sparse []DailyPoint, dateRange affiliate.DateRange) []DailyPoint {
	indexed := make(map[string]DailyPoint, len(sparse))
	for _, p := range sparse {
		indexed[dayKey(p.Date)] = p
	}

	start := time.Date(dateRange.Start.Year(), dateRange.Start.Month(), dateRange.Start.Day(), 0, 0, 0, 0, dateRange.Start.Location())
	end := time.Date(dateRange.End.Year(), dateRange.End.Month(), dateRange.End.Day(), 0, 0, 0, 0, dateRange.End.Location())

	filled := make([]DailyPoint, 0, dateRange.Days())
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if p, ok := indexed[dayKey(day)]; ok {
			p.Date = day
			p.Label = dayLabel(day)
			filled = append(filled, p)
			continue
		}
		filled = append(filled, DailyPoint{
			Date:  day,
			Label: dayLabel(day),
		})
	}

	return filled
}

// Totals sums clicks and conversions across a series.
func Totals(series []DailyPoint) (clicks, conversions int64) {
	for _, p := range series {
		clicks += p.Clicks
		conversions += p.Conversions
	}
	return clicks, conversions
}
