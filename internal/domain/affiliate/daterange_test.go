package affiliate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRangeDaysInclusive(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", day(2026, 10, 1), day(2026, 10, 1), 1},
		{"three days", day(2026, 10, 1), day(2026, 10, 3), 3},
		{"month boundary", day(2026, 1, 30), day(2026, 2, 2), 4},
		{"inverted", day(2026, 10, 3), day(2026, 10, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDateRange(tt.start, tt.end)
			assert.Equal(t, tt.want, r.Days())
		})
	}
}

func TestLoadedRangeNeedsFetch(t *testing.T) {
	l := NewLoadedRange()

	// Nothing loaded yet: everything needs a fetch.
	wide := NewDateRange(day(2026, 1, 1), day(2026, 1, 31))
	assert.True(t, l.NeedsFetch(wide))

	l.Remember(wide)

	tests := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"identical range", wide, false},
		{"strict subrange", NewDateRange(day(2026, 1, 10), day(2026, 1, 20)), false},
		{"extends earlier", NewDateRange(day(2025, 12, 25), day(2026, 1, 15)), true},
		{"extends later", NewDateRange(day(2026, 1, 15), day(2026, 2, 5)), true},
		{"extends both", NewDateRange(day(2025, 12, 1), day(2026, 3, 1)), true},
		{"shares start boundary", NewDateRange(day(2026, 1, 1), day(2026, 1, 10)), false},
		{"shares end boundary", NewDateRange(day(2026, 1, 20), day(2026, 1, 31)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.NeedsFetch(tt.r))
		})
	}
}

// Remember always overwrites the recorded range, so recording a
// subrange shrinks it and a later request for the original range
// refetches even though that data was already loaded. Callers rely on
// the refetch being safe, not skipped.
func TestLoadedRangeShrinkOnSubrange(t *testing.T) {
	l := NewLoadedRange()

	wide := NewDateRange(day(2026, 1, 1), day(2026, 1, 31))
	narrow := NewDateRange(day(2026, 1, 10), day(2026, 1, 20))

	l.Remember(wide)
	require.False(t, l.NeedsFetch(narrow))

	l.Remember(narrow)

	got, ok := l.Loaded()
	require.True(t, ok)
	assert.True(t, got.Start.Equal(narrow.Start))
	assert.True(t, got.End.Equal(narrow.End))

	assert.True(t, l.NeedsFetch(wide), "the wide range is forgotten after recording the subrange")
}

func TestLoadedRangeReset(t *testing.T) {
	l := NewLoadedRange()
	r := NewDateRange(day(2026, 5, 1), day(2026, 5, 31))

	l.Remember(r)
	require.False(t, l.NeedsFetch(r))

	l.Reset()

	_, ok := l.Loaded()
	assert.False(t, ok)
	assert.True(t, l.NeedsFetch(r))
}

func TestDateRangeKeyDistinguishesRanges(t *testing.T) {
	a := NewDateRange(day(2026, 1, 1), day(2026, 1, 31))
	b := NewDateRange(day(2026, 1, 1), day(2026, 2, 1))

	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), NewDateRange(a.Start, a.End).Key())
}
