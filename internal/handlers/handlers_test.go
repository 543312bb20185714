package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/partner/analytics"+query, nil)
	return c
}

func TestParseDateRangeExplicit(t *testing.T) {
	c := testContext(t, "?start_date=2026-10-01&end_date=2026-10-03")

	r, errMsg := parseDateRange(c)
	require.Empty(t, errMsg)

	assert.Equal(t, "2026-10-01", r.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-10-03", r.End.Format("2006-01-02"))
	assert.Equal(t, 3, r.Days())
}

func TestParseDateRangeDefaultsToTrailingWindow(t *testing.T) {
	c := testContext(t, "")

	r, errMsg := parseDateRange(c)
	require.Empty(t, errMsg)

	assert.WithinDuration(t, time.Now(), r.End, time.Minute)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -defaultWindowDays), r.Start, time.Minute)
}

func TestParseDateRangeInvalidFormat(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad start", "?start_date=10/01/2026"},
		{"bad end", "?start_date=2026-10-01&end_date=tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := parseDateRange(testContext(t, tt.query))
			assert.NotEmpty(t, errMsg)
		})
	}
}

func TestParseDateRangeRejectsInverted(t *testing.T) {
	c := testContext(t, "?start_date=2026-10-03&end_date=2026-10-01")

	_, errMsg := parseDateRange(c)
	assert.Equal(t, "end_date must not be before start_date", errMsg)
}

func TestParseDateRangeSingleDay(t *testing.T) {
	c := testContext(t, "?start_date=2026-10-01&end_date=2026-10-01")

	r, errMsg := parseDateRange(c)
	require.Empty(t, errMsg)
	assert.Equal(t, 1, r.Days())
}
