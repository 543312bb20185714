// Package handlers exposes the partner service over HTTP.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
	"github.com/affablelink/service-partner/internal/middleware"
)

const defaultWindowDays = 30

// currentUserID reads the authenticated user from the gin context. The
// second return is false outside an AuthMiddleware-protected route.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// parseDateRange reads start_date / end_date query params (YYYY-MM-DD),
// defaulting to the trailing 30 days. The error string is suitable for
// a 400 response.
func parseDateRange(c *gin.Context) (affiliate.DateRange, string) {
	var zero affiliate.DateRange

	end := time.Now()
	start := end.AddDate(0, 0, -defaultWindowDays)

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return zero, "Invalid start_date format"
		}
		start = parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return zero, "Invalid end_date format"
		}
		end = parsed
	}

	if end.Before(start) {
		return zero, "end_date must not be before start_date"
	}
	return affiliate.NewDateRange(start, end), ""
}
