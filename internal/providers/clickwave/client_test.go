package clickwave

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&ClientConfig{
		APIKey:    "test-key",
		APISecret: "test-secret",
		RetryPolicy: affiliate.DefaultRetryPolicy().
			WithMaxAttempts(3).
			WithInitialDelay(time.Millisecond).
			WithJitter(0),
	})
	require.NoError(t, err)
	c.baseURL = srv.URL
	return c, srv
}

func TestDoDecodesSuccessResponse(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"","data":{"total_clicks":120}}`)
	}))

	var resp struct {
		Data struct {
			TotalClicks int64 `json:"total_clicks"`
		} `json:"data"`
	}
	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/v1/stats/partner"}, &resp)

	require.NoError(t, err)
	assert.Equal(t, int64(120), resp.Data.TotalClicks)
}

func TestDoSignsRequests(t *testing.T) {
	var gotKey, gotSign, gotTimestamp string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotKey = q.Get("api_key")
		gotSign = q.Get("sign")
		gotTimestamp = q.Get("timestamp")
		fmt.Fprint(w, `{"error":""}`)
	}))

	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/v1/stats/partner"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	require.NotEmpty(t, gotTimestamp)

	mac := hmac.New(sha256.New, []byte("test-secret"))
	fmt.Fprintf(mac, "test-key|/v1/stats/partner|%s", gotTimestamp)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSign)
}

func TestDoEnvelopeErrorBecomesAPIError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"error_param","message":"start_date is malformed","request_id":"req-9"}`)
	}))

	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/v1/stats/daily"}, nil)

	var apiErr *affiliate.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, affiliate.CodeInvalidParam, apiErr.Code)
	assert.Equal(t, "start_date is malformed", apiErr.Message)
	assert.Equal(t, "req-9", apiErr.RequestID)
	assert.ErrorIs(t, err, affiliate.ErrInvalidRequest)
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"error_server","message":"try later"}`)
			return
		}
		fmt.Fprint(w, `{"error":""}`)
	}))

	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/v1/reports/links"}, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoDoesNotRetryValidationErrors(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"error_param","message":"bad"}`)
	}))

	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/v1/stats/daily"}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

type staticRefresher struct {
	calls int32
}

func (s *staticRefresher) RefreshToken(ctx context.Context, refreshToken string) (*TokenRefreshResult, error) {
	atomic.AddInt32(&s.calls, 1)
	return &TokenRefreshResult{
		AccessToken:  "fresh-token",
		RefreshToken: "fresh-refresh",
		ExpiresIn:    3600,
	}, nil
}

func TestDoRefreshesExpiredToken(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"error_auth","message":"token expired"}`)
			return
		}
		assert.Equal(t, "fresh-token", r.URL.Query().Get("access_token"))
		fmt.Fprint(w, `{"error":""}`)
	}))

	refresher := &staticRefresher{}
	c.SetTokenRefresher(refresher)
	c.SetTokensWithRefresh("stale-token", "old-refresh", time.Now().Add(-time.Minute))

	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/v1/stats/partner", NeedAuth: true}, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refresher.calls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSetTokenRefresherConcurrentWithRequests(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":""}`)
	}))
	c.SetTokensWithRefresh("token", "refresh", time.Now().Add(time.Hour))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			c.SetTokenRefresher(&staticRefresher{})
		}
	}()

	for i := 0; i < 50; i++ {
		err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/v1/stats/partner", NeedAuth: true}, nil)
		require.NoError(t, err)
	}
	<-done
}
