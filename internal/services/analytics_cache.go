package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/analytics"
	"github.com/affablelink/service-partner/internal/providers"
)

// AnalyticsCacheService handles caching for assembled partner analytics
type AnalyticsCacheService struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// CachedAnalytics represents the cached analytics data
type CachedAnalytics struct {
	Stats          *providers.PartnerStats   `json:"stats,omitempty"`
	Series         []analytics.DailyPoint    `json:"series,omitempty"`
	TopLinks       []providers.TopLink       `json:"top_links,omitempty"`
	TrafficSources []providers.TrafficSource `json:"traffic_sources,omitempty"`
	CachedAt       time.Time                 `json:"cached_at"`
}

// NewAnalyticsCacheService creates a new analytics cache service
func NewAnalyticsCacheService(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *AnalyticsCacheService {
	if ttl == 0 {
		ttl = 10 * time.Minute // Default TTL
	}
	return &AnalyticsCacheService{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// cacheKey generates a cache key for analytics data
func (s *AnalyticsCacheService) cacheKey(partnerID, startDate, endDate string) string {
	return fmt.Sprintf("affable:analytics:%s:%s:%s", partnerID, startDate, endDate)
}

// Get retrieves cached analytics data
func (s *AnalyticsCacheService) Get(ctx context.Context, partnerID, startDate, endDate string) (*CachedAnalytics, error) {
	if s.redis == nil {
		return nil, nil // No cache available
	}

	key := s.cacheKey(partnerID, startDate, endDate)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		s.logger.Warn("failed to get analytics from cache", zap.Error(err), zap.String("key", key))
		return nil, nil
	}

	var cached CachedAnalytics
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.Warn("failed to unmarshal cached analytics", zap.Error(err))
		return nil, nil
	}

	s.logger.Debug("cache hit for analytics", zap.String("partner_id", partnerID))
	return &cached, nil
}

// Set stores analytics data in cache
func (s *AnalyticsCacheService) Set(ctx context.Context, partnerID, startDate, endDate string, data *CachedAnalytics) error {
	if s.redis == nil {
		return nil // No cache available
	}

	data.CachedAt = time.Now()
	key := s.cacheKey(partnerID, startDate, endDate)

	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("failed to marshal analytics for cache", zap.Error(err))
		return err
	}

	if err := s.redis.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to set analytics in cache", zap.Error(err), zap.String("key", key))
		return err
	}

	s.logger.Debug("cached analytics", zap.String("partner_id", partnerID), zap.Duration("ttl", s.ttl))
	return nil
}

// Invalidate removes cached analytics for a partner
func (s *AnalyticsCacheService) Invalidate(ctx context.Context, partnerID string) error {
	if s.redis == nil {
		return nil
	}

	pattern := fmt.Sprintf("affable:analytics:%s:*", partnerID)
	keys, err := s.redis.Keys(ctx, pattern).Result()
	if err != nil {
		s.logger.Warn("failed to find cache keys to invalidate", zap.Error(err))
		return err
	}

	if len(keys) > 0 {
		if err := s.redis.Del(ctx, keys...).Err(); err != nil {
			s.logger.Warn("failed to invalidate analytics cache", zap.Error(err))
			return err
		}
		s.logger.Debug("invalidated analytics cache", zap.String("partner_id", partnerID), zap.Int("keys_removed", len(keys)))
	}

	return nil
}
