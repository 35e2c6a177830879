package persistence

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/consumer-platform/internal/domain"
)

// ProfileCache is a read-through cache for profile lookups. It is a pure
// accelerator: every miss or Redis failure falls back to the user store.
type ProfileCache struct {
	redis  *Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewProfileCache builds a cache over the shared Redis client. A nil redis
// wrapper yields a cache that always misses.
func NewProfileCache(redis *Redis, ttl time.Duration, logger *zap.Logger) *ProfileCache {
	return &ProfileCache{redis: redis, ttl: ttl, logger: logger}
}

func profileKey(userID string) string {
	return "profile:" + userID
}

// Get returns the cached profile, or nil on miss or any Redis failure.
func (c *ProfileCache) Get(ctx context.Context, userID string) *domain.Profile {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil
	}
	raw, err := c.redis.Client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		c.logger.Warn("dropping undecodable cached profile", zap.String("user_id", userID), zap.Error(err))
		c.Invalidate(ctx, userID)
		return nil
	}
	return &profile
}

// Set stores the profile for the configured TTL. Failures are logged and
// otherwise ignored.
func (c *ProfileCache) Set(ctx context.Context, profile *domain.Profile) {
	if c == nil || c.redis == nil || c.redis.Client == nil || profile == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, profileKey(profile.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached profile after a profile-changing write.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.logger.Warn("profile cache invalidate failed", zap.Error(err))
	}
}
