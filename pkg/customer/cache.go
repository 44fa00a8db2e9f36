package customer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 30 * time.Second

// CachedService wraps a Service with a short-lived Redis read cache for
// the by-user-id lookup, the hot path for server-rendered pages. The
// cache is strictly an accelerator: any Redis failure falls through to
// the inner service, and every mutation drops the affected key so a
// webhook-driven membership change is visible on the next read.
type CachedService struct {
	inner Service
	rdb   redis.UniversalClient
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedService wraps inner with a Redis read cache.
// A non-positive ttl falls back to 30 seconds.
// Panics on nil dependencies to fail fast during initialization.
func NewCachedService(inner Service, rdb redis.UniversalClient, ttl time.Duration, log *slog.Logger) *CachedService {
	if inner == nil {
		panic("customer: inner service is required")
	}
	if rdb == nil {
		panic("customer: redis client is required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &CachedService{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(userID string) string {
	return "customer:user:" + userID
}

func (s *CachedService) GetByUserID(ctx context.Context, userID string) (*Customer, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	if raw, err := s.rdb.Get(ctx, cacheKey(userID)).Bytes(); err == nil {
		var c Customer
		if err := json.Unmarshal(raw, &c); err == nil {
			return &c, nil
		}
		// Corrupt entry, drop it and fall through to the store.
		_ = s.rdb.Del(ctx, cacheKey(userID)).Err()
	}

	c, err := s.inner.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, c)
	return c, nil
}

func (s *CachedService) GetByUserIDSafe(ctx context.Context, userID string) *Customer {
	c, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil
	}
	return c
}

func (s *CachedService) GetByPolarCustomerID(ctx context.Context, polarCustomerID string) (*Customer, error) {
	return s.inner.GetByPolarCustomerID(ctx, polarCustomerID)
}

func (s *CachedService) Create(ctx context.Context, userID string, membership Membership) (*Customer, error) {
	c, err := s.inner.Create(ctx, userID, membership)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return c, nil
}

func (s *CachedService) UpdateByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	c, err := s.inner.UpdateByUserID(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return c, nil
}

func (s *CachedService) UpdateByPolarCustomerID(ctx context.Context, polarCustomerID string, upd Update) (*Customer, error) {
	c, err := s.inner.UpdateByPolarCustomerID(ctx, polarCustomerID, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, c.UserID)
	return c, nil
}

func (s *CachedService) UpsertByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	c, err := s.inner.UpsertByUserID(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return c, nil
}

func (s *CachedService) BillingData(ctx context.Context, userID string, resolve EmailResolver) BillingData {
	return s.inner.BillingData(ctx, userID, resolve)
}

func (s *CachedService) put(ctx context.Context, c *Customer) {
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(c.UserID), raw, s.ttl).Err(); err != nil {
		s.log.DebugContext(ctx, "customer cache write failed", slog.Any("error", err))
	}
}

func (s *CachedService) invalidate(ctx context.Context, userID string) {
	if err := s.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		s.log.DebugContext(ctx, "customer cache invalidation failed",
			slog.String("user_id", userID), slog.Any("error", err))
	}
}
