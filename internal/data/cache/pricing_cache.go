// Package cache puts redis in front of hot read paths.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/pricing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cachedRule struct {
	VenueID      uuid.UUID            `json:"venue_id"`
	DurationType pricing.DurationType `json:"duration_type"`
	Price        decimal.Decimal      `json:"price"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type pricingCache struct {
	next repository.PricingRepository
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *zap.Logger
}

// NewPricingCache wraps next with a read-through cache of single pricing
// rules. Redis failures degrade to direct reads. Booking creation does not
// trust it: the insert re-reads the price under the venue lock.
func NewPricingCache(next repository.PricingRepository, rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) repository.PricingRepository {
	return &pricingCache{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With(zap.String("repository", "pricing_cache")),
	}
}

func PricingKey(venueID uuid.UUID, durationType pricing.DurationType) string {
	return fmt.Sprintf("pricing:%s:%d", venueID, int(durationType))
}

func (c *pricingCache) FindByVenueAndType(ctx context.Context, venueID uuid.UUID, durationType pricing.DurationType) (*entity.PricingRule, error) {
	key := PricingKey(venueID, durationType)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cr cachedRule
		if jsonErr := json.Unmarshal(raw, &cr); jsonErr == nil {
			return &entity.PricingRule{
				VenueID:      cr.VenueID,
				DurationType: cr.DurationType,
				Price:        cr.Price,
				UpdatedAt:    cr.UpdatedAt,
			}, nil
		}
		c.log.Warn("Dropping unreadable pricing cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("Pricing cache read failed", zap.Error(err), zap.String("key", key))
	}

	rule, err := c.next.FindByVenueAndType(ctx, venueID, durationType)
	if err != nil || rule == nil {
		return rule, err
	}

	// SETNX so a read that started before a price change cannot overwrite
	// the value UpsertAndReprice stored
	payload, err := encodeRule(rule)
	if err == nil {
		if err := c.rdb.SetNX(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn("Pricing cache write failed", zap.Error(err), zap.String("key", key))
		}
	}

	return rule, nil
}

func encodeRule(rule *entity.PricingRule) ([]byte, error) {
	return json.Marshal(cachedRule{
		VenueID:      rule.VenueID,
		DurationType: rule.DurationType,
		Price:        rule.Price,
		UpdatedAt:    rule.UpdatedAt,
	})
}

func (c *pricingCache) FindByVenue(ctx context.Context, venueID uuid.UUID) ([]*entity.PricingRule, error) {
	return c.next.FindByVenue(ctx, venueID)
}

func (c *pricingCache) UpsertAndReprice(ctx context.Context, rule *entity.PricingRule, now time.Time) (repository.RepriceResult, error) {
	result, err := c.next.UpsertAndReprice(ctx, rule, now)
	if err != nil {
		return result, err
	}

	key := PricingKey(rule.VenueID, rule.DurationType)
	payload, err := encodeRule(rule)
	if err == nil {
		err = c.rdb.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.log.Warn("Pricing cache refresh failed", zap.Error(err), zap.String("key", key))
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			// TTL bounds how long the stale price can be served
			c.log.Warn("Pricing cache invalidation failed", zap.Error(err), zap.String("key", key))
		}
	}

	return result, nil
}
