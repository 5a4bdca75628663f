package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/pricing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPricingRepo struct {
	mock.Mock
}

func (m *mockPricingRepo) FindByVenueAndType(ctx context.Context, venueID uuid.UUID, dt pricing.DurationType) (*entity.PricingRule, error) {
	args := m.Called(ctx, venueID, dt)
	rule, _ := args.Get(0).(*entity.PricingRule)
	return rule, args.Error(1)
}

func (m *mockPricingRepo) FindByVenue(ctx context.Context, venueID uuid.UUID) ([]*entity.PricingRule, error) {
	args := m.Called(ctx, venueID)
	rules, _ := args.Get(0).([]*entity.PricingRule)
	return rules, args.Error(1)
}

func (m *mockPricingRepo) UpsertAndReprice(ctx context.Context, rule *entity.PricingRule, now time.Time) (repository.RepriceResult, error) {
	args := m.Called(ctx, rule, now)
	return args.Get(0).(repository.RepriceResult), args.Error(1)
}

const ttl = 10 * time.Minute

func sampleRule() *entity.PricingRule {
	return &entity.PricingRule{
		VenueID:      uuid.New(),
		DurationType: pricing.PerHour,
		Price:        decimal.NewFromInt(500),
		UpdatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func payloadFor(t *testing.T, rule *entity.PricingRule) []byte {
	t.Helper()
	b, err := json.Marshal(cachedRule{
		VenueID:      rule.VenueID,
		DurationType: rule.DurationType,
		Price:        rule.Price,
		UpdatedAt:    rule.UpdatedAt,
	})
	require.NoError(t, err)
	return b
}

func TestPricingCache_MissFillsCache(t *testing.T) {
	ctx := context.Background()
	rdb, rmock := redismock.NewClientMock()
	inner := new(mockPricingRepo)
	c := NewPricingCache(inner, rdb, ttl, zap.NewNop())

	rule := sampleRule()
	key := PricingKey(rule.VenueID, rule.DurationType)

	rmock.ExpectGet(key).RedisNil()
	inner.On("FindByVenueAndType", ctx, rule.VenueID, rule.DurationType).Return(rule, nil).Once()
	rmock.ExpectSetNX(key, payloadFor(t, rule), ttl).SetVal(true)

	got, err := c.FindByVenueAndType(ctx, rule.VenueID, rule.DurationType)
	require.NoError(t, err)
	assert.Equal(t, rule, got)
	inner.AssertExpectations(t)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestPricingCache_HitSkipsRepository(t *testing.T) {
	ctx := context.Background()
	rdb, rmock := redismock.NewClientMock()
	inner := new(mockPricingRepo)
	c := NewPricingCache(inner, rdb, ttl, zap.NewNop())

	rule := sampleRule()
	rmock.ExpectGet(PricingKey(rule.VenueID, rule.DurationType)).SetVal(string(payloadFor(t, rule)))

	got, err := c.FindByVenueAndType(ctx, rule.VenueID, rule.DurationType)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Price.Equal(rule.Price))
	assert.Equal(t, rule.DurationType, got.DurationType)
	inner.AssertNotCalled(t, "FindByVenueAndType", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestPricingCache_MissingRuleIsNotCached(t *testing.T) {
	ctx := context.Background()
	rdb, rmock := redismock.NewClientMock()
	inner := new(mockPricingRepo)
	c := NewPricingCache(inner, rdb, ttl, zap.NewNop())

	venueID := uuid.New()
	rmock.ExpectGet(PricingKey(venueID, pricing.PerDay)).RedisNil()
	inner.On("FindByVenueAndType", ctx, venueID, pricing.PerDay).Return(nil, nil)

	got, err := c.FindByVenueAndType(ctx, venueID, pricing.PerDay)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestPricingCache_UpsertStoresNewPrice(t *testing.T) {
	ctx := context.Background()
	rdb, rmock := redismock.NewClientMock()
	inner := new(mockPricingRepo)
	c := NewPricingCache(inner, rdb, ttl, zap.NewNop())

	rule := sampleRule()
	now := time.Now()
	inner.On("UpsertAndReprice", ctx, rule, now).Return(repository.RepriceResult{Repriced: 2}, nil)
	rmock.ExpectSet(PricingKey(rule.VenueID, rule.DurationType), payloadFor(t, rule), ttl).SetVal("OK")

	result, err := c.UpsertAndReprice(ctx, rule, now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Repriced)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestPricingCache_UpsertFallsBackToDelete(t *testing.T) {
	ctx := context.Background()
	rdb, rmock := redismock.NewClientMock()
	inner := new(mockPricingRepo)
	c := NewPricingCache(inner, rdb, ttl, zap.NewNop())

	rule := sampleRule()
	key := PricingKey(rule.VenueID, rule.DurationType)
	now := time.Now()
	inner.On("UpsertAndReprice", ctx, rule, now).Return(repository.RepriceResult{}, nil)
	rmock.ExpectSet(key, payloadFor(t, rule), ttl).SetErr(errors.New("READONLY"))
	rmock.ExpectDel(key).SetVal(1)

	_, err := c.UpsertAndReprice(ctx, rule, now)
	require.NoError(t, err)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

// A read that loaded the old price from the database while a price change
// committed must not replace the refreshed entry.
func TestPricingCache_SlowReadKeepsRefreshedEntry(t *testing.T) {
	ctx := context.Background()
	rdb, rmock := redismock.NewClientMock()
	inner := new(mockPricingRepo)
	c := NewPricingCache(inner, rdb, ttl, zap.NewNop())

	stale := sampleRule()
	key := PricingKey(stale.VenueID, stale.DurationType)
	fresh := *stale
	fresh.Price = decimal.NewFromInt(650)
	now := time.Now()

	rmock.ExpectGet(key).RedisNil()
	inner.On("FindByVenueAndType", ctx, stale.VenueID, stale.DurationType).
		Run(func(mock.Arguments) {
			// the price change lands between the database read and the fill
			_, err := c.UpsertAndReprice(ctx, &fresh, now)
			require.NoError(t, err)
		}).
		Return(stale, nil)
	inner.On("UpsertAndReprice", ctx, &fresh, now).Return(repository.RepriceResult{}, nil)
	rmock.ExpectSet(key, payloadFor(t, &fresh), ttl).SetVal("OK")
	rmock.ExpectSetNX(key, payloadFor(t, stale), ttl).SetVal(false)

	got, err := c.FindByVenueAndType(ctx, stale.VenueID, stale.DurationType)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(stale.Price))
	assert.NoError(t, rmock.ExpectationsWereMet())
}
