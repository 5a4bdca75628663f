package usecase

import (
	"context"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/pricing"
	"venue-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PricingService interface {
	GetPrice(ctx context.Context, venueID uuid.UUID, durationType pricing.DurationType) (*entity.PricingRule, error)
	// SetPrice upserts the rule and re-prices pending future bookings of the
	// same venue and duration type.
	SetPrice(ctx context.Context, ownerID, venueID uuid.UUID, req *request.SetPriceRequest) (*response.SetPriceResponse, error)
	ListPrices(ctx context.Context, venueID uuid.UUID) ([]response.PricingResponse, error)
}

type pricingService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewPricingService(repo *repository.Repository, log *zap.Logger) PricingService {
	return &pricingService{
		repo: repo,
		log:  log.With(zap.String("service", "pricing")),
		now:  time.Now,
	}
}

func (s *pricingService) GetPrice(ctx context.Context, venueID uuid.UUID, durationType pricing.DurationType) (*entity.PricingRule, error) {
	if !durationType.Valid() {
		return nil, apperror.InvalidInput(pricing.ErrUnknownDurationType.Error())
	}

	rule, err := s.repo.Pricing.FindByVenueAndType(ctx, venueID, durationType)
	if err != nil {
		return nil, apperror.Internal("failed to load pricing", err)
	}
	if rule == nil {
		return nil, apperror.ErrPricingNotFound
	}
	return rule, nil
}

func (s *pricingService) SetPrice(ctx context.Context, ownerID, venueID uuid.UUID, req *request.SetPriceRequest) (*response.SetPriceResponse, error) {
	if !req.DurationType.Valid() {
		return nil, apperror.InvalidInput(pricing.ErrUnknownDurationType.Error())
	}
	if !req.Price.IsPositive() {
		return nil, apperror.InvalidInput("price must be greater than zero")
	}
	if pricing.ValidateAmount(req.Price) != nil {
		return nil, apperror.InvalidInput("price exceeds the largest supported amount")
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, apperror.Internal("failed to load venue", err)
	}
	if venue == nil {
		return nil, apperror.ErrVenueNotFound
	}
	if !venue.OwnedBy(ownerID) {
		s.log.Warn("Set price by non-owner",
			zap.String("venue_id", venueID.String()),
			zap.String("user_id", ownerID.String()))
		return nil, apperror.ErrUnauthorized
	}

	now := s.now()
	rule := &entity.PricingRule{
		VenueID:      venueID,
		DurationType: req.DurationType,
		Price:        req.Price.Round(2),
		UpdatedAt:    now,
	}

	result, err := s.repo.Pricing.UpsertAndReprice(ctx, rule, now)
	if err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			return nil, err
		}
		s.log.Error("Failed to set price", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, apperror.Internal("failed to set price", err)
	}

	s.log.Info("Price updated",
		zap.String("venue_id", venueID.String()),
		zap.Stringer("duration_type", rule.DurationType),
		zap.String("price", rule.Price.String()),
		zap.Int("repriced", result.Repriced),
		zap.Int("skipped", result.Skipped))

	return &response.SetPriceResponse{
		PricingResponse:  response.PricingToResponse(rule),
		RepricedBookings: result.Repriced,
		SkippedBookings:  result.Skipped,
	}, nil
}

func (s *pricingService) ListPrices(ctx context.Context, venueID uuid.UUID) ([]response.PricingResponse, error) {
	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, apperror.Internal("failed to load venue", err)
	}
	if venue == nil {
		return nil, apperror.ErrVenueNotFound
	}

	rules, err := s.repo.Pricing.FindByVenue(ctx, venueID)
	if err != nil {
		return nil, apperror.Internal("failed to list pricing", err)
	}

	data := make([]response.PricingResponse, 0, len(rules))
	for _, rule := range rules {
		data = append(data, response.PricingToResponse(rule))
	}
	return data, nil
}
