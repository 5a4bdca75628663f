package usecase

import (
	"context"
	"time"

	"venue-booking/internal/availability"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/pricing"
	"venue-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	// IsAvailable reports whether no pending or approved booking of the venue
	// overlaps the requested slot.
	IsAvailable(ctx context.Context, venueID uuid.UUID, start time.Time, durationType pricing.DurationType, hours, days int) (bool, error)
	CheckSlot(ctx context.Context, venueID uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
}

type availabilityService struct {
	repo            *repository.Repository
	perEventDefault time.Duration
	log             *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, perEventDefault time.Duration, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:            repo,
		perEventDefault: perEventDefault,
		log:             log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) IsAvailable(ctx context.Context, venueID uuid.UUID, start time.Time, durationType pricing.DurationType, hours, days int) (bool, error) {
	slot, err := s.slot(start, durationType, hours, days)
	if err != nil {
		return false, err
	}

	conflicts, err := s.conflicts(ctx, venueID, slot)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

func (s *availabilityService) CheckSlot(ctx context.Context, venueID uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, apperror.Internal("failed to load venue", err)
	}
	if venue == nil {
		return nil, apperror.ErrVenueNotFound
	}

	slot, err := s.slot(req.Start, req.DurationType, req.DurationHours, req.DurationDays)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts(ctx, venueID, slot)
	if err != nil {
		return nil, err
	}

	resp := &response.AvailabilityResponse{
		VenueID:   venueID.String(),
		Start:     slot.Start,
		End:       slot.End,
		Available: len(conflicts) == 0,
		Conflicts: make([]response.SlotResponse, 0, len(conflicts)),
	}
	for _, c := range conflicts {
		resp.Conflicts = append(resp.Conflicts, response.SlotResponse{Start: c.Start, End: c.End})
	}
	return resp, nil
}

// slot builds the half-open interval a booking of this shape would occupy.
func (s *availabilityService) slot(start time.Time, durationType pricing.DurationType, hours, days int) (availability.Interval, error) {
	if err := pricing.ValidateDuration(durationType, hours, days); err != nil {
		return availability.Interval{}, apperror.InvalidInput(err.Error())
	}
	return availability.NewInterval(start.UTC(), pricing.Occupancy(durationType, hours, days, s.perEventDefault)), nil
}

func (s *availabilityService) conflicts(ctx context.Context, venueID uuid.UUID, slot availability.Interval) ([]availability.Interval, error) {
	occupied, err := s.repo.Booking.FindActiveOverlapping(ctx, venueID, slot)
	if err != nil {
		s.log.Error("Failed to load venue calendar", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, apperror.Internal("failed to check availability", err)
	}
	return availability.Conflicts(slot, occupied), nil
}
