package usecase

import (
	"context"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VenueService interface {
	CreateVenue(ctx context.Context, ownerID uuid.UUID, req *request.VenueRequest) (*response.VenueResponse, error)
	UpdateVenue(ctx context.Context, ownerID, venueID uuid.UUID, req *request.VenueRequest) (*response.VenueResponse, error)
	DeleteVenue(ctx context.Context, ownerID, venueID uuid.UUID) error
	GetVenue(ctx context.Context, venueID uuid.UUID) (*response.VenueResponse, error)
	ListVenues(ctx context.Context, req *request.ListVenuesRequest) (*response.PaginatedResponse[response.VenueResponse], error)
	ListOwnerVenues(ctx context.Context, ownerID uuid.UUID) ([]response.VenueResponse, error)
}

type venueService struct {
	venues repository.VenueRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewVenueService(venues repository.VenueRepository, log *zap.Logger) VenueService {
	return &venueService{
		venues: venues,
		log:    log.With(zap.String("service", "venue")),
		now:    time.Now,
	}
}

func (s *venueService) CreateVenue(ctx context.Context, ownerID uuid.UUID, req *request.VenueRequest) (*response.VenueResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	venue := &entity.Venue{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Capacity:    req.Capacity,
	}

	if err := s.venues.Create(ctx, venue); err != nil {
		return nil, apperror.Internal("failed to create venue", err)
	}

	s.log.Info("Venue created",
		zap.String("venue_id", venue.ID.String()),
		zap.String("owner_id", ownerID.String()))

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) UpdateVenue(ctx context.Context, ownerID, venueID uuid.UUID, req *request.VenueRequest) (*response.VenueResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	venue, err := s.ownedVenue(ctx, ownerID, venueID)
	if err != nil {
		return nil, err
	}

	venue.Name = req.Name
	venue.Description = req.Description
	venue.Address = req.Address
	venue.City = req.City
	venue.Capacity = req.Capacity
	venue.UpdatedAt = s.now()

	if err := s.venues.Update(ctx, venue); err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			return nil, err
		}
		return nil, apperror.Internal("failed to update venue", err)
	}

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, ownerID, venueID uuid.UUID) error {
	if err := s.venues.Delete(ctx, venueID, ownerID); err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			return err
		}
		return apperror.Internal("failed to delete venue", err)
	}
	return nil
}

func (s *venueService) GetVenue(ctx context.Context, venueID uuid.UUID) (*response.VenueResponse, error) {
	venue, err := s.venues.FindByID(ctx, venueID)
	if err != nil {
		return nil, apperror.Internal("failed to load venue", err)
	}
	if venue == nil {
		return nil, apperror.ErrVenueNotFound
	}

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) ListVenues(ctx context.Context, req *request.ListVenuesRequest) (*response.PaginatedResponse[response.VenueResponse], error) {
	page, perPage := utils.NormalizePage(req.Page, req.PerPage)
	offset := utils.CalculateOffset(page, perPage)

	venues, err := s.venues.FindAll(ctx, req.City, perPage, offset)
	if err != nil {
		return nil, apperror.Internal("failed to list venues", err)
	}

	total, err := s.venues.CountAll(ctx, req.City)
	if err != nil {
		return nil, apperror.Internal("failed to count venues", err)
	}

	data := make([]response.VenueResponse, 0, len(venues))
	for _, v := range venues {
		data = append(data, response.VenueToResponse(v))
	}

	return response.NewPaginatedResponse(data, page, perPage, total), nil
}

func (s *venueService) ListOwnerVenues(ctx context.Context, ownerID uuid.UUID) ([]response.VenueResponse, error) {
	venues, err := s.venues.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal("failed to list venues", err)
	}

	data := make([]response.VenueResponse, 0, len(venues))
	for _, v := range venues {
		data = append(data, response.VenueToResponse(v))
	}
	return data, nil
}

func (s *venueService) ownedVenue(ctx context.Context, ownerID, venueID uuid.UUID) (*entity.Venue, error) {
	venue, err := s.venues.FindByID(ctx, venueID)
	if err != nil {
		return nil, apperror.Internal("failed to load venue", err)
	}
	if venue == nil {
		return nil, apperror.ErrVenueNotFound
	}
	if !venue.OwnedBy(ownerID) {
		s.log.Warn("Venue ownership check failed",
			zap.String("venue_id", venueID.String()),
			zap.String("user_id", ownerID.String()))
		return nil, apperror.ErrUnauthorized
	}
	return venue, nil
}
