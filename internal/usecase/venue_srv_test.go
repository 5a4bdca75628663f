package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"
	"venue-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newVenueService(t *testing.T) (*venueService, *mocks) {
	t.Helper()
	m, repo := newMocks()
	svc := NewVenueService(repo.Venue, zap.NewNop()).(*venueService)
	svc.now = func() time.Time { return fixedNow }
	return svc, m
}

func venueReq() *request.VenueRequest {
	return &request.VenueRequest{
		Name:     "Grand Hall",
		Address:  "Jl. Sudirman 1",
		City:     "Jakarta",
		Capacity: 200,
	}
}

func TestVenueService_CreateVenue(t *testing.T) {
	ctx := context.Background()
	svc, m := newVenueService(t)
	ownerID := uuid.New()

	m.venue.On("Create", mock.Anything, mock.MatchedBy(func(v *entity.Venue) bool {
		return v.OwnerID == ownerID && v.Name == "Grand Hall" && v.CreatedAt.Equal(fixedNow)
	})).Return(nil)

	resp, err := svc.CreateVenue(ctx, ownerID, venueReq())

	require.NoError(t, err)
	assert.Equal(t, ownerID.String(), resp.OwnerID)
	assert.Equal(t, 200, resp.Capacity)

	_, err = svc.CreateVenue(ctx, ownerID, &request.VenueRequest{Name: "X"})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	m.venue.AssertNumberOfCalls(t, "Create", 1)
}

func TestVenueService_UpdateVenue(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner renames the venue", func(t *testing.T) {
		svc, m := newVenueService(t)
		venue := sampleVenue(uuid.New())
		m.venue.On("FindByID", mock.Anything, venue.ID).Return(venue, nil)
		m.venue.On("Update", mock.Anything, mock.MatchedBy(func(v *entity.Venue) bool {
			return v.Name == "Garden Hall" && v.UpdatedAt.Equal(fixedNow)
		})).Return(nil)

		req := venueReq()
		req.Name = "Garden Hall"
		resp, err := svc.UpdateVenue(ctx, venue.OwnerID, venue.ID, req)

		require.NoError(t, err)
		assert.Equal(t, "Garden Hall", resp.Name)
	})

	t.Run("Someone else's venue", func(t *testing.T) {
		svc, m := newVenueService(t)
		venue := sampleVenue(uuid.New())
		m.venue.On("FindByID", mock.Anything, venue.ID).Return(venue, nil)

		_, err := svc.UpdateVenue(ctx, uuid.New(), venue.ID, venueReq())

		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		m.venue.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestVenueService_DeleteVenue(t *testing.T) {
	ctx := context.Background()
	venueID, ownerID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		repoErr  error
		wantKind apperror.Kind
	}{
		{"Still booked", apperror.ErrVenueHasBookings, apperror.KindConflict},
		{"Missing", apperror.ErrVenueNotFound, apperror.KindNotFound},
		{"Store failure", errors.New("connection reset"), apperror.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newVenueService(t)
			m.venue.On("Delete", mock.Anything, venueID, ownerID).Return(tt.repoErr)

			err := svc.DeleteVenue(ctx, ownerID, venueID)

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperror.KindOf(err))
		})
	}
}

func TestVenueService_ListVenues(t *testing.T) {
	ctx := context.Background()
	svc, m := newVenueService(t)
	venues := []*entity.Venue{sampleVenue(uuid.New()), sampleVenue(uuid.New())}

	m.venue.On("FindAll", mock.Anything, "Jakarta", 2, 2).Return(venues, nil)
	m.venue.On("CountAll", mock.Anything, "Jakarta").Return(int64(5), nil)

	resp, err := svc.ListVenues(ctx, &request.ListVenuesRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 2},
		City:             "Jakarta",
	})

	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}
