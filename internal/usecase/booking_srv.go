package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/notify"
	"venue-booking/internal/pricing"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetCustomerBookings(ctx context.Context, customerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, customerID, bookingID uuid.UUID, reason string) (*response.CancelledBookingResponse, error)
	GetCancelledBookings(ctx context.Context, customerID uuid.UUID) ([]response.CancelledBookingResponse, error)

	// Owner dashboard
	OwnerUpdateStatus(ctx context.Context, ownerID, bookingID uuid.UUID, status entity.BookingStatus) (*response.BookingResponse, error)
	GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, req *request.OwnerBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo            *repository.Repository // bookings, venues, pricing, payments, users
	availability    AvailabilityService
	notifier        notify.Notifier
	perEventDefault time.Duration
	log             *zap.Logger
	now             func() time.Time
}

func NewBookingService(
	repo *repository.Repository,
	availability AvailabilityService,
	notifier notify.Notifier,
	perEventDefault time.Duration,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:            repo,
		availability:    availability,
		notifier:        notifier,
		perEventDefault: perEventDefault,
		log:             log.With(zap.String("service", "booking")),
		now:             time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, apperror.InvalidInput("invalid venue_id")
	}

	if err := pricing.ValidateDuration(req.DurationType, req.DurationHours, req.DurationDays); err != nil {
		return nil, apperror.InvalidInput(err.Error())
	}
	hours, days := req.DurationHours, req.DurationDays
	switch req.DurationType {
	case pricing.PerHour, pricing.PerEvent:
		days = 0
	case pricing.PerDay:
		hours = 0
	}

	now := s.now()
	start := req.BookingDate.UTC()
	if !start.After(now) {
		return nil, apperror.InvalidInput("booking date must be in the future")
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, apperror.Internal("failed to load venue", err)
	}
	if venue == nil {
		return nil, apperror.ErrVenueNotFound
	}

	rule, err := s.repo.Pricing.FindByVenueAndType(ctx, venueID, req.DurationType)
	if err != nil {
		return nil, apperror.Internal("failed to load pricing", err)
	}
	if rule == nil {
		return nil, apperror.ErrPricingNotFound
	}

	if pricing.ValidateAmount(pricing.Total(req.DurationType, rule.Price, hours, days)) != nil {
		return nil, apperror.ErrTotalOutOfRange
	}

	available, err := s.availability.IsAvailable(ctx, venueID, start, req.DurationType, hours, days)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperror.ErrSlotUnavailable
	}

	bookingID := uuid.New()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        bookingID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		VenueID:       venueID,
		CustomerID:    customerID,
		BookingCode:   utils.GenerateBookingCode(venueID, customerID, bookingID),
		BookingDate:   start,
		EndsAt:        start.Add(pricing.Occupancy(req.DurationType, hours, days, s.perEventDefault)),
		DurationType:  req.DurationType,
		DurationHours: hours,
		DurationDays:  days,
		TotalPrice:    pricing.Total(req.DurationType, rule.Price, hours, days),
		PaidAmount:    decimal.Zero,
		Status:        entity.BookingStatusPending,
	}

	// the slot and the price are re-read under a per-venue lock inside the insert
	if err := s.repo.Booking.CreateIfAvailable(ctx, booking); err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			return nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.String("customer_id", customerID.String()))
		return nil, apperror.Internal("failed to create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("total", booking.TotalPrice.String()))

	customerName, _ := contact(ctx, s.repo.User, customerID, s.log)
	_, ownerEmail := contact(ctx, s.repo.User, venue.OwnerID, s.log)
	s.notifier.Dispatch(ctx, notify.Notice{
		Type:      notify.EventBookingCreated,
		UserID:    venue.OwnerID,
		Email:     ownerEmail,
		BookingID: booking.ID,
		Message:   notify.BookingRequested(venue.Name, booking.BookingCode, customerName, start, booking.TotalPrice),
	})

	resp := response.BookingToResponse(&entity.BookingWithVenue{
		Booking:      *booking,
		VenueName:    venue.Name,
		VenueOwnerID: venue.OwnerID,
		CustomerName: customerName,
	}, booking.TotalPrice, false)
	return &resp, nil
}

func (s *bookingService) OwnerUpdateStatus(ctx context.Context, ownerID, bookingID uuid.UUID, status entity.BookingStatus) (*response.BookingResponse, error) {
	if status != entity.BookingStatusApproved && status != entity.BookingStatusRejected {
		return nil, apperror.InvalidInput("status must be approved or rejected")
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.VenueOwnerID != ownerID {
		s.log.Warn("Status change by non-owner",
			zap.String("booking_id", bookingID.String()),
			zap.String("user_id", ownerID.String()))
		return nil, apperror.ErrUnauthorized
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, apperror.ErrInvalidTransition.With(
			fmt.Sprintf("booking is already %s", booking.Status))
	}

	updated, err := s.repo.Booking.UpdateStatusByOwner(ctx, bookingID, ownerID, status)
	if err != nil {
		return nil, apperror.Internal("failed to update booking status", err)
	}
	if !updated {
		// lost a race with a cancel or another decision
		return nil, apperror.ErrBookingNotFound
	}
	booking.Status = status
	booking.UpdatedAt = s.now()

	s.log.Info("Booking status changed",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(status)))

	eventType := notify.EventBookingApproved
	if status == entity.BookingStatusRejected {
		eventType = notify.EventBookingRejected
	}
	s.notifier.Dispatch(ctx, notify.Notice{
		Type:      eventType,
		UserID:    booking.CustomerID,
		Email:     booking.CustomerEmail,
		BookingID: booking.ID,
		Message:   notify.BookingDecided(booking.VenueName, booking.BookingCode, status == entity.BookingStatusApproved),
	})

	return s.renderOne(ctx, booking)
}

func (s *bookingService) CancelBooking(ctx context.Context, customerID, bookingID uuid.UUID, reason string) (*response.CancelledBookingResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.InvalidInput("cancel reason is required")
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, apperror.ErrUnauthorized
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, apperror.ErrInvalidTransition.With(
			fmt.Sprintf("only pending bookings can be cancelled, booking is %s", booking.Status))
	}

	record, err := s.repo.Booking.Cancel(ctx, bookingID, customerID, reason)
	if err != nil {
		s.log.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, apperror.Internal("failed to cancel booking", err)
	}
	if record == nil {
		return nil, apperror.ErrBookingNotFound
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("cancelled_id", record.ID.String()))

	_, ownerEmail := contact(ctx, s.repo.User, booking.VenueOwnerID, s.log)
	s.notifier.Dispatch(ctx, notify.Notice{
		Type:      notify.EventBookingCancelled,
		UserID:    booking.VenueOwnerID,
		Email:     ownerEmail,
		BookingID: booking.ID,
		Message:   notify.BookingCancelled(booking.VenueName, booking.BookingCode, reason),
	})

	resp := response.CancelledToResponse(record)
	return &resp, nil
}

func (s *bookingService) GetCustomerBookings(ctx context.Context, customerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	page, perPage := utils.NormalizePage(req.Page, req.PerPage)

	bookings, err := s.repo.Booking.FindByCustomer(ctx, customerID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}

	total, err := s.repo.Booking.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.Internal("failed to count bookings", err)
	}

	data, err := s.render(ctx, bookings)
	if err != nil {
		return nil, err
	}
	return response.NewPaginatedResponse(data, page, perPage, total), nil
}

func (s *bookingService) GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, req *request.OwnerBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	page, perPage := utils.NormalizePage(req.Page, req.PerPage)

	var status *entity.BookingStatus
	if req.Status != "" {
		st := entity.BookingStatus(req.Status)
		status = &st
	}

	bookings, err := s.repo.Booking.FindByOwner(ctx, ownerID, status, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}

	total, err := s.repo.Booking.CountByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, apperror.Internal("failed to count bookings", err)
	}

	data, err := s.render(ctx, bookings)
	if err != nil {
		return nil, err
	}
	return response.NewPaginatedResponse(data, page, perPage, total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != userID && booking.VenueOwnerID != userID {
		return nil, apperror.ErrUnauthorized
	}
	return s.renderOne(ctx, booking)
}

func (s *bookingService) GetCancelledBookings(ctx context.Context, customerID uuid.UUID) ([]response.CancelledBookingResponse, error) {
	records, err := s.repo.Booking.FindCancelledByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.Internal("failed to list cancelled bookings", err)
	}

	data := make([]response.CancelledBookingResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, response.CancelledToResponse(rec))
	}
	return data, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID uuid.UUID) (*entity.BookingWithVenue, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.Internal("failed to load booking", err)
	}
	if booking == nil {
		return nil, apperror.ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) renderOne(ctx context.Context, booking *entity.BookingWithVenue) (*response.BookingResponse, error) {
	data, err := s.render(ctx, []*entity.BookingWithVenue{booking})
	if err != nil {
		return nil, err
	}
	return &data[0], nil
}

type priceKey struct {
	venueID      uuid.UUID
	durationType pricing.DurationType
}

// render projects the totals of pending future bookings onto the current
// price and derives due amount and paid flag for each row.
func (s *bookingService) render(ctx context.Context, bookings []*entity.BookingWithVenue) ([]response.BookingResponse, error) {
	data := make([]response.BookingResponse, 0, len(bookings))
	if len(bookings) == 0 {
		return data, nil
	}

	ids := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	withPayment, err := s.repo.Payment.SuccessfulBookings(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("failed to load payment state", err)
	}

	now := s.now()
	prices := make(map[priceKey]*decimal.Decimal)
	for _, b := range bookings {
		var current *decimal.Decimal
		if b.Status == entity.BookingStatusPending && b.BookingDate.After(now) {
			key := priceKey{b.VenueID, b.DurationType}
			price, seen := prices[key]
			if !seen {
				rule, err := s.repo.Pricing.FindByVenueAndType(ctx, b.VenueID, b.DurationType)
				if err != nil {
					return nil, apperror.Internal("failed to load pricing", err)
				}
				if rule != nil {
					price = &rule.Price
				}
				prices[key] = price
			}
			current = price
		}

		total := pricing.Project(b.Projection(), current, now)
		data = append(data, response.BookingToResponse(b, total, isPaid(withPayment[b.ID], total.Sub(b.PaidAmount))))
	}
	return data, nil
}

// isPaid requires a recorded payment and nothing left due.
func isPaid(hasSuccessfulPayment bool, due decimal.Decimal) bool {
	return hasSuccessfulPayment && !due.IsPositive()
}
