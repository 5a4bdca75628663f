package usecase

import (
	"context"
	"slices"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/notify"
	"venue-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RefundService interface {
	ProcessRefund(ctx context.Context, ownerID uuid.UUID, req *request.ProcessRefundRequest) (*response.RefundResponse, error)
	// GetRefundableBookings lists paid cancelled and rejected bookings,
	// newest first.
	GetRefundableBookings(ctx context.Context, filter entity.RefundCandidateFilter) ([]response.RefundCandidateResponse, error)
	GetRefundsByOwner(ctx context.Context, ownerID uuid.UUID) ([]response.RefundResponse, error)
}

type refundService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewRefundService(repo *repository.Repository, notifier notify.Notifier, log *zap.Logger) RefundService {
	return &refundService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "refund")),
		now:      time.Now,
	}
}

// refundSource is what a refund needs to know about the booking it returns
// money for, whichever table it lives in.
type refundSource struct {
	bookingID   uuid.UUID
	cancelledID *uuid.UUID
	venueID     uuid.UUID
	ownerID     uuid.UUID
	customerID  uuid.UUID
	bookingCode string
	paid        decimal.Decimal
}

func (s *refundService) ProcessRefund(ctx context.Context, ownerID uuid.UUID, req *request.ProcessRefundRequest) (*response.RefundResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if (req.CancelledID == nil) == (req.BookingID == nil) {
		return nil, apperror.InvalidInput("provide exactly one of cancelled_id or booking_id")
	}

	source, err := s.resolveSource(ctx, req)
	if err != nil {
		return nil, err
	}
	if source.ownerID != ownerID {
		s.log.Warn("Refund by non-owner",
			zap.String("booking_id", source.bookingID.String()),
			zap.String("user_id", ownerID.String()))
		return nil, apperror.ErrUnauthorized
	}
	if !source.paid.IsPositive() {
		return nil, apperror.ErrRefundNotAllowed.With("nothing was paid for this booking")
	}

	amount := source.paid
	if req.RefundAmount != nil && req.RefundAmount.IsPositive() {
		amount = *req.RefundAmount
	}
	if amount.GreaterThan(source.paid) {
		return nil, apperror.InvalidInput("refund amount exceeds the amount paid")
	}

	refund := &entity.Refund{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		BookingID:          source.bookingID,
		CancelledBookingID: source.cancelledID,
		VenueID:            source.venueID,
		RefundAmount:       amount,
		RefundedBy:         ownerID,
		Status:             entity.RefundStatusCompleted,
		Remarks:            req.Remarks,
	}

	if err := s.repo.Refund.Create(ctx, refund); err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			return nil, err
		}
		s.log.Error("Failed to create refund", zap.Error(err), zap.String("booking_id", source.bookingID.String()))
		return nil, apperror.Internal("failed to process refund", err)
	}

	s.log.Info("Refund issued",
		zap.String("refund_id", refund.ID.String()),
		zap.String("booking_id", source.bookingID.String()),
		zap.String("amount", amount.String()))

	_, email := contact(ctx, s.repo.User, source.customerID, s.log)
	s.notifier.Dispatch(ctx, notify.Notice{
		Type:      notify.EventRefundIssued,
		UserID:    source.customerID,
		Email:     email,
		BookingID: source.bookingID,
		Message:   notify.RefundIssued(source.bookingCode, amount, req.Remarks),
	})

	resp := response.RefundToResponse(refund)
	return &resp, nil
}

func (s *refundService) resolveSource(ctx context.Context, req *request.ProcessRefundRequest) (*refundSource, error) {
	if req.CancelledID != nil {
		cancelledID, err := uuid.Parse(*req.CancelledID)
		if err != nil {
			return nil, apperror.InvalidInput("invalid cancelled_id")
		}

		record, err := s.repo.Booking.FindCancelledByID(ctx, cancelledID)
		if err != nil {
			return nil, apperror.Internal("failed to load cancelled booking", err)
		}
		if record == nil {
			return nil, apperror.ErrRefundNotAllowed.With("cancelled booking not found")
		}

		venue, err := s.repo.Venue.FindByID(ctx, record.VenueID)
		if err != nil {
			return nil, apperror.Internal("failed to load venue", err)
		}
		if venue == nil {
			return nil, apperror.ErrVenueNotFound
		}

		return &refundSource{
			bookingID:   record.BookingID,
			cancelledID: &record.ID,
			venueID:     record.VenueID,
			ownerID:     venue.OwnerID,
			customerID:  record.CustomerID,
			bookingCode: record.BookingCode,
			paid:        record.PaidAmount,
		}, nil
	}

	bookingID, err := uuid.Parse(*req.BookingID)
	if err != nil {
		return nil, apperror.InvalidInput("invalid booking_id")
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.Internal("failed to load booking", err)
	}
	if booking == nil {
		return nil, apperror.ErrRefundNotAllowed.With("booking not found")
	}
	if booking.Status != entity.BookingStatusRejected {
		return nil, apperror.ErrRefundNotAllowed.With("only rejected or cancelled bookings can be refunded")
	}

	return &refundSource{
		bookingID:   booking.ID,
		venueID:     booking.VenueID,
		ownerID:     booking.VenueOwnerID,
		customerID:  booking.CustomerID,
		bookingCode: booking.BookingCode,
		paid:        booking.PaidAmount,
	}, nil
}

func (s *refundService) GetRefundableBookings(ctx context.Context, filter entity.RefundCandidateFilter) ([]response.RefundCandidateResponse, error) {
	cancelled, err := s.repo.Refund.FindCancelledCandidates(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list cancelled refund candidates", err)
	}

	rejected, err := s.repo.Refund.FindRejectedCandidates(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list rejected refund candidates", err)
	}

	candidates := append(cancelled, rejected...)
	slices.SortStableFunc(candidates, func(a, b entity.RefundCandidate) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	data := make([]response.RefundCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		data = append(data, response.RefundCandidateToResponse(c))
	}
	return data, nil
}

func (s *refundService) GetRefundsByOwner(ctx context.Context, ownerID uuid.UUID) ([]response.RefundResponse, error) {
	refunds, err := s.repo.Refund.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal("failed to list refunds", err)
	}

	data := make([]response.RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		data = append(data, response.RefundToResponse(r))
	}
	return data, nil
}
