package usecase

import (
	"context"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/notify"
	"venue-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.PaymentReceipt, error)
	// IsBookingBelongsToUser is true for the booking's customer and the
	// owner of its venue.
	IsBookingBelongsToUser(ctx context.Context, bookingID, userID uuid.UUID) (bool, error)
	GetPaymentsByBooking(ctx context.Context, userID, bookingID uuid.UUID) ([]response.PaymentResponse, error)
}

type paymentService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(repo *repository.Repository, notifier notify.Notifier, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "payment")),
		now:      time.Now,
	}
}

func (s *paymentService) ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.PaymentReceipt, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return nil, apperror.InvalidInput("amount cannot have more than two decimal places")
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperror.InvalidInput("invalid booking_id")
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.Internal("failed to load booking", err)
	}
	if booking == nil {
		return nil, apperror.ErrBookingNotFound
	}
	if !belongsTo(booking, userID) {
		s.log.Warn("Payment by unrelated user",
			zap.String("booking_id", bookingID.String()),
			zap.String("user_id", userID.String()))
		return nil, apperror.ErrUnauthorized
	}
	if booking.Status == entity.BookingStatusRejected {
		return nil, apperror.ErrInvalidTransition.With("rejected bookings cannot be paid")
	}
	if booking.PaidAmount.Add(req.Amount).GreaterThan(booking.TotalPrice) {
		return nil, apperror.ErrOverpaymentRejected
	}

	payment := &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		BookingID: bookingID,
		VenueID:   booking.VenueID,
		Amount:    req.Amount,
		Method:    req.PaymentMethod,
		Status:    entity.PaymentStatusSuccess,
	}

	// the balance is re-checked under a row lock, a concurrent payment can
	// still turn this into ErrOverpaymentRejected
	paid, err := s.repo.Payment.Record(ctx, payment)
	if err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			return nil, err
		}
		s.log.Error("Failed to record payment", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, apperror.Internal("failed to record payment", err)
	}

	due := booking.TotalPrice.Sub(paid)
	s.log.Info("Payment recorded",
		zap.String("booking_id", bookingID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("due", due.String()))

	// tell the other party
	recipient, email := booking.VenueOwnerID, ""
	if userID == booking.VenueOwnerID {
		recipient, email = booking.CustomerID, booking.CustomerEmail
	} else {
		_, email = contact(ctx, s.repo.User, recipient, s.log)
	}
	s.notifier.Dispatch(ctx, notify.Notice{
		Type:      notify.EventPaymentReceived,
		UserID:    recipient,
		Email:     email,
		BookingID: bookingID,
		Message:   notify.PaymentReceived(booking.BookingCode, payment.Amount, due),
	})

	return &response.PaymentReceipt{
		Payment:    response.PaymentToResponse(payment),
		TotalPrice: booking.TotalPrice,
		PaidAmount: paid,
		DueAmount:  due,
		IsPaid:     isPaid(true, due),
	}, nil
}

func (s *paymentService) IsBookingBelongsToUser(ctx context.Context, bookingID, userID uuid.UUID) (bool, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return false, apperror.Internal("failed to load booking", err)
	}
	if booking == nil {
		return false, apperror.ErrBookingNotFound
	}
	return belongsTo(booking, userID), nil
}

func (s *paymentService) GetPaymentsByBooking(ctx context.Context, userID, bookingID uuid.UUID) ([]response.PaymentResponse, error) {
	ok, err := s.IsBookingBelongsToUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	payments, err := s.repo.Payment.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperror.Internal("failed to list payments", err)
	}

	data := make([]response.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		data = append(data, response.PaymentToResponse(p))
	}
	return data, nil
}

func belongsTo(booking *entity.BookingWithVenue, userID uuid.UUID) bool {
	return booking.CustomerID == userID || booking.VenueOwnerID == userID
}
