package usecase

import (
	"context"
	"time"

	"venue-booking/internal/data/repository"
	"venue-booking/internal/notify"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Venue        VenueService
	Pricing      PricingService
	Availability AvailabilityService
	Booking      BookingService
	Payment      PaymentService
	Refund       RefundService
	Notification NotificationService
	Stats        StatsService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	notifier notify.Notifier,
	hub *notify.Hub,
	log *zap.Logger,
) *Service {
	perEventDefault := time.Duration(config.Booking.PerEventDefaultHours) * time.Hour
	availability := NewAvailabilityService(repo, perEventDefault, log)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Venue:        NewVenueService(repo.Venue, log),
		Pricing:      NewPricingService(repo, log),
		Availability: availability,
		Booking:      NewBookingService(repo, availability, notifier, perEventDefault, log),
		Payment:      NewPaymentService(repo, notifier, log),
		Refund:       NewRefundService(repo, notifier, log),
		Notification: NewNotificationService(repo.Notification, hub, log),
		Stats:        NewStatsService(repo.Stats, log),
	}
}

// validate runs the struct tags of req and reports failures as InvalidInput.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.InvalidInput("validation failed: " + utils.FormatValidationErrors(errs))
	}
	return nil
}

// contact resolves the name and email of a notification recipient. Lookup
// failures only cost the email channel, so they are logged and swallowed.
func contact(ctx context.Context, users repository.UserRepository, userID uuid.UUID, log *zap.Logger) (string, string) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		log.Warn("Failed to load notification recipient", zap.Error(err), zap.String("user_id", userID.String()))
		return "", ""
	}
	if user == nil {
		return "", ""
	}
	return user.Name, user.Email
}
