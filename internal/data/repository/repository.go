package repository

import (
	"venue-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Venue        VenueRepository
	Pricing      PricingRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Refund       RefundRepository
	Notification NotificationRepository
	Stats        StatsRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Venue:        NewVenueRepository(db, log),
		Pricing:      NewPricingRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Refund:       NewRefundRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		Stats:        NewStatsRepository(db, log),
	}
}
