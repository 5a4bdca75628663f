// Package jobs holds the periodic maintenance work of the marketplace and the
// cron scheduler that runs it.
package jobs

import (
	"context"
	"time"

	"venue-booking/internal/data/repository"
	"venue-booking/internal/notify"

	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

// Runner executes the jobs. Each method is safe to call directly.
type Runner struct {
	sessions       repository.SessionRepository
	bookings       repository.BookingRepository
	notifier       notify.Notifier
	reminderWindow time.Duration
	log            *zap.Logger
	now            func() time.Time
}

func NewRunner(repo *repository.Repository, notifier notify.Notifier, reminderWindow time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		sessions:       repo.Session,
		bookings:       repo.Booking,
		notifier:       notifier,
		reminderWindow: reminderWindow,
		log:            log.With(zap.String("service", "jobs")),
		now:            time.Now,
	}
}

// CleanSessions deletes sessions that expired or were revoked over a week ago.
func (r *Runner) CleanSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := r.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		r.log.Error("Session cleanup failed", zap.Error(err))
		return
	}
	r.log.Info("Session cleanup done", zap.Int64("removed", removed))
}

// RemindDuePayments notifies customers of approved bookings that start within
// the reminder window and still have money due.
func (r *Runner) RemindDuePayments() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	from := r.now()
	bookings, err := r.bookings.FindApprovedWithDueBetween(ctx, from, from.Add(r.reminderWindow))
	if err != nil {
		r.log.Error("Payment reminder lookup failed", zap.Error(err))
		return
	}

	for _, b := range bookings {
		r.notifier.Dispatch(ctx, notify.Notice{
			Type:      notify.EventPaymentReminder,
			UserID:    b.CustomerID,
			Email:     b.CustomerEmail,
			BookingID: b.ID,
			Message:   notify.PaymentReminder(b.VenueName, b.BookingCode, b.BookingDate, b.DueAmount()),
		})
	}
	r.log.Info("Payment reminders queued", zap.Int("count", len(bookings)))
}
