package notify

import (
	"context"
	"sync"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher fans a notice out to the stored inbox, the realtime hub, email
// and the event topic.
type Dispatcher struct {
	store   repository.NotificationRepository
	hub     *Hub
	mailer  Mailer
	events  EventPublisher
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
	now     func() time.Time
}

func NewDispatcher(
	store repository.NotificationRepository,
	hub *Hub,
	mailer Mailer,
	events EventPublisher,
	timeout time.Duration,
	log *zap.Logger,
) *Dispatcher {
	if events == nil {
		events = NopPublisher{}
	}
	return &Dispatcher{
		store:   store,
		hub:     hub,
		mailer:  mailer,
		events:  events,
		timeout: timeout,
		log:     log.With(zap.String("service", "notify")),
		now:     time.Now,
	}
}

// Dispatch delivers n in the background. Cancelling ctx does not abort it.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notice) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		d.Deliver(dctx, n)
	}()
}

// Deliver runs every channel in turn and logs the ones that fail.
func (d *Dispatcher) Deliver(ctx context.Context, n Notice) {
	log := d.log.With(
		zap.String("type", n.Type),
		zap.String("user_id", n.UserID.String()),
		zap.String("booking_id", n.BookingID.String()),
	)

	now := d.now()
	record := &entity.Notification{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     n.UserID,
		Title:      n.Message.Title,
		Message:    n.Message.Body,
	}
	if err := d.store.Create(ctx, record); err != nil {
		log.Warn("Failed to store notification", zap.Error(err))
	}

	ev := Event{
		ID:        record.ID,
		Type:      n.Type,
		UserID:    n.UserID,
		BookingID: n.BookingID,
		Title:     n.Message.Title,
		Message:   n.Message.Body,
		At:        now,
	}

	if d.hub != nil {
		if delivered := d.hub.Send(n.UserID, ev); delivered > 0 {
			log.Debug("Realtime notification pushed", zap.Int("streams", delivered))
		}
	}

	if n.Email != "" && d.mailer != nil {
		if err := d.mailer.SendEmail(ctx, n.Email, n.Message.Title, n.Message.Body); err != nil {
			log.Warn("Failed to send notification email", zap.Error(err), zap.String("email", n.Email))
		}
	}

	if err := d.events.Publish(ctx, ev); err != nil {
		log.Warn("Failed to publish notification event", zap.Error(err))
	}
}

// Wait blocks until background deliveries finish. Call it on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
