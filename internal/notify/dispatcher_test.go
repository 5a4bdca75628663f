package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"venue-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryInbox struct {
	mu      sync.Mutex
	records []*entity.Notification
	err     error
}

func (m *memoryInbox) Create(_ context.Context, n *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, n)
	return nil
}

func (m *memoryInbox) FindByUser(context.Context, uuid.UUID, int, int) ([]*entity.Notification, error) {
	return nil, nil
}

func (m *memoryInbox) CountByUser(context.Context, uuid.UUID) (int64, int64, error) {
	return 0, 0, nil
}

func (m *memoryInbox) MarkRead(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) SendEmail(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return m.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func sampleNotice() Notice {
	return Notice{
		Type:      EventBookingApproved,
		UserID:    uuid.New(),
		Email:     "customer@example.com",
		BookingID: uuid.New(),
		Message:   BookingDecided("Grand Hall", "BK-1", true),
	}
}

func TestDispatcher_DeliverUsesEveryChannel(t *testing.T) {
	inbox := &memoryInbox{}
	mailer := &recordingMailer{}
	events := &recordingPublisher{}
	hub := NewHub(2)
	d := NewDispatcher(inbox, hub, mailer, events, time.Second, zap.NewNop())

	n := sampleNotice()
	stream, unsubscribe := hub.Subscribe(n.UserID)
	defer unsubscribe()

	d.Deliver(context.Background(), n)

	require.Len(t, inbox.records, 1)
	assert.Equal(t, "Booking approved", inbox.records[0].Title)
	assert.Equal(t, []string{"customer@example.com|Booking approved"}, mailer.sent)
	require.Len(t, events.events, 1)
	assert.Equal(t, n.BookingID, events.events[0].BookingID)

	ev := <-stream
	assert.Equal(t, EventBookingApproved, ev.Type)
	assert.Equal(t, inbox.records[0].ID, ev.ID)
}

func TestDispatcher_FailuresDoNotStopOtherChannels(t *testing.T) {
	inbox := &memoryInbox{err: errors.New("db down")}
	mailer := &recordingMailer{err: errors.New("smtp down")}
	events := &recordingPublisher{}
	hub := NewHub(1)
	d := NewDispatcher(inbox, hub, mailer, events, time.Second, zap.NewNop())

	n := sampleNotice()
	stream, unsubscribe := hub.Subscribe(n.UserID)
	defer unsubscribe()

	assert.NotPanics(t, func() { d.Deliver(context.Background(), n) })

	assert.Len(t, mailer.sent, 1)
	assert.Len(t, events.events, 1)
	assert.Len(t, stream, 1)
}

func TestDispatcher_DispatchSurvivesCancelledRequest(t *testing.T) {
	inbox := &memoryInbox{}
	d := NewDispatcher(inbox, nil, nil, nil, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := sampleNotice()
	n.Email = ""
	d.Dispatch(ctx, n)
	d.Wait()

	inbox.mu.Lock()
	defer inbox.mu.Unlock()
	assert.Len(t, inbox.records, 1)
}
