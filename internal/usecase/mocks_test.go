package usecase

import (
	"context"
	"sync"
	"time"

	"venue-booking/internal/availability"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/notify"
	"venue-booking/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockSessionRepo) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}
func (m *MockSessionRepo) Revoke(ctx context.Context, token uuid.UUID) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockVenueRepo struct {
	mock.Mock
}

func (m *MockVenueRepo) Create(ctx context.Context, venue *entity.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}
func (m *MockVenueRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Venue), args.Error(1)
}
func (m *MockVenueRepo) FindAll(ctx context.Context, city string, limit, offset int) ([]*entity.Venue, error) {
	args := m.Called(ctx, city, limit, offset)
	return args.Get(0).([]*entity.Venue), args.Error(1)
}
func (m *MockVenueRepo) CountAll(ctx context.Context, city string) (int64, error) {
	args := m.Called(ctx, city)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockVenueRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Venue, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*entity.Venue), args.Error(1)
}
func (m *MockVenueRepo) Update(ctx context.Context, venue *entity.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}
func (m *MockVenueRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type MockPricingRepo struct {
	mock.Mock
}

func (m *MockPricingRepo) FindByVenueAndType(ctx context.Context, venueID uuid.UUID, durationType pricing.DurationType) (*entity.PricingRule, error) {
	args := m.Called(ctx, venueID, durationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PricingRule), args.Error(1)
}
func (m *MockPricingRepo) FindByVenue(ctx context.Context, venueID uuid.UUID) ([]*entity.PricingRule, error) {
	args := m.Called(ctx, venueID)
	return args.Get(0).([]*entity.PricingRule), args.Error(1)
}
func (m *MockPricingRepo) UpsertAndReprice(ctx context.Context, rule *entity.PricingRule, now time.Time) (repository.RepriceResult, error) {
	args := m.Called(ctx, rule, now)
	return args.Get(0).(repository.RepriceResult), args.Error(1)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateIfAvailable(ctx context.Context, booking *entity.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingWithVenue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookingWithVenue), args.Error(1)
}
func (m *MockBookingRepo) FindActiveOverlapping(ctx context.Context, venueID uuid.UUID, slot availability.Interval) ([]availability.Interval, error) {
	args := m.Called(ctx, venueID, slot)
	return args.Get(0).([]availability.Interval), args.Error(1)
}
func (m *MockBookingRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.BookingWithVenue, error) {
	args := m.Called(ctx, customerID, limit, offset)
	return args.Get(0).([]*entity.BookingWithVenue), args.Error(1)
}
func (m *MockBookingRepo) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.BookingWithVenue, error) {
	args := m.Called(ctx, ownerID, status, limit, offset)
	return args.Get(0).([]*entity.BookingWithVenue), args.Error(1)
}
func (m *MockBookingRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatusByOwner(ctx context.Context, bookingID, ownerID uuid.UUID, status entity.BookingStatus) (bool, error) {
	args := m.Called(ctx, bookingID, ownerID, status)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) Cancel(ctx context.Context, bookingID, customerID uuid.UUID, reason string) (*entity.CancelledBooking, error) {
	args := m.Called(ctx, bookingID, customerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CancelledBooking), args.Error(1)
}
func (m *MockBookingRepo) FindCancelledByID(ctx context.Context, id uuid.UUID) (*entity.CancelledBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CancelledBooking), args.Error(1)
}
func (m *MockBookingRepo) FindCancelledByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CancelledBooking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*entity.CancelledBooking), args.Error(1)
}
func (m *MockBookingRepo) FindApprovedWithDueBetween(ctx context.Context, from, to time.Time) ([]*entity.BookingWithVenue, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*entity.BookingWithVenue), args.Error(1)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Record(ctx context.Context, payment *entity.Payment) (decimal.Decimal, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockPaymentRepo) FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]*entity.Payment), args.Error(1)
}
func (m *MockPaymentRepo) SuccessfulBookings(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, bookingIDs)
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

type MockRefundRepo struct {
	mock.Mock
}

func (m *MockRefundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}
func (m *MockRefundRepo) FindCancelledCandidates(ctx context.Context, filter entity.RefundCandidateFilter) ([]entity.RefundCandidate, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entity.RefundCandidate), args.Error(1)
}
func (m *MockRefundRepo) FindRejectedCandidates(ctx context.Context, filter entity.RefundCandidateFilter) ([]entity.RefundCandidate, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entity.RefundCandidate), args.Error(1)
}
func (m *MockRefundRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Refund, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*entity.Refund), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*entity.Notification), args.Error(1)
}
func (m *MockNotificationRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

// recordingNotifier keeps every notice it was asked to dispatch.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (n *recordingNotifier) Dispatch(_ context.Context, notice notify.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) sent() []notify.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notice(nil), n.notices...)
}

type mocks struct {
	user     *MockUserRepo
	session  *MockSessionRepo
	venue    *MockVenueRepo
	pricing  *MockPricingRepo
	booking  *MockBookingRepo
	payment  *MockPaymentRepo
	refund   *MockRefundRepo
	notes    *MockNotificationRepo
	notifier *recordingNotifier
}

func newMocks() (*mocks, *repository.Repository) {
	m := &mocks{
		user:     new(MockUserRepo),
		session:  new(MockSessionRepo),
		venue:    new(MockVenueRepo),
		pricing:  new(MockPricingRepo),
		booking:  new(MockBookingRepo),
		payment:  new(MockPaymentRepo),
		refund:   new(MockRefundRepo),
		notes:    new(MockNotificationRepo),
		notifier: &recordingNotifier{},
	}
	repo := &repository.Repository{
		User:         m.user,
		Session:      m.session,
		Venue:        m.venue,
		Pricing:      m.pricing,
		Booking:      m.booking,
		Payment:      m.payment,
		Refund:       m.refund,
		Notification: m.notes,
	}
	return m, repo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
