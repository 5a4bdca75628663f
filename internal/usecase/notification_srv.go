package usecase

import (
	"context"

	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/notify"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	// Subscribe opens a realtime stream for userID. Call the returned func
	// when the client goes away.
	Subscribe(userID uuid.UUID) (<-chan notify.Event, func())
}

type notificationService struct {
	store repository.NotificationRepository
	hub   *notify.Hub
	log   *zap.Logger
}

func NewNotificationService(store repository.NotificationRepository, hub *notify.Hub, log *zap.Logger) NotificationService {
	return &notificationService{
		store: store,
		hub:   hub,
		log:   log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.NotificationListResponse, error) {
	page, perPage := utils.NormalizePage(req.Page, req.PerPage)

	items, err := s.store.FindByUser(ctx, userID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, apperror.Internal("failed to list notifications", err)
	}

	total, unread, err := s.store.CountByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to count notifications", err)
	}

	data := make([]response.NotificationResponse, 0, len(items))
	for _, n := range items {
		data = append(data, response.NotificationToResponse(n))
	}

	paged := response.NewPaginatedResponse(data, page, perPage, total)
	return &response.NotificationListResponse{
		Data:       paged.Data,
		Pagination: paged.Pagination,
		Unread:     unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.store.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return apperror.Internal("failed to mark notification read", err)
	}
	if !ok {
		return apperror.ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) Subscribe(userID uuid.UUID) (<-chan notify.Event, func()) {
	ch, unsubscribe := s.hub.Subscribe(userID)
	s.log.Debug("Realtime stream opened",
		zap.String("user_id", userID.String()),
		zap.Int("streams", s.hub.Connections(userID)))
	return ch, unsubscribe
}
