package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/user/notifications", func(r chi.Router) {
		r.Use(authenticated(repo, config, log))

		r.Get("/", notificationHandler.List)
		r.Get("/stream", notificationHandler.Stream)
		r.Put("/{id}/read", notificationHandler.MarkRead)
	})
}
