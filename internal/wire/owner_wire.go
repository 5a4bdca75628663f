package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireOwner mounts the owner dashboard. Admins pass the role check too; the
// services still enforce venue ownership per request.
func wireOwner(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/owner", func(r chi.Router) {
		r.Use(authenticated(repo, config, log))
		r.Use(middleware.RequireRole(log, entity.RoleOwner, entity.RoleAdmin))

		r.Get("/venues", handler.Venue.ListOwnerVenues)
		r.Post("/venues", handler.Venue.CreateVenue)
		r.Put("/venues/{id}", handler.Venue.UpdateVenue)
		r.Delete("/venues/{id}", handler.Venue.DeleteVenue)
		r.Put("/venues/{id}/pricing", handler.Venue.SetPrice)

		r.Get("/bookings", handler.Booking.GetOwnerBookings)
		r.Put("/bookings/{id}/status", handler.Booking.UpdateStatus)

		r.Get("/refunds/candidates", handler.Refund.GetCandidates)
		r.Post("/refunds", handler.Refund.ProcessRefund)
		r.Get("/refunds", handler.Refund.GetRefunds)
	})
}
