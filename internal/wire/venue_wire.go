package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireVenue mounts the public catalogue. Owner-side venue routes live in
// wireOwner.
func wireVenue(
	r chi.Router,
	venueHandler *adaptor.VenueHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/venues", func(r chi.Router) {
		r.Get("/", venueHandler.ListVenues)
		r.Get("/{id}", venueHandler.GetVenue)
		r.Get("/{id}/pricing", venueHandler.ListPrices)
		r.Get("/{id}/availability", venueHandler.CheckAvailability)
	})
}
