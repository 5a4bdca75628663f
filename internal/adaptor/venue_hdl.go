package adaptor

import (
	"net/http"
	"time"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/pricing"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

// VenueHandler serves the venue catalogue with its pricing and calendar.
type VenueHandler struct {
	venues       usecase.VenueService
	pricing      usecase.PricingService
	availability usecase.AvailabilityService
	log          *zap.Logger
}

func NewVenueHandler(
	venues usecase.VenueService,
	pricing usecase.PricingService,
	availability usecase.AvailabilityService,
	log *zap.Logger,
) *VenueHandler {
	return &VenueHandler{
		venues:       venues,
		pricing:      pricing,
		availability: availability,
		log:          log.With(zap.String("handler", "venue")),
	}
}

// ListVenues handles GET /api/venues
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	req := request.ListVenuesRequest{
		PaginatedRequest: paging(r),
		City:             r.URL.Query().Get("city"),
	}

	venues, err := h.venues.ListVenues(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "list venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// GetVenue handles GET /api/venues/{id}
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	venueID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	venue, err := h.venues.GetVenue(r.Context(), venueID)
	if err != nil {
		respondError(w, h.log, err, "get venue")
		return
	}

	utils.ResponseSuccess(w, "success", venue)
}

// ListPrices handles GET /api/venues/{id}/pricing
func (h *VenueHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	venueID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	prices, err := h.pricing.ListPrices(r.Context(), venueID)
	if err != nil {
		respondError(w, h.log, err, "list prices")
		return
	}

	utils.ResponseSuccess(w, "success", prices)
}

// CheckAvailability handles GET /api/venues/{id}/availability
// ?start=RFC3339&duration_type=0|1|2&hours=&days=
// duration_hours and duration_days are accepted as the long names.
func (h *VenueHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	venueID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		utils.ResponseBadRequest(w, "start must be an RFC3339 timestamp", nil)
		return
	}
	durationType, err := pricing.ParseDurationType(query.Get("duration_type"))
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	req := request.AvailabilityRequest{
		Start:         start,
		DurationType:  durationType,
		DurationHours: utils.ParseInt(firstOf(query.Get("duration_hours"), query.Get("hours")), 0),
		DurationDays:  utils.ParseInt(firstOf(query.Get("duration_days"), query.Get("days")), 0),
	}

	slot, err := h.availability.CheckSlot(r.Context(), venueID, &req)
	if err != nil {
		respondError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", slot)
}

// ListOwnerVenues handles GET /api/owner/venues
func (h *VenueHandler) ListOwnerVenues(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	venues, err := h.venues.ListOwnerVenues(r.Context(), ownerID)
	if err != nil {
		respondError(w, h.log, err, "list owner venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// CreateVenue handles POST /api/owner/venues
func (h *VenueHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.VenueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	venue, err := h.venues.CreateVenue(r.Context(), ownerID, &req)
	if err != nil {
		respondError(w, h.log, err, "create venue")
		return
	}

	utils.ResponseCreated(w, "Venue created", venue)
}

// UpdateVenue handles PUT /api/owner/venues/{id}
func (h *VenueHandler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.VenueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	venue, err := h.venues.UpdateVenue(r.Context(), ownerID, venueID, &req)
	if err != nil {
		respondError(w, h.log, err, "update venue")
		return
	}

	utils.ResponseSuccess(w, "Venue updated", venue)
}

// DeleteVenue handles DELETE /api/owner/venues/{id}
func (h *VenueHandler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.venues.DeleteVenue(r.Context(), ownerID, venueID); err != nil {
		respondError(w, h.log, err, "delete venue")
		return
	}

	utils.ResponseSuccess(w, "Venue deleted", nil)
}

// SetPrice handles PUT /api/owner/venues/{id}/pricing
func (h *VenueHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.SetPriceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.pricing.SetPrice(r.Context(), ownerID, venueID, &req)
	if err != nil {
		respondError(w, h.log, err, "set price")
		return
	}

	utils.ResponseSuccess(w, "Price updated", result)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
