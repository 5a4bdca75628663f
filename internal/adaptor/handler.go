package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/pricing"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Venue        *VenueHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Refund       *RefundHandler
	Notification *NotificationHandler
	Admin        *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Venue:        NewVenueHandler(service.Venue, service.Pricing, service.Availability, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Refund:       NewRefundHandler(service.Refund, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Admin:        NewAdminHandler(service.Stats, log),
	}
}

// respondError answers with the status of err's kind. Internal failures are
// logged with the operation that hit them and never reach the client.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	if apperror.KindOf(err) == apperror.KindInternal {
		log.Error(operation+" failed", zap.Error(err))
	} else {
		log.Debug(operation+" rejected", zap.Error(err))
	}
	utils.ResponseError(w, err)
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody reads a JSON body into dst and runs its validation tags.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, pricing.ErrUnknownDurationType) {
			utils.ResponseBadRequest(w, err.Error(), nil)
			return false
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func paging(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), utils.DefaultPerPage),
	}
}
