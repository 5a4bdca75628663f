package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type VenueResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func VenueToResponse(v *entity.Venue) VenueResponse {
	return VenueResponse{
		ID:          v.ID.String(),
		OwnerID:     v.OwnerID.String(),
		Name:        v.Name,
		Description: v.Description,
		Address:     v.Address,
		City:        v.City,
		Capacity:    v.Capacity,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
