package entity

import (
	"github.com/google/uuid"
)

type Venue struct {
	BaseNoDelete
	OwnerID     uuid.UUID `db:"owner_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Address     string    `db:"address"`
	City        string    `db:"city"`
	Capacity    int       `db:"capacity"`
}

// OwnedBy reports whether userID may manage the venue.
func (v *Venue) OwnedBy(userID uuid.UUID) bool {
	return v != nil && v.OwnerID == userID
}
