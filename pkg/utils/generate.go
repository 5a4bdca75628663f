package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ==================== BOOKING CODE ====================

// GenerateBookingCode derives the human readable code shown to customers.
// Format: BK-VVVV-CCCC-BBBBBBBB (venue, customer, booking id prefixes)
func GenerateBookingCode(venueID, customerID, bookingID uuid.UUID) string {
	return strings.ToUpper(fmt.Sprintf("BK-%s-%s-%s",
		shortHex(venueID, 4),
		shortHex(customerID, 4),
		shortHex(bookingID, 8),
	))
}

func shortHex(id uuid.UUID, n int) string {
	return strings.ReplaceAll(id.String(), "-", "")[:n]
}
