package notify

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Message struct {
	Title string
	Body  string
}

const dateLayout = "02 Jan 2006 15:04 MST"

func BookingRequested(venueName, bookingCode, customerName string, start time.Time, total decimal.Decimal) Message {
	return Message{
		Title: "New booking request",
		Body: fmt.Sprintf("%s requested %s on %s (booking %s, total %s). Approve or reject it from your dashboard.",
			customerName, venueName, start.Format(dateLayout), bookingCode, total.StringFixed(2)),
	}
}

func BookingDecided(venueName, bookingCode string, approved bool) Message {
	if approved {
		return Message{
			Title: "Booking approved",
			Body:  fmt.Sprintf("Your booking %s at %s has been approved.", bookingCode, venueName),
		}
	}
	return Message{
		Title: "Booking rejected",
		Body:  fmt.Sprintf("Your booking %s at %s has been rejected by the venue owner.", bookingCode, venueName),
	}
}

func BookingCancelled(venueName, bookingCode, reason string) Message {
	return Message{
		Title: "Booking cancelled",
		Body:  fmt.Sprintf("Booking %s at %s was cancelled by the customer. Reason: %s", bookingCode, venueName, reason),
	}
}

func PaymentReceived(bookingCode string, amount, due decimal.Decimal) Message {
	return Message{
		Title: "Payment received",
		Body: fmt.Sprintf("A payment of %s was recorded for booking %s. Remaining due: %s.",
			amount.StringFixed(2), bookingCode, due.StringFixed(2)),
	}
}

func RefundIssued(bookingCode string, amount decimal.Decimal, remarks string) Message {
	body := fmt.Sprintf("A refund of %s has been issued for booking %s.", amount.StringFixed(2), bookingCode)
	if remarks != "" {
		body += " Remarks: " + remarks
	}
	return Message{Title: "Refund issued", Body: body}
}

func PaymentReminder(venueName, bookingCode string, start time.Time, due decimal.Decimal) Message {
	return Message{
		Title: "Payment due",
		Body: fmt.Sprintf("Your booking %s at %s starts %s. %s is still due.",
			bookingCode, venueName, start.Format(dateLayout), due.StringFixed(2)),
	}
}
