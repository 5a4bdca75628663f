// Package pricing holds the duration-type rules shared by booking creation,
// owner re-pricing and the read-time projection of pending bookings.
package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DurationType selects how a rule's price multiplies.
type DurationType int

const (
	PerHour DurationType = iota
	PerDay
	PerEvent
)

// A booking spans at most a leap year.
const (
	MaxHours = 24 * 366
	MaxDays  = 366
)

// MaxAmount is the largest value a NUMERIC(12,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

var (
	ErrUnknownDurationType = errors.New("unknown duration type")
	ErrInvalidDuration     = errors.New("invalid booking duration")
	ErrAmountOutOfRange    = errors.New("amount out of range")
)

var durationNames = map[DurationType]string{
	PerHour:  "per_hour",
	PerDay:   "per_day",
	PerEvent: "per_event",
}

func (d DurationType) Valid() bool {
	_, ok := durationNames[d]
	return ok
}

func (d DurationType) String() string {
	if name, ok := durationNames[d]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(d)) + ")"
}

// ParseDurationType accepts the numeric enum ("0", "1", "2") or a name such
// as "per_hour" or "PerHour".
func ParseDurationType(value string) (DurationType, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		d := DurationType(n)
		if !d.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrUnknownDurationType, n)
		}
		return d, nil
	}

	normalized := strings.ToLower(strings.ReplaceAll(value, "_", ""))
	for d, name := range durationNames {
		if strings.ReplaceAll(name, "_", "") == normalized {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDurationType, value)
}

func (d *DurationType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseDurationType(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownDurationType, string(data))
	}
	if !DurationType(n).Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownDurationType, n)
	}
	*d = DurationType(n)
	return nil
}

// ValidateDuration checks that the quantity the type multiplies by is present
// and within MaxHours or MaxDays. PerEvent only rejects negative hours since
// its hours are optional.
func ValidateDuration(d DurationType, hours, days int) error {
	switch d {
	case PerHour:
		if hours <= 0 {
			return fmt.Errorf("%w: per-hour booking needs hours > 0", ErrInvalidDuration)
		}
		if hours > MaxHours {
			return fmt.Errorf("%w: hours cannot exceed %d", ErrInvalidDuration, MaxHours)
		}
	case PerDay:
		if days <= 0 {
			return fmt.Errorf("%w: per-day booking needs days > 0", ErrInvalidDuration)
		}
		if days > MaxDays {
			return fmt.Errorf("%w: days cannot exceed %d", ErrInvalidDuration, MaxDays)
		}
	case PerEvent:
		if hours < 0 {
			return fmt.Errorf("%w: hours cannot be negative", ErrInvalidDuration)
		}
		if hours > MaxHours {
			return fmt.Errorf("%w: hours cannot exceed %d", ErrInvalidDuration, MaxHours)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownDurationType, int(d))
	}
	return nil
}

// ValidateAmount rejects amounts the money columns cannot store.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s exceeds %s", ErrAmountOutOfRange, amount.String(), MaxAmount.String())
	}
	return nil
}

// Total is price x hours for PerHour, price x days for PerDay and the flat
// price for PerEvent.
func Total(d DurationType, price decimal.Decimal, hours, days int) decimal.Decimal {
	switch d {
	case PerHour:
		return price.Mul(decimal.NewFromInt(int64(hours)))
	case PerDay:
		return price.Mul(decimal.NewFromInt(int64(days)))
	default:
		return price
	}
}

// Occupancy is the span a booking blocks on the venue calendar. PerEvent
// bookings without explicit hours block perEventDefault.
func Occupancy(d DurationType, hours, days int, perEventDefault time.Duration) time.Duration {
	switch d {
	case PerHour:
		return time.Duration(hours) * time.Hour
	case PerDay:
		return time.Duration(days) * 24 * time.Hour
	default:
		if hours > 0 {
			return time.Duration(hours) * time.Hour
		}
		return perEventDefault
	}
}

// Projection is the stored state of a booking as seen by a read.
type Projection struct {
	StoredTotal  decimal.Decimal
	PaidAmount   decimal.Decimal
	Pending      bool
	StartsAt     time.Time
	DurationType DurationType
	Hours        int
	Days         int
}

// Project returns the total a reader should see. The stored total is
// authoritative unless the booking is still pending and in the future, in
// which case the current price is applied, never dropping below what was
// already paid. A nil currentPrice means the rule is gone.
func Project(p Projection, currentPrice *decimal.Decimal, now time.Time) decimal.Decimal {
	if !p.Pending || !p.StartsAt.After(now) || currentPrice == nil {
		return p.StoredTotal
	}

	total := Total(p.DurationType, *currentPrice, p.Hours, p.Days)
	if total.LessThan(p.PaidAmount) {
		return p.StoredTotal
	}
	return total
}
