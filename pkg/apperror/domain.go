package apperror

// Domain sentinels. Match with errors.Is; attach causes with Wrap.
var (
	ErrVenueNotFound        = NotFound("venue not found")
	ErrBookingNotFound      = NotFound("booking not found")
	ErrPricingNotFound      = NotFound("pricing not found for this duration type")
	ErrUserNotFound         = NotFound("user not found")
	ErrNotificationNotFound = NotFound("notification not found")

	ErrUnauthorized       = Unauthorized("not allowed to act on this resource")
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	ErrAccountInactive    = Unauthorized("account is deactivated")

	ErrInvalidAmount   = InvalidInput("amount must be greater than zero")
	ErrTotalOutOfRange = InvalidInput("booking total exceeds the largest supported amount")

	ErrSlotUnavailable     = Conflict("venue is not available for the requested slot")
	ErrInvalidTransition   = Conflict("booking status does not allow this change")
	ErrOverpaymentRejected = Conflict("payment exceeds the amount due")
	ErrRefundNotAllowed    = Conflict("booking is not eligible for a refund")
	ErrDuplicateRefund     = Conflict("refund already issued for this booking")
	ErrVenueHasBookings    = Conflict("venue still has bookings")
	ErrEmailTaken          = Conflict("email already registered")
)
