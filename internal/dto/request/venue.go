package request

type VenueRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Address     string  `json:"address" validate:"required,max=255"`
	City        string  `json:"city" validate:"required,max=100"`
	Capacity    int     `json:"capacity" validate:"min=1"`
}

type ListVenuesRequest struct {
	PaginatedRequest
	City string `json:"city"`
}
