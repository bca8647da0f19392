package stalls

// CreateStallRequest is the staff payload for adding a stall to the catalog
type CreateStallRequest struct {
	StallNumber string  `json:"stall_number" validate:"required,min=2,max=20"`
	StallName   string  `json:"stall_name" validate:"required,min=2,max=100"`
	Size        string  `json:"size" validate:"required,oneof=SMALL MEDIUM LARGE"`
	Location    string  `json:"location" validate:"required,min=1,max=50"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}

// UpdateStallRequest carries partial catalog edits
type UpdateStallRequest struct {
	StallName   *string  `json:"stall_name,omitempty" validate:"omitempty,min=2,max=100"`
	Size        *string  `json:"size,omitempty" validate:"omitempty,oneof=SMALL MEDIUM LARGE"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,min=1,max=50"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

// UpdateStallStatusRequest sets the availability state directly
type UpdateStallStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE RESERVED UNAVAILABLE"`
}

// StallListQuery holds catalog listing filters
type StallListQuery struct {
	Status string `form:"status"`
	Size   string `form:"size"`
}
