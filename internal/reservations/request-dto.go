package reservations

// CreateReservationRequest is the vendor payload for booking stalls
type CreateReservationRequest struct {
	StallIDs        []string `json:"stall_ids" validate:"required,min=1,dive,uuid4"`
	ReservationDate string   `json:"reservation_date" validate:"required"` // YYYY-MM-DD
}

// ReservationListQuery holds staff listing filters
type ReservationListQuery struct {
	Status   string `form:"status"`
	UserID   string `form:"user_id"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}
