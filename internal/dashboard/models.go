package dashboard

// DashboardStats is the staff overview of the fair.
type DashboardStats struct {
	Reservations ReservationStats `json:"reservations"`
	Stalls       StallStats       `json:"stalls"`
	Revenue      RevenueStats     `json:"revenue"`
	DailyTrend   []DailyCount     `json:"daily_trend"`
}

// ReservationStats breaks reservations down by lifecycle status.
type ReservationStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
}

// StallStats describes the stall inventory and how much of it is taken.
type StallStats struct {
	Total         int64            `json:"total"`
	Available     int64            `json:"available"`
	Reserved      int64            `json:"reserved"`
	Unavailable   int64            `json:"unavailable"`
	BySize        map[string]int64 `json:"by_size"`
	OccupancyRate float64          `json:"occupancy_rate"`
}

type RevenueStats struct {
	ConfirmedRevenue float64 `json:"confirmed_revenue"`
}

// DailyCount is one day in the reservation trend series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
