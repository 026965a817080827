package entities

import "time"

type CreateBookingRequest struct {
	VehicleNumber string `json:"vehicle_number"`
	VehicleType   string `json:"vehicle_type"`
	BlockID       string `json:"block_id"`
}

type CreateBookingResponse struct {
	Code        string `json:"code"`
	BlockID     string `json:"block_id"`
	SpotLabel   string `json:"spot_label"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type MarkPaidRequest struct {
	TransactionID string `json:"transaction_id"`
}

type CompleteBookingRequest struct {
	VehicleType string     `json:"vehicle_type"`
	ExitTime    *time.Time `json:"exit_time,omitempty"`
}

type CompleteBookingResponse struct {
	Code          string  `json:"code"`
	Cost          int     `json:"cost"`
	DurationHours float64 `json:"duration_hours"`
}

type BookingResponse struct {
	Code           string     `json:"code"`
	VehicleNumber  string     `json:"vehicle_number"`
	VehicleType    string     `json:"vehicle_type"`
	BlockID        string     `json:"block_id"`
	SpotLabel      string     `json:"spot_label"`
	Status         string     `json:"status"`
	AssignedLift   string     `json:"assigned_lift,omitempty"`
	BookingTime    time.Time  `json:"booking_time"`
	EntryTime      *time.Time `json:"entry_time,omitempty"`
	ExitTime       *time.Time `json:"exit_time,omitempty"`
	ParkingCost    int        `json:"parking_cost"`
	LiftReleasedAt *time.Time `json:"lift_released_at,omitempty"`
}
