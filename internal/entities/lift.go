package entities

import "time"

type AssignLiftRequest struct {
	BookingCode   string `json:"booking_code"`
	BlockID       string `json:"block_id"`
	VehicleNumber string `json:"vehicle_number"`
}

// AssignLiftResponse reports either an assignment or wait mode; when both
// lifts in the block are busy the caller is expected to poll again.
type AssignLiftResponse struct {
	Assigned bool          `json:"assigned"`
	Waiting  bool          `json:"waiting"`
	Message  string        `json:"message"`
	Lift     *LiftResponse `json:"lift,omitempty"`
}

type ReleaseLiftRequest struct {
	LiftCode    string `json:"lift_code"`
	BookingCode string `json:"booking_code,omitempty"`
}

type UpdateLiftStatusRequest struct {
	Status string `json:"status"`
}

type UpdateLiftSensorRequest struct {
	Present bool   `json:"present"`
	Floor   string `json:"floor,omitempty"`
}

type LiftResponse struct {
	Code               string     `json:"code"`
	BlockID            string     `json:"block_id"`
	LiftNumber         int        `json:"lift_number"`
	Status             string     `json:"status"`
	CurrentBookingCode string     `json:"current_booking_code,omitempty"`
	CurrentVehicle     string     `json:"current_vehicle,omitempty"`
	AssignedAt         *time.Time `json:"assigned_at,omitempty"`
	ReleasedAt         *time.Time `json:"released_at,omitempty"`
	SensorPresent      bool       `json:"sensor_present"`
	Floor              string     `json:"floor"`
	LastActivity       time.Time  `json:"last_activity"`
}
