package db

import "time"

// Spot statuses.
const (
	SpotAvailable = "available"
	SpotOccupied  = "occupied"
)

// Booking lifecycle statuses.
const (
	BookingPaymentPending = "payment_pending"
	BookingPaid           = "paid"
	BookingParked         = "parked"
	BookingCompleted      = "completed"
	BookingCancelled      = "cancelled"
)

// Lift statuses.
const (
	LiftAvailable   = "available"
	LiftOccupied    = "occupied"
	LiftInTransit   = "in_transit"
	LiftMaintenance = "maintenance"
)

// Vehicle types recognised by the billing tiers.
const (
	VehicleCar  = "CAR"
	VehicleBike = "BIKE"
)

type User struct {
	ID           int
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// ParkingLot is one block of the garage. BlockID is the public identifier
// (e.g. "BLOCK-A"); Capacity is the number of spots the block can hold.
type ParkingLot struct {
	ID           int
	BlockID      string
	Name         string
	Address      string
	PricePerHour int
	Capacity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ParkingSpot belongs to exactly one lot. SpotIndex is 1-based and unique
// within the lot; Label is lot-name-initial + index (e.g. "A-7").
type ParkingSpot struct {
	ID        int
	LotID     int
	SpotIndex int
	Label     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LotSummary is recomputed on demand, never stored.
type LotSummary struct {
	LotID     int
	BlockID   string
	Capacity  int
	Occupied  int
	Available int
}

type BlockCount struct {
	BlockID string
	Active  int
}

type Booking struct {
	ID              int
	Code            string
	UserID          int
	VehicleNumber   string
	VehicleType     string
	BlockID         string
	LotID           int
	SpotID          int
	SpotLabel       string
	Status          string
	TransactionID   string
	StripeSessionID string
	AssignedLift    string
	LiftAssignedAt  *time.Time
	LiftReleasedAt  *time.Time
	BookingTime     time.Time
	EntryTime       *time.Time
	ExitTime        *time.Time
	ParkingCost     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Lift is one elevator in a block. CurrentBookingCode is non-empty iff
// Status is occupied. LastActivity drives least-recently-used assignment.
type Lift struct {
	ID                 int
	Code               string
	BlockID            string
	LiftNumber         int
	Status             string
	CurrentBookingCode string
	CurrentVehicle     string
	AssignedAt         *time.Time
	ReleasedAt         *time.Time
	SensorPresent      bool
	Floor              string
	LastActivity       time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
