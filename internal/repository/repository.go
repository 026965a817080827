package repository

import (
	"context"
	"time"

	"liftpark/internal/db"
)

type UserRepository interface {
	Create(ctx context.Context, user *db.User) error
	GetByUsername(ctx context.Context, username string) (*db.User, error)
	GetByID(ctx context.Context, id int) (*db.User, error)
}

type LotRepository interface {
	Create(ctx context.Context, lot *db.ParkingLot) error
	Update(ctx context.Context, lot *db.ParkingLot) error
	GetByID(ctx context.Context, id int) (*db.ParkingLot, error)
	GetByBlockID(ctx context.Context, blockID string) (*db.ParkingLot, error)
	List(ctx context.Context) ([]db.ParkingLot, error)
	// Summary recomputes occupied/available from spot rows, clamped so
	// occupied never exceeds capacity and available never goes negative.
	Summary(ctx context.Context, lotID int) (*db.LotSummary, error)
}

type SpotRepository interface {
	// EnsureSpots creates any missing spot rows for indices 1..capacity.
	// Safe to call concurrently; the (lot_id, spot_index) uniqueness
	// constraint makes duplicate fills a no-op. Returns rows created.
	EnsureSpots(ctx context.Context, lotID, capacity int, labelPrefix string) (int, error)
	// ClaimFirstAvailable atomically flips the lowest-index available spot
	// to occupied. Returns nil when no spot is available.
	ClaimFirstAvailable(ctx context.Context, lotID int) (*db.ParkingSpot, error)
	// Release flips an occupied spot back to available. Returns false when
	// the spot was not occupied (double release is a no-op).
	Release(ctx context.Context, spotID int) (bool, error)
	ListByLot(ctx context.Context, lotID int) ([]db.ParkingSpot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *db.Booking) error
	GetByCode(ctx context.Context, code string) (*db.Booking, error)
	// ActiveByVehicle returns the booking holding the vehicle's active
	// claim (payment_pending, paid or parked), or nil.
	ActiveByVehicle(ctx context.Context, vehicleNumber string) (*db.Booking, error)
	ListByUser(ctx context.Context, userID int, activeOnly bool) ([]db.Booking, error)
	BlockCounts(ctx context.Context) ([]db.BlockCount, error)

	// Conditional transitions. Each returns false when the row was not in
	// a state the transition is legal from.
	MarkPaid(ctx context.Context, code, transactionID string, entry time.Time) (bool, error)
	MarkParked(ctx context.Context, code string) (bool, error)
	Complete(ctx context.Context, code string, exit time.Time, vehicleType string, cost int) (bool, error)
	Cancel(ctx context.Context, code string) (bool, error)

	SetLift(ctx context.Context, code, liftCode string, at time.Time) error
	StampLiftReleased(ctx context.Context, code string, at time.Time) error

	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]db.Booking, error)
}

type LiftRepository interface {
	// EnsureForBlock creates lifts 1..count for a block if missing.
	// Idempotent; returns rows created.
	EnsureForBlock(ctx context.Context, blockID string, count int) (int, error)
	GetByCode(ctx context.Context, code string) (*db.Lift, error)
	List(ctx context.Context) ([]db.Lift, error)
	ListByBlock(ctx context.Context, blockID string) ([]db.Lift, error)
	// ClaimAvailable atomically marks the least-recently-active available
	// lift in the block as occupied by the booking. Returns nil when both
	// lifts are busy.
	ClaimAvailable(ctx context.Context, blockID, bookingCode, vehicleNumber string, now time.Time) (*db.Lift, error)
	// Release resets the lift to available and clears its booking. Returns
	// false when the lift does not exist.
	Release(ctx context.Context, code string, now time.Time) (bool, error)
	UpdateStatus(ctx context.Context, code, status string, now time.Time) (bool, error)
	UpdateSensor(ctx context.Context, code string, present bool, floor string, now time.Time) (bool, error)
}
