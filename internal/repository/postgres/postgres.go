package postgres

import (
	"database/sql"

	"liftpark/internal/repository"
)

// Store bundles the repository implementations sharing one connection pool.
type Store struct {
	Users    repository.UserRepository
	Lots     repository.LotRepository
	Spots    repository.SpotRepository
	Bookings repository.BookingRepository
	Lifts    repository.LiftRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Lots:     NewLotRepository(db),
		Spots:    NewSpotRepository(db),
		Bookings: NewBookingRepository(db),
		Lifts:    NewLiftRepository(db),
	}
}
