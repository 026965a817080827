package service

import (
	"context"
	"log"
	"time"

	"liftpark/internal/repository"
)

// JobService runs the scheduled cleanup: bookings stuck in payment_pending
// past the TTL are cancelled so their spots return to the pool.
type JobService struct {
	bookings   repository.BookingRepository
	bookingSvc *BookingService
	pendingTTL time.Duration
}

func NewJobService(bookings repository.BookingRepository, bookingSvc *BookingService, pendingTTL time.Duration) *JobService {
	return &JobService{bookings: bookings, bookingSvc: bookingSvc, pendingTTL: pendingTTL}
}

func (s *JobService) ExpireStalePendingBookings() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.pendingTTL)

	stale, err := s.bookings.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Cron job: could not list stale pending bookings: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Printf("Cron job: expiring %d stale payment_pending bookings", len(stale))
	for i := range stale {
		// Cancel races with a concurrent payment; losing that race is fine.
		if err := s.bookingSvc.Cancel(ctx, stale[i].Code); err != nil {
			log.Printf("Cron job: could not cancel booking %s: %v", stale[i].Code, err)
		}
	}
}
