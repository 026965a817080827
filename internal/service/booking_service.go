package service

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"liftpark/internal/db"
	"liftpark/internal/entities"
	apperrors "liftpark/internal/errors"
	"liftpark/internal/repository"
)

var vehicleNumberRe = regexp.MustCompile(`^[A-Z]{2}\d{1,2}[A-Z]{1,2}\d{4}$`)

type BookingService struct {
	bookings   repository.BookingRepository
	lots       repository.LotRepository
	lifts      repository.LiftRepository
	users      repository.UserRepository
	allocation *AllocationService
	payments   *PaymentService
	notifier   *NotifyService
}

func NewBookingService(
	bookings repository.BookingRepository,
	lots repository.LotRepository,
	lifts repository.LiftRepository,
	users repository.UserRepository,
	allocation *AllocationService,
	payments *PaymentService,
	notifier *NotifyService,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		lots:       lots,
		lifts:      lifts,
		users:      users,
		allocation: allocation,
		payments:   payments,
		notifier:   notifier,
	}
}

func newBookingCode() string {
	return "BK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Create claims a spot in the requested block and opens a booking in
// payment_pending. A vehicle may hold at most one active booking.
func (s *BookingService) Create(ctx context.Context, userID int, req entities.CreateBookingRequest) (*entities.CreateBookingResponse, error) {
	vehicle := strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if !vehicleNumberRe.MatchString(vehicle) {
		return nil, apperrors.InvalidArgument("invalid vehicle number format: %q", req.VehicleNumber)
	}
	vehicleType := strings.ToUpper(req.VehicleType)
	if vehicleType == "" {
		vehicleType = db.VehicleCar
	}
	if vehicleType != db.VehicleCar && vehicleType != db.VehicleBike {
		return nil, apperrors.InvalidArgument("unknown vehicle type %q", req.VehicleType)
	}

	existing, err := s.bookings.ActiveByVehicle(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("vehicle %s already has an active booking (%s)", vehicle, existing.Code)
	}

	lot, err := s.lots.GetByBlockID(ctx, req.BlockID)
	if err != nil {
		return nil, err
	}

	spot, err := s.allocation.AllocateSpot(ctx, lot)
	if err != nil {
		return nil, err
	}

	booking := &db.Booking{
		Code:          newBookingCode(),
		UserID:        userID,
		VehicleNumber: vehicle,
		VehicleType:   vehicleType,
		BlockID:       lot.BlockID,
		LotID:         lot.ID,
		SpotID:        spot.ID,
		SpotLabel:     spot.Label,
		Status:        db.BookingPaymentPending,
		BookingTime:   time.Now().UTC(),
	}

	var checkoutURL string
	if s.payments != nil && s.payments.Enabled() {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			s.compensateSpot(ctx, spot.ID)
			return nil, err
		}
		rate := billingRates[vehicleType]
		url, sessionID, err := s.payments.CreateCheckoutSession(
			int64(rate.base)*100, "inr", "Parking booking "+booking.Code, user.Email)
		if err != nil {
			// The booking still goes through; payment can be retried and
			// the expiry job cleans up bookings that never pay.
			log.Printf("Could not create checkout session for booking %s: %v", booking.Code, err)
		} else {
			checkoutURL = url
			booking.StripeSessionID = sessionID
		}
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.compensateSpot(ctx, spot.ID)
		return nil, err
	}

	s.notify(ctx, booking, "created")

	return &entities.CreateBookingResponse{
		Code:        booking.Code,
		BlockID:     booking.BlockID,
		SpotLabel:   booking.SpotLabel,
		Status:      booking.Status,
		CheckoutURL: checkoutURL,
	}, nil
}

// MarkPaid moves payment_pending -> paid and stamps the entry time.
func (s *BookingService) MarkPaid(ctx context.Context, code, transactionID string) (*db.Booking, error) {
	ok, err := s.bookings.MarkPaid(ctx, code, transactionID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		booking, err := s.bookings.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.InvalidState("booking %s is %s, payment applies only to payment_pending", code, booking.Status)
	}
	booking, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking, "confirmed")
	return booking, nil
}

// Park moves paid -> parked once the vehicle is inside.
func (s *BookingService) Park(ctx context.Context, code string) (*db.Booking, error) {
	ok, err := s.bookings.MarkParked(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		booking, err := s.bookings.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.InvalidState("booking %s is %s, parking applies only to paid", code, booking.Status)
	}
	return s.bookings.GetByCode(ctx, code)
}

// Complete closes the booking at exit time, computes the charge and frees
// the spot and any assigned lift. The cost is frozen by the conditional
// update; a repeat call fails with InvalidState.
func (s *BookingService) Complete(ctx context.Context, code string, req entities.CompleteBookingRequest) (*entities.CompleteBookingResponse, error) {
	booking, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case db.BookingCompleted:
		return nil, apperrors.InvalidState("booking %s is already completed", code)
	case db.BookingCancelled:
		return nil, apperrors.InvalidState("booking %s was cancelled", code)
	}

	vehicleType := strings.ToUpper(req.VehicleType)
	if vehicleType == "" {
		vehicleType = booking.VehicleType
	}

	entry := booking.BookingTime
	if booking.EntryTime != nil {
		entry = *booking.EntryTime
	}
	exit := time.Now().UTC()
	if req.ExitTime != nil {
		exit = req.ExitTime.UTC()
	}
	if exit.Before(entry) {
		return nil, apperrors.InvalidArgument("exit time %s is before entry time %s", exit.Format(time.RFC3339), entry.Format(time.RFC3339))
	}

	cost, hours, err := CostForDuration(vehicleType, exit.Sub(entry))
	if err != nil {
		return nil, err
	}

	ok, err := s.bookings.Complete(ctx, code, exit, vehicleType, cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidState("booking %s changed state before completion", code)
	}

	if err := s.allocation.ReleaseSpot(ctx, booking.SpotID); err != nil {
		log.Printf("Could not release spot %d for booking %s: %v", booking.SpotID, code, err)
	}
	s.releaseLiftIfAssigned(ctx, booking)

	s.notify(ctx, booking, "completed")

	return &entities.CompleteBookingResponse{
		Code:          code,
		Cost:          cost,
		DurationHours: hours,
	}, nil
}

// Cancel aborts an active booking; the held spot and lift return to the
// pool and nothing is charged. Paid bookings get their deposit refunded.
func (s *BookingService) Cancel(ctx context.Context, code string) error {
	booking, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	ok, err := s.bookings.Cancel(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.InvalidState("booking %s is %s and can no longer be cancelled", code, booking.Status)
	}

	if err := s.allocation.ReleaseSpot(ctx, booking.SpotID); err != nil {
		log.Printf("Could not release spot %d for booking %s: %v", booking.SpotID, code, err)
	}
	s.releaseLiftIfAssigned(ctx, booking)

	if booking.Status != db.BookingPaymentPending && booking.StripeSessionID != "" && s.payments != nil && s.payments.Enabled() {
		if err := s.payments.RefundBySessionID(booking.StripeSessionID); err != nil {
			log.Printf("Refund failed for booking %s: %v", code, err)
		}
	}

	s.notify(ctx, booking, "cancelled")
	return nil
}

func (s *BookingService) GetByCode(ctx context.Context, code string) (*db.Booking, error) {
	return s.bookings.GetByCode(ctx, code)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int, activeOnly bool) ([]entities.BookingResponse, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]entities.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, ToBookingResponse(&bookings[i]))
	}
	return out, nil
}

// Stats aggregates live occupancy across the whole garage.
func (s *BookingService) Stats(ctx context.Context) (*entities.ParkingStats, error) {
	lots, err := s.lots.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.bookings.BlockCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &entities.ParkingStats{}
	for _, lot := range lots {
		stats.Total += lot.Capacity
	}
	for _, c := range counts {
		stats.Occupied += c.Active
		stats.Blocks = append(stats.Blocks, entities.BlockStat{BlockID: c.BlockID, Active: c.Active})
	}
	stats.Available = stats.Total - stats.Occupied
	if stats.Available < 0 {
		stats.Available = 0
	}
	return stats, nil
}

func (s *BookingService) releaseLiftIfAssigned(ctx context.Context, booking *db.Booking) {
	if booking.AssignedLift == "" {
		return
	}
	now := time.Now().UTC()
	released, err := s.lifts.Release(ctx, booking.AssignedLift, now)
	if err != nil {
		log.Printf("Could not release lift %s for booking %s: %v", booking.AssignedLift, booking.Code, err)
		return
	}
	if !released {
		log.Printf("Lift %s not found while releasing booking %s", booking.AssignedLift, booking.Code)
		return
	}
	if err := s.bookings.StampLiftReleased(ctx, booking.Code, now); err != nil {
		log.Printf("Could not stamp lift release on booking %s: %v", booking.Code, err)
	}
}

func (s *BookingService) compensateSpot(ctx context.Context, spotID int) {
	if err := s.allocation.ReleaseSpot(ctx, spotID); err != nil {
		log.Printf("Could not release spot %d after failed booking create: %v", spotID, err)
	}
}

func (s *BookingService) notify(ctx context.Context, booking *db.Booking, status string) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil {
		log.Printf("Could not load user %d for booking %s notification: %v", booking.UserID, booking.Code, err)
		return
	}
	s.notifier.BookingStatusChanged(user, booking, status)
}

// ToBookingResponse maps a stored booking onto its public shape.
func ToBookingResponse(b *db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		Code:           b.Code,
		VehicleNumber:  b.VehicleNumber,
		VehicleType:    b.VehicleType,
		BlockID:        b.BlockID,
		SpotLabel:      b.SpotLabel,
		Status:         b.Status,
		AssignedLift:   b.AssignedLift,
		BookingTime:    b.BookingTime,
		EntryTime:      b.EntryTime,
		ExitTime:       b.ExitTime,
		ParkingCost:    b.ParkingCost,
		LiftReleasedAt: b.LiftReleasedAt,
	}
}
