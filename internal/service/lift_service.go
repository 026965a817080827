package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"liftpark/internal/db"
	"liftpark/internal/entities"
	apperrors "liftpark/internal/errors"
	"liftpark/internal/repository"
)

var validLiftStatuses = map[string]bool{
	db.LiftAvailable:   true,
	db.LiftOccupied:    true,
	db.LiftInTransit:   true,
	db.LiftMaintenance: true,
}

// LiftService coordinates elevator assignment per block. Assignment is
// least-recently-used; when every lift in the block is busy the caller
// gets a wait response and polls again (no server-side queue).
type LiftService struct {
	lifts    repository.LiftRepository
	bookings repository.BookingRepository
}

func NewLiftService(lifts repository.LiftRepository, bookings repository.BookingRepository) *LiftService {
	return &LiftService{lifts: lifts, bookings: bookings}
}

// InitializeLifts provisions the configured lifts for each block. Idempotent.
func (s *LiftService) InitializeLifts(ctx context.Context, blocks []string, perBlock int) (int, error) {
	total := 0
	for _, blockID := range blocks {
		created, err := s.lifts.EnsureForBlock(ctx, blockID, perBlock)
		if err != nil {
			return total, err
		}
		total += created
	}
	if total > 0 {
		log.Printf("Initialized %d lifts across %d blocks", total, len(blocks))
	}
	return total, nil
}

// Assign gives the booking a lift. Re-assignment is idempotent: a booking
// that already holds a lift gets the same lift back.
func (s *LiftService) Assign(ctx context.Context, req entities.AssignLiftRequest) (*entities.AssignLiftResponse, error) {
	booking, err := s.bookings.GetByCode(ctx, req.BookingCode)
	if err != nil {
		return nil, err
	}

	if booking.AssignedLift != "" {
		lift, err := s.lifts.GetByCode(ctx, booking.AssignedLift)
		if err != nil {
			return nil, err
		}
		return &entities.AssignLiftResponse{
			Assigned: true,
			Message:  "Lift already assigned",
			Lift:     toLiftResponse(lift),
		}, nil
	}

	blockID := req.BlockID
	if blockID == "" {
		blockID = booking.BlockID
	}
	vehicle := req.VehicleNumber
	if vehicle == "" {
		vehicle = booking.VehicleNumber
	}

	now := time.Now().UTC()
	lift, err := s.lifts.ClaimAvailable(ctx, blockID, booking.Code, vehicle, now)
	if err != nil {
		return nil, err
	}
	if lift == nil {
		return &entities.AssignLiftResponse{
			Waiting: true,
			Message: "Both lifts occupied. Please wait...",
		}, nil
	}

	if err := s.bookings.SetLift(ctx, booking.Code, lift.Code, now); err != nil {
		return nil, err
	}

	return &entities.AssignLiftResponse{
		Assigned: true,
		Message:  fmt.Sprintf("Lift %d assigned successfully", lift.LiftNumber),
		Lift:     toLiftResponse(lift),
	}, nil
}

// Release returns the lift to the pool, clearing its booking link and
// sensor flag, and stamps the booking if one was named.
func (s *LiftService) Release(ctx context.Context, req entities.ReleaseLiftRequest) error {
	now := time.Now().UTC()
	released, err := s.lifts.Release(ctx, req.LiftCode, now)
	if err != nil {
		return err
	}
	if !released {
		return apperrors.NotFound("lift %q not found", req.LiftCode)
	}
	if req.BookingCode != "" {
		if err := s.bookings.StampLiftReleased(ctx, req.BookingCode, now); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus is the administrative override; any of the four statuses may
// be forced, and last activity is always stamped.
func (s *LiftService) UpdateStatus(ctx context.Context, code, status string) error {
	if !validLiftStatuses[status] {
		return apperrors.InvalidArgument("invalid lift status %q", status)
	}
	ok, err := s.lifts.UpdateStatus(ctx, code, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("lift %q not found", code)
	}
	return nil
}

// UpdateSensor records car presence and floor reported by the hardware.
func (s *LiftService) UpdateSensor(ctx context.Context, code string, present bool, floor string) error {
	ok, err := s.lifts.UpdateSensor(ctx, code, present, floor, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("lift %q not found", code)
	}
	return nil
}

func (s *LiftService) Get(ctx context.Context, code string) (*entities.LiftResponse, error) {
	lift, err := s.lifts.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toLiftResponse(lift), nil
}

func (s *LiftService) List(ctx context.Context) ([]entities.LiftResponse, error) {
	lifts, err := s.lifts.List(ctx)
	if err != nil {
		return nil, err
	}
	return toLiftResponses(lifts), nil
}

func (s *LiftService) ListByBlock(ctx context.Context, blockID string) ([]entities.LiftResponse, error) {
	lifts, err := s.lifts.ListByBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if len(lifts) == 0 {
		return nil, apperrors.NotFound("no lifts found for block %q", blockID)
	}
	return toLiftResponses(lifts), nil
}

func toLiftResponses(lifts []db.Lift) []entities.LiftResponse {
	out := make([]entities.LiftResponse, 0, len(lifts))
	for i := range lifts {
		out = append(out, *toLiftResponse(&lifts[i]))
	}
	return out
}

func toLiftResponse(l *db.Lift) *entities.LiftResponse {
	return &entities.LiftResponse{
		Code:               l.Code,
		BlockID:            l.BlockID,
		LiftNumber:         l.LiftNumber,
		Status:             l.Status,
		CurrentBookingCode: l.CurrentBookingCode,
		CurrentVehicle:     l.CurrentVehicle,
		AssignedAt:         l.AssignedAt,
		ReleasedAt:         l.ReleasedAt,
		SensorPresent:      l.SensorPresent,
		Floor:              l.Floor,
		LastActivity:       l.LastActivity,
	}
}
