package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"liftpark/internal/db"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *db.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int) (*db.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.User), args.Error(1)
}

// MockLotRepo
type MockLotRepo struct {
	mock.Mock
}

func (m *MockLotRepo) Create(ctx context.Context, lot *db.ParkingLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}
func (m *MockLotRepo) Update(ctx context.Context, lot *db.ParkingLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}
func (m *MockLotRepo) GetByID(ctx context.Context, id int) (*db.ParkingLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.ParkingLot), args.Error(1)
}
func (m *MockLotRepo) GetByBlockID(ctx context.Context, blockID string) (*db.ParkingLot, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.ParkingLot), args.Error(1)
}
func (m *MockLotRepo) List(ctx context.Context) ([]db.ParkingLot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.ParkingLot), args.Error(1)
}
func (m *MockLotRepo) Summary(ctx context.Context, lotID int) (*db.LotSummary, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.LotSummary), args.Error(1)
}

// MockSpotRepo
type MockSpotRepo struct {
	mock.Mock
}

func (m *MockSpotRepo) EnsureSpots(ctx context.Context, lotID, capacity int, labelPrefix string) (int, error) {
	args := m.Called(ctx, lotID, capacity, labelPrefix)
	return args.Int(0), args.Error(1)
}
func (m *MockSpotRepo) ClaimFirstAvailable(ctx context.Context, lotID int) (*db.ParkingSpot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.ParkingSpot), args.Error(1)
}
func (m *MockSpotRepo) Release(ctx context.Context, spotID int) (bool, error) {
	args := m.Called(ctx, spotID)
	return args.Bool(0), args.Error(1)
}
func (m *MockSpotRepo) ListByLot(ctx context.Context, lotID int) ([]db.ParkingSpot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.ParkingSpot), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *db.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByCode(ctx context.Context, code string) (*db.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Booking), args.Error(1)
}
func (m *MockBookingRepo) ActiveByVehicle(ctx context.Context, vehicleNumber string) (*db.Booking, error) {
	args := m.Called(ctx, vehicleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByUser(ctx context.Context, userID int, activeOnly bool) ([]db.Booking, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Booking), args.Error(1)
}
func (m *MockBookingRepo) BlockCounts(ctx context.Context) ([]db.BlockCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.BlockCount), args.Error(1)
}
func (m *MockBookingRepo) MarkPaid(ctx context.Context, code, transactionID string, entry time.Time) (bool, error) {
	args := m.Called(ctx, code, transactionID, entry)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) MarkParked(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) Complete(ctx context.Context, code string, exit time.Time, vehicleType string, cost int) (bool, error) {
	args := m.Called(ctx, code, exit, vehicleType, cost)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) Cancel(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) SetLift(ctx context.Context, code, liftCode string, at time.Time) error {
	args := m.Called(ctx, code, liftCode, at)
	return args.Error(0)
}
func (m *MockBookingRepo) StampLiftReleased(ctx context.Context, code string, at time.Time) error {
	args := m.Called(ctx, code, at)
	return args.Error(0)
}
func (m *MockBookingRepo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]db.Booking, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Booking), args.Error(1)
}

// MockLiftRepo
type MockLiftRepo struct {
	mock.Mock
}

func (m *MockLiftRepo) EnsureForBlock(ctx context.Context, blockID string, count int) (int, error) {
	args := m.Called(ctx, blockID, count)
	return args.Int(0), args.Error(1)
}
func (m *MockLiftRepo) GetByCode(ctx context.Context, code string) (*db.Lift, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Lift), args.Error(1)
}
func (m *MockLiftRepo) List(ctx context.Context) ([]db.Lift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Lift), args.Error(1)
}
func (m *MockLiftRepo) ListByBlock(ctx context.Context, blockID string) ([]db.Lift, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Lift), args.Error(1)
}
func (m *MockLiftRepo) ClaimAvailable(ctx context.Context, blockID, bookingCode, vehicleNumber string, now time.Time) (*db.Lift, error) {
	args := m.Called(ctx, blockID, bookingCode, vehicleNumber, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Lift), args.Error(1)
}
func (m *MockLiftRepo) Release(ctx context.Context, code string, now time.Time) (bool, error) {
	args := m.Called(ctx, code, now)
	return args.Bool(0), args.Error(1)
}
func (m *MockLiftRepo) UpdateStatus(ctx context.Context, code, status string, now time.Time) (bool, error) {
	args := m.Called(ctx, code, status, now)
	return args.Bool(0), args.Error(1)
}
func (m *MockLiftRepo) UpdateSensor(ctx context.Context, code string, present bool, floor string, now time.Time) (bool, error) {
	args := m.Called(ctx, code, present, floor, now)
	return args.Bool(0), args.Error(1)
}
