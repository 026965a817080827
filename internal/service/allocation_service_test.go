package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"liftpark/internal/db"
	"liftpark/internal/entities"
	apperrors "liftpark/internal/errors"
)

func TestAllocateSpot(t *testing.T) {
	lots := new(MockLotRepo)
	spots := new(MockSpotRepo)
	svc := NewAllocationService(lots, spots)
	ctx := context.Background()

	lot := &db.ParkingLot{ID: 1, BlockID: "BLOCK-A", Capacity: 40}
	spot := &db.ParkingSpot{ID: 1, LotID: 1, SpotIndex: 1, Label: "A-1", Status: db.SpotOccupied}

	spots.On("EnsureSpots", ctx, 1, 40, "A").Return(40, nil)
	spots.On("ClaimFirstAvailable", ctx, 1).Return(spot, nil)

	got, err := svc.AllocateSpot(ctx, lot)
	assert.NoError(t, err)
	assert.Equal(t, "A-1", got.Label)
	spots.AssertExpectations(t)
}

func TestAllocateSpotNoCapacity(t *testing.T) {
	lots := new(MockLotRepo)
	spots := new(MockSpotRepo)
	svc := NewAllocationService(lots, spots)
	ctx := context.Background()

	lot := &db.ParkingLot{ID: 1, BlockID: "BLOCK-A", Capacity: 40}
	spots.On("EnsureSpots", ctx, 1, 40, "A").Return(0, nil)
	spots.On("ClaimFirstAvailable", ctx, 1).Return(nil, nil)

	_, err := svc.AllocateSpot(ctx, lot)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindNoCapacity, apperrors.KindOf(err))
}

func TestReleaseSpotDoubleReleaseIsNoOp(t *testing.T) {
	lots := new(MockLotRepo)
	spots := new(MockSpotRepo)
	svc := NewAllocationService(lots, spots)
	ctx := context.Background()

	spots.On("Release", ctx, 9).Return(false, nil)

	err := svc.ReleaseSpot(ctx, 9)
	assert.NoError(t, err)
}

func TestEnsureGarageCreatesMissingLots(t *testing.T) {
	lots := new(MockLotRepo)
	spots := new(MockSpotRepo)
	svc := NewAllocationService(lots, spots)
	ctx := context.Background()

	existing := &db.ParkingLot{ID: 1, BlockID: "BLOCK-A", Capacity: 40}
	lots.On("GetByBlockID", ctx, "BLOCK-A").Return(existing, nil)
	lots.On("GetByBlockID", ctx, "BLOCK-B").Return(nil, apperrors.NotFound("lot for block %q not found", "BLOCK-B"))
	lots.On("Create", ctx, mock.AnythingOfType("*db.ParkingLot")).Run(func(args mock.Arguments) {
		args.Get(1).(*db.ParkingLot).ID = 2
	}).Return(nil)
	spots.On("EnsureSpots", ctx, 1, 40, "A").Return(0, nil)
	spots.On("EnsureSpots", ctx, 2, 40, "B").Return(40, nil)

	err := svc.EnsureGarage(ctx, []string{"BLOCK-A", "BLOCK-B"}, 40, 50)
	assert.NoError(t, err)
	lots.AssertExpectations(t)
	spots.AssertExpectations(t)
}

func TestEnsureGarageSurvivesConcurrentCreate(t *testing.T) {
	lots := new(MockLotRepo)
	spots := new(MockSpotRepo)
	svc := NewAllocationService(lots, spots)
	ctx := context.Background()

	created := &db.ParkingLot{ID: 3, BlockID: "BLOCK-C", Capacity: 40}
	lots.On("GetByBlockID", ctx, "BLOCK-C").Return(nil, apperrors.NotFound("lot for block %q not found", "BLOCK-C")).Once()
	lots.On("Create", ctx, mock.AnythingOfType("*db.ParkingLot")).Return(apperrors.Conflict("block %q already exists", "BLOCK-C"))
	lots.On("GetByBlockID", ctx, "BLOCK-C").Return(created, nil)
	spots.On("EnsureSpots", ctx, 3, 40, "C").Return(0, nil)

	err := svc.EnsureGarage(ctx, []string{"BLOCK-C"}, 40, 50)
	assert.NoError(t, err)
}

func TestUpdateLotRejectsShrinking(t *testing.T) {
	lots := new(MockLotRepo)
	spots := new(MockSpotRepo)
	svc := NewAllocationService(lots, spots)
	ctx := context.Background()

	lots.On("GetByID", ctx, 1).Return(&db.ParkingLot{ID: 1, BlockID: "BLOCK-A", Capacity: 40}, nil)

	_, err := svc.UpdateLot(ctx, 1, entities.LotRequest{Capacity: 10})
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))
	lots.AssertNotCalled(t, "Update", ctx, mock.Anything)
}

func TestSpotLabelPrefix(t *testing.T) {
	assert.Equal(t, "A", spotLabelPrefix(&db.ParkingLot{BlockID: "BLOCK-A"}))
	assert.Equal(t, "D", spotLabelPrefix(&db.ParkingLot{BlockID: "BLOCK-D", Name: "North"}))
	assert.Equal(t, "G", spotLabelPrefix(&db.ParkingLot{BlockID: "LOT42", Name: "Garage"}))
	assert.Equal(t, "S", spotLabelPrefix(&db.ParkingLot{BlockID: "LOT42"}))
}
