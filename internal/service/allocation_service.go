package service

import (
	"context"
	"log"
	"strings"

	"liftpark/internal/db"
	"liftpark/internal/entities"
	apperrors "liftpark/internal/errors"
	"liftpark/internal/repository"
)

// AllocationService owns the spot inventory: lazy idempotent provisioning
// and the atomic claim/release of individual spots. No other component
// writes spot status.
type AllocationService struct {
	lots  repository.LotRepository
	spots repository.SpotRepository
}

func NewAllocationService(lots repository.LotRepository, spots repository.SpotRepository) *AllocationService {
	return &AllocationService{lots: lots, spots: spots}
}

// AllocateSpot fills in any missing spot rows for the lot, then claims the
// lowest-index available spot. Fails with NoCapacity when the lot is full.
func (s *AllocationService) AllocateSpot(ctx context.Context, lot *db.ParkingLot) (*db.ParkingSpot, error) {
	created, err := s.spots.EnsureSpots(ctx, lot.ID, lot.Capacity, spotLabelPrefix(lot))
	if err != nil {
		return nil, err
	}
	if created > 0 {
		log.Printf("Created %d missing spots for block %s", created, lot.BlockID)
	}
	spot, err := s.spots.ClaimFirstAvailable(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	if spot == nil {
		return nil, apperrors.NoCapacity("no available spots in block %s", lot.BlockID)
	}
	return spot, nil
}

// ReleaseSpot returns a spot to the available pool. Releasing a spot that is
// already available is a no-op so a double release can never skew the counts.
func (s *AllocationService) ReleaseSpot(ctx context.Context, spotID int) error {
	released, err := s.spots.Release(ctx, spotID)
	if err != nil {
		return err
	}
	if !released {
		log.Printf("Spot %d was already available, release skipped", spotID)
	}
	return nil
}

// EnsureGarage provisions a lot per configured block (and its spots) at
// startup. Repeated startups change nothing.
func (s *AllocationService) EnsureGarage(ctx context.Context, blocks []string, slotsPerBlock, pricePerHour int) error {
	for _, blockID := range blocks {
		lot, err := s.lots.GetByBlockID(ctx, blockID)
		if err != nil {
			if apperrors.KindOf(err) != apperrors.KindNotFound {
				return err
			}
			lot = &db.ParkingLot{
				BlockID:      blockID,
				Name:         blockID,
				PricePerHour: pricePerHour,
				Capacity:     slotsPerBlock,
			}
			if err := s.lots.Create(ctx, lot); err != nil {
				// A concurrent startup may have created it first.
				if apperrors.KindOf(err) != apperrors.KindConflict {
					return err
				}
				if lot, err = s.lots.GetByBlockID(ctx, blockID); err != nil {
					return err
				}
			}
		}
		if _, err := s.spots.EnsureSpots(ctx, lot.ID, lot.Capacity, spotLabelPrefix(lot)); err != nil {
			return err
		}
	}
	return nil
}

// CreateLot registers a new block with its lot row. Spots are provisioned
// lazily on first listing or allocation.
func (s *AllocationService) CreateLot(ctx context.Context, req entities.LotRequest) (*db.ParkingLot, error) {
	if req.BlockID == "" || req.Capacity <= 0 || req.PricePerHour < 0 {
		return nil, apperrors.InvalidArgument("block_id, capacity and price_per_hour are required")
	}
	lot := &db.ParkingLot{
		BlockID:      strings.ToUpper(req.BlockID),
		Name:         req.Name,
		Address:      req.Address,
		PricePerHour: req.PricePerHour,
		Capacity:     req.Capacity,
	}
	if lot.Name == "" {
		lot.Name = lot.BlockID
	}
	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// UpdateLot changes a lot's metadata and pricing. Capacity can only grow;
// shrinking would strand occupied spots above the new limit.
func (s *AllocationService) UpdateLot(ctx context.Context, id int, req entities.LotRequest) (*db.ParkingLot, error) {
	lot, err := s.lots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Capacity < lot.Capacity {
		return nil, apperrors.InvalidArgument("capacity cannot be reduced below %d", lot.Capacity)
	}
	if req.Name != "" {
		lot.Name = req.Name
	}
	if req.Address != "" {
		lot.Address = req.Address
	}
	if req.PricePerHour > 0 {
		lot.PricePerHour = req.PricePerHour
	}
	if req.Capacity > 0 {
		lot.Capacity = req.Capacity
	}
	if err := s.lots.Update(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// ListLots returns all lots with on-demand availability, running the lazy
// spot fill first so the counts reflect the full capacity.
func (s *AllocationService) ListLots(ctx context.Context) ([]entities.LotResponse, error) {
	lots, err := s.lots.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.LotResponse, 0, len(lots))
	for i := range lots {
		lot := &lots[i]
		if _, err := s.spots.EnsureSpots(ctx, lot.ID, lot.Capacity, spotLabelPrefix(lot)); err != nil {
			return nil, err
		}
		summary, err := s.lots.Summary(ctx, lot.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, entities.LotResponse{
			ID:           lot.ID,
			BlockID:      lot.BlockID,
			Name:         lot.Name,
			Address:      lot.Address,
			PricePerHour: lot.PricePerHour,
			Capacity:     lot.Capacity,
			Occupied:     summary.Occupied,
			Available:    summary.Available,
		})
	}
	return out, nil
}

func (s *AllocationService) ListSpots(ctx context.Context, lotID int) ([]entities.SpotResponse, error) {
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		return nil, err
	}
	spots, err := s.spots.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.SpotResponse, 0, len(spots))
	for _, sp := range spots {
		out = append(out, entities.SpotResponse{
			ID:        sp.ID,
			SpotIndex: sp.SpotIndex,
			Label:     sp.Label,
			Status:    sp.Status,
		})
	}
	return out, nil
}

// spotLabelPrefix derives the label prefix from the block letter when the
// block id ends in one (BLOCK-A -> "A"), otherwise from the lot name initial.
func spotLabelPrefix(lot *db.ParkingLot) string {
	if i := strings.LastIndex(lot.BlockID, "-"); i >= 0 && len(lot.BlockID)-i-1 == 1 {
		return strings.ToUpper(lot.BlockID[i+1:])
	}
	if lot.Name != "" {
		return strings.ToUpper(lot.Name[:1])
	}
	return "S"
}
