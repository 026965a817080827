package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"liftpark/internal/db"
	"liftpark/internal/repository"
)

type spotRepository struct {
	db *sql.DB
}

func NewSpotRepository(sqlDB *sql.DB) repository.SpotRepository {
	return &spotRepository{db: sqlDB}
}

// EnsureSpots lazily creates the missing spot rows for indices 1..capacity.
// The (lot_id, spot_index) unique constraint plus ON CONFLICT DO NOTHING
// keeps concurrent fills from ever creating duplicate indices.
func (r *spotRepository) EnsureSpots(ctx context.Context, lotID, capacity int, labelPrefix string) (int, error) {
	if capacity <= 0 {
		return 0, nil
	}
	query := `
		INSERT INTO parking_spots (lot_id, spot_index, label, status, created_at, updated_at)
		SELECT $1, gs, $3 || '-' || gs, 'available', NOW(), NOW()
		FROM generate_series(1, $2) AS gs
		ON CONFLICT (lot_id, spot_index) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, lotID, capacity, labelPrefix)
	if err != nil {
		return 0, fmt.Errorf("SpotRepository.EnsureSpots: %w", err)
	}
	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("SpotRepository.EnsureSpots (rows affected): %w", err)
	}
	return int(created), nil
}

// ClaimFirstAvailable flips the lowest-index available spot to occupied in a
// single statement, so two concurrent claims can never take the same spot.
// SKIP LOCKED sends a concurrent claimer to the next free spot instead of
// blocking on the row lock.
func (r *spotRepository) ClaimFirstAvailable(ctx context.Context, lotID int) (*db.ParkingSpot, error) {
	spot := &db.ParkingSpot{}
	query := `
		UPDATE parking_spots SET status = 'occupied', updated_at = NOW()
		WHERE id = (
			SELECT id FROM parking_spots
			WHERE lot_id = $1 AND status = 'available'
			ORDER BY spot_index ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, lot_id, spot_index, label, status, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, lotID).Scan(
		&spot.ID, &spot.LotID, &spot.SpotIndex, &spot.Label, &spot.Status,
		&spot.CreatedAt, &spot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("SpotRepository.ClaimFirstAvailable: %w", err)
	}
	return spot, nil
}

// Release is conditioned on the spot still being occupied; releasing twice
// affects zero rows and leaves the counts untouched.
func (r *spotRepository) Release(ctx context.Context, spotID int) (bool, error) {
	query := `UPDATE parking_spots SET status = 'available', updated_at = NOW()
	          WHERE id = $1 AND status = 'occupied'`
	result, err := r.db.ExecContext(ctx, query, spotID)
	if err != nil {
		return false, fmt.Errorf("SpotRepository.Release: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("SpotRepository.Release (rows affected): %w", err)
	}
	return affected > 0, nil
}

func (r *spotRepository) ListByLot(ctx context.Context, lotID int) ([]db.ParkingSpot, error) {
	query := `SELECT id, lot_id, spot_index, label, status, created_at, updated_at
	          FROM parking_spots WHERE lot_id = $1 ORDER BY spot_index`
	rows, err := r.db.QueryContext(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("SpotRepository.ListByLot: %w", err)
	}
	defer rows.Close()

	var spots []db.ParkingSpot
	for rows.Next() {
		var s db.ParkingSpot
		if err := rows.Scan(&s.ID, &s.LotID, &s.SpotIndex, &s.Label, &s.Status,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("SpotRepository.ListByLot (scanning row): %w", err)
		}
		spots = append(spots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("SpotRepository.ListByLot (rows error): %w", err)
	}
	return spots, nil
}
