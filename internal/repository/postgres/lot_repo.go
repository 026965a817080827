package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"liftpark/internal/db"
	apperrors "liftpark/internal/errors"
	"liftpark/internal/repository"
)

type lotRepository struct {
	db *sql.DB
}

func NewLotRepository(sqlDB *sql.DB) repository.LotRepository {
	return &lotRepository{db: sqlDB}
}

func (r *lotRepository) Create(ctx context.Context, lot *db.ParkingLot) error {
	query := `INSERT INTO parking_lots (block_id, name, address, price_per_hour, capacity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		lot.BlockID, lot.Name, lot.Address, lot.PricePerHour, lot.Capacity,
	).Scan(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.Conflict("block %q already exists", lot.BlockID)
		}
		return fmt.Errorf("LotRepository.Create: %w", err)
	}
	return nil
}

func (r *lotRepository) Update(ctx context.Context, lot *db.ParkingLot) error {
	query := `UPDATE parking_lots SET name = $1, address = $2, price_per_hour = $3, capacity = $4, updated_at = NOW()
	          WHERE id = $5 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		lot.Name, lot.Address, lot.PricePerHour, lot.Capacity, lot.ID,
	).Scan(&lot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("lot %d not found", lot.ID)
		}
		return fmt.Errorf("LotRepository.Update: %w", err)
	}
	return nil
}

const lotColumns = `id, block_id, name, address, price_per_hour, capacity, created_at, updated_at`

func scanLot(row *sql.Row) (*db.ParkingLot, error) {
	lot := &db.ParkingLot{}
	err := row.Scan(&lot.ID, &lot.BlockID, &lot.Name, &lot.Address,
		&lot.PricePerHour, &lot.Capacity, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return lot, nil
}

func (r *lotRepository) GetByID(ctx context.Context, id int) (*db.ParkingLot, error) {
	lot, err := scanLot(r.db.QueryRowContext(ctx,
		`SELECT `+lotColumns+` FROM parking_lots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("lot %d not found", id)
		}
		return nil, fmt.Errorf("LotRepository.GetByID: %w", err)
	}
	return lot, nil
}

func (r *lotRepository) GetByBlockID(ctx context.Context, blockID string) (*db.ParkingLot, error) {
	lot, err := scanLot(r.db.QueryRowContext(ctx,
		`SELECT `+lotColumns+` FROM parking_lots WHERE block_id = $1`, blockID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("block %q not found", blockID)
		}
		return nil, fmt.Errorf("LotRepository.GetByBlockID: %w", err)
	}
	return lot, nil
}

func (r *lotRepository) List(ctx context.Context) ([]db.ParkingLot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lotColumns+` FROM parking_lots ORDER BY block_id`)
	if err != nil {
		return nil, fmt.Errorf("LotRepository.List: %w", err)
	}
	defer rows.Close()

	var lots []db.ParkingLot
	for rows.Next() {
		var lot db.ParkingLot
		if err := rows.Scan(&lot.ID, &lot.BlockID, &lot.Name, &lot.Address,
			&lot.PricePerHour, &lot.Capacity, &lot.CreatedAt, &lot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("LotRepository.List (scanning row): %w", err)
		}
		lots = append(lots, lot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("LotRepository.List (rows error): %w", err)
	}
	return lots, nil
}

// Summary clamps the counts so occupied never exceeds capacity and
// available never goes negative, even if spot rows drift out of range.
func (r *lotRepository) Summary(ctx context.Context, lotID int) (*db.LotSummary, error) {
	s := &db.LotSummary{}
	query := `
		SELECT l.id, l.block_id, l.capacity,
		       LEAST(COUNT(s.id) FILTER (WHERE s.status = 'occupied'), l.capacity) AS occupied,
		       GREATEST(l.capacity - COUNT(s.id) FILTER (WHERE s.status = 'occupied'), 0) AS available
		FROM parking_lots l
		LEFT JOIN parking_spots s ON s.lot_id = l.id
		WHERE l.id = $1
		GROUP BY l.id, l.block_id, l.capacity`
	err := r.db.QueryRowContext(ctx, query, lotID).Scan(
		&s.LotID, &s.BlockID, &s.Capacity, &s.Occupied, &s.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("lot %d not found", lotID)
		}
		return nil, fmt.Errorf("LotRepository.Summary: %w", err)
	}
	return s, nil
}
