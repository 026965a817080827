package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"liftpark/internal/db"
	apperrors "liftpark/internal/errors"
	"liftpark/internal/repository"
)

type liftRepository struct {
	db *sql.DB
}

func NewLiftRepository(sqlDB *sql.DB) repository.LiftRepository {
	return &liftRepository{db: sqlDB}
}

const liftColumns = `id, code, block_id, lift_number, status, current_booking_code, current_vehicle,
	assigned_at, released_at, sensor_present, floor, last_activity, created_at, updated_at`

type liftScanner interface {
	Scan(dest ...interface{}) error
}

func scanLift(row liftScanner) (*db.Lift, error) {
	l := &db.Lift{}
	var bookingCode, vehicle sql.NullString
	var assignedAt, releasedAt sql.NullTime

	err := row.Scan(
		&l.ID, &l.Code, &l.BlockID, &l.LiftNumber, &l.Status, &bookingCode, &vehicle,
		&assignedAt, &releasedAt, &l.SensorPresent, &l.Floor, &l.LastActivity, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.CurrentBookingCode = bookingCode.String
	l.CurrentVehicle = vehicle.String
	if assignedAt.Valid {
		t := assignedAt.Time
		l.AssignedAt = &t
	}
	if releasedAt.Valid {
		t := releasedAt.Time
		l.ReleasedAt = &t
	}
	return l, nil
}

// EnsureForBlock provisions lifts 1..count for the block; the
// (block_id, lift_number) constraint keeps repeated initialization a no-op.
func (r *liftRepository) EnsureForBlock(ctx context.Context, blockID string, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	query := `
		INSERT INTO lifts (code, block_id, lift_number, status, floor, last_activity, created_at, updated_at)
		SELECT $1 || '-LIFT-' || gs, $1, gs, 'available', 'Ground', NOW(), NOW(), NOW()
		FROM generate_series(1, $2) AS gs
		ON CONFLICT (block_id, lift_number) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, blockID, count)
	if err != nil {
		return 0, fmt.Errorf("LiftRepository.EnsureForBlock: %w", err)
	}
	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("LiftRepository.EnsureForBlock (rows affected): %w", err)
	}
	return int(created), nil
}

func (r *liftRepository) GetByCode(ctx context.Context, code string) (*db.Lift, error) {
	l, err := scanLift(r.db.QueryRowContext(ctx,
		`SELECT `+liftColumns+` FROM lifts WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("lift %q not found", code)
		}
		return nil, fmt.Errorf("LiftRepository.GetByCode: %w", err)
	}
	return l, nil
}

func (r *liftRepository) List(ctx context.Context) ([]db.Lift, error) {
	return r.list(ctx, `SELECT `+liftColumns+` FROM lifts ORDER BY block_id, lift_number`)
}

func (r *liftRepository) ListByBlock(ctx context.Context, blockID string) ([]db.Lift, error) {
	return r.list(ctx, `SELECT `+liftColumns+` FROM lifts WHERE block_id = $1 ORDER BY lift_number`, blockID)
}

func (r *liftRepository) list(ctx context.Context, query string, args ...interface{}) ([]db.Lift, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("LiftRepository.list: %w", err)
	}
	defer rows.Close()

	var lifts []db.Lift
	for rows.Next() {
		l, err := scanLift(rows)
		if err != nil {
			return nil, fmt.Errorf("LiftRepository.list (scanning row): %w", err)
		}
		lifts = append(lifts, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("LiftRepository.list (rows error): %w", err)
	}
	return lifts, nil
}

// ClaimAvailable picks the least-recently-active available lift so one lift
// is never starved, and flips it to occupied in the same statement. Two
// concurrent claims against a block with one free lift cannot both win.
func (r *liftRepository) ClaimAvailable(ctx context.Context, blockID, bookingCode, vehicleNumber string, now time.Time) (*db.Lift, error) {
	query := `
		UPDATE lifts
		SET status = 'occupied', current_booking_code = $2, current_vehicle = $3,
		    assigned_at = $4, last_activity = $4, updated_at = NOW()
		WHERE id = (
			SELECT id FROM lifts
			WHERE block_id = $1 AND status = 'available'
			ORDER BY last_activity ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + liftColumns
	l, err := scanLift(r.db.QueryRowContext(ctx, query, blockID, bookingCode, vehicleNumber, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("LiftRepository.ClaimAvailable: %w", err)
	}
	return l, nil
}

func (r *liftRepository) Release(ctx context.Context, code string, now time.Time) (bool, error) {
	query := `UPDATE lifts
	          SET status = 'available', current_booking_code = NULL, current_vehicle = NULL,
	              released_at = $2, last_activity = $2, sensor_present = FALSE, updated_at = NOW()
	          WHERE code = $1`
	result, err := r.db.ExecContext(ctx, query, code, now)
	if err != nil {
		return false, fmt.Errorf("LiftRepository.Release: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("LiftRepository.Release (rows affected): %w", err)
	}
	return affected > 0, nil
}

func (r *liftRepository) UpdateStatus(ctx context.Context, code, status string, now time.Time) (bool, error) {
	query := `UPDATE lifts SET status = $2, last_activity = $3, updated_at = NOW() WHERE code = $1`
	result, err := r.db.ExecContext(ctx, query, code, status, now)
	if err != nil {
		return false, fmt.Errorf("LiftRepository.UpdateStatus: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("LiftRepository.UpdateStatus (rows affected): %w", err)
	}
	return affected > 0, nil
}

// UpdateSensor records hardware presence and floor; allocation status is
// left alone.
func (r *liftRepository) UpdateSensor(ctx context.Context, code string, present bool, floor string, now time.Time) (bool, error) {
	query := `UPDATE lifts
	          SET sensor_present = $2, floor = COALESCE(NULLIF($3, ''), floor), last_activity = $4, updated_at = NOW()
	          WHERE code = $1`
	result, err := r.db.ExecContext(ctx, query, code, present, floor, now)
	if err != nil {
		return false, fmt.Errorf("LiftRepository.UpdateSensor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("LiftRepository.UpdateSensor (rows affected): %w", err)
	}
	return affected > 0, nil
}
