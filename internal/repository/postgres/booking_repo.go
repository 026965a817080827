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

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(sqlDB *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: sqlDB}
}

const bookingColumns = `id, code, user_id, vehicle_number, vehicle_type, block_id, lot_id, spot_id, spot_label,
	status, transaction_id, stripe_session_id, assigned_lift, lift_assigned_at, lift_released_at,
	booking_time, entry_time, exit_time, parking_cost, created_at, updated_at`

type bookingScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row bookingScanner) (*db.Booking, error) {
	b := &db.Booking{}
	var transactionID, stripeSessionID, assignedLift sql.NullString
	var liftAssignedAt, liftReleasedAt, entryTime, exitTime sql.NullTime

	err := row.Scan(
		&b.ID, &b.Code, &b.UserID, &b.VehicleNumber, &b.VehicleType, &b.BlockID, &b.LotID, &b.SpotID, &b.SpotLabel,
		&b.Status, &transactionID, &stripeSessionID, &assignedLift, &liftAssignedAt, &liftReleasedAt,
		&b.BookingTime, &entryTime, &exitTime, &b.ParkingCost, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.TransactionID = transactionID.String
	b.StripeSessionID = stripeSessionID.String
	b.AssignedLift = assignedLift.String
	if liftAssignedAt.Valid {
		t := liftAssignedAt.Time
		b.LiftAssignedAt = &t
	}
	if liftReleasedAt.Valid {
		t := liftReleasedAt.Time
		b.LiftReleasedAt = &t
	}
	if entryTime.Valid {
		t := entryTime.Time
		b.EntryTime = &t
	}
	if exitTime.Valid {
		t := exitTime.Time
		b.ExitTime = &t
	}
	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *bookingRepository) Create(ctx context.Context, b *db.Booking) error {
	query := `INSERT INTO bookings
		(code, user_id, vehicle_number, vehicle_type, block_id, lot_id, spot_id, spot_label,
		 status, stripe_session_id, booking_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		b.Code, b.UserID, b.VehicleNumber, b.VehicleType, b.BlockID, b.LotID, b.SpotID, b.SpotLabel,
		b.Status, nullString(b.StripeSessionID), b.BookingTime,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("BookingRepository.Create: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByCode(ctx context.Context, code string) (*db.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("booking %q not found", code)
		}
		return nil, fmt.Errorf("BookingRepository.GetByCode: %w", err)
	}
	return b, nil
}

func (r *bookingRepository) ActiveByVehicle(ctx context.Context, vehicleNumber string) (*db.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE vehicle_number = $1 AND status IN ('payment_pending', 'paid', 'parked')
		 LIMIT 1`, vehicleNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("BookingRepository.ActiveByVehicle: %w", err)
	}
	return b, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int, activeOnly bool) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1`
	if activeOnly {
		query += ` AND status IN ('payment_pending', 'paid', 'parked')`
	}
	query += ` ORDER BY booking_time DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("BookingRepository.ListByUser (scanning row): %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("BookingRepository.ListByUser (rows error): %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) BlockCounts(ctx context.Context) ([]db.BlockCount, error) {
	query := `SELECT block_id, COUNT(*) FROM bookings
	          WHERE status IN ('payment_pending', 'paid', 'parked')
	          GROUP BY block_id ORDER BY block_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.BlockCounts: %w", err)
	}
	defer rows.Close()

	var counts []db.BlockCount
	for rows.Next() {
		var c db.BlockCount
		if err := rows.Scan(&c.BlockID, &c.Active); err != nil {
			return nil, fmt.Errorf("BookingRepository.BlockCounts (scanning row): %w", err)
		}
		counts = append(counts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("BookingRepository.BlockCounts (rows error): %w", err)
	}
	return counts, nil
}

// MarkPaid is conditioned on the booking still awaiting payment; entry time
// is stamped only if not already set.
func (r *bookingRepository) MarkPaid(ctx context.Context, code, transactionID string, entry time.Time) (bool, error) {
	query := `UPDATE bookings
	          SET status = 'paid', transaction_id = $2, entry_time = COALESCE(entry_time, $3), updated_at = NOW()
	          WHERE code = $1 AND status = 'payment_pending'`
	result, err := r.db.ExecContext(ctx, query, code, nullString(transactionID), entry)
	if err != nil {
		return false, fmt.Errorf("BookingRepository.MarkPaid: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("BookingRepository.MarkPaid (rows affected): %w", err)
	}
	return affected > 0, nil
}

func (r *bookingRepository) MarkParked(ctx context.Context, code string) (bool, error) {
	query := `UPDATE bookings SET status = 'parked', updated_at = NOW()
	          WHERE code = $1 AND status = 'paid'`
	result, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return false, fmt.Errorf("BookingRepository.MarkParked: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("BookingRepository.MarkParked (rows affected): %w", err)
	}
	return affected > 0, nil
}

// Complete freezes the cost: the guard on status means a second attempt
// affects zero rows and cannot overwrite exit_time or parking_cost.
func (r *bookingRepository) Complete(ctx context.Context, code string, exit time.Time, vehicleType string, cost int) (bool, error) {
	query := `UPDATE bookings
	          SET status = 'completed', exit_time = $2, vehicle_type = $3, parking_cost = $4, updated_at = NOW()
	          WHERE code = $1 AND status IN ('payment_pending', 'paid', 'parked')`
	result, err := r.db.ExecContext(ctx, query, code, exit, vehicleType, cost)
	if err != nil {
		return false, fmt.Errorf("BookingRepository.Complete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("BookingRepository.Complete (rows affected): %w", err)
	}
	return affected > 0, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, code string) (bool, error) {
	query := `UPDATE bookings SET status = 'cancelled', updated_at = NOW()
	          WHERE code = $1 AND status IN ('payment_pending', 'paid', 'parked')`
	result, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return false, fmt.Errorf("BookingRepository.Cancel: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("BookingRepository.Cancel (rows affected): %w", err)
	}
	return affected > 0, nil
}

func (r *bookingRepository) SetLift(ctx context.Context, code, liftCode string, at time.Time) error {
	query := `UPDATE bookings SET assigned_lift = $2, lift_assigned_at = $3, updated_at = NOW() WHERE code = $1`
	result, err := r.db.ExecContext(ctx, query, code, liftCode, at)
	if err != nil {
		return fmt.Errorf("BookingRepository.SetLift: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("BookingRepository.SetLift (rows affected): %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("booking %q not found", code)
	}
	return nil
}

func (r *bookingRepository) StampLiftReleased(ctx context.Context, code string, at time.Time) error {
	query := `UPDATE bookings SET lift_released_at = $2, updated_at = NOW() WHERE code = $1`
	result, err := r.db.ExecContext(ctx, query, code, at)
	if err != nil {
		return fmt.Errorf("BookingRepository.StampLiftReleased: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("BookingRepository.StampLiftReleased (rows affected): %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("booking %q not found", code)
	}
	return nil
}

func (r *bookingRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE status = 'payment_pending' AND booking_time < $1
	          ORDER BY booking_time`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.ListPendingCreatedBefore: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("BookingRepository.ListPendingCreatedBefore (scanning row): %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("BookingRepository.ListPendingCreatedBefore (rows error): %w", err)
	}
	return bookings, nil
}
