package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"liftpark/internal/db"
)

var liftRowColumns = []string{
	"id", "code", "block_id", "lift_number", "status", "current_booking_code", "current_vehicle",
	"assigned_at", "released_at", "sensor_present", "floor", "last_activity", "created_at", "updated_at",
}

func TestLiftRepositoryEnsureForBlock(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewLiftRepository(conn)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO lifts").
		WithArgs("BLOCK-A", 2).
		WillReturnResult(sqlmock.NewResult(0, 2))

	created, err := repo.EnsureForBlock(ctx, "BLOCK-A", 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, created)

	mock.ExpectExec("INSERT INTO lifts").
		WithArgs("BLOCK-A", 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err = repo.EnsureForBlock(ctx, "BLOCK-A", 2)
	assert.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiftRepositoryClaimAvailable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewLiftRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("claims least recently active lift", func(t *testing.T) {
		rows := sqlmock.NewRows(liftRowColumns).AddRow(
			2, "BLOCK-A-LIFT-2", "BLOCK-A", 2, db.LiftOccupied, "BK123", "KA01AB1234",
			now, nil, false, "Ground", now, now, now,
		)
		mock.ExpectQuery("UPDATE lifts").
			WithArgs("BLOCK-A", "BK123", "KA01AB1234", now).
			WillReturnRows(rows)

		lift, err := repo.ClaimAvailable(ctx, "BLOCK-A", "BK123", "KA01AB1234", now)
		assert.NoError(t, err)
		assert.Equal(t, "BLOCK-A-LIFT-2", lift.Code)
		assert.Equal(t, db.LiftOccupied, lift.Status)
		assert.Equal(t, "BK123", lift.CurrentBookingCode)
	})

	t.Run("nil when both lifts busy", func(t *testing.T) {
		mock.ExpectQuery("UPDATE lifts").
			WithArgs("BLOCK-A", "BK456", "MH12XY9999", now).
			WillReturnRows(sqlmock.NewRows(liftRowColumns))

		lift, err := repo.ClaimAvailable(ctx, "BLOCK-A", "BK456", "MH12XY9999", now)
		assert.NoError(t, err)
		assert.Nil(t, lift)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiftRepositoryRelease(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewLiftRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE lifts").
		WithArgs("BLOCK-A-LIFT-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := repo.Release(ctx, "BLOCK-A-LIFT-1", now)
	assert.NoError(t, err)
	assert.True(t, released)

	mock.ExpectExec("UPDATE lifts").
		WithArgs("BLOCK-Z-LIFT-9", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	released, err = repo.Release(ctx, "BLOCK-Z-LIFT-9", now)
	assert.NoError(t, err)
	assert.False(t, released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiftRepositoryUpdateSensor(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewLiftRepository(conn)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE lifts").
		WithArgs("BLOCK-A-LIFT-1", true, "Level 2", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateSensor(context.Background(), "BLOCK-A-LIFT-1", true, "Level 2", now)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
