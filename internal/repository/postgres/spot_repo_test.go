package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"liftpark/internal/db"
)

func TestSpotRepositoryEnsureSpots(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewSpotRepository(conn)
	ctx := context.Background()

	t.Run("creates missing rows", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO parking_spots").
			WithArgs(1, 40, "A").
			WillReturnResult(sqlmock.NewResult(0, 40))

		created, err := repo.EnsureSpots(ctx, 1, 40, "A")
		assert.NoError(t, err)
		assert.Equal(t, 40, created)
	})

	t.Run("second fill is a no-op", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO parking_spots").
			WithArgs(1, 40, "A").
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.EnsureSpots(ctx, 1, 40, "A")
		assert.NoError(t, err)
		assert.Equal(t, 0, created)
	})

	t.Run("zero capacity skips the query", func(t *testing.T) {
		created, err := repo.EnsureSpots(ctx, 1, 0, "A")
		assert.NoError(t, err)
		assert.Equal(t, 0, created)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepositoryClaimFirstAvailable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewSpotRepository(conn)
	ctx := context.Background()
	now := time.Now()

	t.Run("claims lowest index", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "lot_id", "spot_index", "label", "status", "created_at", "updated_at"}).
			AddRow(3, 1, 3, "A-3", db.SpotOccupied, now, now)
		mock.ExpectQuery("UPDATE parking_spots SET status = 'occupied'").
			WithArgs(1).
			WillReturnRows(rows)

		spot, err := repo.ClaimFirstAvailable(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 3, spot.SpotIndex)
		assert.Equal(t, db.SpotOccupied, spot.Status)
	})

	t.Run("nil when lot is full", func(t *testing.T) {
		mock.ExpectQuery("UPDATE parking_spots SET status = 'occupied'").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		spot, err := repo.ClaimFirstAvailable(ctx, 1)
		assert.NoError(t, err)
		assert.Nil(t, spot)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepositoryRelease(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewSpotRepository(conn)
	ctx := context.Background()

	t.Run("releases occupied spot", func(t *testing.T) {
		mock.ExpectExec("UPDATE parking_spots SET status = 'available'").
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		released, err := repo.Release(ctx, 7)
		assert.NoError(t, err)
		assert.True(t, released)
	})

	t.Run("double release affects nothing", func(t *testing.T) {
		mock.ExpectExec("UPDATE parking_spots SET status = 'available'").
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 0))

		released, err := repo.Release(ctx, 7)
		assert.NoError(t, err)
		assert.False(t, released)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
