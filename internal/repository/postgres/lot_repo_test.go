package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"liftpark/internal/db"
	apperrors "liftpark/internal/errors"
)

func TestLotRepositoryCreate(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewLotRepository(conn)
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		lot := &db.ParkingLot{BlockID: "BLOCK-A", Name: "BLOCK-A", PricePerHour: 50, Capacity: 40}
		mock.ExpectQuery("INSERT INTO parking_lots").
			WithArgs("BLOCK-A", "BLOCK-A", "", 50, 40).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

		err := repo.Create(ctx, lot)
		assert.NoError(t, err)
		assert.Equal(t, 1, lot.ID)
	})

	t.Run("duplicate block maps to Conflict", func(t *testing.T) {
		lot := &db.ParkingLot{BlockID: "BLOCK-A", Name: "BLOCK-A", PricePerHour: 50, Capacity: 40}
		mock.ExpectQuery("INSERT INTO parking_lots").
			WithArgs("BLOCK-A", "BLOCK-A", "", 50, 40).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, lot)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLotRepositorySummary(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer conn.Close()

	repo := NewLotRepository(conn)
	ctx := context.Background()

	t.Run("counts occupancy", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "block_id", "capacity", "occupied", "available"}).
			AddRow(1, "BLOCK-A", 40, 12, 28)
		mock.ExpectQuery("SELECT l.id, l.block_id, l.capacity").
			WithArgs(1).
			WillReturnRows(rows)

		s, err := repo.Summary(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 12, s.Occupied)
		assert.Equal(t, 28, s.Available)
	})

	t.Run("missing lot maps to NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT l.id, l.block_id, l.capacity").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Summary(ctx, 99)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
