package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-backend/internal/domain"
)

func TestReservationRepository_Transitions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()
	at := time.Now()

	t.Run("ExpireIfPendingWins", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations SET status = ").
			WithArgs("res-1", domain.ReservationStatusExpired, at, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.ExpireIfPending(ctx, "res-1", at)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ExpireIfPendingMissesConfirmedHold", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations SET status = ").
			WithArgs("res-1", domain.ReservationStatusExpired, at, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.ExpireIfPending(ctx, "res-1", at)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("CancelIfCurrent", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations SET status = ").
			WithArgs("res-1", domain.ReservationStatusCancelled, at, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.CancelIfCurrent(ctx, "res-1", at)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestReservationRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "user_id", "bike_id", "station_id", "prepaid", "subscription_id", "status", "created_at", "updated_at"}).
			AddRow("res-1", "user-1", "bike-1", "st-1", int64(10000), nil, "PENDING", now, now)
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs("res-1").
			WillReturnRows(rows)

		res, err := repo.FindByID(ctx, "res-1")
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, int64(10000), res.Prepaid)
		assert.Equal(t, domain.ReservationStatusPending, res.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs("res-9").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bike_id", "station_id", "prepaid", "subscription_id", "status", "created_at", "updated_at"}))

		res, err := repo.FindByID(ctx, "res-9")
		require.NoError(t, err)
		assert.Nil(t, res)
	})
}
