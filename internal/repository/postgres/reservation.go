package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"

	"github.com/lib/pq"
)

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, user_id, bike_id, station_id, prepaid, subscription_id, status, created_at, updated_at`

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	now := time.Now()
	res.Status = domain.ReservationStatusPending
	res.CreatedAt = now
	res.UpdatedAt = now
	query := `INSERT INTO reservations (id, user_id, bike_id, station_id, prepaid, subscription_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.UserID, res.BikeID, res.StationID, res.Prepaid, res.SubscriptionID, res.Status, now)
	return err
}

func (r *reservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.UserID, &res.BikeID, &res.StationID, &res.Prepaid,
		&res.SubscriptionID, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) ActivateIfPending(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.transition(ctx, id, at,
		[]domain.ReservationStatus{domain.ReservationStatusPending}, domain.ReservationStatusActive)
}

func (r *reservationRepository) ExpireActive(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.transition(ctx, id, at,
		[]domain.ReservationStatus{domain.ReservationStatusActive}, domain.ReservationStatusExpired)
}

func (r *reservationRepository) ExpireIfPending(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.transition(ctx, id, at,
		[]domain.ReservationStatus{domain.ReservationStatusPending}, domain.ReservationStatusExpired)
}

func (r *reservationRepository) CancelIfCurrent(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.transition(ctx, id, at,
		[]domain.ReservationStatus{domain.ReservationStatusPending, domain.ReservationStatusActive},
		domain.ReservationStatusCancelled)
}

func (r *reservationRepository) transition(ctx context.Context, id string, at time.Time, from []domain.ReservationStatus, to domain.ReservationStatus) (bool, error) {
	query := `UPDATE reservations SET status = $2, updated_at = $3
	          WHERE id = $1 AND status = ANY($4)`
	fromStrings := make([]string, len(from))
	for i, s := range from {
		fromStrings[i] = string(s)
	}
	result, err := r.db.ExecContext(ctx, query, id, to, at, pq.Array(fromStrings))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *reservationRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = $1 AND created_at <= $2 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, domain.ReservationStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.BikeID, &res.StationID, &res.Prepaid,
			&res.SubscriptionID, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
