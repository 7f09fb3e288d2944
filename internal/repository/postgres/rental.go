package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"

	"github.com/google/uuid"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, user_id, bike_id, start_station_id, end_station_id, start_time, end_time,
	duration_minutes, total_price, subscription_id, status, created_at, updated_at`

func scanRental(row *sql.Row) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.UserID, &rt.BikeID, &rt.StartStationID, &rt.EndStationID,
		&rt.StartTime, &rt.EndTime, &rt.DurationMinutes, &rt.TotalPrice,
		&rt.SubscriptionID, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// Create inserts a rental row. The partial unique indexes on active
// rentals are the final backstop when the service-level existence checks
// race; their violations are remapped to the same typed conflicts.
func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	if rental.ID == "" {
		rental.ID = uuid.NewString()
	}
	now := time.Now()
	rental.CreatedAt = now
	rental.UpdatedAt = now

	query := `INSERT INTO rentals (id, user_id, bike_id, start_station_id, start_time, subscription_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	_, err := r.db.ExecContext(ctx, query,
		rental.ID, rental.UserID, rental.BikeID, rental.StartStationID,
		rental.StartTime, rental.SubscriptionID, rental.Status, now)
	switch {
	case isUniqueViolation(err, "rentals_one_active_per_bike_idx"):
		bikeID := ""
		if rental.BikeID != nil {
			bikeID = *rental.BikeID
		}
		return &domain.BikeAlreadyRentedError{BikeID: bikeID}
	case isUniqueViolation(err, "rentals_one_active_per_user_idx"):
		return &domain.ActiveRentalExistsError{UserID: rental.UserID}
	case isUniqueViolation(err, ""):
		return fmt.Errorf("unhandled rental unique constraint: %w", err)
	}
	return err
}

func (r *rentalRepository) GetByIDForUser(ctx context.Context, userID, rentalID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 AND user_id = $2`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, rentalID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1 AND status = $2`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, userID, domain.RentalStatusRented))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) FindActiveByBike(ctx context.Context, bikeID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE bike_id = $1 AND status = $2`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, bikeID, domain.RentalStatusRented))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// StartReserved promotes a reservation-backed rental to RENTED.
func (r *rentalRepository) StartReserved(ctx context.Context, rentalID string, startTime time.Time) (bool, error) {
	query := `UPDATE rentals SET status = $2, start_time = $3, updated_at = $4
	          WHERE id = $1 AND status = $5`
	result, err := r.db.ExecContext(ctx, query,
		rentalID, domain.RentalStatusRented, startTime, time.Now(), domain.RentalStatusReserved)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *rentalRepository) CancelReserved(ctx context.Context, rentalID string, at time.Time) (bool, error) {
	query := `UPDATE rentals SET status = $2, updated_at = $3
	          WHERE id = $1 AND status = $4`
	result, err := r.db.ExecContext(ctx, query,
		rentalID, domain.RentalStatusCancelled, at, domain.RentalStatusReserved)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// UpdateOnEnd completes a rental; the status guard keeps a raced second
// completion from overwriting the first.
func (r *rentalRepository) UpdateOnEnd(ctx context.Context, in repository.EndRentalUpdate) (*domain.Rental, error) {
	query := `UPDATE rentals
	          SET status = $2, end_station_id = $3, end_time = $4, duration_minutes = $5, total_price = $6, updated_at = $7
	          WHERE id = $1 AND status = $8
	          RETURNING ` + rentalColumns
	rt, err := scanRental(r.db.QueryRowContext(ctx, query,
		in.RentalID, in.NewStatus, in.EndStationID, in.EndTime, in.DurationMinutes,
		in.TotalPrice, time.Now(), domain.RentalStatusRented))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID string, status string, page, pageSize int) ([]domain.Rental, int, error) {
	listQuery := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1`
	args := []any{userID}
	argIdx := 2
	if status != "" {
		listQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int
	countQuery := "SELECT count(*) FROM (" + listQuery + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	listQuery += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.BikeID, &rt.StartStationID, &rt.EndStationID,
			&rt.StartTime, &rt.EndTime, &rt.DurationMinutes, &rt.TotalPrice,
			&rt.SubscriptionID, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, count, rows.Err()
}
