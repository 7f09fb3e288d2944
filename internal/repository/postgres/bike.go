package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"
)

type bikeRepository struct {
	db DBTX
}

func NewBikeRepository(db DBTX) repository.BikeRepository {
	return &bikeRepository{db: db}
}

func (r *bikeRepository) GetByID(ctx context.Context, id string) (*domain.Bike, error) {
	bike := &domain.Bike{}
	query := `SELECT id, chip_id, station_id, supplier_id, status, created_at, updated_at
	          FROM bikes WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&bike.ID, &bike.ChipID, &bike.StationID, &bike.SupplierID, &bike.Status, &bike.CreatedAt, &bike.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bike, nil
}

// TransitionStatus flips a bike's status only if the row still carries the
// expected prior status. A false result means the caller lost the race
// and should re-read to classify the conflict.
func (r *bikeRepository) TransitionStatus(ctx context.Context, id string, from, to domain.BikeStatus, at time.Time) (bool, error) {
	query := `UPDATE bikes SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, from, to, at)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
