package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	query := `INSERT INTO users (id, full_name, email, password_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FullName, user.Email, user.PasswordHash, user.CreatedAt)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, `id`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `email`, email)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, full_name, email, password_hash, created_at FROM users WHERE ` + column + ` = $1`
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
