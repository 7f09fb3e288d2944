package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type subscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, package_name, max_usages, usage_count, status, activated_at, expires_at, price, created_at, updated_at`

func scanSubscription(row *sql.Row) (*domain.Subscription, error) {
	s := &domain.Subscription{}
	var maxUsages sql.NullInt64
	err := row.Scan(&s.ID, &s.UserID, &s.PackageName, &maxUsages, &s.UsageCount,
		&s.Status, &s.ActivatedAt, &s.ExpiresAt, &s.Price, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if maxUsages.Valid {
		v := int(maxUsages.Int64)
		s.MaxUsages = &v
	}
	return s, nil
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *subscriptionRepository) FindCurrentForUser(ctx context.Context, userID string, statuses []domain.SubscriptionStatus) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
	          WHERE user_id = $1 AND status = ANY($2) ORDER BY created_at DESC LIMIT 1`
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, userID, pq.Array(statusStrings(statuses))))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreatePending inserts a PENDING subscription. The partial unique index
// on (user_id) over PENDING/ACTIVE rows is the backstop for the
// one-current-subscription-per-user invariant when creations race.
func (r *subscriptionRepository) CreatePending(ctx context.Context, sub *domain.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.Status = domain.SubscriptionStatusPending
	sub.UsageCount = 0
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	query := `INSERT INTO subscriptions (id, user_id, package_name, max_usages, usage_count, status, price, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $7)`
	var maxUsages any
	if sub.MaxUsages != nil {
		maxUsages = *sub.MaxUsages
	}
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.PackageName, maxUsages, sub.Status, sub.Price, now)
	if isUniqueViolation(err, "subscriptions_one_current_per_user_idx") {
		return &domain.ActiveSubscriptionExistsError{UserID: sub.UserID}
	}
	return err
}

// ActivateIfPending flips PENDING to ACTIVE and stamps the activation
// window. A nil result with nil error means the row was no longer PENDING.
func (r *subscriptionRepository) ActivateIfPending(ctx context.Context, id string, activatedAt, expiresAt time.Time) (*domain.Subscription, error) {
	query := `UPDATE subscriptions
	          SET status = $2, activated_at = $3, expires_at = $4, updated_at = $5
	          WHERE id = $1 AND status = $6
	          RETURNING ` + subscriptionColumns
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query,
		id, domain.SubscriptionStatusActive, activatedAt, expiresAt, time.Now(), domain.SubscriptionStatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IncrementUsageIfCount adds usages only while the stored count still
// matches what the caller read, serializing concurrent consumption.
func (r *subscriptionRepository) IncrementUsageIfCount(ctx context.Context, id string, expectedCount, amount int, allowed []domain.SubscriptionStatus) (*domain.Subscription, error) {
	query := `UPDATE subscriptions
	          SET usage_count = usage_count + $3, updated_at = $4
	          WHERE id = $1 AND usage_count = $2 AND status = ANY($5)
	          RETURNING ` + subscriptionColumns
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query,
		id, expectedCount, amount, time.Now(), pq.Array(statusStrings(allowed))))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *subscriptionRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE subscriptions SET status = $1, updated_at = $2
	          WHERE status = $3 AND expires_at IS NOT NULL AND expires_at <= $2`
	result, err := r.db.ExecContext(ctx, query,
		domain.SubscriptionStatusExpired, now, domain.SubscriptionStatusActive)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *subscriptionRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
	          WHERE status = $1 AND created_at <= $2 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, domain.SubscriptionStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

func (r *subscriptionRepository) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Subscription, int, error) {
	var count int
	countQuery := `SELECT count(*) FROM subscriptions WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
	          WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	subs, err := collectSubscriptions(rows)
	if err != nil {
		return nil, 0, err
	}
	return subs, count, nil
}

func collectSubscriptions(rows *sql.Rows) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	for rows.Next() {
		var s domain.Subscription
		var maxUsages sql.NullInt64
		if err := rows.Scan(&s.ID, &s.UserID, &s.PackageName, &maxUsages, &s.UsageCount,
			&s.Status, &s.ActivatedAt, &s.ExpiresAt, &s.Price, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if maxUsages.Valid {
			v := int(maxUsages.Int64)
			s.MaxUsages = &v
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func statusStrings(statuses []domain.SubscriptionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
