package domain

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "PENDING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription covers rental time in usage units. MaxUsages nil means
// unlimited. At most one PENDING or ACTIVE subscription exists per user,
// enforced by a partial unique index.
type Subscription struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	PackageName string             `json:"package_name"`
	MaxUsages   *int               `json:"max_usages,omitempty"`
	UsageCount  int                `json:"usage_count"`
	Status      SubscriptionStatus `json:"status"`
	ActivatedAt *time.Time         `json:"activated_at,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	Price       int64              `json:"price"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
