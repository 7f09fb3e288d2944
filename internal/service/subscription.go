package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bikeshare-backend/internal/config"
	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/logger"
	"bikeshare-backend/internal/repository"
)

type subscriptionService struct {
	store    repository.Store
	cfg      config.SubscriptionConfig
	emailSvc EmailService
}

func NewSubscriptionService(store repository.Store, cfg config.SubscriptionConfig, emailSvc EmailService) SubscriptionService {
	return &subscriptionService{
		store:    store,
		cfg:      cfg,
		emailSvc: emailSvc,
	}
}

func (s *subscriptionService) Create(ctx context.Context, userID string, in CreateSubscriptionInput) (*domain.Subscription, error) {
	sub := &domain.Subscription{
		ID:          uuid.New().String(),
		UserID:      userID,
		PackageName: in.PackageName,
		MaxUsages:   in.MaxUsages,
		Price:       in.Price,
		Status:      domain.SubscriptionStatusPending,
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Subscriptions().CreatePending(ctx, sub); err != nil {
			return err
		}
		if in.Price > 0 {
			if _, err := tx.Wallets().DecreaseBalance(ctx, domain.DecreaseBalanceInput{
				UserID:      userID,
				Amount:      in.Price,
				Description: fmt.Sprintf("Subscription %s", in.PackageName),
				Hash:        "subscription:" + sub.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if user, uerr := s.store.Users().GetByID(ctx, userID); uerr == nil && user != nil {
		if merr := s.emailSvc.SendSubscriptionCreated(user.Email, user.FullName, sub.PackageName); merr != nil {
			logger.ErrorContext(ctx, "could not send subscription email",
				"subscription_id", sub.ID, "user_id", userID, "error", merr)
		}
	}
	return sub, nil
}

func (s *subscriptionService) Activate(ctx context.Context, userID, subscriptionID string, now time.Time) (*domain.Subscription, error) {
	var activated *domain.Subscription

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		sub, err := tx.Subscriptions().FindByID(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if sub == nil || sub.UserID != userID {
			return &domain.SubscriptionNotFoundError{SubscriptionID: subscriptionID}
		}

		activated, err = tx.Subscriptions().ActivateIfPending(ctx, subscriptionID, now, expiry(now, s.cfg))
		if err != nil {
			return err
		}
		if activated == nil {
			return &domain.SubscriptionNotPendingError{SubscriptionID: subscriptionID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

func (s *subscriptionService) UseOne(ctx context.Context, userID, subscriptionID string, now time.Time) (*domain.Subscription, error) {
	var used *domain.Subscription

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		used, err = consumeSubscriptionUsage(ctx, tx, subscriptionID, userID, now, s.cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return used, nil
}

func (s *subscriptionService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]domain.Subscription, int, error) {
	return s.store.Subscriptions().ListForUser(ctx, userID, page, pageSize)
}

// ActivateDuePending flips PENDING subscriptions past the auto-activation
// window to ACTIVE. Safe to call repeatedly; each row is guarded by its
// own conditional update.
func (s *subscriptionService) ActivateDuePending(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, -s.cfg.AutoActivateDays)
	pending, err := s.store.Subscriptions().ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	activated := 0
	for _, sub := range pending {
		row, err := s.store.Subscriptions().ActivateIfPending(ctx, sub.ID, now, expiry(now, s.cfg))
		if err != nil {
			return activated, err
		}
		if row != nil {
			activated++
		}
	}
	return activated, nil
}

func (s *subscriptionService) MarkExpiredNow(ctx context.Context, now time.Time) (int64, error) {
	return s.store.Subscriptions().MarkExpired(ctx, now)
}

func expiry(now time.Time, cfg config.SubscriptionConfig) time.Time {
	return now.AddDate(0, 0, cfg.ExpiryWindowDays)
}

// consumeSubscriptionUsage takes one usage from a subscription inside the
// caller's transaction, activating a PENDING subscription first. The
// usage increment is a compare-and-swap on the observed usage count; a
// lost race reports the allowance as exhausted and the caller may retry
// the whole operation.
func consumeSubscriptionUsage(ctx context.Context, tx repository.Store, subscriptionID, userID string, now time.Time, cfg config.SubscriptionConfig) (*domain.Subscription, error) {
	sub, err := tx.Subscriptions().FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, &domain.SubscriptionNotFoundError{SubscriptionID: subscriptionID}
	}
	if sub.UserID != userID ||
		sub.Status == domain.SubscriptionStatusCancelled ||
		sub.Status == domain.SubscriptionStatusExpired {
		return nil, &domain.SubscriptionNotUsableError{SubscriptionID: subscriptionID, Status: sub.Status}
	}
	if sub.ExpiresAt != nil && !sub.ExpiresAt.After(now) {
		return nil, &domain.SubscriptionExpiredError{SubscriptionID: subscriptionID}
	}
	if sub.MaxUsages != nil && sub.UsageCount >= *sub.MaxUsages {
		return nil, &domain.SubscriptionUsageExceededError{
			SubscriptionID: subscriptionID,
			UsageCount:     sub.UsageCount,
			MaxUsages:      *sub.MaxUsages,
		}
	}

	if sub.Status == domain.SubscriptionStatusPending {
		activated, err := tx.Subscriptions().ActivateIfPending(ctx, subscriptionID, now, expiry(now, cfg))
		if err != nil {
			return nil, err
		}
		if activated != nil {
			sub = activated
		} else {
			// Someone else activated it first; pick up the fresh row.
			sub, err = tx.Subscriptions().FindByID(ctx, subscriptionID)
			if err != nil {
				return nil, err
			}
			if sub == nil || sub.Status != domain.SubscriptionStatusActive {
				status := domain.SubscriptionStatusCancelled
				if sub != nil {
					status = sub.Status
				}
				return nil, &domain.SubscriptionNotUsableError{SubscriptionID: subscriptionID, Status: status}
			}
		}
	}

	updated, err := tx.Subscriptions().IncrementUsageIfCount(ctx, subscriptionID, sub.UsageCount, 1,
		[]domain.SubscriptionStatus{domain.SubscriptionStatusActive, domain.SubscriptionStatusPending})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		maxUsages := 0
		if sub.MaxUsages != nil {
			maxUsages = *sub.MaxUsages
		}
		return nil, &domain.SubscriptionUsageExceededError{
			SubscriptionID: subscriptionID,
			UsageCount:     sub.UsageCount,
			MaxUsages:      maxUsages,
		}
	}
	return updated, nil
}
