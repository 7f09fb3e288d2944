package jobs

import (
	"context"
	"time"

	"bikeshare-backend/internal/logger"
)

// ActivatePendingSubscriptions flips PENDING subscriptions past the
// auto-activation window to ACTIVE
func (jr *JobRunner) ActivatePendingSubscriptions() {
	jr.runWithRecovery("ActivatePendingSubscriptions", func() {
		ctx := context.Background()

		activated, err := jr.services.Subscription.ActivateDuePending(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to activate pending subscriptions", "error", err)
			return
		}
		logger.Info("Activated pending subscriptions", "count", activated)
	})
}

// ExpireSubscriptions marks ACTIVE subscriptions past their expiry as
// EXPIRED
func (jr *JobRunner) ExpireSubscriptions() {
	jr.runWithRecovery("ExpireSubscriptions", func() {
		ctx := context.Background()

		expired, err := jr.services.Subscription.MarkExpiredNow(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to expire subscriptions", "error", err)
			return
		}
		logger.Info("Expired subscriptions", "count", expired)
	})
}
