package jobs

import (
	"context"
	"time"

	"bikeshare-backend/internal/logger"
)

// ExpireReservationHolds expires stale PENDING reservations, releasing
// the held bike and refunding the prepaid amount
func (jr *JobRunner) ExpireReservationHolds() {
	jr.runWithRecovery("ExpireReservationHolds", func() {
		ctx := context.Background()

		expired, err := jr.services.Reservation.ExpireHolds(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to expire reservation holds", "error", err)
			return
		}
		logger.Info("Expired reservation holds", "count", expired)
	})
}
