// Package pricing computes rental prices from ride duration, subscription
// coverage and penalty rules. It performs no I/O; all amounts are integer
// minor units.
package pricing

import "bikeshare-backend/internal/domain"

type Config struct {
	PricePer30Min         int64
	HoursPerUsage         int
	PenaltyThresholdHours float64
	PenaltyAmount         int64
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Coverage is the outcome of applying a subscription to a ride: the price
// left after the included allowance, and how many usages the ride consumes
// beyond the one already charged at start.
type Coverage struct {
	BasePrice  int64
	UsageToAdd int
}

// BasePrice charges every started 30-minute block.
func (e *Engine) BasePrice(durationMinutes int) int64 {
	blocks := (durationMinutes + 29) / 30
	return int64(blocks) * e.cfg.PricePer30Min
}

// SubscriptionCoverage prices a ride against a subscription's allowance.
// One usage was already consumed when the rental started, so only the
// excess beyond the first is reported in UsageToAdd.
func (e *Engine) SubscriptionCoverage(durationMinutes int, sub *domain.Subscription, userID string) (Coverage, error) {
	if sub.UserID != userID ||
		(sub.Status != domain.SubscriptionStatusActive && sub.Status != domain.SubscriptionStatusPending) {
		return Coverage{}, &domain.SubscriptionNotUsableError{
			SubscriptionID: sub.ID,
			Status:         sub.Status,
		}
	}

	minutesPerUsage := e.cfg.HoursPerUsage * 60
	requiredUsages := (durationMinutes + minutesPerUsage - 1) / minutesPerUsage
	if requiredUsages < 1 {
		requiredUsages = 1
	}

	if sub.MaxUsages == nil {
		// Unlimited package: the ride is fully covered.
		return Coverage{BasePrice: 0, UsageToAdd: requiredUsages - 1}, nil
	}

	availableUsages := *sub.MaxUsages - sub.UsageCount + 1
	if availableUsages < 0 {
		availableUsages = 0
	}
	coverMinutes := availableUsages * minutesPerUsage
	extraMinutes := durationMinutes - coverMinutes

	var basePrice int64
	if extraMinutes > 0 {
		basePrice = e.BasePrice(extraMinutes)
	}

	usageToAdd := min(availableUsages-1, requiredUsages-1)
	if usageToAdd < 0 {
		usageToAdd = 0
	}
	return Coverage{BasePrice: basePrice, UsageToAdd: usageToAdd}, nil
}

// Penalty applies the flat late amount once a ride exceeds the threshold.
func (e *Engine) Penalty(durationMinutes int) int64 {
	if float64(durationMinutes)/60 > e.cfg.PenaltyThresholdHours {
		return e.cfg.PenaltyAmount
	}
	return 0
}

// FinalPrice nets prepaid reservation credit against the computed price,
// floored at zero.
func (e *Engine) FinalPrice(basePrice, penalty, prepaid int64) int64 {
	total := basePrice + penalty - prepaid
	if total < 0 {
		return 0
	}
	return total
}
