package service

import (
	"context"
	"fmt"
	"time"

	"bikeshare-backend/internal/config"
	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/logger"
	"bikeshare-backend/internal/pricing"
	"bikeshare-backend/internal/repository"
)

type rentalService struct {
	store    repository.Store
	pricer   *pricing.Engine
	cfg      config.PricingConfig
	subCfg   config.SubscriptionConfig
	emailSvc EmailService
}

func NewRentalService(
	store repository.Store,
	pricer *pricing.Engine,
	cfg config.PricingConfig,
	subCfg config.SubscriptionConfig,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		store:    store,
		pricer:   pricer,
		cfg:      cfg,
		subCfg:   subCfg,
		emailSvc: emailSvc,
	}
}

// classifyBikeForPickup turns a bike's current status into the matching
// failure. Returns nil only for an AVAILABLE bike.
func classifyBikeForPickup(bike *domain.Bike) error {
	switch bike.Status {
	case domain.BikeStatusAvailable:
		return nil
	case domain.BikeStatusBooked:
		return &domain.BikeAlreadyRentedError{BikeID: bike.ID}
	case domain.BikeStatusBroken:
		return &domain.BikeIsBrokenError{BikeID: bike.ID}
	case domain.BikeStatusMaintained:
		return &domain.BikeIsMaintainedError{BikeID: bike.ID}
	case domain.BikeStatusReserved:
		return &domain.BikeIsReservedError{BikeID: bike.ID}
	default:
		return &domain.BikeUnavailableError{BikeID: bike.ID}
	}
}

// pickupChecks runs the shared bike validation for both direct starts and
// reservations: the bike exists, is docked at the requested station, and
// is AVAILABLE.
func pickupChecks(ctx context.Context, tx repository.Store, bikeID, stationID string) (*domain.Bike, error) {
	bike, err := tx.Bikes().GetByID(ctx, bikeID)
	if err != nil {
		return nil, err
	}
	if bike == nil {
		return nil, &domain.BikeNotFoundError{BikeID: bikeID}
	}
	if bike.StationID == nil {
		return nil, &domain.BikeMissingStationError{BikeID: bikeID}
	}
	if *bike.StationID != stationID {
		return nil, &domain.BikeNotFoundInStationError{BikeID: bikeID, StationID: stationID}
	}
	if err := classifyBikeForPickup(bike); err != nil {
		return nil, err
	}
	return bike, nil
}

func (s *rentalService) StartRental(ctx context.Context, userID string, in StartRentalInput) (*domain.Rental, error) {
	var rental *domain.Rental

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		active, err := tx.Rentals().FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if active != nil {
			return &domain.ActiveRentalExistsError{UserID: userID}
		}

		activeOnBike, err := tx.Rentals().FindActiveByBike(ctx, in.BikeID)
		if err != nil {
			return err
		}
		if activeOnBike != nil {
			return &domain.BikeAlreadyRentedError{BikeID: in.BikeID}
		}

		bike, err := pickupChecks(ctx, tx, in.BikeID, in.StationID)
		if err != nil {
			return err
		}

		wallet, err := tx.Wallets().FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return &domain.UserWalletNotFoundError{UserID: userID}
		}
		if wallet.Balance < s.cfg.MinWalletBalanceToRent {
			return &domain.InsufficientBalanceToRentError{
				UserID:         userID,
				Required:       s.cfg.MinWalletBalanceToRent,
				CurrentBalance: wallet.Balance,
			}
		}

		if in.SubscriptionID != nil {
			if _, err := consumeSubscriptionUsage(ctx, tx, *in.SubscriptionID, userID, in.At, s.subCfg); err != nil {
				return err
			}
		}

		ok, err := tx.Bikes().TransitionStatus(ctx, bike.ID, domain.BikeStatusAvailable, domain.BikeStatusBooked, in.At)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race. Re-read so the caller learns the precise reason.
			current, err := tx.Bikes().GetByID(ctx, bike.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return &domain.BikeNotFoundError{BikeID: bike.ID}
			}
			if err := classifyBikeForPickup(current); err != nil {
				return err
			}
			return &domain.BikeUnavailableError{BikeID: bike.ID}
		}

		rental = &domain.Rental{
			UserID:         userID,
			BikeID:         &bike.ID,
			StartStationID: in.StationID,
			StartTime:      in.At,
			SubscriptionID: in.SubscriptionID,
			Status:         domain.RentalStatusRented,
		}
		return tx.Rentals().Create(ctx, rental)
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) EndRental(ctx context.Context, userID string, in EndRentalInput) (*domain.Rental, error) {
	var rental *domain.Rental

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Rentals().GetByIDForUser(ctx, userID, in.RentalID)
		if err != nil {
			return err
		}
		if current == nil {
			return &domain.RentalNotFoundError{RentalID: in.RentalID, UserID: userID}
		}
		if current.Status != domain.RentalStatusRented {
			return &domain.InvalidRentalStateError{
				RentalID: in.RentalID,
				From:     current.Status,
				To:       domain.RentalStatusCompleted,
			}
		}
		if in.EndStationID != current.StartStationID {
			return &domain.EndStationMismatchError{
				RentalID:              in.RentalID,
				StartStationID:        current.StartStationID,
				AttemptedEndStationID: in.EndStationID,
			}
		}

		durationMinutes := int(in.At.Sub(current.StartTime) / time.Minute)
		if durationMinutes < 1 {
			durationMinutes = 1
		}

		var (
			basePrice  int64
			usageToAdd int
			sub        *domain.Subscription
		)
		if current.SubscriptionID != nil {
			sub, err = tx.Subscriptions().FindByID(ctx, *current.SubscriptionID)
			if err != nil {
				return err
			}
			if sub == nil {
				return &domain.SubscriptionNotFoundError{SubscriptionID: *current.SubscriptionID}
			}
			cov, err := s.pricer.SubscriptionCoverage(durationMinutes, sub, userID)
			if err != nil {
				return err
			}
			basePrice = cov.BasePrice
			usageToAdd = cov.UsageToAdd
		} else {
			basePrice = s.pricer.BasePrice(durationMinutes)
		}

		// A reservation-backed rental shares its ID with the reservation.
		reservation, err := tx.Reservations().FindByID(ctx, in.RentalID)
		if err != nil {
			return err
		}
		var prepaid int64
		if reservation != nil {
			prepaid = reservation.Prepaid
		}

		total := s.pricer.FinalPrice(basePrice, s.pricer.Penalty(durationMinutes), prepaid)
		if total > 0 {
			if _, err := tx.Wallets().DecreaseBalance(ctx, domain.DecreaseBalanceInput{
				UserID:      userID,
				Amount:      total,
				Description: fmt.Sprintf("Rental %s (%d min)", in.RentalID, durationMinutes),
				Hash:        "rental:" + in.RentalID,
			}); err != nil {
				return err
			}
		}

		if usageToAdd > 0 {
			updated, err := tx.Subscriptions().IncrementUsageIfCount(ctx, sub.ID, sub.UsageCount, usageToAdd,
				[]domain.SubscriptionStatus{domain.SubscriptionStatusActive, domain.SubscriptionStatusPending})
			if err != nil {
				return err
			}
			if updated == nil {
				maxUsages := 0
				if sub.MaxUsages != nil {
					maxUsages = *sub.MaxUsages
				}
				return &domain.SubscriptionUsageExceededError{
					SubscriptionID: sub.ID,
					UsageCount:     sub.UsageCount,
					MaxUsages:      maxUsages,
				}
			}
		}

		if current.BikeID != nil {
			ok, err := tx.Bikes().TransitionStatus(ctx, *current.BikeID, domain.BikeStatusBooked, domain.BikeStatusAvailable, in.At)
			if err != nil {
				return err
			}
			if !ok {
				// The bike may have been reported broken mid-ride; its
				// current status wins and the return still completes.
				bike, err := tx.Bikes().GetByID(ctx, *current.BikeID)
				if err != nil {
					return err
				}
				if bike == nil {
					return &domain.BikeNotFoundError{BikeID: *current.BikeID}
				}
			}
		}

		if reservation != nil && reservation.Status == domain.ReservationStatusActive {
			if _, err := tx.Reservations().ExpireActive(ctx, reservation.ID, in.At); err != nil {
				return err
			}
		}

		rental, err = tx.Rentals().UpdateOnEnd(ctx, repository.EndRentalUpdate{
			RentalID:        in.RentalID,
			EndStationID:    in.EndStationID,
			EndTime:         in.At,
			DurationMinutes: durationMinutes,
			TotalPrice:      total,
			NewStatus:       domain.RentalStatusCompleted,
		})
		if err != nil {
			return err
		}
		if rental == nil {
			return &domain.InvalidRentalStateError{
				RentalID: in.RentalID,
				From:     domain.RentalStatusRented,
				To:       domain.RentalStatusCompleted,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendReceipt(ctx, rental)
	return rental, nil
}

// sendReceipt is best effort; a failed email never fails the ride.
func (s *rentalService) sendReceipt(ctx context.Context, rental *domain.Rental) {
	user, err := s.store.Users().GetByID(ctx, rental.UserID)
	if err != nil || user == nil {
		logger.ErrorContext(ctx, "could not load user for rental receipt",
			"rental_id", rental.ID, "user_id", rental.UserID, "error", err)
		return
	}
	if err := s.emailSvc.SendRentalReceipt(user.Email, user.FullName, rental); err != nil {
		logger.ErrorContext(ctx, "could not send rental receipt",
			"rental_id", rental.ID, "user_id", rental.UserID, "error", err)
	}
}

func (s *rentalService) GetMyRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error) {
	rental, err := s.store.Rentals().GetByIDForUser(ctx, userID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, &domain.RentalNotFoundError{RentalID: rentalID, UserID: userID}
	}
	return rental, nil
}

func (s *rentalService) ListMyRentals(ctx context.Context, userID, status string, page, pageSize int) ([]domain.Rental, int, error) {
	return s.store.Rentals().ListByUser(ctx, userID, status, page, pageSize)
}
