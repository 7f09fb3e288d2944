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

type reservationService struct {
	store repository.Store
	cfg   config.ReservationConfig
}

func NewReservationService(store repository.Store, cfg config.ReservationConfig) ReservationService {
	return &reservationService{store: store, cfg: cfg}
}

// Reserve holds an available bike and charges the prepaid amount. The
// reservation and its paired RESERVED rental share one ID.
func (s *reservationService) Reserve(ctx context.Context, userID string, in ReserveBikeInput) (*domain.Reservation, error) {
	var reservation *domain.Reservation

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		active, err := tx.Rentals().FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if active != nil {
			return &domain.ActiveRentalExistsError{UserID: userID}
		}

		bike, err := pickupChecks(ctx, tx, in.BikeID, in.StationID)
		if err != nil {
			return err
		}

		reservation = &domain.Reservation{
			ID:             uuid.New().String(),
			UserID:         userID,
			BikeID:         bike.ID,
			StationID:      in.StationID,
			Prepaid:        s.cfg.PrepaidAmount,
			SubscriptionID: in.SubscriptionID,
			Status:         domain.ReservationStatusPending,
		}

		if reservation.Prepaid > 0 {
			if _, err := tx.Wallets().DecreaseBalance(ctx, domain.DecreaseBalanceInput{
				UserID:      userID,
				Amount:      reservation.Prepaid,
				Description: fmt.Sprintf("Reservation hold for bike %s", bike.ID),
				Hash:        "reservation:" + reservation.ID,
			}); err != nil {
				return err
			}
		}

		ok, err := tx.Bikes().TransitionStatus(ctx, bike.ID, domain.BikeStatusAvailable, domain.BikeStatusReserved, in.At)
		if err != nil {
			return err
		}
		if !ok {
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

		if err := tx.Reservations().Create(ctx, reservation); err != nil {
			return err
		}
		return tx.Rentals().Create(ctx, &domain.Rental{
			ID:             reservation.ID,
			UserID:         userID,
			BikeID:         &bike.ID,
			StartStationID: in.StationID,
			StartTime:      in.At,
			SubscriptionID: in.SubscriptionID,
			Status:         domain.RentalStatusReserved,
		})
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// Confirm turns a held reservation into a running ride: reservation to
// ACTIVE, paired rental to RENTED, bike to BOOKED.
func (s *reservationService) Confirm(ctx context.Context, userID, reservationID string, at time.Time) (*domain.Rental, error) {
	var rental *domain.Rental

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		reservation, err := s.findOwned(ctx, tx, userID, reservationID)
		if err != nil {
			return err
		}
		if reservation.Status != domain.ReservationStatusPending && reservation.Status != domain.ReservationStatusActive {
			return &domain.InvalidReservationStateError{ReservationID: reservationID, Status: reservation.Status}
		}

		if reservation.Status == domain.ReservationStatusPending {
			ok, err := tx.Reservations().ActivateIfPending(ctx, reservationID, at)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.InvalidReservationStateError{ReservationID: reservationID, Status: reservation.Status}
			}
		}

		rental, err = tx.Rentals().GetByIDForUser(ctx, userID, reservationID)
		if err != nil {
			return err
		}
		if rental == nil {
			return &domain.RentalNotFoundError{RentalID: reservationID, UserID: userID}
		}

		started, err := tx.Rentals().StartReserved(ctx, reservationID, at)
		if err != nil {
			return err
		}
		if !started {
			return &domain.InvalidRentalStateError{
				RentalID: reservationID,
				From:     rental.Status,
				To:       domain.RentalStatusRented,
			}
		}
		rental.Status = domain.RentalStatusRented
		rental.StartTime = at

		ok, err := tx.Bikes().TransitionStatus(ctx, reservation.BikeID, domain.BikeStatusReserved, domain.BikeStatusBooked, at)
		if err != nil {
			return err
		}
		if !ok {
			current, err := tx.Bikes().GetByID(ctx, reservation.BikeID)
			if err != nil {
				return err
			}
			if current == nil {
				return &domain.BikeNotFoundError{BikeID: reservation.BikeID}
			}
			if err := classifyBikeForPickup(current); err != nil {
				return err
			}
			return &domain.BikeUnavailableError{BikeID: reservation.BikeID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// Cancel releases a held bike and refunds the prepaid amount. Once the
// ride has started the reservation can no longer be cancelled.
func (s *reservationService) Cancel(ctx context.Context, userID, reservationID string, at time.Time) (*domain.Reservation, error) {
	var reservation *domain.Reservation

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		reservation, err = s.findOwned(ctx, tx, userID, reservationID)
		if err != nil {
			return err
		}

		cancelled, err := tx.Reservations().CancelIfCurrent(ctx, reservationID, at)
		if err != nil {
			return err
		}
		if !cancelled {
			return &domain.InvalidReservationStateError{ReservationID: reservationID, Status: reservation.Status}
		}

		rentalCancelled, err := tx.Rentals().CancelReserved(ctx, reservationID, at)
		if err != nil {
			return err
		}
		if !rentalCancelled {
			// The paired rental already started.
			return &domain.InvalidReservationStateError{ReservationID: reservationID, Status: reservation.Status}
		}

		if err := s.releaseHold(ctx, tx, reservation, at); err != nil {
			return err
		}
		reservation.Status = domain.ReservationStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// ExpireHolds expires PENDING reservations older than the hold window.
// Each expiry runs in its own transaction guarded by a conditional
// update, so repeated or concurrent sweeps settle each hold once.
func (s *reservationService) ExpireHolds(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-time.Duration(s.cfg.HoldMinutes) * time.Minute)
	stale, err := s.store.Reservations().ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, reservation := range stale {
		reservation := reservation
		err := s.store.WithinTx(ctx, func(tx repository.Store) error {
			ok, err := tx.Reservations().ExpireIfPending(ctx, reservation.ID, now)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if _, err := tx.Rentals().CancelReserved(ctx, reservation.ID, now); err != nil {
				return err
			}
			if err := s.releaseHold(ctx, tx, &reservation, now); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			logger.ErrorContext(ctx, "could not expire reservation hold",
				"reservation_id", reservation.ID, "error", err)
		}
	}
	return expired, nil
}

func (s *reservationService) findOwned(ctx context.Context, tx repository.Store, userID, reservationID string) (*domain.Reservation, error) {
	reservation, err := tx.Reservations().FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil || reservation.UserID != userID {
		return nil, &domain.ReservationNotFoundError{ReservationID: reservationID}
	}
	return reservation, nil
}

// releaseHold puts the bike back in circulation and refunds the prepaid
// amount.
func (s *reservationService) releaseHold(ctx context.Context, tx repository.Store, reservation *domain.Reservation, at time.Time) error {
	ok, err := tx.Bikes().TransitionStatus(ctx, reservation.BikeID, domain.BikeStatusReserved, domain.BikeStatusAvailable, at)
	if err != nil {
		return err
	}
	if !ok {
		bike, err := tx.Bikes().GetByID(ctx, reservation.BikeID)
		if err != nil {
			return err
		}
		if bike == nil {
			return &domain.BikeNotFoundError{BikeID: reservation.BikeID}
		}
	}

	if reservation.Prepaid > 0 {
		if _, err := tx.Wallets().IncreaseBalance(ctx, domain.IncreaseBalanceInput{
			UserID:      reservation.UserID,
			Amount:      reservation.Prepaid,
			Description: fmt.Sprintf("Reservation %s refund", reservation.ID),
			Hash:        "reservation-refund:" + reservation.ID,
			Type:        domain.TransactionTypeCredit,
		}); err != nil {
			return err
		}
	}
	return nil
}
