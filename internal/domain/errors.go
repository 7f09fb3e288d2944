package domain

import "fmt"

// Failure is a business outcome returned as a value. The boundary layer
// maps each Code to a stable HTTP status; failures are never treated as
// crashes. Infrastructure errors do not implement Failure.
type Failure interface {
	error
	Code() string
}

// Not-found failures.

type RentalNotFoundError struct {
	RentalID string
	UserID   string
}

func (e *RentalNotFoundError) Error() string {
	return fmt.Sprintf("rental %s not found for user %s", e.RentalID, e.UserID)
}
func (e *RentalNotFoundError) Code() string { return "RENTAL_NOT_FOUND" }

type BikeNotFoundError struct {
	BikeID string
}

func (e *BikeNotFoundError) Error() string { return fmt.Sprintf("bike %s not found", e.BikeID) }
func (e *BikeNotFoundError) Code() string  { return "BIKE_NOT_FOUND" }

type UserWalletNotFoundError struct {
	UserID string
}

func (e *UserWalletNotFoundError) Error() string {
	return fmt.Sprintf("user %s has no wallet", e.UserID)
}
func (e *UserWalletNotFoundError) Code() string { return "USER_WALLET_NOT_FOUND" }

type SubscriptionNotFoundError struct {
	SubscriptionID string
}

func (e *SubscriptionNotFoundError) Error() string {
	return fmt.Sprintf("subscription %s not found", e.SubscriptionID)
}
func (e *SubscriptionNotFoundError) Code() string { return "SUBSCRIPTION_NOT_FOUND" }

type ReservationNotFoundError struct {
	ReservationID string
}

func (e *ReservationNotFoundError) Error() string {
	return fmt.Sprintf("reservation %s not found", e.ReservationID)
}
func (e *ReservationNotFoundError) Code() string { return "RESERVATION_NOT_FOUND" }

// Conflict failures.

type ActiveRentalExistsError struct {
	UserID string
}

func (e *ActiveRentalExistsError) Error() string {
	return fmt.Sprintf("user %s already has an active rental", e.UserID)
}
func (e *ActiveRentalExistsError) Code() string { return "ACTIVE_RENTAL_EXISTS" }

type BikeAlreadyRentedError struct {
	BikeID string
}

func (e *BikeAlreadyRentedError) Error() string {
	return fmt.Sprintf("bike %s is already rented", e.BikeID)
}
func (e *BikeAlreadyRentedError) Code() string { return "BIKE_ALREADY_RENTED" }

type ActiveSubscriptionExistsError struct {
	UserID string
}

func (e *ActiveSubscriptionExistsError) Error() string {
	return fmt.Sprintf("user %s already has a pending or active subscription", e.UserID)
}
func (e *ActiveSubscriptionExistsError) Code() string { return "ACTIVE_SUBSCRIPTION_EXISTS" }

// Bike status classification failures for start-rental and reserve.

type BikeMissingStationError struct {
	BikeID string
}

func (e *BikeMissingStationError) Error() string {
	return fmt.Sprintf("bike %s is not docked at any station", e.BikeID)
}
func (e *BikeMissingStationError) Code() string { return "BIKE_MISSING_STATION" }

type BikeNotFoundInStationError struct {
	BikeID    string
	StationID string
}

func (e *BikeNotFoundInStationError) Error() string {
	return fmt.Sprintf("bike %s is not at station %s", e.BikeID, e.StationID)
}
func (e *BikeNotFoundInStationError) Code() string { return "BIKE_NOT_FOUND_IN_STATION" }

type BikeIsBrokenError struct {
	BikeID string
}

func (e *BikeIsBrokenError) Error() string { return fmt.Sprintf("bike %s is broken", e.BikeID) }
func (e *BikeIsBrokenError) Code() string  { return "BIKE_IS_BROKEN" }

type BikeIsMaintainedError struct {
	BikeID string
}

func (e *BikeIsMaintainedError) Error() string {
	return fmt.Sprintf("bike %s is under maintenance", e.BikeID)
}
func (e *BikeIsMaintainedError) Code() string { return "BIKE_IS_MAINTAINED" }

type BikeIsReservedError struct {
	BikeID string
}

func (e *BikeIsReservedError) Error() string { return fmt.Sprintf("bike %s is reserved", e.BikeID) }
func (e *BikeIsReservedError) Code() string  { return "BIKE_IS_RESERVED" }

type BikeUnavailableError struct {
	BikeID string
}

func (e *BikeUnavailableError) Error() string {
	return fmt.Sprintf("bike %s is unavailable", e.BikeID)
}
func (e *BikeUnavailableError) Code() string { return "BIKE_UNAVAILABLE" }

// Invalid-state failures.

type InvalidRentalStateError struct {
	RentalID string
	From     RentalStatus
	To       RentalStatus
}

func (e *InvalidRentalStateError) Error() string {
	return fmt.Sprintf("rental %s cannot move from %s to %s", e.RentalID, e.From, e.To)
}
func (e *InvalidRentalStateError) Code() string { return "INVALID_RENTAL_STATE" }

type EndStationMismatchError struct {
	RentalID              string
	StartStationID        string
	AttemptedEndStationID string
}

func (e *EndStationMismatchError) Error() string {
	return fmt.Sprintf("rental %s must end at station %s, not %s",
		e.RentalID, e.StartStationID, e.AttemptedEndStationID)
}
func (e *EndStationMismatchError) Code() string { return "END_STATION_MISMATCH" }

type InvalidReservationStateError struct {
	ReservationID string
	Status        ReservationStatus
}

func (e *InvalidReservationStateError) Error() string {
	return fmt.Sprintf("reservation %s is %s", e.ReservationID, e.Status)
}
func (e *InvalidReservationStateError) Code() string { return "INVALID_RESERVATION_STATE" }

type SubscriptionNotPendingError struct {
	SubscriptionID string
}

func (e *SubscriptionNotPendingError) Error() string {
	return fmt.Sprintf("subscription %s is not pending", e.SubscriptionID)
}
func (e *SubscriptionNotPendingError) Code() string { return "SUBSCRIPTION_NOT_PENDING" }

type SubscriptionNotUsableError struct {
	SubscriptionID string
	Status         SubscriptionStatus
}

func (e *SubscriptionNotUsableError) Error() string {
	return fmt.Sprintf("subscription %s is not usable (status %s)", e.SubscriptionID, e.Status)
}
func (e *SubscriptionNotUsableError) Code() string { return "SUBSCRIPTION_NOT_USABLE" }

type SubscriptionExpiredError struct {
	SubscriptionID string
}

func (e *SubscriptionExpiredError) Error() string {
	return fmt.Sprintf("subscription %s has expired", e.SubscriptionID)
}
func (e *SubscriptionExpiredError) Code() string { return "SUBSCRIPTION_EXPIRED" }

type SubscriptionUsageExceededError struct {
	SubscriptionID string
	UsageCount     int
	MaxUsages      int
}

func (e *SubscriptionUsageExceededError) Error() string {
	return fmt.Sprintf("subscription %s has no usages left (%d of %d)",
		e.SubscriptionID, e.UsageCount, e.MaxUsages)
}
func (e *SubscriptionUsageExceededError) Code() string { return "SUBSCRIPTION_USAGE_EXCEEDED" }

// Resource-constraint failures.

type InsufficientBalanceError struct {
	WalletID  string
	Balance   int64
	Attempted int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("wallet %s balance %d cannot cover debit of %d",
		e.WalletID, e.Balance, e.Attempted)
}
func (e *InsufficientBalanceError) Code() string { return "INSUFFICIENT_BALANCE" }

type InsufficientBalanceToRentError struct {
	UserID         string
	Required       int64
	CurrentBalance int64
}

func (e *InsufficientBalanceToRentError) Error() string {
	return fmt.Sprintf("user %s balance %d is below the required %d to rent",
		e.UserID, e.CurrentBalance, e.Required)
}
func (e *InsufficientBalanceToRentError) Code() string { return "INSUFFICIENT_BALANCE_TO_RENT" }
