package domain

import "time"

type RentalStatus string

const (
	RentalStatusReserved  RentalStatus = "RESERVED"
	RentalStatusRented    RentalStatus = "RENTED"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// Rental is the lifecycle record of one ride. A reservation-backed rental
// shares its ID with the reservation that created it. TotalPrice is in
// minor units and stays nil until the rental completes.
type Rental struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	BikeID          *string      `json:"bike_id,omitempty"`
	StartStationID  string       `json:"start_station_id"`
	EndStationID    *string      `json:"end_station_id,omitempty"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         *time.Time   `json:"end_time,omitempty"`
	DurationMinutes *int         `json:"duration_minutes,omitempty"`
	TotalPrice      *int64       `json:"total_price,omitempty"`
	SubscriptionID  *string      `json:"subscription_id,omitempty"`
	Status          RentalStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
