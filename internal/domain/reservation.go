package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation holds a bike ahead of a ride. It shares its ID with the
// paired rental row; Prepaid is the minor-unit amount charged at
// reservation time and credited against the final rental price.
type Reservation struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	BikeID         string            `json:"bike_id"`
	StationID      string            `json:"station_id"`
	Prepaid        int64             `json:"prepaid"`
	SubscriptionID *string           `json:"subscription_id,omitempty"`
	Status         ReservationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
