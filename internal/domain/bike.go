package domain

import "time"

type BikeStatus string

const (
	BikeStatusAvailable   BikeStatus = "AVAILABLE"
	BikeStatusBooked      BikeStatus = "BOOKED"
	BikeStatusReserved    BikeStatus = "RESERVED"
	BikeStatusBroken      BikeStatus = "BROKEN"
	BikeStatusMaintained  BikeStatus = "MAINTAINED"
	BikeStatusUnavailable BikeStatus = "UNAVAILABLE"
)

type Bike struct {
	ID         string     `json:"id"`
	ChipID     string     `json:"chip_id"`
	StationID  *string    `json:"station_id,omitempty"` // nil while the bike is out on a ride
	SupplierID *string    `json:"supplier_id,omitempty"`
	Status     BikeStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
