package model

import (
	"fmt"
	"time"
)

// Well-known delivery statuses. The backend may report additional values;
// callers treat the status as an open set and only color-code these.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusPickedUp  = "picked_up"
	StatusInTransit = "in_transit"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// GeoPoint is a latitude/longitude pair reported by the courier.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the point for display.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}

// Delivery is the locally cached snapshot of one delivery's server-side
// record. It is owned by the view that loaded it and discarded on unmount.
type Delivery struct {
	// ID is the backend identifier. Some backends return the identifier
	// under "_id" instead; use Ref to resolve whichever is present.
	ID      string `json:"id"`
	MongoID string `json:"_id,omitempty"`

	// PickupLocation and DropoffLocation are free-form addresses.
	PickupLocation  string `json:"pickupLocation"`
	DropoffLocation string `json:"dropoffLocation"`

	// PackageDetails describes size, weight, and handling instructions.
	PackageDetails string `json:"packageDetails,omitempty"`

	// Notes holds optional delivery-window or contact notes.
	Notes string `json:"notes,omitempty"`

	// Status is the current delivery status (see the Status constants).
	Status string `json:"status"`

	// LastLocation is the most recent courier position, if any.
	LastLocation *GeoPoint `json:"lastLocation,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Ref returns the delivery identifier, preferring ID over the legacy
// "_id" field.
func (d Delivery) Ref() string {
	if d.ID != "" {
		return d.ID
	}
	return d.MongoID
}
