package detail

import (
	"encoding/json"

	"github.com/hnguyen/delivery-tracker/internal/model"
)

// deliveryPatch mirrors model.Delivery with pointer fields so a merge can
// distinguish a field present in the payload from one that is absent.
// Absent (or null) fields leave the snapshot untouched.
type deliveryPatch struct {
	PickupLocation  *string         `json:"pickupLocation"`
	DropoffLocation *string         `json:"dropoffLocation"`
	PackageDetails  *string         `json:"packageDetails"`
	Notes           *string         `json:"notes"`
	Status          *string         `json:"status"`
	LastLocation    *model.GeoPoint `json:"lastLocation"`
}

// mergePatch shallow-merges a realtime update payload into the snapshot.
// A payload that does not decode is a no-op; the snapshot is never
// invalidated by a bad message.
func mergePatch(d *model.Delivery, payload json.RawMessage) {
	if d == nil || len(payload) == 0 {
		return
	}

	var p deliveryPatch
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}

	if p.PickupLocation != nil {
		d.PickupLocation = *p.PickupLocation
	}
	if p.DropoffLocation != nil {
		d.DropoffLocation = *p.DropoffLocation
	}
	if p.PackageDetails != nil {
		d.PackageDetails = *p.PackageDetails
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.LastLocation != nil {
		d.LastLocation = p.LastLocation
	}
}
