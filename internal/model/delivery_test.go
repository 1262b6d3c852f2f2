package model

import (
	"encoding/json"
	"testing"
)

func TestRefPrefersID(t *testing.T) {
	d := Delivery{ID: "d1", MongoID: "abc"}
	if d.Ref() != "d1" {
		t.Errorf("ref = %q, want d1", d.Ref())
	}

	d = Delivery{MongoID: "abc"}
	if d.Ref() != "abc" {
		t.Errorf("ref = %q, want abc", d.Ref())
	}

	d = Delivery{}
	if d.Ref() != "" {
		t.Errorf("ref = %q, want empty", d.Ref())
	}
}

func TestDeliveryDecodesMongoStyleRecord(t *testing.T) {
	raw := []byte(`{"_id":"665f1","pickupLocation":"A","dropoffLocation":"B","status":"picked_up","lastLocation":{"lat":10.5,"lng":-3.25}}`)

	var d Delivery
	if err := json.Unmarshal(raw, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Ref() != "665f1" {
		t.Errorf("ref = %q", d.Ref())
	}
	if d.Status != StatusPickedUp {
		t.Errorf("status = %q", d.Status)
	}
	if d.LastLocation == nil || d.LastLocation.Lng != -3.25 {
		t.Errorf("lastLocation = %+v", d.LastLocation)
	}
}

func TestGeoPointString(t *testing.T) {
	p := GeoPoint{Lat: 37.7749, Lng: -122.4194}
	if got := p.String(); got != "37.77490, -122.41940" {
		t.Errorf("string = %q", got)
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleCustomer) || !ValidRole(RoleCourier) {
		t.Errorf("known roles must validate")
	}
	if ValidRole("admin") || ValidRole("") {
		t.Errorf("unknown roles must not validate")
	}
}
