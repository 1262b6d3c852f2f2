package deliverylist

import (
	"errors"
	"testing"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/keys"
	"github.com/hnguyen/delivery-tracker/internal/model"
)

func newTestList(t *testing.T) Model {
	t.Helper()
	return New(api.NewClient("", 0, nil, nil), keys.DefaultKeyMap(), 80, 24)
}

func TestLoadServesDemoRowsWhenUnconfigured(t *testing.T) {
	m := newTestList(t)

	msg := m.Load()().(LoadedMsg)
	if msg.Err != nil {
		t.Fatalf("demo load: %v", msg.Err)
	}
	if len(msg.Deliveries) == 0 {
		t.Fatalf("expected demo rows")
	}

	m, _ = m.Update(msg)
	if m.loading {
		t.Errorf("loading should be done")
	}
	if len(m.list.Items()) != len(msg.Deliveries) {
		t.Errorf("items = %d, want %d", len(m.list.Items()), len(msg.Deliveries))
	}
}

func TestSetModeSwitchesCollection(t *testing.T) {
	m := newTestList(t)

	cmd := m.SetMode(ModeJobs)
	if m.Mode() != ModeJobs {
		t.Fatalf("mode = %d, want jobs", m.Mode())
	}

	msg := cmd().(LoadedMsg)
	if msg.Mode != ModeJobs {
		t.Fatalf("loaded mode = %d, want jobs", msg.Mode)
	}
	for _, d := range msg.Deliveries {
		if d.Ref() == "" {
			t.Errorf("demo rows must have ids: %+v", d)
		}
	}
}

// A fetch finishing after the user switched collections must not leak
// into the new collection.
func TestStaleModeResultIgnored(t *testing.T) {
	m := newTestList(t)
	_ = m.SetMode(ModeJobs)

	stale := LoadedMsg{Mode: ModeMine, Deliveries: []model.Delivery{
		{ID: "zombie", PickupLocation: "A", DropoffLocation: "B", Status: model.StatusPending},
	}}
	m, _ = m.Update(stale)

	if len(m.list.Items()) != 0 {
		t.Errorf("stale result must be dropped, items = %d", len(m.list.Items()))
	}
}

func TestLoadErrorFlashesAndEmptiesList(t *testing.T) {
	m := newTestList(t)

	m, cmd := m.Update(LoadedMsg{Mode: ModeMine, Err: errors.New("boom")})
	if cmd == nil {
		t.Fatalf("expected a LoadFailedMsg command")
	}
	if _, ok := cmd().(LoadFailedMsg); !ok {
		t.Errorf("expected LoadFailedMsg")
	}
	if len(m.list.Items()) != 0 {
		t.Errorf("error result must clear the list")
	}
}
