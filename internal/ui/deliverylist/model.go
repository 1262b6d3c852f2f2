package deliverylist

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/keys"
	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/theme"
)

// Mode selects which backend collection the list shows.
type Mode int

const (
	// ModeMine lists the customer's own deliveries.
	ModeMine Mode = iota
	// ModeJobs lists deliveries a courier can accept.
	ModeJobs
	// ModeAssigned lists the courier's assigned deliveries.
	ModeAssigned
)

func (m Mode) title() string {
	switch m {
	case ModeJobs:
		return "Available jobs"
	case ModeAssigned:
		return "My assigned deliveries"
	default:
		return "My deliveries"
	}
}

// SelectedMsg is sent when the user opens a delivery's detail view.
type SelectedMsg struct {
	DeliveryID string
}

// LoadedMsg carries the result of a list fetch.
type LoadedMsg struct {
	Mode       Mode
	Deliveries []model.Delivery
	Err        error
}

// LoadFailedMsg asks the parent to flash a load error.
type LoadFailedMsg struct {
	Err error
}

const loadTimeout = 15 * time.Second

// Model is the delivery list view, shared by the customer and courier
// collections.
type Model struct {
	list    list.Model
	client  *api.Client
	keys    *keys.KeyMap
	mode    Mode
	loading bool
	width   int
	height  int
}

// New creates a new delivery list model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = ModeMine.title()
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		client: client,
		keys:   k,
		mode:   ModeMine,
		width:  width,
		height: height,
	}
}

// Mode returns the currently displayed collection.
func (m Model) Mode() Mode {
	return m.mode
}

// SetMode switches collections and reloads.
func (m *Model) SetMode(mode Mode) tea.Cmd {
	m.mode = mode
	m.list.Title = mode.title()
	return m.Load()
}

// Load returns a command that fetches the current collection. Without a
// configured backend it serves demo rows so the UI stays navigable.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	client := m.client
	mode := m.mode

	if !client.Configured() {
		return func() tea.Msg {
			return LoadedMsg{Mode: mode, Deliveries: demoRows(mode)}
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var (
			rows []model.Delivery
			err  error
		)
		switch mode {
		case ModeJobs:
			rows, err = client.ListAvailableJobs(ctx)
		case ModeAssigned:
			rows, err = client.ListAssignedDeliveries(ctx)
		default:
			rows, err = client.ListMyDeliveries(ctx)
		}
		return LoadedMsg{Mode: mode, Deliveries: rows, Err: err}
	}
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Mode != m.mode {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.list.SetItems([]list.Item{})
			return m, func() tea.Msg { return LoadFailedMsg{Err: msg.Err} }
		}
		items := make([]list.Item, 0, len(msg.Deliveries))
		for _, d := range msg.Deliveries {
			items = append(items, Item{Delivery: d})
		}
		m.list.SetItems(items)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			if it, ok := m.list.SelectedItem().(Item); ok {
				id := it.Delivery.Ref()
				return m, func() tea.Msg { return SelectedMsg{DeliveryID: id} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.Load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list view.
func (m Model) View() string {
	if m.loading {
		return theme.MutedStyle.Render("Loading " + m.list.Title + "...")
	}
	if len(m.list.Items()) == 0 {
		return m.list.Title + "\n\n" + theme.MutedStyle.Render("No deliveries yet.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// demoRows synthesizes placeholder rows for the unconfigured backend case.
func demoRows(mode Mode) []model.Delivery {
	switch mode {
	case ModeJobs:
		return []model.Delivery{
			{ID: "demo-job-1", PickupLocation: "72 Dock Rd", DropoffLocation: "9 Hill Ave", Status: model.StatusPending},
		}
	case ModeAssigned:
		return []model.Delivery{
			{ID: "demo-assigned-1", PickupLocation: "41 River St", DropoffLocation: "18 Oak Blvd", Status: model.StatusInTransit},
		}
	default:
		return []model.Delivery{
			{ID: "demo-1", PickupLocation: "123 Main St", DropoffLocation: "500 Market Ave", Status: model.StatusPending},
		}
	}
}
