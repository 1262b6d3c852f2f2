package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/keys"
	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/notify"
	"github.com/hnguyen/delivery-tracker/internal/realtime"
	"github.com/hnguyen/delivery-tracker/internal/theme"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// FlashMsg asks the parent to show a transient status-bar message.
type FlashMsg struct {
	Text string
}

// SnapshotLoadedMsg carries the result of the initial snapshot fetch.
type SnapshotLoadedMsg struct {
	Seq      int
	Delivery *model.Delivery
	Err      error
}

// StatusUpdatedMsg carries the result of a courier status transition.
type StatusUpdatedMsg struct {
	Seq       int
	Requested string
	Delivery  *model.Delivery
	Err       error
}

const fetchTimeout = 15 * time.Second

// Model is the delivery detail view. It owns the snapshot for one
// delivery: loading it on mount, reconciling realtime update patches
// into it, and releasing the channel on unmount.
type Model struct {
	client     *api.Client
	feed       *notify.Feed
	keys       *keys.KeyMap
	newChannel func() *realtime.Channel

	channel    *realtime.Channel
	deliveryID string
	delivery   *model.Delivery
	rtStatus   realtime.Status

	// seq identifies the current mount; async results stamped with an
	// older seq belong to a view that no longer exists and are dropped.
	seq int

	viewport viewport.Model
	loading  bool
	courier  bool
	updating bool
	width    int
	height   int
}

// New creates a detail view model. newChannel constructs a fresh realtime
// channel per mount.
func New(client *api.Client, feed *notify.Feed, k *keys.KeyMap, newChannel func() *realtime.Channel, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		client:     client,
		feed:       feed,
		keys:       k,
		newChannel: newChannel,
		viewport:   vp,
		width:      width,
		height:     height,
	}
}

// Mount prepares the view for a delivery: it starts the snapshot fetch,
// opens a realtime channel, and begins listening for events. courier
// enables the status transition actions.
func (m *Model) Mount(deliveryID string, courier bool) tea.Cmd {
	m.Unmount()

	m.seq++
	m.deliveryID = deliveryID
	m.delivery = nil
	m.loading = true
	m.courier = courier
	m.updating = false
	m.rtStatus = realtime.Status{}

	m.channel = m.newChannel()
	m.channel.Connect()

	return tea.Batch(
		m.loadSnapshot(deliveryID, m.seq),
		m.channel.WaitForEvent(),
	)
}

// Unmount releases the realtime channel unconditionally and invalidates
// any in-flight fetch so its result cannot reach a disposed view. The
// mounted id and snapshot are dropped too; an event already dequeued by
// a pending wait can no longer match or merge.
func (m *Model) Unmount() {
	if m.channel != nil {
		m.channel.Close()
		m.channel = nil
	}
	m.deliveryID = ""
	m.delivery = nil
	m.seq++
}

// DeliveryID returns the id of the mounted delivery.
func (m Model) DeliveryID() string {
	return m.deliveryID
}

// Snapshot returns the current local snapshot, or nil before load.
func (m Model) Snapshot() *model.Delivery {
	return m.delivery
}

// loadSnapshot fetches the delivery, or synthesizes a demo snapshot when
// no backend is configured.
func (m Model) loadSnapshot(id string, seq int) tea.Cmd {
	client := m.client

	if !client.Configured() {
		return func() tea.Msg {
			return SnapshotLoadedMsg{Seq: seq, Delivery: demoSnapshot(id)}
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		d, err := client.GetDelivery(ctx, id)
		return SnapshotLoadedMsg{Seq: seq, Delivery: d, Err: err}
	}
}

func demoSnapshot(id string) *model.Delivery {
	return &model.Delivery{
		ID:              id,
		PickupLocation:  "Demo pickup",
		DropoffLocation: "Demo dropoff",
		Status:          model.StatusPending,
		LastLocation:    &model.GeoPoint{Lat: 37.7749, Lng: -122.4194},
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.delivery = nil
			return m, func() tea.Msg {
				return FlashMsg{Text: "Failed to load delivery: " + msg.Err.Error()}
			}
		}
		m.delivery = msg.Delivery
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case realtime.EventMsg:
		return m.handleChannelEvent(msg)

	case StatusUpdatedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.updating = false
		if msg.Err != nil {
			return m, func() tea.Msg {
				return FlashMsg{Text: "Update failed: " + msg.Err.Error()}
			}
		}
		// The returned snapshot replaces local state; realtime pushes,
		// not this path, populate the notification feed.
		m.delivery = msg.Delivery
		m.viewport.SetContent(m.renderContent())
		text := fmt.Sprintf("Status set to %s.", msg.Requested)
		return m, func() tea.Msg { return FlashMsg{Text: text} }

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleChannelEvent reconciles a realtime event: status changes update
// the connection chip (and trigger the subscribe directive once open);
// matching delivery updates merge into the snapshot and feed a
// notification record. Updates for other deliveries are ignored.
func (m Model) handleChannelEvent(msg realtime.EventMsg) (Model, tea.Cmd) {
	ev := msg.Event

	if ev.Status != nil {
		m.rtStatus = *ev.Status
		if ev.Status.Connected && m.channel != nil {
			m.channel.Subscribe(m.deliveryID)
		}
	}

	if env := ev.Message; env != nil && m.deliveryID != "" {
		if env.Type == realtime.TypeDeliveryUpdate && env.DeliveryID == m.deliveryID {
			if m.delivery == nil {
				m.delivery = &model.Delivery{ID: m.deliveryID}
			}
			mergePatch(m.delivery, env.Payload)
			m.feed.Add("Delivery update", fmt.Sprintf("Delivery %s updated.", m.deliveryID))
			m.viewport.SetContent(m.renderContent())
		}
	}

	if m.channel == nil {
		return m, nil
	}
	return m, m.channel.WaitForEvent()
}

// handleKey processes detail-view keys. Courier transition keys are
// ignored while an update is in flight so writes never overlap.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return func() tea.Msg { return BackMsg{} }, true

	case key.Matches(msg, m.keys.Accept):
		return m.requestStatus(model.StatusAccepted)

	case key.Matches(msg, m.keys.PickedUp):
		return m.requestStatus(model.StatusPickedUp)

	case key.Matches(msg, m.keys.InTransit):
		return m.requestStatus(model.StatusInTransit)

	case key.Matches(msg, m.keys.Delivered):
		return m.requestStatus(model.StatusDelivered)
	}
	return nil, false
}

// requestStatus asks the backend for a status transition. Any transition
// can be requested; ordering is the backend's concern. In demo mode the
// change is applied locally.
func (m *Model) requestStatus(next string) (tea.Cmd, bool) {
	if !m.courier || m.updating || m.delivery == nil {
		return nil, false
	}

	if !m.client.Configured() {
		m.delivery.Status = next
		m.viewport.SetContent(m.renderContent())
		text := fmt.Sprintf("Demo mode: status set to %s locally.", next)
		return func() tea.Msg { return FlashMsg{Text: text} }, true
	}

	m.updating = true
	client := m.client
	id := m.deliveryID
	seq := m.seq

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		d, err := client.UpdateDeliveryStatus(ctx, id, next)
		return StatusUpdatedMsg{Seq: seq, Requested: next, Delivery: d, Err: err}
	}, true
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading delivery...")
	}

	if m.delivery == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Delivery not found")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	d := m.delivery
	if d == nil {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render("Delivery "+d.Ref()))

	status := d.Status
	if status == "" {
		status = model.StatusPending
	}
	statusBadge := theme.StatusStyle(status).Render(status)

	connLabel := "not connected"
	if m.rtStatus.Connected {
		connLabel = "connected"
	} else if m.rtStatus.Reason != "" {
		connLabel = "not connected (" + m.rtStatus.Reason + ")"
	}
	connBadge := theme.ConnStyle(m.rtStatus.Connected).Render("live: " + connLabel)

	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, statusBadge, "  ", connBadge))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s   %s", metaStyle.Render("Pickup:"), valStyle.Render(orDash(d.PickupLocation)),
	))
	sections = append(sections, fmt.Sprintf(
		"%s  %s", metaStyle.Render("Dropoff:"), valStyle.Render(orDash(d.DropoffLocation)),
	))

	lastLoc := "—"
	if d.LastLocation != nil {
		lastLoc = d.LastLocation.String()
	}
	sections = append(sections, fmt.Sprintf(
		"%s %s", metaStyle.Render("Location:"), valStyle.Render(lastLoc),
	))

	if d.PackageDetails != "" {
		sections = append(sections, fmt.Sprintf(
			"%s  %s", metaStyle.Render("Package:"), valStyle.Render(d.PackageDetails),
		))
	}
	if d.Notes != "" {
		sections = append(sections, fmt.Sprintf(
			"%s    %s", metaStyle.Render("Notes:"), valStyle.Render(d.Notes),
		))
	}

	if m.courier {
		sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
		sections = append(sections, "")
		sections = append(sections, sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 8))))
		sections = append(sections, "")

		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
		sections = append(sections, headerStyle.Render("Courier actions"))

		hint := "a accept | p picked up | t in transit | d delivered"
		if m.updating {
			hint = "updating..."
		}
		sections = append(sections, theme.HelpStyle.Render(hint))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
