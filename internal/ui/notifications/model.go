package notifications

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/delivery-tracker/internal/keys"
	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/notify"
	"github.com/hnguyen/delivery-tracker/internal/theme"
)

// CloseMsg signals the parent to leave the notifications page.
type CloseMsg struct{}

// Model is the notifications page. It renders the shared feed newest-first
// with read state badges; entering the page never marks anything read.
type Model struct {
	feed        *notify.Feed
	keys        *keys.KeyMap
	items       []model.Notification
	selectedIdx int
	width       int
	height      int
}

// New creates a notifications page backed by the shared feed.
func New(feed *notify.Feed, k *keys.KeyMap, width, height int) Model {
	return Model{
		feed:   feed,
		keys:   k,
		items:  feed.Items(),
		width:  width,
		height: height,
	}
}

// Refresh re-reads the feed, keeping the cursor on a valid row.
func (m *Model) Refresh() {
	m.items = m.feed.Items()
	if m.selectedIdx >= len(m.items) {
		m.selectedIdx = len(m.items) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// Update handles messages for the notifications page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.items) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.items)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.items) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.items) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkRead), key.Matches(msg, m.keys.Select):
		if m.selectedIdx < len(m.items) {
			m.feed.MarkRead(m.items[m.selectedIdx].ID)
			m.Refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkAllRead):
		m.feed.MarkAllRead()
		m.Refresh()
		return m, nil
	}
	return m, nil
}

// View renders the notifications page.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := fmt.Sprintf("Notifications (%d unread)", m.feed.UnreadCount())

	var rows []string
	rows = append(rows, titleStyle.Render(title))

	if len(m.items) == 0 {
		rows = append(rows, theme.MutedStyle.Render("No notifications yet."))
	}

	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	for i, n := range m.items {
		badge := theme.UnreadBadgeStyle.Render("new")
		if n.Read {
			badge = theme.ReadBadgeStyle.Render("read")
		}

		line := fmt.Sprintf("%s %s", badge, n.Title)
		meta := fmt.Sprintf("%s  %s",
			timeStyle.Render(n.CreatedAt.Format("Jan 2 15:04")),
			n.Body,
		)

		if i == m.selectedIdx {
			rows = append(rows, theme.SelectedItemStyle.Render(line))
			rows = append(rows, theme.SelectedItemStyle.Render(meta))
		} else {
			rows = append(rows, theme.ListItemStyle.Render(line))
			rows = append(rows, theme.ListItemStyle.Render(meta))
		}
	}

	rows = append(rows, "")
	rows = append(rows, theme.HelpStyle.Render("m mark read | M mark all | esc back"))

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
