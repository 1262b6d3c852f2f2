package deliverylist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/theme"
)

// Item wraps a model.Delivery so it can be used in a bubbles/list.
type Item struct {
	Delivery model.Delivery
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string {
	return i.Delivery.PickupLocation + " " + i.Delivery.DropoffLocation
}

// Title returns the route line for the list.
func (i Item) Title() string {
	return fmt.Sprintf("%s → %s", orDash(i.Delivery.PickupLocation), orDash(i.Delivery.DropoffLocation))
}

// Description returns a short summary line.
func (i Item) Description() string {
	return fmt.Sprintf("%s | %s", i.Delivery.Ref(), i.Delivery.Status)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// itemDelegate renders one delivery per line with a status badge.
type itemDelegate struct{}

// Height returns the number of lines each item takes.
func (d itemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d itemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single delivery line.
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	status := it.Delivery.Status
	if status == "" {
		status = model.StatusPending
	}
	badge := theme.StatusStyle(status).Render(status)

	idStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	line := fmt.Sprintf("%s  %s %s", it.Title(), idStyle.Render(it.Delivery.Ref()), badge)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}
