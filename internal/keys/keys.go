package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// View switching
	Dashboard     key.Binding
	Primary       key.Binding
	Assigned      key.Binding
	Notifications key.Binding
	NewDelivery   key.Binding

	// Session
	Login    key.Binding
	Register key.Binding
	Logout   key.Binding

	// Courier status transitions (detail view)
	Accept    key.Binding
	PickedUp  key.Binding
	InTransit key.Binding
	Delivered key.Binding

	// Notifications page
	MarkRead    key.Binding
	MarkAllRead key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "dashboard"),
		),
		Primary: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "deliveries/jobs"),
		),
		Assigned: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "assigned (courier)"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notifications"),
		),
		NewDelivery: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create delivery"),
		),
		Login: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "sign in"),
		),
		Register: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "register"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign out"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept"),
		),
		PickedUp: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "picked up"),
		),
		InTransit: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "in transit"),
		),
		Delivered: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delivered"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "mark all read"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Dashboard, k.Primary, k.Assigned, k.Notifications, k.Refresh},
		{k.Login, k.Register, k.Logout, k.NewDelivery},
		{k.Accept, k.PickedUp, k.InTransit, k.Delivered},
		{k.MarkRead, k.MarkAllRead, k.Help},
	}
}
