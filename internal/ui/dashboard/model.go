package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/delivery-tracker/internal/config"
	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/session"
	"github.com/hnguyen/delivery-tracker/internal/theme"
)

// Model is the landing/dashboard view. Signed out it offers the auth
// actions; signed in it shows role-appropriate shortcuts. It also surfaces
// a setup banner when no backend endpoint is configured.
type Model struct {
	cfg    config.Config
	sess   session.Session
	width  int
	height int
}

// New creates a dashboard view.
func New(cfg config.Config, width, height int) Model {
	return Model{cfg: cfg, width: width, height: height}
}

// SetSession updates the session used for role-aware rendering.
func (m *Model) SetSession(sess session.Session) {
	m.sess = sess
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var rows []string
	rows = append(rows, titleStyle.Render("Delivery Tracker"))

	if !m.cfg.APIConfigured() {
		banner := lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Bold(true).
			Render("Demo mode: no backend configured. Set api_base_url in " + config.DefaultConfigPath() + " to go live.")
		rows = append(rows, banner, "")
	}

	if !m.sess.Authenticated() {
		rows = append(rows, theme.MutedStyle.Render("You are signed out."))
		rows = append(rows, "")
		rows = append(rows, "  l  sign in")
		rows = append(rows, "  R  create an account")
		rows = append(rows, "")
		rows = append(rows, theme.HelpStyle.Render("? help | q quit"))
		return m.frame(rows)
	}

	email := ""
	if m.sess.User != nil {
		email = m.sess.User.Email
	}
	roleBadge := theme.RoleStyle(m.sess.Role()).Render(string(m.sess.Role()))
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
		theme.MutedStyle.Render("Signed in as "+email), " ", roleBadge))
	rows = append(rows, "")

	switch m.sess.Role() {
	case model.RoleCourier:
		rows = append(rows, "  1  available jobs")
		rows = append(rows, "  2  my assigned deliveries")
	default:
		rows = append(rows, "  1  my deliveries")
		rows = append(rows, "  c  create a delivery")
	}
	rows = append(rows, "  n  notifications")
	rows = append(rows, "  L  sign out")
	rows = append(rows, "")
	rows = append(rows, theme.HelpStyle.Render("? help | q quit"))

	return m.frame(rows)
}

func (m Model) frame(rows []string) string {
	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	panel := theme.PanelStyle.Width(min(m.width-4, 72)).Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
