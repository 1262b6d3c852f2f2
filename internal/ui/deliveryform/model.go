package deliveryform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/theme"
)

// SubmitMsg is dispatched when the create-delivery form is submitted.
type SubmitMsg struct {
	Request api.CreateDeliveryRequest
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// survive Bubble Tea model copies.
type formBindings struct {
	pickup  string
	dropoff string
	pkg     string
	notes   string
}

// Model is the customer create-delivery form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new delivery form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb.pickup = ""
	m.fb.dropoff = ""
	m.fb.pkg = ""
	m.fb.notes = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the delivery form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		req := api.CreateDeliveryRequest{
			PickupLocation:  strings.TrimSpace(m.fb.pickup),
			DropoffLocation: strings.TrimSpace(m.fb.dropoff),
			PackageDetails:  strings.TrimSpace(m.fb.pkg),
			Notes:           strings.TrimSpace(m.fb.notes),
		}
		return m, func() tea.Msg { return SubmitMsg{Request: req} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the delivery form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Create delivery") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pickup location").
				Placeholder("e.g., 123 Main St").
				Value(&m.fb.pickup).
				Validate(validateLocation("Pickup location")),
			huh.NewInput().
				Title("Dropoff location").
				Placeholder("e.g., 500 Market Ave").
				Value(&m.fb.dropoff).
				Validate(validateLocation("Dropoff location")),
			huh.NewText().
				Title("Package details").
				Placeholder("Size, weight, handling instructions").
				Value(&m.fb.pkg).
				Validate(validateLocation("Package details")),
			huh.NewText().
				Title("Notes (optional)").
				Placeholder("Delivery window, contact, etc.").
				Value(&m.fb.notes),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func validateLocation(fieldName string) func(string) error {
	return func(s string) error {
		if len(strings.TrimSpace(s)) < 3 {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
