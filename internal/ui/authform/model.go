package authform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/theme"
)

// LoginSubmitMsg is dispatched when the login form is submitted.
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// RegisterSubmitMsg is dispatched when the registration form is submitted.
type RegisterSubmitMsg struct {
	Email    string
	Password string
	Role     model.Role
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// Mode selects which form the model presents.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	confirm  string
	role     string
}

// Model is the Bubble Tea model for the login and registration forms.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   Mode
	width  int
	height int
}

// New creates a new auth form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{role: string(model.RoleCustomer)},
		width:  width,
		height: height,
	}
}

// StartLogin initializes the sign-in form.
func (m *Model) StartLogin() tea.Cmd {
	m.mode = ModeLogin
	m.fb.email = ""
	m.fb.password = ""
	m.form = m.buildLoginForm()
	return m.form.Init()
}

// StartRegister initializes the registration form.
func (m *Model) StartRegister() tea.Cmd {
	m.mode = ModeRegister
	m.fb.email = ""
	m.fb.password = ""
	m.fb.confirm = ""
	m.fb.role = string(model.RoleCustomer)
	m.form = m.buildRegisterForm()
	return m.form.Init()
}

// Update handles messages for the auth form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the auth form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign in"
	if m.mode == ModeRegister {
		titleText = "Create account"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("Customer", string(model.RoleCustomer)),
					huh.NewOption("Courier", string(model.RoleCourier)),
				).
				Value(&m.fb.role),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(m.validateConfirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	if m.mode == ModeLogin {
		return func() tea.Msg {
			return LoginSubmitMsg{Email: email, Password: password}
		}
	}
	role := model.Role(m.fb.role)
	return func() tea.Msg {
		return RegisterSubmitMsg{Email: email, Password: password, Role: role}
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

func validateEmail(s string) error {
	if !strings.Contains(s, "@") {
		return errors.New("enter a valid email")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

func (m *Model) validateConfirm(s string) error {
	if s != m.fb.password {
		return errors.New("passwords do not match")
	}
	return nil
}
