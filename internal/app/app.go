package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/config"
	"github.com/hnguyen/delivery-tracker/internal/keys"
	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/notify"
	"github.com/hnguyen/delivery-tracker/internal/realtime"
	"github.com/hnguyen/delivery-tracker/internal/session"
	"github.com/hnguyen/delivery-tracker/internal/ui"
	"github.com/hnguyen/delivery-tracker/internal/ui/authform"
	"github.com/hnguyen/delivery-tracker/internal/ui/dashboard"
	"github.com/hnguyen/delivery-tracker/internal/ui/deliveryform"
	"github.com/hnguyen/delivery-tracker/internal/ui/deliverylist"
	"github.com/hnguyen/delivery-tracker/internal/ui/detail"
	helpview "github.com/hnguyen/delivery-tracker/internal/ui/help"
	notifview "github.com/hnguyen/delivery-tracker/internal/ui/notifications"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewLogin
	ViewRegister
	ViewMyDeliveries
	ViewJobs
	ViewAssigned
	ViewDetail
	ViewCreate
	ViewNotifications
	ViewHelp
)

const flashDuration = 4 * time.Second

const authTimeout = 15 * time.Second

type loginResultMsg struct {
	sess session.Session
	err  error
}

type registerResultMsg struct {
	result session.RegisterResult
	err    error
}

type deliveryCreatedMsg struct {
	delivery *model.Delivery
	err      error
}

type clearFlashMsg struct {
	seq int
}

// Model is the root Bubble Tea model that manages view routing, the
// route guard, layout, and the shared session state.
type Model struct {
	currentView  ViewState
	previousView ViewState
	// listReturn is the list view the open detail came from, so esc
	// lands back on the right collection.
	listReturn ViewState

	layout     ui.Layout
	cfg        config.Config
	controller *session.Controller
	client     *api.Client
	feed       *notify.Feed
	keys       *keys.KeyMap
	sess       session.Session

	dashboardView dashboard.Model
	authView      authform.Model
	listView      deliverylist.Model
	detailView    detail.Model
	createView    deliveryform.Model
	notifView     notifview.Model
	helpView      helpview.Model

	flash    string
	flashSeq int
	ready    bool
}

// New creates the root application model. newChannel builds a realtime
// channel per delivery detail mount.
func New(cfg config.Config, controller *session.Controller, client *api.Client, feed *notify.Feed, newChannel func() *realtime.Channel) Model {
	k := keys.DefaultKeyMap()
	sess := controller.Session()

	m := Model{
		currentView:   ViewDashboard,
		listReturn:    ViewMyDeliveries,
		cfg:           cfg,
		controller:    controller,
		client:        client,
		feed:          feed,
		keys:          k,
		sess:          sess,
		dashboardView: dashboard.New(cfg, 80, 24),
		authView:      authform.New(80, 24),
		listView:      deliverylist.New(client, k, 80, 24),
		detailView:    detail.New(client, feed, k, newChannel, 80, 24),
		createView:    deliveryform.New(80, 24),
		notifView:     notifview.New(feed, k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
	}
	m.dashboardView.SetSession(sess)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.dashboardView.SetSize(w, h)
		m.authView.SetSize(w, h)
		m.listView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.createView.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		// Forward to the active view so huh forms can size themselves.
		return m.updateActiveView(msg)

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case realtime.EventMsg:
		// The detail view owns the channel; deliver events to it even
		// when another view (e.g. help) is on top.
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detail.SnapshotLoadedMsg, detail.StatusUpdatedMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detail.FlashMsg:
		return m, m.setFlash(msg.Text)

	case detail.BackMsg:
		m.detailView.Unmount()
		return m.navigate(m.listReturn)

	case deliverylist.SelectedMsg:
		return m.openDetail(msg.DeliveryID)

	case deliverylist.LoadFailedMsg:
		return m, m.setFlash("Failed to load deliveries: " + msg.Err.Error())

	case authform.LoginSubmitMsg:
		return m, m.performLogin(msg.Email, msg.Password)

	case authform.RegisterSubmitMsg:
		return m, m.performRegister(msg.Email, msg.Password, msg.Role)

	case authform.CancelMsg:
		return m.navigate(ViewDashboard)

	case loginResultMsg:
		if msg.err != nil {
			flashCmd := m.setFlash("Sign in failed: " + msg.err.Error())
			next, navCmd := m.navigate(ViewLogin)
			return next, tea.Batch(flashCmd, navCmd)
		}
		m.sess = msg.sess
		m.dashboardView.SetSession(m.sess)
		text := "Signed in."
		if msg.sess.User != nil {
			text = "Signed in as " + msg.sess.User.Email
		}
		flashCmd := m.setFlash(text)
		next, navCmd := m.navigate(m.homeView())
		return next, tea.Batch(flashCmd, navCmd)

	case registerResultMsg:
		if msg.err != nil {
			flashCmd := m.setFlash("Registration failed: " + msg.err.Error())
			next, navCmd := m.navigate(ViewRegister)
			return next, tea.Batch(flashCmd, navCmd)
		}
		if !msg.result.SignedIn {
			flashCmd := m.setFlash("Account created. Please sign in.")
			next, navCmd := m.navigate(ViewLogin)
			return next, tea.Batch(flashCmd, navCmd)
		}
		m.sess = msg.result.Session
		m.dashboardView.SetSession(m.sess)
		flashCmd := m.setFlash("Account created and signed in.")
		next, navCmd := m.navigate(m.homeView())
		return next, tea.Batch(flashCmd, navCmd)

	case deliveryform.SubmitMsg:
		return m, m.createDelivery(msg.Request)

	case deliveryform.CancelMsg:
		return m.navigate(m.homeView())

	case deliveryCreatedMsg:
		if msg.err != nil {
			return m, m.setFlash("Create failed: " + msg.err.Error())
		}
		text := "Delivery created."
		if msg.delivery != nil && msg.delivery.Ref() != "" {
			text = fmt.Sprintf("Delivery %s created.", msg.delivery.Ref())
		}
		flashCmd := m.setFlash(text)
		next, navCmd := m.navigate(ViewMyDeliveries)
		return next, tea.Batch(flashCmd, navCmd)

	case notifview.CloseMsg:
		return m.navigate(m.previousView)

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// formActive reports whether the current view captures raw text input.
// Global navigation keys stay out of the way while a form is focused.
func (m Model) formActive() bool {
	switch m.currentView {
	case ViewLogin, ViewRegister, ViewCreate:
		return true
	}
	return false
}

// handleGlobalKey processes application-level keys. Returns handled=false
// to let the active view consume the key instead.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.detailView.Unmount()
		return m, tea.Quit, true
	}

	if m.formActive() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewDashboard {
			m.detailView.Unmount()
			return m, tea.Quit, true
		}
		return m, nil, false

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Dashboard):
		next, cmd := m.navigate(ViewDashboard)
		return next, cmd, true

	case key.Matches(msg, m.keys.Primary):
		if m.sess.Role() == model.RoleCourier {
			next, cmd := m.navigate(ViewJobs)
			return next, cmd, true
		}
		next, cmd := m.navigate(ViewMyDeliveries)
		return next, cmd, true

	case key.Matches(msg, m.keys.Assigned):
		next, cmd := m.navigate(ViewAssigned)
		return next, cmd, true

	case key.Matches(msg, m.keys.Notifications):
		next, cmd := m.navigate(ViewNotifications)
		return next, cmd, true

	case key.Matches(msg, m.keys.NewDelivery):
		next, cmd := m.navigate(ViewCreate)
		return next, cmd, true

	case key.Matches(msg, m.keys.Login):
		if !m.sess.Authenticated() {
			next, cmd := m.navigate(ViewLogin)
			return next, cmd, true
		}
		return m, nil, false

	case key.Matches(msg, m.keys.Register):
		if !m.sess.Authenticated() {
			next, cmd := m.navigate(ViewRegister)
			return next, cmd, true
		}
		return m, nil, false

	case key.Matches(msg, m.keys.Logout):
		if m.sess.Authenticated() {
			m.controller.Logout()
			m.sess = session.Session{}
			m.dashboardView.SetSession(m.sess)
			m.detailView.Unmount()
			flashCmd := m.setFlash("Signed out.")
			next, navCmd := m.navigate(ViewDashboard)
			return next, tea.Batch(flashCmd, navCmd), true
		}
		return m, nil, false
	}

	return m, nil, false
}

// navigate moves to the target view after re-running the route guard
// against the current session. Denied navigations land on the guard's
// redirect instead.
func (m Model) navigate(view ViewState) (tea.Model, tea.Cmd) {
	// The store is the authority: a token cleared underneath us (say by
	// a 401) must deny guarded views on the very next navigation.
	m.sess = m.controller.Session()
	m.dashboardView.SetSession(m.sess)

	decision := Evaluate(m.sess, view)
	if !decision.Allow {
		view = decision.Redirect
		if view == m.currentView && view != ViewLogin {
			return m, nil
		}
	}

	if m.currentView == ViewDetail && view != ViewDetail {
		m.detailView.Unmount()
	}

	m.previousView = m.currentView
	m.currentView = view

	switch view {
	case ViewMyDeliveries:
		m.listReturn = ViewMyDeliveries
		return m, m.listView.SetMode(deliverylist.ModeMine)
	case ViewJobs:
		m.listReturn = ViewJobs
		return m, m.listView.SetMode(deliverylist.ModeJobs)
	case ViewAssigned:
		m.listReturn = ViewAssigned
		return m, m.listView.SetMode(deliverylist.ModeAssigned)
	case ViewLogin:
		return m, m.authView.StartLogin()
	case ViewRegister:
		return m, m.authView.StartRegister()
	case ViewCreate:
		return m, m.createView.Start()
	case ViewNotifications:
		m.notifView.Refresh()
		return m, nil
	}
	return m, nil
}

// openDetail guards and mounts the detail view for one delivery.
func (m Model) openDetail(deliveryID string) (tea.Model, tea.Cmd) {
	m.sess = m.controller.Session()

	decision := Evaluate(m.sess, ViewDetail)
	if !decision.Allow {
		return m.navigate(decision.Redirect)
	}

	m.previousView = m.currentView
	m.currentView = ViewDetail
	courier := m.sess.Role() == model.RoleCourier
	return m, m.detailView.Mount(deliveryID, courier)
}

// homeView returns the landing view for the current session's role.
func (m Model) homeView() ViewState {
	switch m.sess.Role() {
	case model.RoleCourier:
		return ViewJobs
	case model.RoleCustomer:
		return ViewMyDeliveries
	default:
		return ViewDashboard
	}
}

// setFlash shows a transient status bar message and schedules its
// removal. A newer flash supersedes the pending clear of an older one.
func (m *Model) setFlash(text string) tea.Cmd {
	m.flash = text
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

// performLogin runs the sign-in flow off the event loop.
func (m Model) performLogin(email, password string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		sess, err := controller.Login(ctx, email, password)
		return loginResultMsg{sess: sess, err: err}
	}
}

// performRegister runs the account creation flow off the event loop.
func (m Model) performRegister(email, password string, role model.Role) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		result, err := controller.Register(ctx, email, password, role)
		return registerResultMsg{result: result, err: err}
	}
}

// createDelivery submits a new delivery request.
func (m Model) createDelivery(req api.CreateDeliveryRequest) tea.Cmd {
	client := m.client

	if !client.Configured() {
		return func() tea.Msg {
			return deliveryCreatedMsg{delivery: &model.Delivery{
				ID:              "demo-created",
				PickupLocation:  req.PickupLocation,
				DropoffLocation: req.DropoffLocation,
				Status:          model.StatusPending,
			}}
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		d, err := client.CreateDelivery(ctx, req)
		return deliveryCreatedMsg{delivery: d, err: err}
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewLogin, ViewRegister:
		m.authView, cmd = m.authView.Update(msg)
	case ViewMyDeliveries, ViewJobs, ViewAssigned:
		m.listView, cmd = m.listView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewCreate:
		m.createView, cmd = m.createView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.headerRight())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.flash)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) headerTitle() string {
	title := "Delivery Tracker"
	if unread := m.feed.UnreadCount(); unread > 0 {
		title = fmt.Sprintf("Delivery Tracker [%d new]", unread)
	}
	return title
}

func (m Model) headerRight() string {
	if !m.sess.Authenticated() {
		return "signed out"
	}
	email := ""
	if m.sess.User != nil {
		email = m.sess.User.Email
	}
	return fmt.Sprintf("%s (%s)", email, m.sess.Role())
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewLogin, ViewRegister:
		return m.authView.View()
	case ViewMyDeliveries, ViewJobs, ViewAssigned:
		return m.listView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewCreate:
		return m.createView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewLogin, ViewRegister, ViewCreate:
		return "enter submit | esc cancel"
	case ViewDetail:
		if m.sess.Role() == model.RoleCourier {
			return "esc back | a/p/t/d set status | j/k scroll"
		}
		return "esc back | j/k scroll"
	case ViewNotifications:
		return "m mark read | M mark all | esc back"
	case ViewMyDeliveries:
		return "enter open | c create | r refresh | n notifications | g dashboard"
	case ViewJobs, ViewAssigned:
		return "enter open | 1 jobs | 2 assigned | r refresh | g dashboard"
	default:
		if !m.sess.Authenticated() {
			return "l sign in | R register | ? help | q quit"
		}
		return "1 deliveries | n notifications | L sign out | ? help | q quit"
	}
}
