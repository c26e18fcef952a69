package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/sale"
	"transrural/internal/session"
	"transrural/internal/trip"
	"transrural/pkg/logger"
)

type mode int

const (
	modeLogin mode = iota
	modeAdmin
	modeSale
	modeDriver
)

// Model is the root of the console. It owns the session gate and swaps
// between the login screen and the role surfaces.
type Model struct {
	client  *api.Client
	gate    *session.Gate
	log     logger.ILogger
	docsDir string

	mode mode
	user domain.User

	login  loginModel
	admin  adminModel
	sales  saleModel
	driver driverModel
}

func New(client *api.Client, gate *session.Gate, docsDir string, log logger.ILogger) Model {
	m := Model{
		client:  client,
		gate:    gate,
		log:     log,
		docsDir: docsDir,
		login:   newLoginModel(gate),
	}
	if user, ok := gate.Restore(); ok {
		m.enterRoleSurface(user)
	}
	return m
}

// enterRoleSurface builds the surface for the user's role. Admins get the
// full console; everyone else gets the driver view.
func (m *Model) enterRoleSurface(user domain.User) {
	m.user = user
	if user.IsAdmin() {
		m.admin = newAdminModel(m.client, m.docsDir)
		m.mode = modeAdmin
		return
	}
	workflow := trip.NewWorkflow(m.client, user)
	m.driver = newDriverModel(workflow, m.client, m.docsDir)
	m.mode = modeDriver
}

func (m Model) Init() tea.Cmd {
	switch m.mode {
	case modeDriver:
		return m.driver.Init()
	default:
		return nil
	}
}

func (m Model) logout() (Model, tea.Cmd) {
	m.log.Info("logout", logger.String("username", m.user.Username))
	m.gate.Logout()
	m.user = domain.User{}
	m.login = newLoginModel(m.gate)
	m.mode = modeLogin
	return m, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Logout):
			if m.mode != modeLogin {
				return m.logout()
			}
		}

	case loggedInMsg:
		m.log.Info("login", logger.String("username", msg.user.Username), logger.String("role", msg.user.Role))
		m.enterRoleSurface(msg.user)
		return m, m.Init()

	case openSaleMsg:
		wizard := sale.NewWizard(m.client)
		m.sales = newSaleModel(wizard, m.docsDir)
		m.mode = modeSale
		return m, m.sales.Init()

	case errMsg:
		// An expired or revoked token means every call will fail; drop to
		// the login screen instead of erroring view by view.
		if m.mode != modeLogin && domain.IsAuth(msg.err) {
			next, _ := m.logout()
			next.login.errLine = msg.err.Error()
			return next, nil
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeLogin:
		m.login, cmd = m.login.Update(msg)
	case modeAdmin:
		m.admin, cmd = m.admin.Update(msg)
	case modeSale:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && m.saleAtBoundary() {
			m.mode = modeAdmin
			return m, nil
		}
		m.sales, cmd = m.sales.Update(msg)
	case modeDriver:
		m.driver, cmd = m.driver.Update(msg)
	}
	return m, cmd
}

// saleAtBoundary reports whether escape should leave the wizard entirely
// rather than step back inside it.
func (m Model) saleAtBoundary() bool {
	step := m.sales.wizard.Step()
	return step == sale.StepSelectDeparture || step == sale.StepConfirmation
}

func (m Model) View() string {
	switch m.mode {
	case modeLogin:
		return m.login.View()
	case modeAdmin:
		return m.admin.View()
	case modeSale:
		return m.sales.View()
	case modeDriver:
		return m.driver.View()
	}
	return ""
}
