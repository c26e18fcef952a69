package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"transrural/internal/session"
)

type loginModel struct {
	gate *session.Gate

	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errLine  string
}

func newLoginModel(gate *session.Gate) loginModel {
	user := textinput.New()
	user.Prompt = "> "
	user.Placeholder = "usuario"
	user.CharLimit = 32
	user.Focus()

	pass := textinput.New()
	pass.Prompt = "> "
	pass.Placeholder = "contraseña"
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword

	return loginModel{gate: gate, username: user, password: pass}
}

func (m loginModel) submit() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	gate := m.gate
	return func() tea.Msg {
		user, err := gate.Login(context.Background(), username, password)
		if err != nil {
			return errMsg{err: err}
		}
		return loggedInMsg{user: user}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.busy = false
		m.errLine = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down", "up", "shift+tab":
			if m.focus == 0 {
				m.focus = 1
				m.username.Blur()
				m.password.Focus()
			} else {
				m.focus = 0
				m.password.Blur()
				m.username.Focus()
			}
			return m, nil
		case "enter":
			if m.focus == 0 {
				m.focus = 1
				m.username.Blur()
				m.password.Focus()
				return m, nil
			}
			if strings.TrimSpace(m.username.Value()) == "" || m.password.Value() == "" {
				m.errLine = "ingresa usuario y contraseña"
				return m, nil
			}
			m.busy = true
			m.errLine = ""
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TransRural · Consola de Operaciones"))
	b.WriteString("\n\n")
	b.WriteString("Usuario\n" + m.username.View() + "\n")
	b.WriteString("Contraseña\n" + m.password.View() + "\n")
	if m.busy {
		b.WriteString("\n" + dimStyle.Render("verificando credenciales..."))
	}
	if m.errLine != "" {
		b.WriteString("\n" + errorStyle.Render(m.errLine))
	}
	b.WriteString("\n" + helpStyle.Render("enter ingresar · ctrl+c salir"))
	return boxStyle.Render(b.String())
}
