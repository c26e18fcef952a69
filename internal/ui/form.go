package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a vertical stack of labeled text inputs. Enter on the last field
// submits, escape cancels; the parent view reads Values afterwards.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int

	done      bool
	cancelled bool
}

func newForm(title string, fields ...string) form {
	f := form{title: title, labels: fields}
	for i := range fields {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 64
		if i == 0 {
			in.Focus()
		}
		f.inputs = append(f.inputs, in)
	}
	return f
}

// withValues preloads the inputs, used by edit forms.
func (f form) withValues(values ...string) form {
	for i := range values {
		if i < len(f.inputs) {
			f.inputs[i].SetValue(values[i])
		}
	}
	return f
}

func (f form) Values() []string {
	out := make([]string, len(f.inputs))
	for i := range f.inputs {
		out[i] = strings.TrimSpace(f.inputs[i].Value())
	}
	return out
}

func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			f.cancelled = true
			return f, nil
		case "enter":
			if f.focus == len(f.inputs)-1 {
				f.done = true
				return f, nil
			}
			f.inputs[f.focus].Blur()
			f.focus++
			f.inputs[f.focus].Focus()
			return f, nil
		case "tab", "down":
			f.inputs[f.focus].Blur()
			f.focus = (f.focus + 1) % len(f.inputs)
			f.inputs[f.focus].Focus()
			return f, nil
		case "shift+tab", "up":
			f.inputs[f.focus].Blur()
			f.focus = (f.focus + len(f.inputs) - 1) % len(f.inputs)
			f.inputs[f.focus].Focus()
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(f.title))
	b.WriteString("\n\n")
	for i := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label + "\n")
		b.WriteString(f.inputs[i].View() + "\n")
	}
	b.WriteString(helpStyle.Render("enter continuar · tab siguiente campo · esc cancelar"))
	return b.String()
}
