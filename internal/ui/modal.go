package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/navigator/internal/collection"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks a yes/no question; onYes runs only on an explicit yes.
type confirmModal struct {
	prompt string
	onYes  tea.Cmd
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(k, keys.Yes):
		return c, c.onYes, true
	case key.Matches(k, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.Text.Bold(true).Render(c.prompt) + "\n\n" +
		styles.WarningText.Render("y") + styles.MutedText.Render(" yes   ") +
		styles.WarningText.Render("n") + styles.MutedText.Render(" no")
	return placeModal(theme, width, height, 36, body)
}

// fieldDef describes a form input. key is the record column it fills.
type fieldDef struct {
	key         string
	label       string
	placeholder string
	value       string
}

type formField struct {
	fieldDef
	input textinput.Model
}

// formModal collects values and hands them to submit. It stays open until the
// write succeeds so validation errors can be shown next to the inputs.
type formModal struct {
	title   string
	tab     tab
	fields  []formField
	focus   int
	err     string
	pending bool
	submit  func(values map[string]string) (tea.Cmd, error)
}

func newFormModal(title string, t tab, defs []fieldDef, submit func(map[string]string) (tea.Cmd, error)) *formModal {
	f := &formModal{title: title, tab: t, submit: submit}
	for _, def := range defs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 120
		in.Width = 40
		in.Placeholder = def.placeholder
		in.SetValue(def.value)
		f.fields = append(f.fields, formField{fieldDef: def, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *formModal) values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		out[fld.key] = strings.TrimSpace(fld.input.Value())
	}
	return out
}

func (f *formModal) setFocus(i int) {
	f.fields[f.focus].input.Blur()
	f.focus = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// finish is called with the result of the write started by submit.
func (f *formModal) finish(err error) bool {
	f.pending = false
	if err == nil {
		return true
	}
	f.err = err.Error()
	var verr *collection.ValidationError
	if errors.As(err, &verr) {
		for i, fld := range f.fields {
			if fld.key == verr.Field {
				f.setFocus(i)
			}
		}
	}
	return false
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}
	switch {
	case key.Matches(k, keys.Escape):
		return f, nil, true
	case key.Matches(k, keys.NextField):
		f.setFocus(f.focus + 1)
		return f, nil, false
	case key.Matches(k, keys.PrevField):
		f.setFocus(f.focus - 1)
		return f, nil, false
	case key.Matches(k, keys.Confirm):
		if f.pending {
			return f, nil, false
		}
		cmd, err := f.submit(f.values())
		if err != nil {
			f.finish(err)
			return f, nil, false
		}
		f.err = ""
		f.pending = true
		return f, cmd, false
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd, false
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")
	for i, fld := range f.fields {
		label := styles.MutedText.Width(18).Render(fld.label)
		if i == f.focus {
			label = styles.AccentText.Width(18).Render(fld.label)
		}
		b.WriteString(label)
		b.WriteString(fld.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case f.pending:
		b.WriteString(styles.MutedText.Render("Saving..."))
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
	default:
		b.WriteString(styles.FaintText.Render("enter save · tab next · esc cancel"))
	}
	return placeModal(theme, width, height, 66, b.String())
}

func placeModal(theme Theme, width, height, modalWidth int, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
