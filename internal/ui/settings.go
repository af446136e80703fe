package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/collection"
)

type settingRow int

const (
	rowTheme settingRow = iota
	rowLanguage
	rowNotifications
	rowEmail
	rowSMS
	rowFullName
	rowContactEmail
	rowPhone
	settingRows
)

// settingsView edits the user's settings row and the contact part of the
// profile. Toggles are saved immediately; profile rows open a form.
type settingsView struct {
	ctrl     *collection.Controller[career.Settings]
	profile  *collection.Controller[career.Profile]
	selected settingRow
}

// onProfile reports whether the selection is one of the profile rows.
func (v *settingsView) onProfile() bool {
	return v.selected >= rowFullName
}

func (v *settingsView) currentProfile() career.Profile {
	p, _ := career.CurrentProfile(v.profile)
	return p
}

// profileForm edits name, email and phone, focused on the selected row.
func (v *settingsView) profileForm(ctx context.Context, now func() time.Time) *formModal {
	p := v.currentProfile()
	f := newFormModal("Edit profile", tabSettings, []fieldDef{
		{key: "full_name", label: "Full name", value: p.FullName},
		{key: "email", label: "Email", placeholder: "you@example.com", value: p.Email},
		{key: "phone", label: "Phone", placeholder: "+91 98765 43210", value: p.Phone},
	}, func(values map[string]string) (tea.Cmd, error) {
		next := v.currentProfile()
		for _, field := range career.ContactFields {
			var err error
			if next, err = next.SetContact(field, values[field]); err != nil {
				return nil, err
			}
		}
		return func() tea.Msg {
			return mutatedMsg{tab: tabSettings, op: "profile", err: career.SaveProfile(ctx, v.profile, next, now())}
		}, nil
	})
	f.setFocus(int(v.selected - rowFullName))
	return f
}

func (v *settingsView) current() career.Settings {
	return career.CurrentSettings(v.ctrl)
}

// toggled returns the settings with the selected row changed.
func (v *settingsView) toggled() career.Settings {
	s := v.current()
	switch v.selected {
	case rowTheme:
		if s.Theme == "dark" {
			s.Theme = "light"
		} else {
			s.Theme = "dark"
		}
	case rowLanguage:
		s.Language = career.NextLanguage(s.Language)
	case rowNotifications:
		s.NotificationsEnabled = !s.NotificationsEnabled
	case rowEmail:
		s.EmailNotifications = !s.EmailNotifications
	case rowSMS:
		s.SMSNotifications = !s.SMSNotifications
	}
	return s
}

func (v *settingsView) save(ctx context.Context, s career.Settings) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg{tab: tabSettings, op: "save", err: career.SaveSettings(ctx, v.ctrl, s)}
	}
}

// handleKey moves the selection or starts a save. It returns the settings
// being saved so the caller can apply the theme.
func (v *settingsView) handleKey(ctx context.Context, msg tea.KeyMsg, keys keyMap) (tea.Cmd, *career.Settings, bool) {
	switch {
	case key.Matches(msg, keys.Down):
		if v.selected < settingRows-1 {
			v.selected++
		}
	case key.Matches(msg, keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, keys.Toggle) && !v.onProfile():
		s := v.toggled()
		return v.save(ctx, s), &s, true
	default:
		return nil, nil, false
	}
	return nil, nil, true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (v *settingsView) render(th Theme, width int) string {
	styles := th.Styles()
	s := v.current()
	p := v.currentProfile()
	rows := [settingRows][2]string{
		{"Theme", s.Theme},
		{"Language", career.LanguageName(s.Language)},
		{"Notifications", onOff(s.NotificationsEnabled)},
		{"Email notifications", onOff(s.EmailNotifications)},
		{"SMS notifications", onOff(s.SMSNotifications)},
		{"Full name", orDash(p.FullName)},
		{"Email", orDash(p.Email)},
		{"Phone", orDash(p.Phone)},
	}

	var b strings.Builder
	for i, r := range rows {
		if settingRow(i) == rowFullName {
			b.WriteString("\n")
			b.WriteString(styles.AccentText.Bold(true).Render("Profile"))
			b.WriteString("\n")
		}
		line := fmt.Sprintf(" %-24s %s ", r[0], r[1])
		if settingRow(i) == v.selected {
			b.WriteString(styles.Selected.Width(max(width, 1)).Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("space/enter change · settings are saved immediately"))
	return b.String()
}
