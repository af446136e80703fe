package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/prefs"
	"github.com/five82/navigator/internal/store"
	"github.com/five82/navigator/internal/store/memstore"
)

type harness struct {
	m     Model
	store *memstore.Store
	ws    *career.Workspace
	prefs string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := memstore.New(career.Tables()...)
	require.NoError(t, s.Seed(career.GoalsCollection,
		store.Row{"id": "g1", "user_id": "u1", "title": "Learn Python", "progress_percentage": 90, "created_at": "2025-01-02T00:00:00.000000Z"},
		store.Row{"id": "g2", "user_id": "u1", "title": "Lead a team", "progress_percentage": 10, "created_at": "2025-01-01T00:00:00.000000Z"},
		store.Row{"id": "g3", "user_id": "u2", "title": "Someone else's goal"},
	))
	require.NoError(t, s.Seed(career.CoursesCollection,
		store.Row{"id": "c1", "title": "Python Basics", "category": "Programming", "rating": 4.5},
		store.Row{"id": "c2", "title": "Leadership 101", "category": "Management", "rating": 4.9},
	))
	require.NoError(t, s.Seed(career.ProfilesCollection, store.Row{"user_id": "u1", "full_name": "Asha Rao"}))

	log := zaptest.NewLogger(t)
	ws := career.NewWorkspace(s, log, "u1")
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	h := &harness{store: s, ws: ws, prefs: prefsPath}
	h.m = New(Options{
		Context:   context.Background(),
		Workspace: ws,
		Log:       log,
		Backend:   "memory",
		PrefsPath: prefsPath,
		Now:       func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) },
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.exec(h.m.Init())
	return h
}

// send delivers msg and drops the resulting command.
func (h *harness) send(msg tea.Msg) {
	next, _ := h.m.Update(msg)
	h.m = next.(Model)
}

// exec runs cmd to completion, feeding every message back into the model.
func (h *harness) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.exec(c)
		}
	default:
		next, cmd := h.m.Update(msg)
		h.m = next.(Model)
		h.exec(cmd)
	}
}

// press sends a key and runs the command it produces.
func (h *harness) press(k string) {
	next, cmd := h.m.Update(keyMsg(k))
	h.m = next.(Model)
	h.exec(cmd)
}

// typeText types into the focused input without running blink commands.
func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) goTo(t tab) {
	h.m.current = t
}

func TestModel_InitialLoadRendersDashboard(t *testing.T) {
	h := newHarness(t)

	view := h.m.View()
	assert.Contains(t, view, "Welcome back, Asha Rao!")
	assert.Contains(t, view, "Learn Python")
	assert.Contains(t, view, "Your profile is incomplete")
	assert.NotContains(t, view, "Someone else's goal")
}

func TestModel_TabsCycle(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, tabDashboard, h.m.current)

	h.press("tab")
	assert.Equal(t, tabGoals, h.m.current)
	h.press("h")
	h.press("h")
	assert.Equal(t, tabSettings, h.m.current)
}

func TestModel_SearchAndCategoryFilterCourses(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabCourses)

	h.send(keyMsg("/"))
	require.True(t, h.m.courses.searching())
	h.typeText("PYTHON")
	assert.Equal(t, 1, h.m.courses.status().Visible)
	assert.Equal(t, "c1", h.m.courses.selectedID())

	h.send(keyMsg("q"))
	assert.Equal(t, "PYTHONq", h.m.courses.input.Value(), "q types while searching")

	h.send(keyMsg("esc"))
	assert.False(t, h.m.courses.searching())
	assert.Equal(t, 2, h.m.courses.status().Visible)

	// Courses are ordered by rating, so Management appears first.
	h.press("f")
	assert.Equal(t, "Management", h.m.courses.category)
	assert.Equal(t, "c2", h.m.courses.selectedID())
	h.press("f")
	assert.Equal(t, "Programming", h.m.courses.category)
	assert.Equal(t, "c1", h.m.courses.selectedID())
	h.press("f")
	assert.Equal(t, "", h.m.courses.category)
}

func TestModel_CreateGoalThroughForm(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabGoals)

	h.press("n")
	form, ok := h.m.modal.(*formModal)
	require.True(t, ok)

	h.press("enter")
	assert.Contains(t, form.err, "title")
	assert.Zero(t, h.store.Calls("insert"), "invalid input never reaches the store")

	h.typeText("Ship a CLI")
	h.press("enter")
	assert.Nil(t, h.m.modal)
	assert.Equal(t, "Saved", h.m.flash)

	goals := h.ws.Goals.Snapshot().Items
	require.Len(t, goals, 3)
	var titles []string
	for _, g := range goals {
		titles = append(titles, g.Title)
	}
	assert.Contains(t, titles, "Ship a CLI")
}

func TestModel_FormRejectsBadNumber(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabSkills)

	h.press("n")
	form := h.m.modal.(*formModal)
	h.typeText("Go")
	h.send(keyMsg("tab"))
	h.typeText("Technical")
	h.send(keyMsg("tab"))
	form.fields[2].input.SetValue("lots")
	h.press("enter")

	assert.Contains(t, form.err, "proficiency_level")
	assert.Equal(t, 2, form.focus)
	assert.Zero(t, h.store.Calls("insert"))
}

func TestModel_DeleteAsksFirst(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabGoals)
	require.Equal(t, "g1", h.m.goals.selectedID())

	h.press("d")
	confirm, ok := h.m.modal.(confirmModal)
	require.True(t, ok)
	assert.Equal(t, "Delete this goal?", confirm.prompt)

	h.press("n")
	assert.Nil(t, h.m.modal)
	assert.Zero(t, h.store.Calls("delete"))

	h.press("d")
	h.press("y")
	assert.Equal(t, 1, h.store.Calls("delete"))
	assert.Equal(t, "Deleted", h.m.flash)
	require.Len(t, h.ws.Goals.Snapshot().Items, 1)
	assert.Equal(t, "g2", h.m.goals.selectedID())
}

func TestModel_ProgressKeysUpdateGoal(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabGoals)

	h.press("+")
	g := h.ws.Goals.Snapshot().Items[0]
	assert.Equal(t, 100, g.ProgressPercentage)
	assert.Equal(t, career.GoalCompleted, g.Status)

	h.press("-")
	g = h.ws.Goals.Snapshot().Items[0]
	assert.Equal(t, 90, g.ProgressPercentage)
	assert.Equal(t, career.GoalActive, g.Status)
}

func TestModel_ReadOnlyTabsRefuseEdits(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabCourses)

	h.press("n")
	assert.Nil(t, h.m.modal)
	assert.True(t, h.m.flashErr)
	h.press("d")
	assert.Nil(t, h.m.modal)
}

func TestModel_SettingsToggleSavesAndAppliesTheme(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabSettings)

	h.press(" ")
	assert.Equal(t, "Settings saved", h.m.flash)
	assert.Equal(t, "dark", career.CurrentSettings(h.ws.Settings).Theme)
	assert.Equal(t, "Dark", h.m.theme.Name)
	assert.Equal(t, "Dark", prefs.Load(h.prefs).Theme)

	h.press("j")
	h.press(" ")
	assert.Equal(t, "hi", career.CurrentSettings(h.ws.Settings).Language)
	assert.Equal(t, 1, h.store.Calls("insert"), "second change updates the row")
}

func TestModel_SettingsEditsProfileContact(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabSettings)
	assert.Contains(t, h.m.View(), "Asha Rao")

	for h.m.settings.selected != rowContactEmail {
		h.press("j")
	}
	h.press("enter")
	form, ok := h.m.modal.(*formModal)
	require.True(t, ok)
	assert.Equal(t, "email", form.fields[form.focus].key)

	h.typeText("asha")
	h.press("enter")
	require.NotNil(t, h.m.modal, "invalid email keeps the form open")
	assert.Contains(t, h.m.modal.(*formModal).err, "email")
	assert.Zero(t, h.store.Calls("update"))

	h.typeText("@example.com")
	h.press("enter")
	assert.Nil(t, h.m.modal)
	assert.Equal(t, "Profile saved", h.m.flash)

	rows, err := h.store.Select(context.Background(), career.ProfilesCollection, store.Query{Owner: "u1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "asha@example.com", rows[0]["email"])
	assert.Equal(t, "Asha Rao", rows[0]["full_name"])
	assert.Equal(t, "2026-10-19T00:00:00Z", rows[0]["updated_at"])
	assert.Zero(t, h.store.Calls("insert"))
	assert.Contains(t, h.m.View(), "asha@example.com")
}

func TestModel_SkillsTabShowsRoadmap(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabSkills)
	assert.NotContains(t, h.m.View(), "Roadmap", "no goal names a role")

	require.NoError(t, h.store.Seed(career.GoalsCollection, store.Row{
		"id": "g4", "user_id": "u1", "title": "Move into ML", "target_role": "ml engineer",
		"created_at": "2025-02-01T00:00:00.000000Z",
	}))
	require.NoError(t, h.store.Seed(career.SkillsCollection, store.Row{
		"user_id": "u1", "skill_name": "Python", "category": "Technical", "proficiency_level": 4,
	}))
	h.exec(h.m.reloadAll())

	view := h.m.View()
	assert.Contains(t, view, "Roadmap · ML Engineer: learn Machine Learning, Deep Learning")
	assert.NotContains(t, view, "learn Python")
}

func TestModel_SessionChangeReloads(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabGoals)
	h.send(keyMsg("/"))
	h.typeText("learn")

	h.ws.SetOwner("u2")
	next, cmd := h.m.Update(sessionMsg{UserID: "u2"})
	h.m = next.(Model)
	h.exec(cmd)

	assert.False(t, h.m.goals.searching())
	goals := h.ws.Goals.Snapshot().Items
	require.Len(t, goals, 1)
	assert.Equal(t, "Someone else's goal", goals[0].Title)
	assert.True(t, strings.Contains(h.m.View(), "Someone else's goal"))
}

func TestModel_QuitSavesPrefs(t *testing.T) {
	h := newHarness(t)
	h.goTo(tabCourses)

	next, cmd := h.m.Update(keyMsg("q"))
	h.m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Courses", prefs.Load(h.prefs).LastTab)
}
