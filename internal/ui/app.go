package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/collection"
	"github.com/five82/navigator/internal/prefs"
	"github.com/five82/navigator/internal/session"
)

const progressStep = 10

// Options configures the UI.
type Options struct {
	Context   context.Context
	Workspace *career.Workspace
	Sessions  <-chan session.Session // identity changes; nil when fixed
	Log       *zap.Logger
	Backend   string
	ThemeName string
	LastTab   string
	PrefsPath string
	Now       func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ws        *career.Workspace
	sessions  <-chan session.Session
	log       *zap.Logger
	backend   string
	prefsPath string
	now       func() time.Time
	keys      keyMap

	// UI state
	theme    Theme
	current  tab
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	flash    string
	flashErr bool

	// Panes
	panes       map[tab]pane
	goals       *listPane[career.Goal]
	skills      *listPane[career.Skill]
	gaps        *listPane[career.SkillGap]
	courses     *listPane[career.Course]
	mentors     *listPane[career.Mentor]
	credentials *listPane[career.Credential]
	settings    *settingsView
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ws := opts.Workspace
	m := Model{
		ctx:       ctx,
		ws:        ws,
		sessions:  opts.Sessions,
		log:       log,
		backend:   opts.Backend,
		prefsPath: prefsPath,
		now:       now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		current:   parseTab(opts.LastTab),

		goals:       newListPane(tabGoals, ws.Goals, goalRow, goalDetails),
		skills:      newListPane(tabSkills, ws.Skills, skillRow, nil),
		gaps:        newListPane(tabSkills, ws.Gaps, gapRow, nil),
		courses:     newListPane(tabCourses, ws.Courses, courseRow, courseDetails),
		mentors:     newListPane(tabMentors, ws.Mentors, mentorRow, mentorDetails),
		credentials: newListPane(tabCredentials, ws.Credentials, credentialRow, credentialDetails(now)),
		settings:    &settingsView{ctrl: ws.Settings, profile: ws.Profile()},
	}
	m.panes = map[tab]pane{
		tabGoals:       m.goals,
		tabSkills:      m.skills,
		tabCourses:     m.courses,
		tabMentors:     m.mentors,
		tabCredentials: m.credentials,
	}
	return m
}

// Messages

type loadedMsg struct {
	tab tab
	err error
}

type mutatedMsg struct {
	tab tab
	op  string
	err error
}

type dashboardMsg struct{ err error }

type sessionMsg session.Session

// Commands

func waitForSession(ch <-chan session.Session) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg(s)
	}
}

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		return dashboardMsg{err: m.ws.Dashboard.Load(m.ctx, m.log)}
	}
}

func (m Model) loadSettings() tea.Cmd {
	return func() tea.Msg {
		_, err := m.ws.Settings.Load(m.ctx)
		return loadedMsg{tab: tabSettings, err: err}
	}
}

func (m Model) loadGaps() tea.Cmd {
	return func() tea.Msg {
		_, err := m.ws.Gaps.Load(m.ctx)
		return loadedMsg{tab: tabSkills, err: err}
	}
}

// reloadAll refreshes every collection.
func (m Model) reloadAll() tea.Cmd {
	cmds := []tea.Cmd{m.loadDashboard(), m.loadSettings(), m.loadGaps()}
	for t := tabGoals; t < tabSettings; t++ {
		cmds = append(cmds, m.panes[t].load(m.ctx))
	}
	return tea.Batch(cmds...)
}

// reloadCurrent refreshes what the current tab shows.
func (m Model) reloadCurrent() tea.Cmd {
	switch m.current {
	case tabDashboard:
		return m.loadDashboard()
	case tabSettings:
		return m.loadSettings()
	case tabSkills:
		return tea.Batch(m.skills.load(m.ctx), m.loadGaps())
	default:
		return m.panes[m.current].load(m.ctx)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reloadAll(), waitForSession(m.sessions))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case loadedMsg:
		m.reportLoad(msg.tab.String(), msg.err)
		return m, nil

	case dashboardMsg:
		m.reportLoad("dashboard", msg.err)
		return m, nil

	case mutatedMsg:
		return m.handleMutated(msg)

	case sessionMsg:
		for _, p := range m.panes {
			p.reset()
		}
		m.gaps.reset()
		if session.Session(msg).SignedIn() {
			m.setFlash("Signed in", false)
		} else {
			m.setFlash("Signed out", false)
		}
		return m, tea.Batch(m.reloadAll(), waitForSession(m.sessions))
	}

	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	if p, ok := m.panes[m.current]; ok && p.searching() {
		return m, p.updateInput(msg)
	}
	return m, nil
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// reportLoad surfaces load failures. Signed-out and superseded loads are
// expected and stay quiet.
func (m *Model) reportLoad(what string, err error) {
	if err == nil || errors.Is(err, collection.ErrSuperseded) || errors.Is(err, collection.ErrSignedOut) {
		return
	}
	m.log.Warn("load failed", zap.String("view", what), zap.Error(err))
	m.setFlash(fmt.Sprintf("%s: %v", strings.ToLower(what), err), true)
}

func (m Model) handleMutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if f, ok := m.modal.(*formModal); ok && f.tab == msg.tab && (msg.op == "create" || msg.op == "profile") {
		if !f.finish(msg.err) {
			return m, nil
		}
		m.modal = nil
	}
	if msg.err != nil {
		m.setFlash(msg.err.Error(), true)
		return m, nil
	}
	switch msg.op {
	case "create":
		m.setFlash("Saved", false)
	case "delete":
		m.setFlash("Deleted", false)
	case "save":
		m.setFlash("Settings saved", false)
	case "profile":
		m.setFlash("Profile saved", false)
	default:
		m.flash = ""
	}
	// The dashboard panels overlap goals and skills.
	return m, m.loadDashboard()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	p, isList := m.panes[m.current]
	if isList && p.searching() {
		cmd, _ := p.handleKey(msg, m.keys)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.current = m.current.next()
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.current = m.current.prev()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCurrent()
	}

	if m.current == tabSettings {
		if m.settings.onProfile() && key.Matches(msg, m.keys.Toggle) {
			if m.ws.Profile().Busy() {
				m.setFlash("Still saving, try again in a moment", true)
				return m, nil
			}
			m.modal = m.settings.profileForm(m.ctx, m.now)
			return m, nil
		}
		cmd, saving, _ := m.settings.handleKey(m.ctx, msg, m.keys)
		if saving != nil {
			if m.ws.Settings.Busy() {
				m.setFlash("Still saving, try again in a moment", true)
				return m, nil
			}
			m.theme = GetTheme(saving.Theme)
			m.savePrefs()
		}
		return m, cmd
	}
	if !isList {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.New):
		return m.openForm()
	case key.Matches(msg, m.keys.Delete):
		return m.confirmDelete(p)
	case m.current == tabGoals && key.Matches(msg, m.keys.ProgressUp):
		return m.stepProgress(progressStep)
	case m.current == tabGoals && key.Matches(msg, m.keys.ProgressDown):
		return m.stepProgress(-progressStep)
	}

	cmd, _ := p.handleKey(msg, m.keys)
	return m, cmd
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	var form *formModal
	switch m.current {
	case tabGoals:
		form = goalForm(m.ctx, m.ws.Goals)
	case tabSkills:
		form = skillForm(m.ctx, m.ws.Skills)
	case tabCredentials:
		form = credentialForm(m.ctx, m.ws.Credentials)
	default:
		m.setFlash(m.current.String()+" are read only", true)
		return m, nil
	}
	m.modal = form
	return m, nil
}

func (m Model) confirmDelete(p pane) (tea.Model, tea.Cmd) {
	spec := p.spec()
	if spec.ReadOnly {
		m.setFlash(m.current.String()+" are read only", true)
		return m, nil
	}
	if p.status().Busy {
		m.setFlash("Busy, try again in a moment", true)
		return m, nil
	}
	id := p.selectedID()
	if id == "" {
		return m, nil
	}
	m.modal = confirmModal{prompt: spec.DeletePrompt(), onYes: p.remove(m.ctx, id)}
	return m, nil
}

func (m Model) stepProgress(delta int) (tea.Model, tea.Cmd) {
	g, ok := m.goals.selectedItem()
	if !ok {
		return m, nil
	}
	if m.ws.Goals.Busy() {
		m.setFlash("Busy, try again in a moment", true)
		return m, nil
	}
	ctx, goals, target := m.ctx, m.ws.Goals, g.ProgressPercentage+delta
	return m, func() tea.Msg {
		return mutatedMsg{tab: tabGoals, op: "progress", err: career.SetProgress(ctx, goals, g.ID, target)}
	}
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, LastTab: m.current.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs", zap.Error(err))
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	contentHeight := max(m.height-3, 3)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTitledBox(m.contentTitle(), m.renderContent(m.width-2, contentHeight-2), m.width, contentHeight, true),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	parts := []string{styles.Logo.Render("navigator")}
	for t := tabDashboard; t < tabCount; t++ {
		if t == m.current {
			parts = append(parts, styles.ActiveTab.Render(t.String()))
		} else {
			parts = append(parts, styles.InactiveTab.Render(t.String()))
		}
	}
	left := strings.Join(parts, " ")

	who := "signed out"
	if owner := m.ws.Owner(); owner != "" {
		who = "signed in"
	}
	right := styles.MutedText.Render(m.backend + " · " + who)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) contentTitle() string {
	p, ok := m.panes[m.current]
	if !ok {
		return m.current.String()
	}
	st := p.status()
	title := m.current.String()
	if st.Visible != st.Total {
		title += fmt.Sprintf(" (%d of %d)", st.Visible, st.Total)
	} else if st.Loaded {
		title += fmt.Sprintf(" (%d)", st.Total)
	}
	switch {
	case st.Offline:
		title += " · offline"
	case st.Loading:
		title += " · loading"
	case st.Busy:
		title += " · saving"
	}
	return title
}

// roadmapLine names the skills still missing for the newest goal's target role.
func (m Model) roadmapLine() string {
	role := career.TargetRole(m.ws.Goals.Snapshot().Items)
	if role == "" {
		return ""
	}
	rm := career.BuildRoadmap(role, 0, career.SkillNames(m.ws.Skills.Snapshot().Items))
	if len(rm.Missing) == 0 {
		return fmt.Sprintf("Roadmap · %s: every required skill covered", rm.Role)
	}
	return fmt.Sprintf("Roadmap · %s: learn %s", rm.Role, strings.Join(rm.Missing, ", "))
}

func (m Model) renderContent(width, height int) string {
	switch m.current {
	case tabDashboard:
		return m.renderDashboard(width)
	case tabSettings:
		return m.settings.render(m.theme, width)
	case tabSkills:
		top := max(height*2/3, 3)
		skills := m.skills.render(m.theme, width, top, true)
		styles := m.theme.Styles()
		gaps := m.gaps.render(m.theme, width, max(height-top-4, 1), false)
		out := skills + "\n\n" + styles.AccentText.Bold(true).Render("Skill gaps") + "\n" + gaps
		if line := m.roadmapLine(); line != "" {
			out += "\n\n" + styles.MutedText.Width(max(width, 1)).MaxHeight(1).Render(line)
		}
		return out
	default:
		return m.panes[m.current].render(m.theme, width, height, true)
	}
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.flash != "" {
		if m.flashErr {
			return styles.DangerText.Render(m.flash)
		}
		return styles.SuccessText.Render(m.flash)
	}
	hint := "? help · tab switch · r reload · q quit"
	if p, ok := m.panes[m.current]; ok {
		hint = "/ search · f category · j/k move · " + hint
		if !p.spec().ReadOnly {
			hint = "n new · d delete · " + hint
		}
		if st := p.status(); !st.Updated.IsZero() {
			hint += " · updated " + timeAgo(st.Updated, m.now())
		}
	}
	if m.current == tabGoals {
		hint = "+/- progress · " + hint
	}
	return styles.FaintText.Render(truncate(hint, m.width))
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
