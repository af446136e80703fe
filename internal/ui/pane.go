package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/navigator/internal/collection"
)

type item interface {
	collection.Record
	collection.Searchable
}

// row is one rendered list line.
type row struct {
	title string
	meta  string
	badge string
}

// pane is the type-erased view of a listPane the Model works with.
type pane interface {
	tab() tab
	spec() collection.Spec
	status() paneStatus
	load(ctx context.Context) tea.Cmd
	remove(ctx context.Context, id string) tea.Cmd
	searching() bool
	updateInput(msg tea.Msg) tea.Cmd
	handleKey(msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool)
	selectedID() string
	render(th Theme, width, height int, focused bool) string
	reset()
}

type paneStatus struct {
	Loading  bool
	Loaded   bool
	Busy     bool
	Offline  bool
	Err      error
	Total    int
	Visible  int
	Updated  time.Time
	Category string
	Term     string
}

// listPane renders one collection with search, category filter and selection.
type listPane[T item] struct {
	id       tab
	ctrl     *collection.Controller[T]
	input    textinput.Model
	category string
	selected int
	format   func(T) row
	details  func(T) []string
}

func newListPane[T item](id tab, ctrl *collection.Controller[T], format func(T) row, details func(T) []string) *listPane[T] {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search"
	in.CharLimit = 64
	return &listPane[T]{id: id, ctrl: ctrl, input: in, format: format, details: details}
}

func (p *listPane[T]) tab() tab              { return p.id }
func (p *listPane[T]) spec() collection.Spec { return p.ctrl.Spec() }
func (p *listPane[T]) searching() bool       { return p.input.Focused() }
func (p *listPane[T]) items() []T            { return p.ctrl.Snapshot().Items }
func (p *listPane[T]) categories() []string  { return collection.Categories(p.items()) }

func (p *listPane[T]) visible() []T {
	return collection.DeriveView(p.items(), p.input.Value(), p.category)
}

func (p *listPane[T]) setCategory(cat string) {
	p.category = cat
	p.clamp()
}

func (p *listPane[T]) setSearch(term string) {
	p.input.SetValue(term)
	p.clamp()
}

func (p *listPane[T]) status() paneStatus {
	st := p.ctrl.Snapshot()
	return paneStatus{
		Loading:  st.Loading,
		Loaded:   st.Loaded,
		Busy:     p.ctrl.Busy(),
		Offline:  st.IsOffline(),
		Err:      st.LastError,
		Total:    len(st.Items),
		Visible:  len(collection.DeriveView(st.Items, p.input.Value(), p.category)),
		Updated:  st.LastUpdated,
		Category: p.category,
		Term:     p.input.Value(),
	}
}

// reset clears search, filter and selection after the owner changes.
func (p *listPane[T]) reset() {
	p.input.SetValue("")
	p.input.Blur()
	p.category = ""
	p.selected = 0
}

func (p *listPane[T]) load(ctx context.Context) tea.Cmd {
	id := p.id
	return func() tea.Msg {
		_, err := p.ctrl.Load(ctx)
		return loadedMsg{tab: id, err: err}
	}
}

// remove deletes id. The user already answered the confirm modal, which shows
// the same prompt the controller asks.
func (p *listPane[T]) remove(ctx context.Context, id string) tea.Cmd {
	tab := p.id
	return func() tea.Msg {
		err := p.ctrl.Delete(ctx, id, collection.AlwaysConfirm)
		return mutatedMsg{tab: tab, op: "delete", err: err}
	}
}

func (p *listPane[T]) selectedItem() (T, bool) {
	items := p.visible()
	if p.selected < 0 || p.selected >= len(items) {
		var zero T
		return zero, false
	}
	return items[p.selected], true
}

func (p *listPane[T]) selectedID() string {
	it, ok := p.selectedItem()
	if !ok {
		return ""
	}
	return it.RecordID()
}

func (p *listPane[T]) clamp() {
	n := len(p.visible())
	if p.selected >= n {
		p.selected = n - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// cycleCategory moves to the next category in order of first appearance; after
// the last one the filter is cleared.
func (p *listPane[T]) cycleCategory() {
	cats := p.categories()
	next := ""
	if p.category == "" {
		if len(cats) > 0 {
			next = cats[0]
		}
	} else {
		for i, c := range cats {
			if c == p.category && i+1 < len(cats) {
				next = cats[i+1]
			}
		}
	}
	p.setCategory(next)
}

// updateInput forwards non-key messages (cursor blink) to the search input.
func (p *listPane[T]) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *listPane[T]) handleKey(msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool) {
	if p.input.Focused() {
		switch {
		case key.Matches(msg, keys.Escape):
			p.input.SetValue("")
			p.input.Blur()
			p.clamp()
			return nil, true
		case key.Matches(msg, keys.Confirm):
			p.input.Blur()
			return nil, true
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		p.clamp()
		return cmd, true
	}

	n := len(p.visible())
	switch {
	case key.Matches(msg, keys.Search):
		return p.input.Focus(), true
	case key.Matches(msg, keys.Escape):
		if p.input.Value() == "" && p.category == "" {
			return nil, false
		}
		p.input.SetValue("")
		p.category = ""
		p.clamp()
	case key.Matches(msg, keys.CycleCategory):
		p.cycleCategory()
	case key.Matches(msg, keys.Down):
		if p.selected < n-1 {
			p.selected++
		}
	case key.Matches(msg, keys.Up):
		if p.selected > 0 {
			p.selected--
		}
	case key.Matches(msg, keys.Top):
		p.selected = 0
	case key.Matches(msg, keys.Bottom):
		p.selected = max(n-1, 0)
	default:
		return nil, false
	}
	return nil, true
}

func (p *listPane[T]) render(th Theme, width, height int, focused bool) string {
	styles := th.Styles()
	st := p.status()
	var lines []string

	if p.input.Focused() || p.input.Value() != "" || p.category != "" {
		filter := p.input.View()
		if p.category != "" {
			filter += "  " + styles.MutedText.Render("category:") + " " + styles.AccentText.Render(p.category)
		}
		lines = append(lines, filter)
	}

	items := p.visible()
	switch {
	case st.Loading && !st.Loaded:
		lines = append(lines, styles.MutedText.Render("Loading..."))
	case errors.Is(st.Err, collection.ErrSignedOut):
		lines = append(lines, styles.WarningText.Render("Sign in with \"navigator login\" to see your "+strings.ToLower(p.id.String())+"."))
	case len(items) == 0 && st.Total > 0:
		lines = append(lines, styles.MutedText.Render("Nothing matches the current search."))
	case len(items) == 0:
		lines = append(lines, styles.MutedText.Render("No "+p.id.String()+" yet."))
	}

	listHeight := height
	if p.details != nil {
		listHeight = max(height/2, 3)
	}
	start := 0
	if p.selected >= listHeight-len(lines) {
		start = p.selected - (listHeight - len(lines)) + 1
	}
	for i := start; i < len(items) && len(lines) < listHeight; i++ {
		lines = append(lines, p.renderRow(th, items[i], width, focused && i == p.selected))
	}

	if p.details != nil {
		if it, ok := p.selectedItem(); ok {
			for len(lines) < listHeight {
				lines = append(lines, "")
			}
			lines = append(lines, styles.FaintText.Render(strings.Repeat("─", max(width, 1))))
			for _, d := range p.details(it) {
				lines = append(lines, truncate(d, width))
			}
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (p *listPane[T]) renderRow(th Theme, it T, width int, selected bool) string {
	styles := th.Styles()
	r := p.format(it)

	badge := ""
	if r.badge != "" {
		badge = styles.Badge(r.badge).Render(r.badge)
	}
	meta := r.meta
	titleWidth := max(width-lipgloss.Width(badge)-len(meta)-4, 10)
	title := truncate(r.title, titleWidth)

	if selected {
		sel := styles.Selected
		content := sel.Render(fmt.Sprintf(" %s  %s ", title, meta))
		return lipgloss.NewStyle().Background(lipgloss.Color(th.SelectionBg)).Width(max(width-lipgloss.Width(badge), 1)).Render(content) + badge
	}
	content := " " + styles.Text.Render(title) + "  " + styles.MutedText.Render(meta) + " "
	return lipgloss.NewStyle().Width(max(width-lipgloss.Width(badge), 1)).Render(content) + badge
}
