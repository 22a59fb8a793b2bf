// Package tui is the terminal results view: a search box, a loading
// spinner, and either an empty-state prompt or a list of game cards.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/meur/gamecatalog/internal/media"
	"github.com/meur/gamecatalog/internal/models"
	"github.com/meur/gamecatalog/internal/results"
)

// snapshotMsg carries a state change published by the results view.
type snapshotMsg struct {
	snap results.Snapshot
}

// previewMsg reports the outcome of loading a preview into the player.
type previewMsg struct {
	id  string
	err error
}

// Options configures the model.
type Options struct {
	Query  string        // initial query
	Delay  time.Duration // loading affordance before results appear, zero resolves at once
	Player *media.Controller
	// Load is called with a game's preview URL when it becomes selected.
	Load   func(url string) error
	Logger *zap.Logger
}

// Model is the bubbletea model for the results view.
type Model struct {
	view    *results.View
	updates chan results.Snapshot
	logger  *zap.Logger

	input   textinput.Model
	spinner spinner.Model
	snap    results.Snapshot
	nav     *history

	cursor  int
	player  *media.Controller
	load    func(string) error
	preview string

	width  int
	height int
}

// New creates the model and begins evaluating the initial query. Close
// releases the pending evaluation once the program exits.
func New(searcher results.Searcher, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	player := opts.Player
	if player == nil {
		player = media.NewController(nil, logger)
	}

	in := textinput.New()
	in.Placeholder = "Search games"
	in.Prompt = "🔎 "
	in.SetValue(opts.Query)
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	updates := make(chan results.Snapshot, 1)
	m := Model{
		view: results.NewView(searcher,
			results.WithDelay(opts.Delay),
			results.WithLogger(logger),
			results.OnChange(func(s results.Snapshot) { deliver(updates, s) }),
		),
		updates: updates,
		logger:  logger,
		input:   in,
		spinner: sp,
		nav:     &history{},
		player:  player,
		load:    opts.Load,
	}
	m.submit(opts.Query)
	m.nav.visit(opts.Query)
	return m
}

// deliver hands s to the model, replacing an undelivered older snapshot.
// Publishing is serialized by the view, so one sender runs at a time.
func deliver(ch chan results.Snapshot, s results.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close cancels any pending evaluation.
func (m Model) Close() {
	m.view.Close()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForSnapshot())
}

// waitForSnapshot waits for the next published state. Exactly one wait is
// outstanding; each snapshotMsg schedules the next.
func (m Model) waitForSnapshot() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		return snapshotMsg{snap: <-ch}
	}
}

// submit enters Loading for query. Identical queries are re-evaluated.
func (m *Model) submit(query string) tea.Cmd {
	t := m.view.Submit(query)
	m.snap = results.Snapshot{Seq: t.Seq, Query: t.Query, State: results.Loading}
	m.cursor = 0
	return m.spinner.Tick
}

// Snapshot exposes the current results state.
func (m Model) Snapshot() results.Snapshot {
	return m.snap
}

// Selected returns the highlighted game, if any.
func (m Model) Selected() (models.Game, bool) {
	if m.snap.State != results.Populated || m.cursor >= len(m.snap.Games) {
		return models.Game{}, false
	}
	return m.snap.Games[m.cursor], true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case snapshotMsg:
		return m.handleSnapshot(msg.snap)

	case previewMsg:
		if msg.err != nil {
			m.logger.Debug("preview load failed", zap.String("game", msg.id), zap.Error(msg.err))
			return m, nil
		}
		// a freshly loaded source starts paused
		m.player.Loaded()
		m.preview = msg.id
		return m, nil

	case spinner.TickMsg:
		if m.snap.State != results.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSnapshot(s results.Snapshot) (tea.Model, tea.Cmd) {
	next := m.waitForSnapshot()
	if s.Seq < m.snap.Seq || (s.Seq == m.snap.Seq && s.State == m.snap.State) {
		m.logger.Debug("discarding stale search result", zap.Uint64("seq", s.Seq))
		return m, next
	}
	m.snap = s
	if s.State == results.Loading {
		return m, next
	}
	m.cursor = 0
	return m, tea.Batch(next, m.loadSelected())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.view.Close()
		return m, tea.Quit

	case "enter":
		q := m.input.Value()
		m.nav.visit(q)
		cmd := m.submit(q)
		return m, cmd

	case "up", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
			return m, m.loadSelected()
		}
		return m, nil

	case "down", "ctrl+j":
		if m.cursor < len(m.snap.Games)-1 {
			m.cursor++
			return m, m.loadSelected()
		}
		return m, nil

	case "ctrl+b":
		return m.perform(results.ActionBack)

	case "ctrl+a":
		return m.perform(results.ActionBrowse)

	case "ctrl+p":
		m.player.TogglePlay()
		return m, nil

	case "ctrl+o":
		m.player.ToggleMute()
		return m, nil

	case "ctrl+f":
		m.player.Fullscreen()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// perform runs a recovery action offered by the empty state.
func (m Model) perform(kind results.ActionKind) (tea.Model, tea.Cmd) {
	for _, a := range m.snap.Actions {
		if a.Kind != kind {
			continue
		}
		results.Perform(a, m.nav)
		q, ok := m.nav.take()
		if !ok {
			return m, nil
		}
		m.input.SetValue(q)
		cmd := m.submit(q)
		return m, cmd
	}
	return m, nil
}

func (m Model) loadSelected() tea.Cmd {
	g, ok := m.Selected()
	if !ok || m.load == nil || g.PreviewURL == "" || !m.player.Attached() {
		return nil
	}
	load, id, url := m.load, g.ID, g.PreviewURL
	return func() tea.Msg {
		return previewMsg{id: id, err: load(url)}
	}
}

// history is the navigation collaborator for the terminal view. Each
// visited query is a history entry; browsing all is the empty query.
type history struct {
	entries []string
	next    *string
}

func (h *history) visit(q string) {
	h.entries = append(h.entries, q)
}

// Back implements results.Navigator.
func (h *history) Back() {
	if len(h.entries) < 2 {
		return
	}
	h.entries = h.entries[:len(h.entries)-1]
	prev := h.entries[len(h.entries)-1]
	h.next = &prev
}

// Navigate implements results.Navigator.
func (h *history) Navigate(path string) {
	if path != results.BrowsePath {
		return
	}
	all := ""
	h.visit(all)
	h.next = &all
}

// take returns the query to load after a navigation, once.
func (h *history) take() (string, bool) {
	if h.next == nil {
		return "", false
	}
	q := *h.next
	h.next = nil
	return q, true
}
