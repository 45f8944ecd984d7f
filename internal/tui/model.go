package tui

import (
	"context"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/graph"
	"github.com/opsdeck/opsdeck/internal/logfeed"
	"github.com/opsdeck/opsdeck/internal/normalize"
	"github.com/opsdeck/opsdeck/internal/services"
	"github.com/opsdeck/opsdeck/internal/upstream"
)

// Tab selects the active dashboard view.
type Tab int

const (
	TabGraph Tab = iota
	TabLogs
	TabServices
)

// Overlay is the single active-overlay enum: at most one dropdown is open
// at a time and all of them share one dismissal path.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayLayout
	OverlayTypes
	OverlayLevels
	OverlayServices
)

// Model is the dashboard TUI state.
type Model struct {
	cfg    *config.Config
	state  *config.AppState
	source *upstream.Source
	feed   *logfeed.Feed
	engine *graph.Engine
	norm   *normalize.Normalizer
	clk    clock.Clock
	log    *zap.Logger

	tab      Tab
	width    int
	height   int
	ready    bool
	viewport viewport.Model
	search   textinput.Model

	// Graph interaction state
	searchTerm    string
	selectedTypes map[string]struct{}
	layoutMode    graph.LayoutMode
	isFullscreen  bool
	overlay       Overlay
	overlayCursor int
	searching     bool

	// Data snapshot state (replaced wholesale each refresh cycle)
	entities  []domain.Entity
	relations []domain.Relation
	logs      []domain.LogEntry
	stats     domain.LogStats
	health    []domain.ServiceHealth
	svcInfo   []domain.ServiceInfo
	degraded  []string

	// Log view state
	filter logfeed.FilterState
	window *logfeed.Window
	live   bool

	feedUpdates <-chan logfeed.Update
	unsubscribe func()

	lastRefresh time.Time
	lastErr     error
}

// snapshotMsg delivers one completed refresh cycle.
type snapshotMsg struct {
	snap *upstream.Snapshot
	err  error
}

// feedMsg delivers one live feed update.
type feedMsg struct {
	update logfeed.Update
	open   bool
}

// refreshTickMsg triggers the next dashboard refresh cycle.
type refreshTickMsg time.Time

// New creates the dashboard model.
func New(cfg *config.Config, state *config.AppState, source *upstream.Source, feed *logfeed.Feed, clk clock.Clock, log *zap.Logger) Model {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		cfg:           cfg,
		state:         state,
		source:        source,
		feed:          feed,
		engine:        graph.NewEngine(cfg.Dashboard.TypeOrder),
		norm:          normalize.New(),
		clk:           clk,
		log:           log,
		search:        ti,
		selectedTypes: make(map[string]struct{}),
		layoutMode:    graph.ParseLayoutMode(state.Layout),
		filter:        logfeed.NewFilterState(),
		window:        logfeed.NewWindow(cfg.Dashboard.WindowSize, cfg.Dashboard.WindowIncrement),
	}
}

// Init issues the first refresh cycle and schedules the refresh timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchCmd(), m.refreshTickCmd()}
	if m.state.Live {
		cmds = append(cmds, m.startLiveCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.source.Fetch(context.Background())
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Dashboard.RefreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m *Model) startLiveCmd() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	if !m.feed.IsRunning() {
		if err := m.feed.Start(context.Background()); err != nil {
			m.lastErr = err
			return nil
		}
	}
	m.feedUpdates, m.unsubscribe = m.feed.Subscribe()
	m.live = true
	return waitForFeed(m.feedUpdates)
}

func (m *Model) stopLive() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.feed != nil {
		m.feed.Stop()
	}
	m.feedUpdates = nil
	m.live = false
}

func waitForFeed(ch <-chan logfeed.Update) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		return feedMsg{update: update, open: ok}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		newModel, keyCmd, quit := m.handleKey(msg)
		if quit {
			newModel.stopLive()
			return newModel, tea.Quit
		}
		m = newModel
		if keyCmd != nil {
			cmds = append(cmds, keyCmd)
		}

	case tea.MouseMsg:
		// Any click outside an open overlay dismisses it.
		if msg.Action == tea.MouseActionPress && m.overlay != OverlayNone {
			m.overlay = OverlayNone
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.syncViewport()

	case snapshotMsg:
		if msg.err == nil && msg.snap != nil && !m.source.Stale(msg.snap) {
			m.applySnapshot(msg.snap)
		} else if msg.err != nil {
			// Failed cycle: keep displayed state, retry on the next tick.
			m.lastErr = msg.err
		}

	case refreshTickMsg:
		cmds = append(cmds, m.fetchCmd(), m.refreshTickCmd())

	case feedMsg:
		if msg.open {
			m.logs = msg.update.Entries
			m.recomputeServices()
			m.syncViewport()
			cmds = append(cmds, waitForFeed(m.feedUpdates))
		}
	}

	// An open overlay owns navigation keys; they must not also scroll the
	// content beneath it.
	if m.ready && !m.searching && m.overlay == OverlayNone {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		// Scrolling near the end grows the display window.
		if m.tab == TabLogs && m.viewport.AtBottom() {
			before := m.window.Size()
			m.window.Grow()
			if m.window.Size() != before {
				m.syncViewport()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes one key press. The bool result requests quit.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.setSearch("")
		case "enter":
			m.searching = false
			m.search.Blur()
			m.setSearch(m.search.Value())
		default:
			// Filtering tracks the input live; enter only closes the prompt.
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.setSearch(m.search.Value())
			return m, cmd, false
		}
		return m, nil, false
	}

	// An open overlay captures navigation keys; every other key closes it
	// (the keyboard analog of an outside click).
	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg), nil, false
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, nil, true

	case "esc":
		if m.isFullscreen {
			m.isFullscreen = false
		} else if m.searchActive() != "" {
			m.setSearch("")
			m.search.SetValue("")
		}

	case "tab":
		m.tab = (m.tab + 1) % 3
		m.syncViewport()

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink, false

	case "f":
		m.isFullscreen = !m.isFullscreen

	case "m":
		m.overlay = OverlayLayout
		m.overlayCursor = 0
	case "t":
		if m.tab == TabGraph {
			m.overlay = OverlayTypes
			m.overlayCursor = 0
		}
	case "v":
		if m.tab == TabLogs {
			m.overlay = OverlayLevels
			m.overlayCursor = 0
		}
	case "s":
		if m.tab == TabLogs {
			m.overlay = OverlayServices
			m.overlayCursor = 0
		}

	case "l":
		var cmd tea.Cmd
		if m.live {
			m.stopLive()
		} else {
			cmd = m.startLiveCmd()
		}
		m.state.Live = m.live
		m.saveState()
		return m, cmd, false

	case "r":
		return m, m.fetchCmd(), false

	case "g", "home":
		m.viewport.GotoTop()
	case "G", "end":
		m.viewport.GotoBottom()
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "ctrl+d", "pgdown":
		m.viewport.HalfViewDown()
	case "ctrl+u", "pgup":
		m.viewport.HalfViewUp()
	}

	return m, nil, false
}

// handleOverlayKey navigates and applies the open overlay.
func (m Model) handleOverlayKey(msg tea.KeyMsg) Model {
	choices := m.overlayChoices()

	switch msg.String() {
	case "esc":
		m.overlay = OverlayNone
	case "j", "down":
		if m.overlayCursor < len(choices)-1 {
			m.overlayCursor++
		}
	case "k", "up":
		if m.overlayCursor > 0 {
			m.overlayCursor--
		}
	case "enter", " ":
		m = m.applyOverlayChoice(choices)
	default:
		// Outside interaction closes the dropdown.
		m.overlay = OverlayNone
	}
	return m
}

// applyOverlayChoice commits the highlighted overlay entry. Choosing a
// layout closes the overlay (its action completed); toggling a filter item
// keeps the overlay open for further toggles.
func (m Model) applyOverlayChoice(choices []string) Model {
	if m.overlayCursor >= len(choices) {
		return m
	}
	choice := choices[m.overlayCursor]

	switch m.overlay {
	case OverlayLayout:
		m.layoutMode = graph.LayoutMode(choice)
		m.state.Layout = choice
		m.saveState()
		m.overlay = OverlayNone
	case OverlayTypes:
		if _, ok := m.selectedTypes[choice]; ok {
			delete(m.selectedTypes, choice)
		} else {
			m.selectedTypes[choice] = struct{}{}
		}
	case OverlayLevels:
		m.filter.ToggleLevel(domain.LogLevel(choice))
		m.window.Reset()
	case OverlayServices:
		m.filter.ToggleService(choice)
		m.window.Reset()
	case OverlayNone:
	}
	m.syncViewport()
	return m
}

// overlayChoices lists the open overlay's entries.
func (m Model) overlayChoices() []string {
	switch m.overlay {
	case OverlayLayout:
		modes := graph.LayoutModes()
		out := make([]string, len(modes))
		for i, mode := range modes {
			out[i] = string(mode)
		}
		return out
	case OverlayTypes:
		return m.entityTypes()
	case OverlayLevels:
		levels := domain.Levels()
		out := make([]string, len(levels))
		for i, lvl := range levels {
			out[i] = string(lvl)
		}
		return out
	case OverlayServices:
		out := make([]string, 0, len(m.svcInfo))
		for _, info := range m.svcInfo {
			out = append(out, info.ServiceName)
		}
		return out
	default:
		return nil
	}
}

// entityTypes returns the distinct entity types in first-seen order.
func (m Model) entityTypes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ent := range m.entities {
		if _, ok := seen[ent.Type]; ok {
			continue
		}
		seen[ent.Type] = struct{}{}
		out = append(out, ent.Type)
	}
	return out
}

// setSearch updates the active tab's search term. Log search changes reset
// the display window.
func (m *Model) setSearch(term string) {
	switch m.tab {
	case TabGraph:
		m.searchTerm = term
	default:
		m.filter.Search = term
		m.window.Reset()
	}
	m.syncViewport()
}

func (m Model) searchActive() string {
	if m.tab == TabGraph {
		return m.searchTerm
	}
	return m.filter.Search
}

// applySnapshot installs a completed refresh cycle wholesale.
func (m *Model) applySnapshot(snap *upstream.Snapshot) {
	m.entities = snap.Entities
	m.relations = graph.ValidRelations(snap.Entities, snap.Relations, m.log)
	m.stats = snap.Stats
	m.health = snap.Health
	m.degraded = snap.Degraded
	m.lastRefresh = m.clk.Now()
	m.lastErr = nil

	// Live mode owns the log slice; the refresh cycle fills it otherwise.
	if !m.live {
		m.logs = m.norm.Batch(snap.Logs)
	}
	m.recomputeServices()
	m.syncViewport()
}

func (m *Model) recomputeServices() {
	m.svcInfo = services.Aggregate(m.logs, m.clk)
}

func (m *Model) saveState() {
	if err := m.state.Save(); err != nil {
		m.log.Warn("failed to persist ui state", zap.Error(err))
	}
}

// visibleEntities applies the graph search and type filters. Filtering
// affects visibility only; the underlying snapshot is untouched.
func (m Model) visibleEntities() []domain.Entity {
	term := strings.ToLower(m.searchTerm)
	out := make([]domain.Entity, 0, len(m.entities))
	for _, ent := range m.entities {
		if len(m.selectedTypes) > 0 {
			if _, ok := m.selectedTypes[ent.Type]; !ok {
				continue
			}
		}
		if term != "" && !strings.Contains(strings.ToLower(ent.Label()), term) {
			continue
		}
		out = append(out, ent)
	}
	return out
}

// visibleLogs applies the log filter and the display window.
func (m *Model) visibleLogs() []domain.LogEntry {
	return m.window.Slice(m.filter.Apply(m.logs))
}
