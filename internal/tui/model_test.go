package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/graph"
)

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestModel() Model {
	cfg := config.Default()
	state := config.DefaultState()
	m := New(cfg, state, nil, nil, nil, nil)
	m.entities = []domain.Entity{
		{ID: "api", Type: "service", Name: "Orders API"},
		{ID: "db", Type: "database", Name: "Orders DB"},
		{ID: "cache", Type: "cache", Name: "Session Cache"},
	}
	return m
}

func TestVisibleEntities(t *testing.T) {
	t.Run("no filters shows everything", func(t *testing.T) {
		m := newTestModel()
		assert.Len(t, m.visibleEntities(), 3)
	})

	t.Run("search matches label case-insensitively", func(t *testing.T) {
		m := newTestModel()
		m.searchTerm = "orders"
		assert.Len(t, m.visibleEntities(), 2)
	})

	t.Run("type filter is OR over selected types", func(t *testing.T) {
		m := newTestModel()
		m.selectedTypes["service"] = struct{}{}
		m.selectedTypes["cache"] = struct{}{}
		assert.Len(t, m.visibleEntities(), 2)
	})

	t.Run("filters never mutate the snapshot", func(t *testing.T) {
		m := newTestModel()
		m.searchTerm = "nothing-matches"
		assert.Empty(t, m.visibleEntities())
		assert.Len(t, m.entities, 3)
	})
}

func TestOverlayExclusivity(t *testing.T) {
	m := newTestModel()

	m, _, _ = m.handleKey(key("m"))
	assert.Equal(t, OverlayLayout, m.overlay)

	// Any non-navigation key acts as an outside click and closes it.
	m = m.handleOverlayKey(key("x"))
	assert.Equal(t, OverlayNone, m.overlay)

	// Opening another overlay replaces, never stacks.
	m, _, _ = m.handleKey(key("m"))
	m = m.handleOverlayKey(key("esc"))
	m, _, _ = m.handleKey(key("t"))
	assert.Equal(t, OverlayTypes, m.overlay)
}

func TestLayoutOverlaySelection(t *testing.T) {
	m := newTestModel()
	m, _, _ = m.handleKey(key("m"))
	m = m.handleOverlayKey(key("j")) // hierarchical -> circular
	m = m.handleOverlayKey(key("enter"))

	assert.Equal(t, graph.LayoutCircular, m.layoutMode)
	assert.Equal(t, OverlayNone, m.overlay, "choosing a layout completes the dropdown's action")
	assert.Equal(t, "circular", m.state.Layout, "choice persists to app state")
}

func TestLevelToggleResetsWindow(t *testing.T) {
	m := newTestModel()
	m.tab = TabLogs
	m.window.SetTotal(500)
	m.window.Grow()
	require.Greater(t, m.window.Size(), 50)

	m, _, _ = m.handleKey(key("v"))
	require.Equal(t, OverlayLevels, m.overlay)
	m = m.handleOverlayKey(key("enter")) // toggle DEBUG

	_, hasDebug := m.filter.Levels[domain.LogLevelDebug]
	assert.True(t, hasDebug)
	assert.Equal(t, 50, m.window.Size(), "filter change resets the display window")
	assert.Equal(t, OverlayLevels, m.overlay, "filter overlays stay open for more toggles")
}

func TestFullscreenToggle(t *testing.T) {
	m := newTestModel()

	m, _, _ = m.handleKey(key("f"))
	assert.True(t, m.isFullscreen)

	m, _, _ = m.handleKey(key("esc"))
	assert.False(t, m.isFullscreen, "fullscreen exits on the escape signal")
}

func TestGraphSearchSharedWithFullscreen(t *testing.T) {
	m := newTestModel()
	m.searchTerm = "orders"
	m, _, _ = m.handleKey(key("f"))

	// Fullscreen presents the same filtered node set.
	assert.True(t, m.isFullscreen)
	assert.Len(t, m.visibleEntities(), 2)
}

func TestOverlayCapturesNavigationKeys(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	require.True(t, m.ready)
	m.viewport.SetContent(strings.Repeat("line\n", 200))

	m, _, _ = m.handleKey(key("m"))
	require.Equal(t, OverlayLayout, m.overlay)

	updated, _ = m.Update(key("j"))
	m = updated.(Model)

	assert.Equal(t, 1, m.overlayCursor, "j moves the overlay cursor")
	assert.Equal(t, 0, m.viewport.YOffset, "content beneath the overlay must not scroll")
}

func TestSearchFiltersWhileTyping(t *testing.T) {
	m := newTestModel()
	m, _, _ = m.handleKey(key("/"))
	require.True(t, m.searching)

	m, _, _ = m.handleKey(key("o"))
	m, _, _ = m.handleKey(key("r"))

	assert.Equal(t, "or", m.searchTerm, "each keystroke re-filters immediately")
	assert.Len(t, m.visibleEntities(), 2)

	m, _, _ = m.handleKey(key("enter"))
	assert.False(t, m.searching)
	assert.Equal(t, "or", m.searchTerm, "closing the prompt keeps the term")
}

func TestQuitKey(t *testing.T) {
	m := newTestModel()
	_, _, quit := m.handleKey(key("q"))
	assert.True(t, quit)
}
