package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/graph"
	"github.com/opsdeck/opsdeck/internal/output"
)

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	overlayStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(0, 1)
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("39"))
	degradedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	fallbackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("201"))
)

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.isFullscreen {
		// Full-viewport presentation of the same filtered graph: shared
		// layout mode and filters, no chrome.
		return m.renderGraph(m.width, m.height-1) + "\n" + output.Styles.Help.Render("esc:exit fullscreen")
	}

	header := m.renderHeader()
	var body string
	if m.overlay != OverlayNone {
		body = m.renderOverlay()
	} else {
		body = m.viewport.View()
	}
	footer := m.renderFooter()

	return fmt.Sprintf("%s\n%s\n%s", header, body, footer)
}

// syncViewport re-renders the active tab's content into the viewport.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	switch m.tab {
	case TabGraph:
		m.viewport.SetContent(m.renderGraph(m.viewport.Width, m.viewport.Height))
	case TabLogs:
		m.viewport.SetContent(m.renderLogs())
	case TabServices:
		m.viewport.SetContent(m.renderServices())
	}
}

func (m Model) renderHeader() string {
	title := output.Styles.Title.Render("opsdeck")

	names := []string{"Graph", "Logs", "Services"}
	tabs := make([]string, len(names))
	for i, name := range names {
		if Tab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}

	var status []string
	if m.live {
		status = append(status, output.Styles.Success.Render("LIVE"))
	}
	if len(m.degraded) > 0 {
		status = append(status, degradedStyle.Render("degraded: "+strings.Join(m.degraded, ",")))
	}
	if !m.lastRefresh.IsZero() {
		status = append(status, output.Styles.Label.Render("refreshed "+m.lastRefresh.Format("15:04:05")))
	}

	line1 := title + " " + strings.Join(tabs, "")
	if len(status) > 0 {
		line1 += "  " + strings.Join(status, " | ")
	}

	var line2 string
	switch m.tab {
	case TabGraph:
		line2 = fmt.Sprintf("layout: %s | nodes: %d/%d | edges: %d",
			m.layoutMode, len(m.visibleEntities()), len(m.entities), len(m.relations))
		if len(m.selectedTypes) > 0 {
			line2 += fmt.Sprintf(" | types: %d selected", len(m.selectedTypes))
		}
		if m.searchTerm != "" {
			line2 += fmt.Sprintf(" | search: %q", m.searchTerm)
		}
	case TabLogs:
		filtered := m.filter.Apply(m.logs)
		line2 = fmt.Sprintf("showing %d of %d (total %d upstream)",
			min(m.window.Size(), len(filtered)), len(filtered), m.stats.TotalCount)
		if len(m.filter.Levels) > 0 {
			line2 += fmt.Sprintf(" | levels: %d selected", len(m.filter.Levels))
		}
		if len(m.filter.Services) > 0 {
			line2 += fmt.Sprintf(" | services: %d selected", len(m.filter.Services))
		}
		if m.filter.Search != "" {
			line2 += fmt.Sprintf(" | search: %q", m.filter.Search)
		}
	case TabServices:
		active := 0
		for _, info := range m.svcInfo {
			if info.IsActive {
				active++
			}
		}
		line2 = fmt.Sprintf("%d services, %d active", len(m.svcInfo), active)
	}

	return line1 + "\n" + output.Styles.Label.Render(line2)
}

func (m Model) renderFooter() string {
	if m.searching {
		return m.search.View()
	}

	var help string
	switch m.tab {
	case TabGraph:
		help = "q:quit tab:view /:search m:layout t:types f:fullscreen r:refresh j/k:scroll"
	case TabLogs:
		help = "q:quit tab:view /:search v:levels s:services l:live r:refresh j/k:scroll"
	default:
		help = "q:quit tab:view r:refresh j/k:scroll"
	}
	return output.Styles.Help.Width(m.width).Render(help)
}

// renderOverlay draws the open dropdown menu.
func (m Model) renderOverlay() string {
	choices := m.overlayChoices()

	var title string
	selected := func(string) bool { return false }
	switch m.overlay {
	case OverlayLayout:
		title = "Layout mode"
		selected = func(c string) bool { return c == string(m.layoutMode) }
	case OverlayTypes:
		title = "Entity types"
		selected = func(c string) bool { _, ok := m.selectedTypes[c]; return ok }
	case OverlayLevels:
		title = "Log levels"
		selected = func(c string) bool { _, ok := m.filter.Levels[domain.LogLevel(c)]; return ok }
	case OverlayServices:
		title = "Services"
		selected = func(c string) bool { _, ok := m.filter.Services[c]; return ok }
	}

	var b strings.Builder
	b.WriteString(output.Styles.Value.Render(title))
	b.WriteByte('\n')
	if len(choices) == 0 {
		b.WriteString(output.Styles.Label.Render("(nothing to choose)"))
	}
	for i, choice := range choices {
		mark := "[ ]"
		if selected(choice) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, choice)
		if i == m.overlayCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(output.Styles.Help.Render("enter:toggle esc:close"))

	return overlayStyle.Render(b.String())
}

// renderGraph projects the 800x600 layout canvas onto a w x h character
// grid and draws each visible node's glyph and label.
func (m Model) renderGraph(w, h int) string {
	visible := m.visibleEntities()
	if len(visible) == 0 {
		return output.Styles.Label.Render("no entities match the current filters")
	}
	if w < 10 || h < 4 {
		return ""
	}

	positions := m.engine.Layout(visible, m.relations, m.layoutMode)

	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = make([]rune, w)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	type labelled struct {
		row, col int
		text     string
		fallback bool
	}
	var labels []labelled

	for _, ent := range visible {
		pos, ok := positions[ent.ID]
		if !ok {
			continue
		}
		col := int(pos.X / graph.CanvasWidth * float64(w-1))
		row := int(pos.Y / graph.CanvasHeight * float64(h-1))
		col = clamp(col, 0, w-1)
		row = clamp(row, 0, h-1)

		kind := domain.KindOf(ent.Type)
		grid[row][col] = []rune(kind.Glyph())[0]
		labels = append(labels, labelled{row: row, col: col, text: ent.Label(), fallback: pos.Fallback})
	}

	// Attach labels to the right of each glyph where they fit.
	lines := make([]string, h)
	for i, rowRunes := range grid {
		lines[i] = string(rowRunes)
	}
	for _, lb := range labels {
		text := " " + lb.text
		end := lb.col + 1 + len(text)
		if end >= w {
			continue
		}
		line := []rune(lines[lb.row])
		copy(line[lb.col+1:], []rune(text))
		rendered := string(line)
		if lb.fallback {
			// Unplaceable nodes are intentionally random; color them so
			// the visual jitter reads as a signal, not a bug.
			rendered = fallbackStyle.Render(rendered)
		}
		lines[lb.row] = rendered
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderLogs() string {
	visible := m.visibleLogs()
	if len(visible) == 0 {
		return output.Styles.Label.Render("no log entries match the current filters")
	}

	var b strings.Builder
	for i, entry := range visible {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.formatLogLine(entry))
	}
	return b.String()
}

func (m Model) formatLogLine(entry domain.LogEntry) string {
	timeStr := output.Styles.Timestamp.Render(entry.Timestamp.Format("15:04:05.000"))
	level := output.LevelIndicator(entry.Level)
	service := output.Styles.Service.Render("[" + entry.Service + "]")

	msg := entry.Message
	maxMsgLen := m.width - 40
	if maxMsgLen < 20 {
		maxMsgLen = 20
	}
	if len(msg) > maxMsgLen {
		msg = msg[:maxMsgLen-3] + "..."
	}

	line := timeStr + " " + level + " " + service + " "
	if entry.Component != "" {
		line += output.Styles.Component.Render(entry.Component) + ": "
	}
	line += output.LevelStyle(entry.Level).Render(msg)
	return line
}

func (m Model) renderServices() string {
	if len(m.svcInfo) == 0 {
		return output.Styles.Label.Render("no services observed yet")
	}

	healthFor := make(map[string]string, len(m.health))
	for _, h := range m.health {
		healthFor[h.Service] = h.Status
	}

	var b strings.Builder
	for i, info := range m.svcInfo {
		if i > 0 {
			b.WriteByte('\n')
		}
		marker := output.Styles.Label.Render("○")
		if info.IsActive {
			marker = output.Styles.Success.Render("●")
		}
		line := fmt.Sprintf("%s %-24s %-12s %5d logs", marker, info.DisplayName, info.Category, info.LogCount)
		if status, ok := healthFor[info.ServiceName]; ok {
			line += "  " + status
		}
		if !info.LastActivity.IsZero() {
			line += "  " + output.Styles.Timestamp.Render(info.LastActivity.Format("15:04:05"))
		}
		b.WriteString(line)
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
