package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Log level styles
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Fatal lipgloss.Style

	// Component styles
	Timestamp lipgloss.Style
	Service   lipgloss.Style
	Component lipgloss.Style
	Message   lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Selected  lipgloss.Style
	Help      lipgloss.Style
}{
	// Log levels - distinctive colors
	Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),                            // Gray
	Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),                             // Cyan
	Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),                 // Orange bold
	Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),                 // Red bold
	Fatal: lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true).Underline(true), // Magenta bold underline

	// Components
	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // Gray
	Service:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue
	Component: lipgloss.NewStyle().Foreground(lipgloss.Color("142")), // Yellow-green
	Message:   lipgloss.NewStyle(),

	// Summary
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red

	// TUI
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Selected:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("39")),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// LevelStyle returns the appropriate style for a log level
func LevelStyle(level domain.LogLevel) lipgloss.Style {
	switch level {
	case domain.LogLevelDebug:
		return Styles.Debug
	case domain.LogLevelInfo:
		return Styles.Info
	case domain.LogLevelWarn:
		return Styles.Warn
	case domain.LogLevelError:
		return Styles.Error
	case domain.LogLevelFatal:
		return Styles.Fatal
	default:
		return Styles.Info
	}
}

// LevelIndicator returns a short colored marker for a log level
func LevelIndicator(level domain.LogLevel) string {
	switch level {
	case domain.LogLevelDebug:
		return Styles.Debug.Render("DBG")
	case domain.LogLevelInfo:
		return Styles.Info.Render("INF")
	case domain.LogLevelWarn:
		return Styles.Warn.Render("WRN")
	case domain.LogLevelError:
		return Styles.Error.Render("ERR")
	case domain.LogLevelFatal:
		return Styles.Fatal.Render("FTL")
	default:
		return Styles.Info.Render("INF")
	}
}
