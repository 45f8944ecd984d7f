package output

import (
	"fmt"
	"io"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// TextWriter writes styled, human-readable log lines
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Write writes a log entry as one styled line
func (t *TextWriter) Write(entry *domain.LogEntry) error {
	timeStr := Styles.Timestamp.Render(entry.Timestamp.Format("15:04:05.000"))
	level := LevelIndicator(entry.Level)
	service := Styles.Service.Render("[" + entry.Service + "]")

	line := timeStr + " " + level + " " + service + " "
	if entry.Component != "" {
		line += Styles.Component.Render(entry.Component) + ": "
	}
	line += LevelStyle(entry.Level).Render(entry.Message)

	_, err := fmt.Fprintln(t.w, line)
	return err
}
