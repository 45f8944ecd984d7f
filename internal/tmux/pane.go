package tmux

import (
	"fmt"
	"strings"
	"time"
)

// paneTarget addresses the first pane of the managed session.
func (m *Manager) paneTarget() string {
	return fmt.Sprintf("%s:0.0", m.name)
}

// WriteLine sends one line of text into the session's pane using echo.
func (m *Manager) WriteLine(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pane == nil {
		return ErrNoPaneAvailable
	}

	escaped := escapeShellSingle(line)
	_, err := m.tmux.Command("send-keys", "-t", m.paneTarget(), fmt.Sprintf("echo '%s'", escaped), "Enter")
	return err
}

// WriteLines writes multiple lines in order.
func (m *Manager) WriteLines(lines []string) error {
	for _, line := range lines {
		if err := m.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// Clear wipes the pane content and scrollback.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pane == nil {
		return ErrNoPaneAvailable
	}

	target := m.paneTarget()
	if _, err := m.tmux.Command("send-keys", "-t", target, "-R"); err != nil {
		return fmt.Errorf("failed to reset terminal: %w", err)
	}
	if _, err := m.tmux.Command("clear-history", "-t", target); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := m.tmux.Command("send-keys", "-t", target, "clear", "Enter"); err != nil {
		return fmt.Errorf("failed to clear screen: %w", err)
	}
	return nil
}

// ClearWithBanner clears the pane and prints a header so whoever attaches
// knows what the session carries.
func (m *Manager) ClearWithBanner(upstream string) error {
	if err := m.Clear(); err != nil {
		return err
	}

	banner := []string{
		"===========================================================",
		"  opsdeck live log feed",
		fmt.Sprintf("  Upstream: %s | Started: %s", upstream, time.Now().Format("2006-01-02 15:04:05")),
		"===========================================================",
	}
	return m.WriteLines(banner)
}

// escapeShellSingle escapes a string for inclusion in single quotes.
func escapeShellSingle(s string) string {
	s = strings.ReplaceAll(s, "'", "'\"'\"'")
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return s
}

// Writer adapts the manager to io.Writer, buffering until lines complete.
type Writer struct {
	manager *Manager
	buffer  strings.Builder
}

// NewWriter creates a writer that streams lines into the session's pane.
func NewWriter(manager *Manager) *Writer {
	return &Writer{manager: manager}
}

// Write implements io.Writer. Partial lines stay buffered until a newline
// arrives.
func (w *Writer) Write(p []byte) (n int, err error) {
	w.buffer.Write(p)

	content := w.buffer.String()
	lines := strings.Split(content, "\n")

	if !strings.HasSuffix(content, "\n") && len(lines) > 0 {
		w.buffer.Reset()
		w.buffer.WriteString(lines[len(lines)-1])
		lines = lines[:len(lines)-1]
	} else {
		w.buffer.Reset()
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		if err := w.manager.WriteLine(line); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

// Flush writes any buffered partial line.
func (w *Writer) Flush() error {
	if w.buffer.Len() == 0 {
		return nil
	}
	line := w.buffer.String()
	w.buffer.Reset()
	return w.manager.WriteLine(line)
}
