package tmux

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// Manager owns one tmux session used as a live-feed sink. A user attaches to
// the session in another terminal while opsdeck keeps writing into its first
// pane.
type Manager struct {
	tmux    *gotmux.Tmux
	session *gotmux.Session
	pane    *gotmux.Pane
	name    string
	mu      sync.Mutex
}

var (
	ErrTmuxNotInstalled = fmt.Errorf("tmux is not installed")
	ErrNoPaneAvailable  = fmt.Errorf("no tmux pane available")
)

// Available checks if tmux is installed
func Available() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

// NewManager creates a manager for the named session.
func NewManager(sessionName string) (*Manager, error) {
	if !Available() {
		return nil, ErrTmuxNotInstalled
	}

	t, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tmux: %w", err)
	}
	return &Manager{tmux: t, name: sessionName}, nil
}

// EnsureSession reuses an existing session of the same name or creates a
// new detached one, then binds the first pane.
func (m *Manager) EnsureSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.tmux.ListSessions()
	if err == nil {
		for _, s := range sessions {
			if s.Name == m.name {
				m.session = s
				return m.bindFirstPane()
			}
		}
	}

	session, err := m.tmux.NewSession(&gotmux.SessionOptions{Name: m.name})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	m.session = session
	return m.bindFirstPane()
}

// bindFirstPane resolves the session's first window and pane. Caller holds
// the lock.
func (m *Manager) bindFirstPane() error {
	windows, err := m.session.ListWindows()
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}
	if len(windows) == 0 {
		return ErrNoPaneAvailable
	}

	panes, err := windows[0].ListPanes()
	if err != nil {
		return fmt.Errorf("failed to list panes: %w", err)
	}
	if len(panes) == 0 {
		return ErrNoPaneAvailable
	}

	m.pane = panes[0]
	return nil
}

// SessionName returns the session name.
func (m *Manager) SessionName() string {
	return m.name
}

// AttachCommand returns the shell command a user runs to attach.
func (m *Manager) AttachCommand() string {
	return fmt.Sprintf("tmux attach -t %s", m.name)
}

// Release drops session references; the tmux session itself persists so an
// attached terminal keeps its scrollback.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.pane = nil
}

// KillSession explicitly destroys the session.
func (m *Manager) KillSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return m.session.Kill()
	}
	return nil
}

// SessionNameFor derives a tmux-safe session name from an upstream URL.
func SessionNameFor(upstream string) string {
	name := strings.ToLower(upstream)
	name = strings.TrimPrefix(name, "http://")
	name = strings.TrimPrefix(name, "https://")

	re := regexp.MustCompile(`[^a-z0-9]+`)
	name = re.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	return fmt.Sprintf("opsdeck-%s", name)
}
