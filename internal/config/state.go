package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppState is the persisted UI state: an explicit object with a defined
// load-at-start / save-at-change lifecycle rather than ambient storage.
// Everything in it is a presentation preference; losing the file loses
// nothing but preferences.
type AppState struct {
	Theme  string `json:"theme"`
	Layout string `json:"layout"`
	Live   bool   `json:"live"`

	path string
}

// DefaultState returns the state used when no state file exists yet.
func DefaultState() *AppState {
	return &AppState{Theme: "dark", Layout: "force"}
}

// StatePath returns the state file location under the user config dir.
func StatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "opsdeck", "state.json"), nil
}

// LoadState reads the persisted UI state from path, falling back to
// defaults when the file is absent or unreadable. A corrupt state file is
// not an error; preferences just reset.
func LoadState(path string) *AppState {
	state := DefaultState()
	state.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(data, state); err != nil {
		return DefaultState().withPath(path)
	}
	return state
}

// Save writes the state back to its file, creating parent directories as
// needed. Called on every state change.
func (s *AppState) Save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *AppState) withPath(path string) *AppState {
	s.path = path
	return s
}
