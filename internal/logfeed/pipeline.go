package logfeed

import (
	"strings"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// FilterState holds the three log predicates. All are conjunctive;
// membership within a set is disjunctive and an empty set means "all".
type FilterState struct {
	Levels   map[domain.LogLevel]struct{}
	Services map[string]struct{}
	Search   string
}

// NewFilterState returns an empty (match-everything) filter state.
func NewFilterState() FilterState {
	return FilterState{
		Levels:   make(map[domain.LogLevel]struct{}),
		Services: make(map[string]struct{}),
	}
}

// ToggleLevel adds or removes a level from the level set.
func (f *FilterState) ToggleLevel(level domain.LogLevel) {
	if _, ok := f.Levels[level]; ok {
		delete(f.Levels, level)
		return
	}
	f.Levels[level] = struct{}{}
}

// ToggleService adds or removes a service from the service set.
func (f *FilterState) ToggleService(service string) {
	if _, ok := f.Services[service]; ok {
		delete(f.Services, service)
		return
	}
	f.Services[service] = struct{}{}
}

// Match reports whether a single entry passes all three predicates.
func (f FilterState) Match(entry domain.LogEntry) bool {
	if len(f.Levels) > 0 {
		if _, ok := f.Levels[entry.Level]; !ok {
			return false
		}
	}
	if len(f.Services) > 0 {
		if _, ok := f.Services[entry.Service]; !ok {
			return false
		}
	}
	if f.Search != "" {
		if !strings.Contains(strings.ToLower(entry.Message), strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

// Apply returns the subset of entries passing the filter, preserving input
// order.
func (f FilterState) Apply(entries []domain.LogEntry) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if f.Match(entry) {
			out = append(out, entry)
		}
	}
	return out
}
