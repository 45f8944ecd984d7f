package logfeed

import "github.com/opsdeck/opsdeck/internal/domain"

// Display window defaults: start small, grow as the consumer scrolls.
const (
	DefaultWindowSize      = 50
	DefaultWindowIncrement = 50
)

// Window is the bounded, incrementally-grown subset of the filtered log set
// actually rendered at one time. It never exceeds the filtered total and
// resets whenever a filter changes.
type Window struct {
	initial   int
	increment int
	size      int
	total     int
}

// NewWindow creates a display window with the given initial size and growth
// increment. Non-positive values fall back to the defaults.
func NewWindow(initial, increment int) *Window {
	if initial <= 0 {
		initial = DefaultWindowSize
	}
	if increment <= 0 {
		increment = DefaultWindowIncrement
	}
	return &Window{initial: initial, increment: increment, size: initial}
}

// SetTotal records the current filtered-set size.
func (w *Window) SetTotal(total int) {
	w.total = total
}

// Grow expands the window by one increment in response to a near-end scroll
// signal. The size is clamped to the filtered total.
func (w *Window) Grow() {
	w.size += w.increment
	if w.size > w.total && w.total >= w.initial {
		w.size = w.total
	}
}

// Reset shrinks the window back to its initial size; called on any filter
// change.
func (w *Window) Reset() {
	w.size = w.initial
}

// Size returns the number of entries to render, never more than the
// filtered total.
func (w *Window) Size() int {
	if w.size > w.total {
		return w.total
	}
	return w.size
}

// Slice returns the visible prefix of the filtered entry list and updates
// the window total as a side effect.
func (w *Window) Slice(filtered []domain.LogEntry) []domain.LogEntry {
	w.SetTotal(len(filtered))
	return filtered[:w.Size()]
}
