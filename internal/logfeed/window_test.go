package logfeed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsdeck/opsdeck/internal/domain"
)

func TestWindow(t *testing.T) {
	t.Run("starts at the initial size", func(t *testing.T) {
		w := NewWindow(10, 5)
		w.SetTotal(100)
		assert.Equal(t, 10, w.Size())
	})

	t.Run("grows by the increment", func(t *testing.T) {
		w := NewWindow(10, 5)
		w.SetTotal(100)
		w.Grow()
		assert.Equal(t, 15, w.Size())
		w.Grow()
		assert.Equal(t, 20, w.Size())
	})

	t.Run("never exceeds the filtered total", func(t *testing.T) {
		w := NewWindow(10, 5)
		w.SetTotal(12)
		w.Grow()
		assert.Equal(t, 12, w.Size())
		w.Grow()
		assert.Equal(t, 12, w.Size())
	})

	t.Run("size is non-decreasing while scrolling", func(t *testing.T) {
		w := NewWindow(10, 5)
		w.SetTotal(1000)
		prev := w.Size()
		for i := 0; i < 20; i++ {
			w.Grow()
			assert.GreaterOrEqual(t, w.Size(), prev)
			prev = w.Size()
		}
	})

	t.Run("reset returns to the initial size", func(t *testing.T) {
		w := NewWindow(10, 5)
		w.SetTotal(100)
		w.Grow()
		w.Grow()
		w.Reset()
		assert.Equal(t, 10, w.Size())
	})

	t.Run("total smaller than initial bounds the size", func(t *testing.T) {
		w := NewWindow(50, 50)
		w.SetTotal(3)
		assert.Equal(t, 3, w.Size())
	})

	t.Run("zero values fall back to defaults", func(t *testing.T) {
		w := NewWindow(0, 0)
		w.SetTotal(1000)
		assert.Equal(t, DefaultWindowSize, w.Size())
		w.Grow()
		assert.Equal(t, DefaultWindowSize+DefaultWindowIncrement, w.Size())
	})
}

func TestWindowSlice(t *testing.T) {
	entries := make([]domain.LogEntry, 8)
	for i := range entries {
		entries[i] = domain.LogEntry{ID: fmt.Sprintf("e%d", i)}
	}

	w := NewWindow(5, 5)
	visible := w.Slice(entries)
	assert.Len(t, visible, 5)
	assert.Equal(t, "e0", visible[0].ID)

	w.Grow()
	visible = w.Slice(entries)
	assert.Len(t, visible, 8)
}
