package logfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/domain"
)

func sampleEntries() []domain.LogEntry {
	return []domain.LogEntry{
		{ID: "1", Level: domain.LogLevelError, Service: "API", Message: "timeout"},
		{ID: "2", Level: domain.LogLevelInfo, Service: "DB", Message: "ok"},
		{ID: "3", Level: domain.LogLevelWarn, Service: "API", Message: "slow query"},
	}
}

func TestFilterState(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		f := NewFilterState()
		assert.Len(t, f.Apply(sampleEntries()), 3)
	})

	t.Run("level filter selects exactly the matching entries", func(t *testing.T) {
		f := NewFilterState()
		f.ToggleLevel(domain.LogLevelError)
		out := f.Apply(sampleEntries())
		require.Len(t, out, 1)
		assert.Equal(t, "timeout", out[0].Message)
	})

	t.Run("service membership is disjunctive", func(t *testing.T) {
		f := NewFilterState()
		f.ToggleService("API")
		f.ToggleService("DB")
		assert.Len(t, f.Apply(sampleEntries()), 3)
	})

	t.Run("predicates are conjunctive", func(t *testing.T) {
		f := NewFilterState()
		f.ToggleService("API")
		f.ToggleLevel(domain.LogLevelWarn)
		out := f.Apply(sampleEntries())
		require.Len(t, out, 1)
		assert.Equal(t, "slow query", out[0].Message)
	})

	t.Run("search is case-insensitive substring on message", func(t *testing.T) {
		f := NewFilterState()
		f.Search = "TIME"
		out := f.Apply(sampleEntries())
		require.Len(t, out, 1)
		assert.Equal(t, "timeout", out[0].Message)
	})

	t.Run("toggle removes on second call", func(t *testing.T) {
		f := NewFilterState()
		f.ToggleLevel(domain.LogLevelError)
		f.ToggleLevel(domain.LogLevelError)
		assert.Len(t, f.Apply(sampleEntries()), 3)
	})
}

// Narrowing a filter can only shrink or preserve the result, never grow it.
func TestFilterMonotonicity(t *testing.T) {
	entries := sampleEntries()

	f := NewFilterState()
	base := len(f.Apply(entries))

	f.ToggleLevel(domain.LogLevelError)
	withLevel := len(f.Apply(entries))
	assert.LessOrEqual(t, withLevel, base)

	f.ToggleService("DB")
	withService := len(f.Apply(entries))
	assert.LessOrEqual(t, withService, withLevel)
}
