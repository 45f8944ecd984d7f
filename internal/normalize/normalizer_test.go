package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/domain"
)

func TestOne(t *testing.T) {
	n := New()

	t.Run("lowercase level is canonicalized", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{Service: "api", Message: "x", Level: "warn"})
		require.True(t, ok)
		assert.Equal(t, domain.LogLevelWarn, entry.Level)
	})

	t.Run("missing level defaults to INFO", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{Service: "api", Message: "x"})
		require.True(t, ok)
		assert.Equal(t, domain.LogLevelInfo, entry.Level)
	})

	t.Run("unrecognized level defaults to INFO", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{Service: "api", Message: "x", Level: "verbose"})
		require.True(t, ok)
		assert.Equal(t, domain.LogLevelInfo, entry.Level)
	})

	t.Run("missing id is synthesized", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{Service: "api", Message: "x"})
		require.True(t, ok)
		assert.NotEmpty(t, entry.ID)
	})

	t.Run("id passes through", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{ID: "log-1", Service: "api", Message: "x"})
		require.True(t, ok)
		assert.Equal(t, "log-1", entry.ID)
	})
}

func TestTimestampCoercion(t *testing.T) {
	n := New()
	want := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	cases := []struct {
		name string
		in   any
	}{
		{"rfc3339", "2026-03-14T09:26:53Z"},
		{"unix seconds", float64(want.Unix())},
		{"unix millis", float64(want.UnixMilli())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := n.One(domain.RawLogRecord{Service: "api", Message: "x", Timestamp: tc.in})
			require.True(t, ok)
			assert.True(t, entry.Timestamp.Equal(want), "got %v", entry.Timestamp)
		})
	}

	t.Run("garbage falls back to now", func(t *testing.T) {
		before := time.Now()
		entry, ok := n.One(domain.RawLogRecord{Service: "api", Message: "x", Timestamp: "yesterday-ish"})
		require.True(t, ok)
		assert.False(t, entry.Timestamp.Before(before))
	})
}

func TestMetadataCoercion(t *testing.T) {
	n := New()

	t.Run("serialized JSON string is parsed", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{
			Service:  "api",
			Message:  "x",
			Metadata: `{"requestId":"abc","durationMs":12}`,
		})
		require.True(t, ok)
		assert.Equal(t, "abc", entry.Metadata["requestId"])
		assert.Equal(t, float64(12), entry.Metadata["durationMs"])
	})

	t.Run("structured metadata passes through", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{
			Service:  "api",
			Message:  "x",
			Metadata: map[string]any{"k": "v"},
		})
		require.True(t, ok)
		assert.Equal(t, "v", entry.Metadata["k"])
	})

	t.Run("parse failure keeps the raw value", func(t *testing.T) {
		entry, ok := n.One(domain.RawLogRecord{Service: "api", Message: "x", Metadata: "{not json"})
		require.True(t, ok)
		assert.Equal(t, "{not json", entry.Metadata["raw"])
	})
}

func TestSelfTrafficExclusion(t *testing.T) {
	n := New()

	t.Run("monitoring path with RequestHandler component is dropped", func(t *testing.T) {
		_, ok := n.One(domain.RawLogRecord{
			Service:   "api",
			Component: "RequestHandler",
			Message:   "GET /api/logs",
			Path:      "/api/logs",
		})
		assert.False(t, ok)
	})

	t.Run("prefixed path is dropped", func(t *testing.T) {
		_, ok := n.One(domain.RawLogRecord{
			Service:   "api",
			Component: "RequestHandler",
			Message:   "GET /api/logs/stats",
			Path:      "/api/logs/stats",
		})
		assert.False(t, ok)
	})

	t.Run("path from metadata is honored", func(t *testing.T) {
		_, ok := n.One(domain.RawLogRecord{
			Service:   "api",
			Component: "RequestHandler",
			Message:   "served request",
			Metadata:  map[string]any{"path": "/api/health"},
		})
		assert.False(t, ok)
	})

	t.Run("other components survive on the same path", func(t *testing.T) {
		_, ok := n.One(domain.RawLogRecord{
			Service:   "api",
			Component: "AuthMiddleware",
			Message:   "GET /api/logs",
			Path:      "/api/logs",
		})
		assert.True(t, ok)
	})

	t.Run("RequestHandler survives on unrelated paths", func(t *testing.T) {
		_, ok := n.One(domain.RawLogRecord{
			Service:   "api",
			Component: "RequestHandler",
			Message:   "GET /api/orders",
			Path:      "/api/orders",
		})
		assert.True(t, ok)
	})
}

func TestBatch(t *testing.T) {
	n := New()

	t.Run("sorted most recent first", func(t *testing.T) {
		entries := n.Batch([]domain.RawLogRecord{
			{ID: "old", Service: "api", Message: "a", Timestamp: "2026-03-14T09:00:00Z"},
			{ID: "new", Service: "api", Message: "b", Timestamp: "2026-03-14T10:00:00Z"},
			{ID: "mid", Service: "api", Message: "c", Timestamp: "2026-03-14T09:30:00Z"},
		})
		require.Len(t, entries, 3)
		assert.Equal(t, "new", entries[0].ID)
		assert.Equal(t, "mid", entries[1].ID)
		assert.Equal(t, "old", entries[2].ID)
	})

	t.Run("duplicate ids are made unique within the batch", func(t *testing.T) {
		entries := n.Batch([]domain.RawLogRecord{
			{ID: "dup", Service: "api", Message: "a", Timestamp: "2026-03-14T09:00:00Z"},
			{ID: "dup", Service: "api", Message: "b", Timestamp: "2026-03-14T09:00:01Z"},
		})
		require.Len(t, entries, 2)
		assert.NotEqual(t, entries[0].ID, entries[1].ID)
	})

	t.Run("self-traffic never reaches the canonical set", func(t *testing.T) {
		entries := n.Batch([]domain.RawLogRecord{
			{Service: "api", Message: "real work", Timestamp: "2026-03-14T09:00:00Z"},
			{Service: "api", Component: "RequestHandler", Path: "/api/logs", Message: "GET /api/logs"},
		})
		require.Len(t, entries, 1)
		assert.Equal(t, "real work", entries[0].Message)
	})
}
