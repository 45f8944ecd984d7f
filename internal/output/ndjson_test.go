package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/graph"
)

func TestNDJSONWriter_Write(t *testing.T) {
	t.Run("writes log entry with type field and schemaVersion", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		entry := &domain.LogEntry{
			ID:        "log-1",
			Timestamp: time.Date(2026, 3, 15, 10, 30, 45, 123000000, time.UTC),
			Level:     domain.LogLevelError,
			Service:   "api-gateway",
			Component: "Router",
			Message:   "connection failed",
		}

		err := w.Write(entry)
		require.NoError(t, err)

		var out LogOutput
		err = json.Unmarshal(buf.Bytes(), &out)
		require.NoError(t, err)

		assert.Equal(t, "log", out.Type)
		assert.Equal(t, SchemaVersion, out.SchemaVersion)
		assert.Equal(t, "log-1", out.ID)
		assert.Equal(t, "ERROR", out.Level)
		assert.Equal(t, "api-gateway", out.Service)
		assert.Equal(t, "Router", out.Component)
		assert.Equal(t, "connection failed", out.Message)
	})

	t.Run("omits empty component and metadata", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		entry := &domain.LogEntry{
			ID:        "log-2",
			Timestamp: time.Now(),
			Level:     domain.LogLevelInfo,
			Service:   "postgres",
			Message:   "ok",
		}

		require.NoError(t, w.Write(entry))

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
		assert.NotContains(t, raw, "component")
		assert.NotContains(t, raw, "metadata")
		assert.NotContains(t, raw, "stackTrace")
	})

	t.Run("does not escape HTML in messages", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		entry := &domain.LogEntry{
			ID:        "log-3",
			Timestamp: time.Now(),
			Level:     domain.LogLevelWarn,
			Service:   "web",
			Message:   `<script> & "quotes"`,
		}

		require.NoError(t, w.Write(entry))
		assert.Contains(t, buf.String(), `<script> & \"quotes\"`)
	})
}

func TestNDJSONWriter_WriteNode(t *testing.T) {
	t.Run("resolves kind and label, flags fallback placement", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		ent := domain.Entity{ID: "db-1", Type: "database", Name: "Postgres"}
		pos := graph.Position{Point: graph.Point{X: 400, Y: 120}, Fallback: true}

		require.NoError(t, w.WriteNode(ent, pos))

		var out NodeOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "node", out.Type)
		assert.Equal(t, "db-1", out.ID)
		assert.Equal(t, "database", out.Kind)
		assert.Equal(t, "Postgres", out.Name)
		assert.Equal(t, 400.0, out.X)
		assert.Equal(t, 120.0, out.Y)
		assert.True(t, out.Fallback)
	})

	t.Run("falls back to id when name is empty", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		ent := domain.Entity{ID: "svc-9", Type: "service"}
		require.NoError(t, w.WriteNode(ent, graph.Position{}))

		var out NodeOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "svc-9", out.Name)
	})
}

func TestNDJSONWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	require.NoError(t, w.WriteError("UPSTREAM_UNREACHABLE", "connection refused", "check the backend"))

	var out ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "error", out.Type)
	assert.Equal(t, "UPSTREAM_UNREACHABLE", out.Code)
	assert.Equal(t, "connection refused", out.Message)
	assert.Equal(t, "check the backend", out.Hint)
}

func TestWriteServiceTable(t *testing.T) {
	var buf bytes.Buffer
	infos := []domain.ServiceInfo{
		{
			ServiceName:  "vite-dev-server",
			DisplayName:  "Vite Dev Server",
			Category:     domain.CategoryDevServer,
			LogCount:     12,
			IsActive:     true,
			LastActivity: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, WriteServiceTable(&buf, infos))
	out := buf.String()
	assert.Contains(t, out, "Vite Dev Server")
	assert.Contains(t, out, "dev-server")
	assert.Contains(t, out, "12")
}
