package normalize

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// Self-traffic markers: the dashboard's own polling of the log and health
// endpoints shows up in the upstream stream and would otherwise feed back
// into the view it refreshes.
const selfTrafficComponent = "RequestHandler"

var selfTrafficPaths = []string{"/api/logs", "/api/health"}

// Normalizer converts raw upstream log records into canonical LogEntry
// values. A Normalizer is stateless and safe for concurrent use.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Batch normalizes a whole raw batch: self-traffic records are dropped,
// missing ids are synthesized uniquely, and the result is sorted most
// recent first.
func (n *Normalizer) Batch(raw []domain.RawLogRecord) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, rec := range raw {
		entry, ok := n.One(rec)
		if !ok {
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			entry.ID = uuid.NewString()
		}
		seen[entry.ID] = struct{}{}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// One normalizes a single record. The second return value is false when the
// record is self-traffic and must not enter the canonical set.
func (n *Normalizer) One(raw domain.RawLogRecord) (domain.LogEntry, bool) {
	entry := domain.LogEntry{
		ID:         raw.ID,
		Timestamp:  coerceTimestamp(raw.Timestamp),
		Level:      domain.ParseLogLevel(strings.ToUpper(raw.Level)),
		Service:    raw.Service,
		Component:  raw.Component,
		Message:    raw.Message,
		Metadata:   coerceMetadata(raw.Metadata),
		StackTrace: raw.StackTrace,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if isSelfTraffic(raw, entry) {
		return domain.LogEntry{}, false
	}
	return entry, true
}

// isSelfTraffic reports whether a record represents the dashboard's own
// call to a log-retrieval or health endpoint. The path comes from metadata
// when present, falling back to the raw path field and then the message.
func isSelfTraffic(raw domain.RawLogRecord, entry domain.LogEntry) bool {
	if raw.Component != selfTrafficComponent {
		return false
	}

	path := raw.Path
	if path == "" && entry.Metadata != nil {
		if p, ok := entry.Metadata["path"].(string); ok {
			path = p
		}
	}
	if path == "" {
		path = entry.Message
	}

	for _, p := range selfTrafficPaths {
		if path == p || strings.HasPrefix(path, p+"/") || strings.Contains(path, " "+p) {
			return true
		}
	}
	return false
}

// coerceTimestamp converts whatever the upstream sent into an absolute
// instant. Unparseable values fall back to now so the entry still sorts.
func coerceTimestamp(v any) time.Time {
	switch ts := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, ts); err == nil {
				return t
			}
		}
	case float64:
		// JSON numbers arrive as float64. Heuristic: values past the year
		// 33658 in seconds are unix millis.
		if ts > 1e12 {
			return time.UnixMilli(int64(ts))
		}
		return time.Unix(int64(ts), 0)
	case int64:
		if ts > 1e12 {
			return time.UnixMilli(ts)
		}
		return time.Unix(ts, 0)
	case time.Time:
		return ts
	}
	return time.Now()
}

// coerceMetadata parses serialized-JSON string metadata into structured
// form. Anything unparseable is kept as-is under the raw key.
func coerceMetadata(v any) map[string]any {
	switch md := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return md
	case string:
		if gjson.Valid(md) && gjson.Parse(md).IsObject() {
			var parsed map[string]any
			if err := json.Unmarshal([]byte(md), &parsed); err == nil {
				return parsed
			}
		}
		return map[string]any{"raw": md}
	default:
		return map[string]any{"raw": md}
	}
}
