package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/graph"
)

// NDJSONWriter writes dashboard records as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep log messages unescaped and avoid extra allocations
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// LogOutput is the NDJSON envelope for a canonical log entry
type LogOutput struct {
	Type          string         `json:"type"` // Always "log"
	SchemaVersion int            `json:"schemaVersion"`
	ID            string         `json:"id"`
	Timestamp     string         `json:"timestamp"`
	Level         string         `json:"level"`
	Service       string         `json:"service"`
	Component     string         `json:"component,omitempty"`
	Message       string         `json:"message"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	StackTrace    string         `json:"stackTrace,omitempty"`
}

// NodeOutput is the NDJSON envelope for a positioned graph node
type NodeOutput struct {
	Type          string  `json:"type"` // Always "node"
	SchemaVersion int     `json:"schemaVersion"`
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	Name          string  `json:"name"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Fallback      bool    `json:"fallback,omitempty"`
}

// EdgeOutput is the NDJSON envelope for a renderable relation
type EdgeOutput struct {
	Type          string `json:"type"` // Always "edge"
	SchemaVersion int    `json:"schemaVersion"`
	ID            string `json:"id"`
	Source        string `json:"source"`
	Target        string `json:"target"`
	EdgeType      string `json:"edgeType"`
}

// ServiceOutput is the NDJSON envelope for a derived service summary
type ServiceOutput struct {
	Type          string `json:"type"` // Always "service"
	SchemaVersion int    `json:"schemaVersion"`
	ServiceName   string `json:"serviceName"`
	DisplayName   string `json:"displayName"`
	Category      string `json:"category"`
	LogCount      int    `json:"logCount"`
	IsActive      bool   `json:"isActive"`
	LastActivity  string `json:"lastActivity,omitempty"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	Upstream      string `json:"upstream,omitempty"`
	Mode          string `json:"mode,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// ErrorOutput represents a structured error with a machine-readable code
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// Write writes a log entry
func (w *NDJSONWriter) Write(entry *domain.LogEntry) error {
	return w.encoder.Encode(LogOutput{
		Type:          "log",
		SchemaVersion: SchemaVersion,
		ID:            entry.ID,
		Timestamp:     entry.Timestamp.UTC().Format(time.RFC3339Nano),
		Level:         string(entry.Level),
		Service:       entry.Service,
		Component:     entry.Component,
		Message:       entry.Message,
		Metadata:      entry.Metadata,
		StackTrace:    entry.StackTrace,
	})
}

// WriteNode writes a positioned graph node
func (w *NDJSONWriter) WriteNode(ent domain.Entity, pos graph.Position) error {
	return w.encoder.Encode(NodeOutput{
		Type:          "node",
		SchemaVersion: SchemaVersion,
		ID:            ent.ID,
		Kind:          domain.KindOf(ent.Type).String(),
		Name:          ent.Label(),
		X:             pos.X,
		Y:             pos.Y,
		Fallback:      pos.Fallback,
	})
}

// WriteEdge writes a renderable relation
func (w *NDJSONWriter) WriteEdge(rel domain.Relation) error {
	return w.encoder.Encode(EdgeOutput{
		Type:          "edge",
		SchemaVersion: SchemaVersion,
		ID:            rel.ID,
		Source:        rel.Source,
		Target:        rel.Target,
		EdgeType:      rel.Type,
	})
}

// WriteService writes a derived service summary
func (w *NDJSONWriter) WriteService(info domain.ServiceInfo) error {
	out := ServiceOutput{
		Type:          "service",
		SchemaVersion: SchemaVersion,
		ServiceName:   info.ServiceName,
		DisplayName:   info.DisplayName,
		Category:      string(info.Category),
		LogCount:      info.LogCount,
		IsActive:      info.IsActive,
	}
	if !info.LastActivity.IsZero() {
		out.LastActivity = info.LastActivity.UTC().Format(time.RFC3339)
	}
	return w.encoder.Encode(out)
}

// WriteInfo writes an informational message
func (w *NDJSONWriter) WriteInfo(message, upstream, mode string) error {
	return w.encoder.Encode(InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
		Upstream:      upstream,
		Mode:          mode,
	})
}

// WriteWarning writes a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteError writes a structured error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.encoder.Encode(out)
}
