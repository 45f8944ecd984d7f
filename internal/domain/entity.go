package domain

import "time"

// EntityMetadata carries upstream bookkeeping for an entity snapshot.
type EntityMetadata struct {
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Version int       `json:"version"`
}

// Entity is a typed node in the knowledge graph. Entities are immutable
// snapshots; the upstream source replaces them wholesale on each fetch cycle.
type Entity struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	// PropertyOrder preserves the upstream key ordering of Properties.
	PropertyOrder []string       `json:"propertyOrder,omitempty"`
	Metadata      EntityMetadata `json:"metadata"`
}

// Label returns the entity's display label: the name when present,
// falling back to the id.
func (e Entity) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Relation is a typed, directed edge between two entities.
type Relation struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}
