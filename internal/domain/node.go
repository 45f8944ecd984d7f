package domain

// NodeKind is the finite set of graph node kinds used for rendering.
// It replaces per-site string dispatch on Entity.Type: every render path
// switches exhaustively over NodeKind and unknown types collapse into
// NodeKindUnknown exactly once, here.
type NodeKind int

const (
	NodeKindService NodeKind = iota
	NodeKindDatabase
	NodeKindCache
	NodeKindQueue
	NodeKindExternal
	NodeKindUnknown
)

// KindOf maps an open entity type tag to a NodeKind.
func KindOf(entityType string) NodeKind {
	switch entityType {
	case "service":
		return NodeKindService
	case "database":
		return NodeKindDatabase
	case "cache":
		return NodeKindCache
	case "queue":
		return NodeKindQueue
	case "external":
		return NodeKindExternal
	default:
		return NodeKindUnknown
	}
}

// String returns the type tag for a NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodeKindService:
		return "service"
	case NodeKindDatabase:
		return "database"
	case NodeKindCache:
		return "cache"
	case NodeKindQueue:
		return "queue"
	case NodeKindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Glyph returns the single-cell marker used when drawing a node of this kind.
func (k NodeKind) Glyph() string {
	switch k {
	case NodeKindService:
		return "●"
	case NodeKindDatabase:
		return "▣"
	case NodeKindCache:
		return "◆"
	case NodeKindQueue:
		return "▤"
	case NodeKindExternal:
		return "◇"
	default:
		return "○"
	}
}
