package graph

import (
	"math"
	"math/rand"
	"sort"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// LayoutMode selects one of the four positioning algorithms.
type LayoutMode string

const (
	LayoutHierarchical LayoutMode = "hierarchical"
	LayoutCircular     LayoutMode = "circular"
	LayoutGrid         LayoutMode = "grid"
	LayoutForce        LayoutMode = "force"
)

// LayoutModes lists all modes in display order.
func LayoutModes() []LayoutMode {
	return []LayoutMode{LayoutHierarchical, LayoutCircular, LayoutGrid, LayoutForce}
}

// ParseLayoutMode converts a string to a LayoutMode, defaulting to force.
func ParseLayoutMode(s string) LayoutMode {
	switch s {
	case "hierarchical":
		return LayoutHierarchical
	case "circular":
		return LayoutCircular
	case "grid":
		return LayoutGrid
	default:
		return LayoutForce
	}
}

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position is a placed graph node.
type Position struct {
	Point
	// Fallback marks entities the mode's rule could not place; their
	// coordinates are random within the canvas and intentionally
	// nondeterministic so unclassified nodes stand out.
	Fallback bool `json:"fallback,omitempty"`
}

// Canvas and placement constants shared by all modes.
const (
	CanvasWidth  = 800.0
	CanvasHeight = 600.0

	circleCenterX = 400.0
	circleCenterY = 300.0
	circleRadius  = 200.0

	layerHeight  = 120.0
	layerAnchorX = 400.0
	layerSpacing = 150.0

	gridSpacing = 150.0
	gridOffsetX = 100.0
	gridOffsetY = 100.0

	// Force mode applies a single 10% pull toward each connected
	// neighbor's circular position. It is a one-pass heuristic, not an
	// iterative simulation.
	forcePull = 0.10
)

// Engine computes node positions. The hierarchical type ordering is fixed
// at construction; entity types outside it cannot be layered and take the
// random fallback position.
type Engine struct {
	typeOrder []string
	rng       *rand.Rand
}

// NewEngine creates a layout engine with the given hierarchical type
// ordering.
func NewEngine(typeOrder []string) *Engine {
	return &Engine{
		typeOrder: typeOrder,
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}
}

// Layout returns exactly one position per entity in entities, positioned
// according to mode. Relations feed degree counts (hierarchical centering)
// and neighbor pulls (force).
func (e *Engine) Layout(entities []domain.Entity, relations []domain.Relation, mode LayoutMode) map[string]Position {
	switch mode {
	case LayoutHierarchical:
		return e.hierarchical(entities, relations)
	case LayoutCircular:
		return e.circular(entities)
	case LayoutGrid:
		return e.grid(entities)
	case LayoutForce:
		return e.force(entities, relations)
	default:
		return e.force(entities, relations)
	}
}

// degrees counts, per entity id, the relations where the entity is source
// or target.
func degrees(relations []domain.Relation) map[string]int {
	deg := make(map[string]int, len(relations))
	for _, r := range relations {
		deg[r.Source]++
		deg[r.Target]++
	}
	return deg
}

func (e *Engine) hierarchical(entities []domain.Entity, relations []domain.Relation) map[string]Position {
	layerOf := make(map[string]int, len(e.typeOrder))
	for i, t := range e.typeOrder {
		layerOf[t] = i
	}

	layers := make([][]domain.Entity, len(e.typeOrder))
	out := make(map[string]Position, len(entities))
	for _, ent := range entities {
		layer, ok := layerOf[ent.Type]
		if !ok {
			out[ent.ID] = e.fallback()
			continue
		}
		layers[layer] = append(layers[layer], ent)
	}

	deg := degrees(relations)
	for layer, members := range layers {
		// Well-connected nodes first so they land near the anchor.
		sort.SliceStable(members, func(i, j int) bool {
			return deg[members[i].ID] > deg[members[j].ID]
		})

		y := float64(layer) * layerHeight
		startX := layerAnchorX - layerSpacing*float64(len(members)-1)/2
		for i, ent := range members {
			out[ent.ID] = Position{Point: Point{X: startX + layerSpacing*float64(i), Y: y}}
		}
	}
	return out
}

func (e *Engine) circular(entities []domain.Entity) map[string]Position {
	out := make(map[string]Position, len(entities))
	n := len(entities)
	for i, ent := range entities {
		angle := 2 * math.Pi * float64(i) / float64(n)
		out[ent.ID] = Position{Point: Point{
			X: circleCenterX + circleRadius*math.Cos(angle),
			Y: circleCenterY + circleRadius*math.Sin(angle),
		}}
	}
	return out
}

func (e *Engine) grid(entities []domain.Entity) map[string]Position {
	out := make(map[string]Position, len(entities))
	cols := int(math.Ceil(math.Sqrt(float64(len(entities)))))
	for i, ent := range entities {
		row := i / cols
		col := i % cols
		out[ent.ID] = Position{Point: Point{
			X: gridOffsetX + gridSpacing*float64(col),
			Y: gridOffsetY + gridSpacing*float64(row),
		}}
	}
	return out
}

func (e *Engine) force(entities []domain.Entity, relations []domain.Relation) map[string]Position {
	base := e.circular(entities)

	neighbors := make(map[string][]string, len(entities))
	for _, r := range relations {
		neighbors[r.Source] = append(neighbors[r.Source], r.Target)
		neighbors[r.Target] = append(neighbors[r.Target], r.Source)
	}

	out := make(map[string]Position, len(entities))
	for _, ent := range entities {
		pos := base[ent.ID]
		var dx, dy float64
		for _, other := range neighbors[ent.ID] {
			opos, ok := base[other]
			if !ok {
				continue
			}
			dx += (opos.X - pos.X) * forcePull
			dy += (opos.Y - pos.Y) * forcePull
		}
		out[ent.ID] = Position{Point: Point{X: pos.X + dx, Y: pos.Y + dy}}
	}
	return out
}

func (e *Engine) fallback() Position {
	return Position{
		Point:    Point{X: e.rng.Float64() * CanvasWidth, Y: e.rng.Float64() * CanvasHeight},
		Fallback: true,
	}
}
