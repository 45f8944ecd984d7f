package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/graph"
	"github.com/opsdeck/opsdeck/internal/output"
	"github.com/opsdeck/opsdeck/internal/upstream"
)

// GraphCmd computes node positions for the service graph and prints them
type GraphCmd struct {
	Layout string `short:"l" default:"${config_layout}" enum:"hierarchical,circular,grid,force" help:"Positioning algorithm"`
	Edges  bool   `short:"e" help:"Include edges in the output"`
}

// Run executes the graph command
func (c *GraphCmd) Run(globals *Globals) error {
	ctx := context.Background()
	cfg := globals.Config

	client := upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout)

	globals.Debug("Fetching entities from %s", cfg.Upstream.URL)
	entities, err := client.Entities(ctx)
	if err != nil {
		return outputError(globals, CodeUpstreamUnreachable,
			fmt.Sprintf("failed to fetch entities: %v", err),
			errorHint(CodeUpstreamUnreachable))
	}

	relations, err := client.Relations(ctx)
	if err != nil {
		return outputError(globals, CodeUpstreamUnreachable,
			fmt.Sprintf("failed to fetch relations: %v", err),
			errorHint(CodeUpstreamUnreachable))
	}

	relations = graph.ValidRelations(entities, relations, globals.Logger)

	mode := graph.ParseLayoutMode(c.Layout)
	engine := graph.NewEngine(cfg.Dashboard.TypeOrder)
	positions := engine.Layout(entities, relations, mode)

	// Stable output order regardless of upstream ordering
	sorted := make([]domain.Entity, len(entities))
	copy(sorted, entities)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	if globals.Format == "ndjson" {
		writer := output.NewNDJSONWriter(globals.Stdout)
		if !globals.Quiet {
			writer.WriteInfo(fmt.Sprintf("graph layout (%s)", mode), cfg.Upstream.URL, string(mode))
		}
		for _, ent := range sorted {
			if err := writer.WriteNode(ent, positions[ent.ID]); err != nil {
				return err
			}
		}
		if c.Edges {
			for _, rel := range relations {
				if err := writer.WriteEdge(rel); err != nil {
					return err
				}
			}
		}
		return nil
	}

	rows := make([][]string, 0, len(sorted))
	for _, ent := range sorted {
		pos := positions[ent.ID]
		placement := "layout"
		if pos.Fallback {
			placement = "fallback"
		}
		rows = append(rows, []string{
			ent.Label(),
			domain.KindOf(ent.Type).String(),
			output.FormatCoord(pos.X),
			output.FormatCoord(pos.Y),
			placement,
		})
	}
	if err := output.WriteNodeTable(globals.Stdout, rows); err != nil {
		return err
	}

	if c.Edges && len(relations) > 0 {
		fmt.Fprintln(globals.Stdout, "")
		for _, rel := range relations {
			fmt.Fprintf(globals.Stdout, "  %s -> %s (%s)\n", rel.Source, rel.Target, rel.Type)
		}
	}
	return nil
}
