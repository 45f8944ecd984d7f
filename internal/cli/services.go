package cli

import (
	"context"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/normalize"
	"github.com/opsdeck/opsdeck/internal/output"
	"github.com/opsdeck/opsdeck/internal/services"
	"github.com/opsdeck/opsdeck/internal/upstream"
)

// ServicesCmd summarizes service activity from recent logs
type ServicesCmd struct {
	Active bool `short:"a" help:"Only show services with recent activity"`
}

// Run executes the services command
func (c *ServicesCmd) Run(globals *Globals) error {
	ctx := context.Background()
	cfg := globals.Config

	client := upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout)
	globals.Debug("Fetching logs from %s", cfg.Upstream.URL)
	raw, err := client.Logs(ctx, cfg.Upstream.LogLimit)
	if err != nil {
		return outputError(globals, CodeUpstreamUnreachable,
			fmt.Sprintf("failed to fetch logs: %v", err),
			errorHint(CodeUpstreamUnreachable))
	}

	entries := normalize.New().Batch(raw)
	infos := services.Aggregate(entries, nil)

	if c.Active {
		filtered := infos[:0]
		for _, info := range infos {
			if info.IsActive {
				filtered = append(filtered, info)
			}
		}
		infos = filtered
	}

	if globals.Format == "ndjson" {
		writer := output.NewNDJSONWriter(globals.Stdout)
		for _, info := range infos {
			if err := writer.WriteService(info); err != nil {
				return err
			}
		}
		return nil
	}

	if len(infos) == 0 {
		fmt.Fprintln(globals.Stdout, "No services found in recent logs.")
		return nil
	}
	return output.WriteServiceTable(globals.Stdout, infos)
}
