package cli

import (
	"encoding/json"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/config"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"withargs" help:"Show current configuration"`
	Path ConfigPathCmd `cmd:"" help:"Show configuration file path"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		out := map[string]interface{}{
			"type":      "config",
			"format":    cfg.Format,
			"quiet":     cfg.Quiet,
			"verbose":   cfg.Verbose,
			"upstream":  cfg.Upstream,
			"dashboard": cfg.Dashboard,
		}
		return json.NewEncoder(globals.Stdout).Encode(out)
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintf(globals.Stdout, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet:   %v\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose: %v\n", cfg.Verbose)
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "Upstream:")
	fmt.Fprintf(globals.Stdout, "  url:       %s\n", cfg.Upstream.URL)
	fmt.Fprintf(globals.Stdout, "  timeout:   %s\n", cfg.Upstream.Timeout)
	fmt.Fprintf(globals.Stdout, "  log_limit: %d\n", cfg.Upstream.LogLimit)
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "Dashboard:")
	fmt.Fprintf(globals.Stdout, "  refresh_interval: %s\n", cfg.Dashboard.RefreshInterval)
	fmt.Fprintf(globals.Stdout, "  live_interval:    %s\n", cfg.Dashboard.LiveInterval)
	fmt.Fprintf(globals.Stdout, "  layout:           %s\n", cfg.Dashboard.Layout)
	fmt.Fprintf(globals.Stdout, "  window_size:      %d\n", cfg.Dashboard.WindowSize)
	fmt.Fprintf(globals.Stdout, "  window_increment: %d\n", cfg.Dashboard.WindowIncrement)
	fmt.Fprintf(globals.Stdout, "  type_order:       %v\n", cfg.Dashboard.TypeOrder)
	return nil
}

// ConfigPathCmd shows the configuration file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()
	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found.")
		fmt.Fprintln(globals.Stdout, "Searched: ./.opsdeck.yaml, ~/.opsdeck.yaml, $XDG_CONFIG_HOME/opsdeck/, /etc/opsdeck/")
		return nil
	}
	fmt.Fprintln(globals.Stdout, path)
	return nil
}
