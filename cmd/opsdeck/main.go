package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/opsdeck/opsdeck/internal/cli"
	"github.com/opsdeck/opsdeck/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing; CLI flags override them.
	vars := kong.Vars{
		"config_format":   cfg.Format,
		"config_upstream": cfg.Upstream.URL,
		"config_layout":   cfg.Dashboard.Layout,
	}

	ctx := kong.Parse(&c,
		kong.Name("opsdeck"),
		kong.Description("opsdeck: terminal dashboard for a monitoring backend\n\nSTART HERE: opsdeck ui\n\nScripted consumers: use 'opsdeck graph', 'opsdeck logs', 'opsdeck services' with -f ndjson"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobals(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
