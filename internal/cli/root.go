package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/opsdeck/opsdeck/internal/config"
)

// CLI is the root command structure for opsdeck
type CLI struct {
	// Global flags
	Format   string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	Upstream string `short:"u" default:"${config_upstream}" help:"Upstream backend base URL"`
	Quiet    bool   `short:"q" help:"Suppress non-data output (only emit records)"`
	Verbose  bool   `short:"v" help:"Show debug output (requests, refresh cycles, internal state)"`

	// Commands
	UI       UICmd       `cmd:"" default:"withargs" help:"Interactive dashboard (graph, logs, services)"`
	Graph    GraphCmd    `cmd:"" help:"Compute and print the service graph layout"`
	Logs     LogsCmd     `cmd:"" help:"Fetch logs once or follow the live feed"`
	Services ServicesCmd `cmd:"" help:"Show service activity derived from recent logs"`
	Config   ConfigCmd   `cmd:"" help:"Show or manage configuration"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger
}

// NewGlobals creates a Globals instance from CLI flags with config fallbacks.
func NewGlobals(c *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  c.Format,
		Quiet:   c.Quiet,
		Verbose: c.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}

	if !c.Quiet && cfg.Quiet {
		g.Quiet = true
	}
	if !c.Verbose && cfg.Verbose {
		g.Verbose = true
	}
	if c.Upstream != "" {
		g.Config.Upstream.URL = c.Upstream
	}

	g.Logger = newLogger(g.Verbose, g.Stderr)
	return g
}

// newLogger builds the diagnostic logger. Without --verbose all internal
// logging is discarded so data output stays clean for piping.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(writerSyncer{w}),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

type writerSyncer struct{ io.Writer }

func (writerSyncer) Sync() error { return nil }

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Verbose {
		fmt.Fprintf(g.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		io.WriteString(globals.Stdout, `{"type":"version","version":"`+Version+`","commit":"`+Commit+`"}`+"\n")
	} else {
		io.WriteString(globals.Stdout, "opsdeck version "+Version+" ("+Commit+")\n")
	}
	return nil
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
