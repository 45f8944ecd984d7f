package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/logfeed"
	"github.com/opsdeck/opsdeck/internal/normalize"
	"github.com/opsdeck/opsdeck/internal/output"
	"github.com/opsdeck/opsdeck/internal/tmux"
	"github.com/opsdeck/opsdeck/internal/upstream"
)

// LogsCmd fetches recent logs once, or follows the live feed
type LogsCmd struct {
	Limit    int           `short:"n" default:"0" help:"Maximum entries to print (0 = upstream default)"`
	Level    []string      `short:"l" help:"Only show these levels (can be repeated)"`
	Service  []string      `short:"s" help:"Only show these services (can be repeated)"`
	Search   string        `short:"p" help:"Case-insensitive substring match on message text"`
	Follow   bool          `short:"F" help:"Keep polling the upstream and stream new entries"`
	Interval time.Duration `help:"Polling interval for --follow (default from config)"`
	Tmux     bool          `help:"Mirror the live feed into a tmux session for another terminal"`
}

// Run executes the logs command
func (c *LogsCmd) Run(globals *Globals) error {
	if c.Tmux && !c.Follow {
		return outputError(globals, CodeInvalidFlag, "--tmux requires --follow")
	}

	cfg := globals.Config
	client := upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout)
	limit := cfg.Upstream.LogLimit
	if c.Limit > 0 {
		limit = c.Limit
	}
	source := upstream.NewSource(client, limit, globals.Logger)

	filter := c.buildFilter()

	if c.Follow {
		return c.follow(globals, source, filter)
	}

	ctx := context.Background()
	globals.Debug("Fetching up to %d logs from %s", limit, cfg.Upstream.URL)
	raw, err := source.FetchLogs(ctx)
	if err != nil {
		return outputError(globals, CodeUpstreamUnreachable,
			fmt.Sprintf("failed to fetch logs: %v", err),
			errorHint(CodeUpstreamUnreachable))
	}

	entries := filter.Apply(normalize.New().Batch(raw))
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}
	return writeEntries(globals, entries)
}

// buildFilter translates flags into the shared filter state.
func (c *LogsCmd) buildFilter() *logfeed.FilterState {
	filter := logfeed.NewFilterState()
	for _, lvl := range c.Level {
		filter.ToggleLevel(domain.ParseLogLevel(lvl))
	}
	for _, svc := range c.Service {
		filter.ToggleService(svc)
	}
	filter.Search = c.Search
	return &filter
}

// follow runs the live polling loop until interrupted.
func (c *LogsCmd) follow(globals *Globals, source *upstream.Source, filter *logfeed.FilterState) error {
	cfg := globals.Config
	interval := cfg.Dashboard.LiveInterval
	if c.Interval > 0 {
		interval = c.Interval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var sink io.Writer = globals.Stdout
	plain := false
	var mgr *tmux.Manager
	if c.Tmux {
		var err error
		mgr, err = tmux.NewManager(tmux.SessionNameFor(cfg.Upstream.URL))
		if err != nil {
			return outputError(globals, CodeTmuxUnavailable, err.Error(), errorHint(CodeTmuxUnavailable))
		}
		if err := mgr.EnsureSession(); err != nil {
			return outputError(globals, CodeTmuxUnavailable,
				fmt.Sprintf("failed to prepare tmux session: %v", err))
		}
		defer mgr.Release()

		if err := mgr.ClearWithBanner(cfg.Upstream.URL); err != nil {
			globals.Debug("banner write failed: %v", err)
		}
		tw := tmux.NewWriter(mgr)
		defer tw.Flush()
		sink = tw
		plain = true

		if !globals.Quiet {
			fmt.Fprintf(globals.Stderr, "Streaming into tmux session %q. Attach with: %s\n",
				mgr.SessionName(), mgr.AttachCommand())
		}
	}

	feed := logfeed.NewFeed(source.FetchLogs, interval, nil, globals.Logger)
	if err := feed.Start(ctx); err != nil {
		return err
	}
	defer feed.Stop()

	updates, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	if globals.Format == "ndjson" && !globals.Quiet && !c.Tmux {
		output.NewNDJSONWriter(globals.Stdout).WriteInfo("following live feed", cfg.Upstream.URL, "live")
	}

	// Each update replaces the canonical set wholesale, so only entries not
	// yet printed are emitted.
	printed := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			entries := filter.Apply(update.Entries)
			// Entries arrive newest-first; stream them oldest-first.
			for i := len(entries) - 1; i >= 0; i-- {
				entry := entries[i]
				if printed[entry.ID] {
					continue
				}
				printed[entry.ID] = true
				if err := writeEntry(globals, sink, plain, &entry); err != nil {
					return err
				}
			}
		}
	}
}

// writeEntries prints a batch of entries in the configured format.
func writeEntries(globals *Globals, entries []domain.LogEntry) error {
	for i := range entries {
		if err := writeEntry(globals, globals.Stdout, false, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry prints one entry. Plain output skips ANSI styling, which an
// echo-based tmux sink would render literally.
func writeEntry(globals *Globals, w io.Writer, plain bool, entry *domain.LogEntry) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(w).Write(entry)
	}
	if plain {
		_, err := fmt.Fprintln(w, formatPlainLine(entry))
		return err
	}
	return output.NewTextWriter(w).Write(entry)
}

// formatPlainLine renders an entry without styling. The tmux sink replays
// lines through send-keys echo, which would show escape bytes literally.
func formatPlainLine(entry *domain.LogEntry) string {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(plainLevelTag(entry.Level))
	b.WriteString(" [")
	b.WriteString(entry.Service)
	b.WriteString("] ")
	if entry.Component != "" {
		b.WriteString(entry.Component)
		b.WriteString(": ")
	}
	b.WriteString(entry.Message)
	return b.String()
}

// plainLevelTag is the unstyled counterpart of output.LevelIndicator.
func plainLevelTag(level domain.LogLevel) string {
	switch level {
	case domain.LogLevelDebug:
		return "DBG"
	case domain.LogLevelWarn:
		return "WRN"
	case domain.LogLevelError:
		return "ERR"
	case domain.LogLevelFatal:
		return "FTL"
	default:
		return "INF"
	}
}
