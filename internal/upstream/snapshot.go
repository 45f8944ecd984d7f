package upstream

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// Snapshot is one dashboard refresh cycle's worth of upstream data. Slices
// that failed to fetch are left empty and named in Degraded; a snapshot is
// immutable once returned.
type Snapshot struct {
	Seq       uint64
	Entities  []domain.Entity
	Relations []domain.Relation
	Logs      []domain.RawLogRecord
	Stats     domain.LogStats
	Health    []domain.ServiceHealth
	Degraded  []string
}

// Source fans out the upstream fetches and tags results with a request
// sequence so callers can discard responses that resolve after a later
// request.
type Source struct {
	client   *Client
	log      *zap.Logger
	logLimit int
	seq      atomic.Uint64
}

// NewSource creates a snapshot source over client. logLimit caps the log
// fetch per cycle.
func NewSource(client *Client, logLimit int, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{client: client, log: log, logLimit: logLimit}
}

// Fetch issues the five upstream fetches in parallel. Each slice degrades
// independently: a failure empties that slice, logs a diagnostic, and never
// fails the cycle. The returned error is non-nil only when the context is
// cancelled.
func (s *Source) Fetch(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Seq: s.seq.Add(1)}

	// Errors are handled per-slice, so group.Wait only propagates context
	// cancellation.
	group, ctx := errgroup.WithContext(ctx)

	degrade := make(chan string, 5)
	fetchSlice := func(name string, fn func(context.Context) error) {
		group.Go(func() error {
			if err := fn(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.log.Warn("upstream slice degraded to empty",
					zap.String("slice", name), zap.Uint64("seq", snap.Seq), zap.Error(err))
				degrade <- name
			}
			return nil
		})
	}

	fetchSlice("entities", func(ctx context.Context) error {
		var err error
		snap.Entities, err = s.client.Entities(ctx)
		return err
	})
	fetchSlice("relations", func(ctx context.Context) error {
		var err error
		snap.Relations, err = s.client.Relations(ctx)
		return err
	})
	fetchSlice("logs", func(ctx context.Context) error {
		var err error
		snap.Logs, err = s.client.Logs(ctx, s.logLimit)
		return err
	})
	fetchSlice("stats", func(ctx context.Context) error {
		var err error
		snap.Stats, err = s.client.Stats(ctx)
		return err
	})
	fetchSlice("health", func(ctx context.Context) error {
		var err error
		snap.Health, err = s.client.Health(ctx)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	close(degrade)
	for name := range degrade {
		snap.Degraded = append(snap.Degraded, name)
	}
	return snap, nil
}

// Stale reports whether snap is older than the highest sequence this source
// has handed out, i.e. a response that resolved after a later request.
func (s *Source) Stale(snap *Snapshot) bool {
	return snap.Seq < s.seq.Load()
}

// FetchLogs is a FetchFunc-shaped accessor for the live feed, which only
// needs the raw log slice.
func (s *Source) FetchLogs(ctx context.Context) ([]domain.RawLogRecord, error) {
	return s.client.Logs(ctx, s.logLimit)
}
