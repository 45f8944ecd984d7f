package logfeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/opsdeck/opsdeck/internal/domain"
	"github.com/opsdeck/opsdeck/internal/normalize"
)

// FetchFunc retrieves the raw upstream log set for one cycle.
type FetchFunc func(ctx context.Context) ([]domain.RawLogRecord, error)

// Update is one live-feed notification. Entries is a wholesale replacement
// of the canonical set, never a merge.
type Update struct {
	Seq     uint64
	Entries []domain.LogEntry
}

// Feed drives the live log cycle: a fixed-interval ticker re-fetches the
// upstream log set, normalizes it, and notifies subscribers with the
// replacement snapshot. Every cycle carries a monotonically increasing
// sequence number; a cycle that completes after a later one is discarded so
// stale data can never overwrite newer state. A failed cycle is skipped and
// the previous snapshot retained.
type Feed struct {
	fetch    FetchFunc
	norm     *normalize.Normalizer
	clk      clock.Clock
	log      *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	subs    map[int]chan Update
	nextSub int
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	seq     uint64
	applied uint64
	current []domain.LogEntry
}

// NewFeed creates a live feed polling fetch every interval.
func NewFeed(fetch FetchFunc, interval time.Duration, clk clock.Clock, log *zap.Logger) *Feed {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{
		fetch:    fetch,
		norm:     normalize.New(),
		clk:      clk,
		log:      log,
		interval: interval,
		subs:     make(map[int]chan Update),
	}
}

// Start begins the polling loop, issuing an immediate first cycle. It
// returns an error if the feed is already running.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return fmt.Errorf("feed already running")
	}

	feedCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.running = true

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.loop(feedCtx)
	}()
	return nil
}

func (f *Feed) loop(ctx context.Context) {
	ticker := f.clk.Ticker(f.interval)
	defer ticker.Stop()

	f.startCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.startCycle(ctx)
		}
	}
}

// startCycle issues one fetch in its own goroutine so a slow cycle never
// blocks the ticker; the sequence check on completion handles overlap.
func (f *Feed) startCycle(ctx context.Context) {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()

		raw, err := f.fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				f.log.Warn("live feed cycle failed, retaining previous state",
					zap.Uint64("seq", seq), zap.Error(err))
			}
			return
		}
		f.apply(seq, f.norm.Batch(raw))
	}()
}

// apply installs a cycle's result unless a later cycle already completed.
func (f *Feed) apply(seq uint64, entries []domain.LogEntry) {
	f.mu.Lock()
	if seq <= f.applied {
		f.mu.Unlock()
		f.log.Debug("discarding stale live feed cycle", zap.Uint64("seq", seq))
		return
	}
	f.applied = seq
	f.current = entries
	subs := make([]chan Update, 0, len(f.subs))
	for _, ch := range f.subs {
		subs = append(subs, ch)
	}
	f.mu.Unlock()

	update := Update{Seq: seq, Entries: entries}
	for _, ch := range subs {
		select {
		case ch <- update:
		default:
			// Slow subscriber keeps its older pending update.
		}
	}
}

// Subscribe registers a notification channel. The returned cancel func
// removes the subscription and closes the channel.
func (f *Feed) Subscribe() (<-chan Update, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextSub
	f.nextSub++
	ch := make(chan Update, 1)
	f.subs[id] = ch

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
}

// Current returns the most recently applied canonical snapshot.
func (f *Feed) Current() []domain.LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// IsRunning reports whether the polling loop is active.
func (f *Feed) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Stop cancels the ticker, waits for in-flight cycles, and closes all
// subscriptions. Safe to call once after Start.
func (f *Feed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	f.running = false
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	f.wg.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
