package logfeed

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/opsdeck/opsdeck/internal/domain"
)

func TestFeedReplacesWholesale(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int64
	fetch := func(ctx context.Context) ([]domain.RawLogRecord, error) {
		n := calls.Add(1)
		return []domain.RawLogRecord{
			{ID: fmt.Sprintf("cycle-%d", n), Service: "api", Message: "m", Timestamp: "2026-03-14T09:00:00Z"},
		}, nil
	}

	mock := clock.NewMock()
	feed := NewFeed(fetch, time.Second, mock, nil)
	updates, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	require.NoError(t, feed.Start(context.Background()))
	defer feed.Stop()

	first := <-updates
	require.Len(t, first.Entries, 1)
	assert.Equal(t, "cycle-1", first.Entries[0].ID)

	mock.Add(time.Second)
	second := <-updates
	require.Len(t, second.Entries, 1)
	assert.Equal(t, "cycle-2", second.Entries[0].ID, "snapshot is replaced, not merged")
	assert.Greater(t, second.Seq, first.Seq)

	assert.Len(t, feed.Current(), 1)
}

func TestFeedSkipsFailedCycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int64
	fetch := func(ctx context.Context) ([]domain.RawLogRecord, error) {
		if calls.Add(1) == 2 {
			return nil, fmt.Errorf("upstream unavailable")
		}
		return []domain.RawLogRecord{{ID: "ok", Service: "api", Message: "m"}}, nil
	}

	mock := clock.NewMock()
	feed := NewFeed(fetch, time.Second, mock, nil)
	updates, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	require.NoError(t, feed.Start(context.Background()))
	defer feed.Stop()

	<-updates
	mock.Add(time.Second) // failed cycle: no update, state retained
	assert.Len(t, feed.Current(), 1)

	mock.Add(time.Second)
	third := <-updates
	assert.Equal(t, "ok", third.Entries[0].ID)
}

func TestFeedDiscardsStaleCycle(t *testing.T) {
	feed := NewFeed(nil, time.Second, clock.NewMock(), nil)

	feed.apply(2, []domain.LogEntry{{ID: "newer"}})
	feed.apply(1, []domain.LogEntry{{ID: "older"}})

	current := feed.Current()
	require.Len(t, current, 1)
	assert.Equal(t, "newer", current[0].ID, "earlier-issued cycle must not overwrite a later one")
}

func TestFeedStopClosesSubscriptions(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetch := func(ctx context.Context) ([]domain.RawLogRecord, error) {
		return nil, nil
	}
	feed := NewFeed(fetch, time.Second, clock.NewMock(), nil)
	updates, _ := feed.Subscribe()

	require.NoError(t, feed.Start(context.Background()))
	assert.True(t, feed.IsRunning())
	feed.Stop()
	assert.False(t, feed.IsRunning())

	<-updates // drain the buffered first-cycle update delivered before close
	_, open := <-updates
	assert.False(t, open, "subscription channel closes on Stop")
}

func TestFeedRejectsDoubleStart(t *testing.T) {
	fetch := func(ctx context.Context) ([]domain.RawLogRecord, error) { return nil, nil }
	feed := NewFeed(fetch, time.Second, clock.NewMock(), nil)
	require.NoError(t, feed.Start(context.Background()))
	defer feed.Stop()
	assert.Error(t, feed.Start(context.Background()))
}
