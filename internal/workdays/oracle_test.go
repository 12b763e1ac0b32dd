package workdays

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource records every remote attempt and answers through fn.
type stubSource struct {
	mu    sync.Mutex
	calls []string
	fn    func(start, end time.Time) Lookup
}

func (s *stubSource) Lookup(ctx context.Context, start, end time.Time) Lookup {
	s.mu.Lock()
	s.calls = append(s.calls, Key(start, end))
	fn := s.fn
	s.mu.Unlock()
	return fn(start, end)
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func answering(days int) func(time.Time, time.Time) Lookup {
	return func(time.Time, time.Time) Lookup { return found(days) }
}

func failing(time.Time, time.Time) Lookup {
	return failed(errors.New("connection refused"))
}

func newTestOracle(src Source) (*Oracle, *Cache, *test.Hook) {
	logger, hook := test.NewNullLogger()
	cache := NewCache()
	return NewOracle(src, cache, logger), cache, hook
}

func TestCountWorkdays_StartNotBeforeEnd(t *testing.T) {
	src := &stubSource{fn: answering(42)}
	o, _, _ := newTestOracle(src)
	ctx := context.Background()

	assert.Equal(t, 0, o.CountWorkdays(ctx, day(2024, 3, 8), day(2024, 3, 1)))
	assert.Equal(t, 0, o.CountWorkdays(ctx, day(2024, 3, 8), day(2024, 3, 8)))
	assert.Equal(t, 0, src.callCount())
}

func TestCountWorkdays_RemoteAnswerIsCached(t *testing.T) {
	src := &stubSource{fn: answering(7)}
	o, cache, _ := newTestOracle(src)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)

	first := o.CountWorkdays(ctx, start, end)
	second := o.CountWorkdays(ctx, start, end)

	assert.Equal(t, 7, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.callCount())
	assert.Equal(t, 1, cache.Len())

	days, ok := cache.Get("2024-01-01_2024-01-10")
	require.True(t, ok)
	assert.Equal(t, 7, days)
}

func TestCountWorkdays_CacheKeyIgnoresTimeOfDay(t *testing.T) {
	src := &stubSource{fn: answering(3)}
	o, _, _ := newTestOracle(src)
	ctx := context.Background()

	o.CountWorkdays(ctx, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC))
	got := o.CountWorkdays(ctx, time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC), time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC))

	assert.Equal(t, 3, got)
	assert.Equal(t, 1, src.callCount())
}

func TestCountWorkdays_FallbackCountsWeekdaysAndIsNotCached(t *testing.T) {
	src := &stubSource{fn: failing}
	o, cache, hook := newTestOracle(src)
	ctx := context.Background()

	got := o.CountWorkdays(ctx, day(2024, 3, 1), day(2024, 3, 20))
	assert.Equal(t, 13, got)
	assert.Equal(t, 0, cache.Len())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)

	// once the service recovers its answer replaces the weekday-only count
	src.mu.Lock()
	src.fn = answering(11)
	src.mu.Unlock()

	assert.Equal(t, 11, o.CountWorkdays(ctx, day(2024, 3, 1), day(2024, 3, 20)))
	assert.Equal(t, 2, src.callCount())
	assert.Equal(t, 1, cache.Len())
}

func TestCountWorkdays_SplitsLongRangesAtYearBoundaries(t *testing.T) {
	src := &stubSource{fn: func(start, end time.Time) Lookup { return found(CountLocal(start, end)) }}
	o, _, _ := newTestOracle(src)

	start, end := day(2022, 6, 1), day(2024, 9, 15)
	got := o.CountWorkdays(context.Background(), start, end)

	assert.Equal(t, CountLocal(start, end), got)
	assert.Equal(t, []string{
		"2022-06-01_2023-01-01",
		"2023-01-01_2024-01-01",
		"2024-01-01_2024-09-15",
	}, src.calls)
}

func TestCountWorkdays_SegmentedFallbackMatchesDirectCount(t *testing.T) {
	src := &stubSource{fn: failing}
	o, _, _ := newTestOracle(src)

	start, end := day(2019, 11, 20), day(2024, 2, 3)
	assert.Equal(t, CountLocal(start, end), o.CountWorkdays(context.Background(), start, end))
	assert.Equal(t, 6, src.callCount())
}

func TestCountWorkdays_OneYearIsASingleQuery(t *testing.T) {
	src := &stubSource{fn: answering(250)}
	o, _, _ := newTestOracle(src)

	got := o.CountWorkdays(context.Background(), day(2023, 1, 1), day(2024, 1, 1))

	assert.Equal(t, 250, got)
	assert.Equal(t, []string{"2023-01-01_2024-01-01"}, src.calls)
}

func TestCountWorkdays_ConcurrentMissesShareOneRemoteCall(t *testing.T) {
	release := make(chan struct{})
	src := &stubSource{fn: func(time.Time, time.Time) Lookup {
		<-release
		return found(5)
	}}
	o, _, _ := newTestOracle(src)

	const n = 10
	results := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.CountWorkdays(context.Background(), day(2024, 3, 4), day(2024, 3, 11))
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 5, r)
	}
	assert.Equal(t, 1, src.callCount())
}
