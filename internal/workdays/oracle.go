package workdays

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/imrishuroy/go-repair-sla/internal/metrics"
)

// maxSpanDays is the longest range the remote service answers in one query.
const maxSpanDays = 365

// Oracle counts working days, preferring the remote Source and memoizing its answers.
type Oracle struct {
	source Source
	cache  *Cache
	group  singleflight.Group
	log    logrus.FieldLogger
}

// NewOracle wires a Source and a Cache. The cache is owned by the caller so
// it can be shared for the process lifetime.
func NewOracle(source Source, cache *Cache, log logrus.FieldLogger) *Oracle {
	if cache == nil {
		cache = NewCache()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Oracle{source: source, cache: cache, log: log}
}

// CountWorkdays returns the working days in [start, end). It never fails:
// remote errors fall back to a weekday-only count.
func (o *Oracle) CountWorkdays(ctx context.Context, start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}
	if spanDays(start, end) <= maxSpanDays {
		return o.countRange(ctx, start, end)
	}

	// split at each January 1 inside the range
	total := 0
	for cur := start; cur.Before(end); {
		next := time.Date(cur.Year()+1, time.January, 1, 0, 0, 0, 0, cur.Location())
		if next.After(end) {
			next = end
		}
		total += o.countRange(ctx, cur, next)
		cur = next
	}
	return total
}

func (o *Oracle) countRange(ctx context.Context, start, end time.Time) int {
	key := Key(start, end)
	if days, ok := o.cache.Get(key); ok {
		metrics.WorkdayLookups.WithLabelValues(metrics.OutcomeCache).Inc()
		return days
	}

	// concurrent misses on the same key share one remote call
	v, _, _ := o.group.Do(key, func() (interface{}, error) {
		if days, ok := o.cache.Get(key); ok {
			return found(days), nil
		}
		l := o.source.Lookup(ctx, start, end)
		if l.OK() {
			o.cache.Set(key, l.Days)
		}
		return l, nil
	})
	l := v.(Lookup)

	if l.OK() {
		metrics.WorkdayLookups.WithLabelValues(metrics.OutcomeRemote).Inc()
		return l.Days
	}

	days := CountLocal(start, end)
	metrics.WorkdayLookups.WithLabelValues(metrics.OutcomeFallback).Inc()
	o.log.WithFields(logrus.Fields{
		"range": key,
		"days":  days,
		"error": l.Err.Error(),
	}).Warn("workday service unavailable, using weekday-only count")
	return days
}

func spanDays(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
