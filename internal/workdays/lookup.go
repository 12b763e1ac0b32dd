package workdays

import (
	"context"
	"errors"
	"time"
)

// ErrRemoteLookup marks every failure of the remote workday service.
var ErrRemoteLookup = errors.New("remote workday lookup failed")

// Lookup is the outcome of one remote attempt: either a count or the reason it failed.
type Lookup struct {
	Days int
	Err  error
}

// OK reports whether the remote service answered.
func (l Lookup) OK() bool { return l.Err == nil }

func found(days int) Lookup { return Lookup{Days: days} }

func failed(err error) Lookup { return Lookup{Err: err} }

// Source answers workday counts for a [start, end) day range.
// A Source never returns an error directly; failures travel in the Lookup.
type Source interface {
	Lookup(ctx context.Context, start, end time.Time) Lookup
}
