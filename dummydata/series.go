// Package dummydata writes synthetic history samples: a fixed value for
// every tick of a time range, one write per tick, stopping at the first
// failure.
package dummydata

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-graphite/historytools"
	"github.com/go-graphite/historytools/history"
)

// The synthetic values written for each value kind.
const (
	UintValue   uint64  = 1
	FloatValue  float64 = 1.0
	StringValue         = "dummy"
)

var (
	ErrNoStore          = errors.New("no history store")
	ErrUnknownValueType = errors.New("unknown value type")
	ErrInvalidStep      = errors.New("step must be positive")
)

// TimeRange is an inclusive range of Unix seconds walked in Step
// increments.
type TimeRange struct {
	Begin int64
	End   int64
	Step  int64
}

// Planned returns the number of ticks in the range, or 0 when the range
// is empty or the step is not positive.
func (r TimeRange) Planned() uint64 {
	if r.Begin > r.End || r.Step <= 0 {
		return 0
	}
	return uint64(r.End-r.Begin)/uint64(r.Step) + 1
}

// WriteError is a failed write of one sample.  Samples written before it
// stay in the store.
type WriteError struct {
	Kind historytools.ValueKind
	Time int64
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("add_%s at %d: %s", e.Kind, e.Time, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type config struct {
	progress uint64
}

// Option configures WriteSeries.
type Option func(*config)

// WithProgress logs a progress line every n writes.  Zero disables it.
func WithProgress(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.progress = uint64(n)
		}
	}
}

// WriteSeries writes one sample of the given kind for item id at every
// tick of r and returns how many samples were written.  An empty range
// writes nothing and succeeds.  A non-positive step over a non-empty
// range is rejected before any write.
func WriteSeries(st history.Store, id uint64, r TimeRange,
	kind historytools.ValueKind, opts ...Option) (int, error) {
	if st == nil {
		return 0, ErrNoStore
	}
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownValueType, int(kind))
	}
	if r.Begin > r.End {
		return 0, nil
	}
	if r.Step <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStep, r.Step)
	}

	c := new(config)
	for _, opt := range opts {
		opt(c)
	}
	total := r.Planned()

	written := 0
	for ts := r.Begin; ts <= r.End; ts += r.Step {
		if err := writeSample(st, id, time.Unix(ts, 0), kind); err != nil {
			return written, &WriteError{Kind: kind, Time: ts, Err: err}
		}
		written++

		if c.progress > 0 && uint64(written)%c.progress == 0 {
			log.Printf("Progress: %d/%d %.2f%%", written, total,
				float64(written)/float64(total)*100)
		}
		if ts > math.MaxInt64-r.Step {
			break
		}
	}

	return written, nil
}

func writeSample(st history.Store, id uint64, ts time.Time, kind historytools.ValueKind) error {
	switch kind {
	case historytools.KindUint:
		return st.AddUint(id, ts, UintValue)
	case historytools.KindFloat:
		return st.AddFloat(id, ts, FloatValue)
	case historytools.KindString:
		return st.AddString(id, ts, StringValue)
	}
	return ErrUnknownValueType
}
