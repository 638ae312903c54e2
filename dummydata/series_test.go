package dummydata

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-graphite/historytools"
	"github.com/go-graphite/historytools/history"
)

type sample struct {
	id    uint64
	ts    time.Time
	value interface{}
}

// memStore records every write.  If failAt is above zero the write with
// that 1-based number fails.
type memStore struct {
	samples  []sample
	attempts int
	failAt   int
	closed   int
}

var errWrite = errors.New("write rejected")

func (m *memStore) add(id uint64, ts time.Time, value interface{}) error {
	m.attempts++
	if m.attempts == m.failAt {
		return errWrite
	}
	m.samples = append(m.samples, sample{id, ts, value})
	return nil
}

func (m *memStore) AddUint(id uint64, ts time.Time, value uint64) error {
	return m.add(id, ts, value)
}

func (m *memStore) AddFloat(id uint64, ts time.Time, value float64) error {
	return m.add(id, ts, value)
}

func (m *memStore) AddString(id uint64, ts time.Time, value string) error {
	return m.add(id, ts, value)
}

func (m *memStore) Close() error {
	m.closed++
	return nil
}

var _ history.Store = (*memStore)(nil)

func TestWriteSeriesCount(t *testing.T) {
	ranges := []TimeRange{
		{1000, 1004, 2},
		{1000, 1005, 2},
		{100, 100, 5},
		{0, 59, 60},
		{-30, 30, 7},
		{0, 999, 1},
	}
	for _, r := range ranges {
		st := new(memStore)
		n, err := WriteSeries(st, 1, r, historytools.KindUint)
		if err != nil {
			t.Fatalf("%+v: %s", r, err)
		}
		expected := int((r.End-r.Begin)/r.Step + 1)
		if n != expected || len(st.samples) != expected {
			t.Errorf("%+v: wrote %d (%d reported) samples rather than %d",
				r, len(st.samples), n, expected)
		}
		if r.Planned() != uint64(expected) {
			t.Errorf("%+v: Planned() = %d rather than %d", r, r.Planned(), expected)
		}
	}
}

func TestWriteSeriesValues(t *testing.T) {
	expected := map[historytools.ValueKind]interface{}{
		historytools.KindUint:   uint64(1),
		historytools.KindFloat:  float64(1.0),
		historytools.KindString: "dummy",
	}
	for kind, value := range expected {
		st := new(memStore)
		if _, err := WriteSeries(st, 42, TimeRange{1000, 1004, 2}, kind); err != nil {
			t.Fatal(err)
		}
		for i, s := range st.samples {
			if s.id != 42 || s.ts.Unix() != 1000+int64(i)*2 || s.ts.Nanosecond() != 0 {
				t.Errorf("%s sample %d: id %d at %s", kind, i, s.id, s.ts)
			}
			if s.value != value {
				t.Errorf("%s sample %d has value %#v rather than %#v", kind, i, s.value, value)
			}
		}
	}
}

func TestWriteSeriesEmptyRange(t *testing.T) {
	for _, step := range []int64{1, 0, -1} {
		st := new(memStore)
		n, err := WriteSeries(st, 1, TimeRange{50, 40, step}, historytools.KindString)
		if err != nil {
			t.Errorf("Empty range with step %d failed: %s", step, err)
		}
		if n != 0 || st.attempts != 0 {
			t.Errorf("Empty range with step %d wrote %d samples", step, st.attempts)
		}
	}
}

func TestWriteSeriesInvalidStep(t *testing.T) {
	for _, step := range []int64{0, -5} {
		st := new(memStore)
		_, err := WriteSeries(st, 1, TimeRange{0, 10, step}, historytools.KindUint)
		if !errors.Is(err, ErrInvalidStep) {
			t.Errorf("Step %d returned %v rather than ErrInvalidStep", step, err)
		}
		if st.attempts != 0 {
			t.Errorf("Step %d attempted %d writes", step, st.attempts)
		}
	}
}

func TestWriteSeriesPreconditions(t *testing.T) {
	if _, err := WriteSeries(nil, 1, TimeRange{0, 1, 1}, historytools.KindUint); !errors.Is(err, ErrNoStore) {
		t.Errorf("Nil store returned %v", err)
	}

	st := new(memStore)
	_, err := WriteSeries(st, 1, TimeRange{0, 1, 1}, historytools.ValueKind(9))
	if !errors.Is(err, ErrUnknownValueType) {
		t.Errorf("Unknown value kind returned %v", err)
	}
	if st.attempts != 0 {
		t.Errorf("Unknown value kind attempted %d writes", st.attempts)
	}
}

func TestWriteSeriesFailFast(t *testing.T) {
	for k := 1; k <= 5; k++ {
		st := &memStore{failAt: k}
		n, err := WriteSeries(st, 1, TimeRange{0, 9, 1}, historytools.KindFloat)
		if err == nil {
			t.Fatalf("Failure on write %d was not reported", k)
		}
		if st.attempts != k {
			t.Errorf("Failure on write %d: %d writes attempted", k, st.attempts)
		}
		if n != k-1 {
			t.Errorf("Failure on write %d: reported %d successful writes", k, n)
		}

		var werr *WriteError
		if !errors.As(err, &werr) {
			t.Fatalf("Error is %T rather than *WriteError", err)
		}
		if werr.Kind != historytools.KindFloat || werr.Time != int64(k-1) || !errors.Is(err, errWrite) {
			t.Errorf("Unexpected write error: %s", err)
		}
	}
}

func TestWriteSeriesNoOverflow(t *testing.T) {
	st := new(memStore)
	r := TimeRange{math.MaxInt64 - 2, math.MaxInt64, 2}
	n, err := WriteSeries(st, 1, r, historytools.KindUint)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Wrote %d samples at the end of time rather than 2", n)
	}
}

func TestWriteSeriesProgress(t *testing.T) {
	st := new(memStore)
	n, err := WriteSeries(st, 1, TimeRange{0, 99, 1}, historytools.KindUint, WithProgress(10))
	if err != nil {
		t.Fatal(err)
	}
	if n != 100 {
		t.Errorf("Progress reporting changed the write count: %d", n)
	}
}

func TestPlannedEmpty(t *testing.T) {
	if n := (TimeRange{10, 0, 1}).Planned(); n != 0 {
		t.Errorf("Planned() on an empty range = %d", n)
	}
	if n := (TimeRange{0, 10, 0}).Planned(); n != 0 {
		t.Errorf("Planned() with zero step = %d", n)
	}
	if n := (TimeRange{math.MinInt64, math.MaxInt64, math.MaxInt64}).Planned(); n != 3 {
		t.Errorf("Planned() over the whole range = %d rather than 3", n)
	}
}
