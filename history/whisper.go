package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	whisper "github.com/go-graphite/go-whisper"

	"github.com/go-graphite/historytools/lock"
	"github.com/go-graphite/historytools/metrics"
)

// whisperStore keeps one open Whisper DB per item id under root.  The
// root directory is flock()ed while the store is open.
type whisperStore struct {
	root        string
	prefix      string
	retentions  whisper.Retentions
	aggregation whisper.AggregationMethod
	xff         float32
	lock        *lock.File
	files       map[uint64]*whisper.Whisper
}

func openWhisper(root string, opts *Options) (Store, error) {
	retentions, err := whisper.ParseRetentionDefs(opts.Retentions)
	if err != nil {
		return nil, fmt.Errorf("bad retentions %q: %w", opts.Retentions, err)
	}
	agg, err := aggregationMethod(opts.Aggregation)
	if err != nil {
		return nil, err
	}

	l, err := lock.TryDir(root)
	if lock.IsResourceUnavailable(err) {
		return nil, ErrLocked
	} else if err != nil {
		return nil, err
	}

	return &whisperStore{
		root:        root,
		prefix:      opts.Prefix,
		retentions:  retentions,
		aggregation: agg,
		xff:         opts.XFilesFactor,
		lock:        l,
		files:       make(map[uint64]*whisper.Whisper),
	}, nil
}

// Path returns the Whisper DB path for an item id.
func (w *whisperStore) Path(id uint64) string {
	return metrics.MetricToPath(w.root, metrics.IDToMetric(w.prefix, id))
}

// file opens, or creates on first use, the Whisper DB for id.
func (w *whisperStore) file(id uint64) (*whisper.Whisper, error) {
	if wsp, ok := w.files[id]; ok {
		return wsp, nil
	}

	path := w.Path(id)
	wsp, err := whisper.Open(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		wsp, err = whisper.Create(path, w.retentions, w.aggregation, w.xff)
	}
	if err != nil {
		return nil, err
	}

	w.files[id] = wsp
	return wsp, nil
}

func (w *whisperStore) update(id uint64, ts time.Time, value float64) error {
	if w.files == nil {
		return ErrClosed
	}
	wsp, err := w.file(id)
	if err != nil {
		return err
	}
	return wsp.Update(value, int(ts.Unix()))
}

func (w *whisperStore) AddUint(id uint64, ts time.Time, value uint64) error {
	return w.update(id, ts, float64(value))
}

func (w *whisperStore) AddFloat(id uint64, ts time.Time, value float64) error {
	return w.update(id, ts, value)
}

func (w *whisperStore) AddString(id uint64, ts time.Time, value string) error {
	return fmt.Errorf("whisper: %w", ErrUnsupportedValue)
}

func (w *whisperStore) Close() error {
	if w.files == nil {
		return nil
	}
	for _, wsp := range w.files {
		wsp.Close()
	}
	w.files = nil
	return w.lock.Release()
}
