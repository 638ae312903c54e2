package history

import (
	"fmt"
	"time"

	"github.com/nakabonne/tstorage"

	"github.com/go-graphite/historytools/metrics"
)

type tstorageStore struct {
	storage tstorage.Storage
	prefix  string
}

// openTStorage opens a tstorage database persisted under dir with second
// precision timestamps.
func openTStorage(dir string, opts *Options) (Store, error) {
	storage, err := tstorage.NewStorage(
		tstorage.WithDataPath(dir),
		tstorage.WithPartitionDuration(opts.Partition),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
	)
	if err != nil {
		return nil, err
	}

	return &tstorageStore{storage: storage, prefix: opts.Prefix}, nil
}

func (s *tstorageStore) insert(id uint64, ts time.Time, value float64) error {
	if s.storage == nil {
		return ErrClosed
	}
	return s.storage.InsertRows([]tstorage.Row{{
		Metric:    metrics.IDToMetric(s.prefix, id),
		DataPoint: tstorage.DataPoint{Timestamp: ts.Unix(), Value: value},
	}})
}

func (s *tstorageStore) AddUint(id uint64, ts time.Time, value uint64) error {
	return s.insert(id, ts, float64(value))
}

func (s *tstorageStore) AddFloat(id uint64, ts time.Time, value float64) error {
	return s.insert(id, ts, value)
}

func (s *tstorageStore) AddString(id uint64, ts time.Time, value string) error {
	return fmt.Errorf("tstorage: %w", ErrUnsupportedValue)
}

func (s *tstorageStore) Close() error {
	if s.storage == nil {
		return nil
	}
	err := s.storage.Close()
	s.storage = nil
	return err
}
