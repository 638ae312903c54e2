package history

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	whisper "github.com/go-graphite/go-whisper"

	"github.com/go-graphite/historytools/metrics"
)

// Options tune how a backend is opened.  Zero values are not defaults,
// start from DefaultOptions().
type Options struct {
	// Prefix is prepended to item ids to build metric names for the
	// whisper, carbon and tstorage backends.
	Prefix string

	// Retentions is the whisper retention definition used for new DBs.
	Retentions string

	// Aggregation is the whisper aggregation method for new DBs.
	Aggregation string

	// XFilesFactor is the whisper xFilesFactor for new DBs.
	XFilesFactor float32

	// Timeout bounds carbon connects and each carbon write.
	Timeout time.Duration

	// Partition is the tstorage partition duration.
	Partition time.Duration
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		Prefix:       metrics.DefaultPrefix,
		Retentions:   "1s:1d,1m:30d",
		Aggregation:  "average",
		XFilesFactor: 0.5,
		Timeout:      30 * time.Second,
		Partition:    time.Hour,
	}
}

// ParseQuery overrides options from a URL query such as
// "retentions=10s:1d&xff=0".  Unknown keys are an error.
func (o *Options) ParseQuery(query string) error {
	if query == "" {
		return nil
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return err
	}

	for key, values := range q {
		v := values[len(values)-1]
		switch key {
		case "prefix":
			o.Prefix = v
		case "retentions":
			if _, err := whisper.ParseRetentionDefs(v); err != nil {
				return fmt.Errorf("bad retentions %q: %w", v, err)
			}
			o.Retentions = v
		case "aggregation":
			if _, err := aggregationMethod(v); err != nil {
				return err
			}
			o.Aggregation = v
		case "xff":
			f, err := strconv.ParseFloat(v, 32)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("bad xff %q: must be between 0 and 1", v)
			}
			o.XFilesFactor = float32(f)
		case "timeout":
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("bad timeout %q: %w", v, err)
			}
			o.Timeout = d
		case "partition":
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("bad partition %q", v)
			}
			o.Partition = d
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}

	return nil
}

func aggregationMethod(name string) (whisper.AggregationMethod, error) {
	switch name {
	case "average":
		return whisper.Average, nil
	case "sum":
		return whisper.Sum, nil
	case "last":
		return whisper.Last, nil
	case "max":
		return whisper.Max, nil
	case "min":
		return whisper.Min, nil
	}
	return whisper.Average, fmt.Errorf("unsupported aggregation method %q", name)
}
