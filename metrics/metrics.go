// Package metrics maps numeric history item IDs onto Graphite metric
// names and the relative paths of their Whisper DBs.
package metrics

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// DefaultPrefix is the metric name prefix for generated items.
const DefaultPrefix = "hgl.dummy"

// IDToMetric returns the metric name for the item id under prefix.  An
// empty prefix yields the bare decimal id.
func IDToMetric(prefix string, id uint64) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		return strconv.FormatUint(id, 10)
	}
	return fmt.Sprintf("%s.%d", prefix, id)
}

// MetricToPath takes a metric name and returns a path rooted at the
// given DB store.
func MetricToPath(root, metric string) string {
	return path.Join(root, MetricToRelative(metric))
}

// MetricToRelative take a metric name and returns a relative path
// to the Whisper DB.  This path combined with the root path to the
// DB store would create a proper absolute path.
func MetricToRelative(metric string) string {
	p := strings.Replace(metric, ".", "/", -1) + ".wsp"
	return path.Clean(p)
}
