package history

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"time"

	pickle "github.com/kisielk/og-rek"

	"github.com/go-graphite/historytools/metrics"
)

// carbonStore sends every sample to a carbon daemon as soon as it is
// written.  Only numeric values can be expressed in either protocol.
type carbonStore struct {
	conn    net.Conn
	prefix  string
	timeout time.Duration
	encode  func(metric string, ts int64, value interface{}) ([]byte, error)
}

func openCarbonPlain(addr string, opts *Options) (Store, error) {
	return dialCarbon(addr, opts, encodePlain)
}

func openCarbonPickle(addr string, opts *Options) (Store, error) {
	return dialCarbon(addr, opts, encodePickle)
}

func dialCarbon(addr string, opts *Options,
	encode func(string, int64, interface{}) ([]byte, error)) (Store, error) {
	conn, err := net.DialTimeout("tcp", addr, opts.Timeout)
	if err != nil {
		return nil, err
	}

	return &carbonStore{
		conn:    conn,
		prefix:  opts.Prefix,
		timeout: opts.Timeout,
		encode:  encode,
	}, nil
}

// encodePlain builds a plaintext protocol line: "metric value timestamp\n"
func encodePlain(metric string, ts int64, value interface{}) ([]byte, error) {
	var v string
	switch t := value.(type) {
	case uint64:
		v = strconv.FormatUint(t, 10)
	case float64:
		v = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return nil, ErrUnsupportedValue
	}
	return []byte(fmt.Sprintf("%s %s %d\n", metric, v, ts)), nil
}

// encodePickle builds a pickle protocol frame: a 4 byte big endian
// length (!L) followed by the pickled [(metric, (timestamp, value))].
func encodePickle(metric string, ts int64, value interface{}) ([]byte, error) {
	var v interface{}
	switch t := value.(type) {
	case uint64:
		if t > 1<<63-1 {
			return nil, fmt.Errorf("value %d too large for pickle", t)
		}
		v = int64(t)
	case float64:
		v = t
	default:
		return nil, ErrUnsupportedValue
	}

	payload := new(bytes.Buffer)
	object := []interface{}{
		[]interface{}{metric, []interface{}{ts, v}},
	}
	if err := pickle.NewEncoder(payload).Encode(object); err != nil {
		return nil, err
	}

	frame := make([]byte, 4, 4+payload.Len())
	binary.BigEndian.PutUint32(frame, uint32(payload.Len()))
	return append(frame, payload.Bytes()...), nil
}

func (c *carbonStore) send(id uint64, ts time.Time, value interface{}) error {
	if c.conn == nil {
		return ErrClosed
	}
	data, err := c.encode(metrics.IDToMetric(c.prefix, id), ts.Unix(), value)
	if err != nil {
		return err
	}

	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return err
		}
	}
	_, err = c.conn.Write(data)
	return err
}

func (c *carbonStore) AddUint(id uint64, ts time.Time, value uint64) error {
	return c.send(id, ts, value)
}

func (c *carbonStore) AddFloat(id uint64, ts time.Time, value float64) error {
	return c.send(id, ts, value)
}

func (c *carbonStore) AddString(id uint64, ts time.Time, value string) error {
	return fmt.Errorf("carbon: %w", ErrUnsupportedValue)
}

func (c *carbonStore) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
