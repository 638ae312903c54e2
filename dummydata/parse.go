package dummydata

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseUint64 parses an item id given in decimal or, with a "0x" prefix,
// hexadecimal.  Like scanf() the longest run of leading digits is used
// and trailing garbage is ignored.  ok is false when no digits could be
// read or the value does not fit in 64 bits.
func ParseUint64(s string) (value uint64, ok bool) {
	base := 10
	if len(s) > 2 && strings.HasPrefix(s, "0x") {
		base = 16
		s = s[2:]
	}

	n := 0
	for n < len(s) && isDigit(s[n], base) {
		n++
	}
	if n == 0 {
		return 0, false
	}

	value, err := strconv.ParseUint(s[:n], base, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// ParseTime parses a signed decimal number of seconds.
func ParseTime(s string) (int64, error) {
	t, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse time: %s", s)
	}
	return t, nil
}
