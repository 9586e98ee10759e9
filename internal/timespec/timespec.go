// Package timespec parses the CLI's time specification syntax into
// nanoseconds since the Unix epoch: either a relative duration
// (`<int><s|m|h|d>`, meaning "now minus that duration") or an absolute
// RFC3339 timestamp.
package timespec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var units = []struct {
	suffix     string
	multiplier time.Duration
}{
	{"s", time.Second},
	{"m", time.Minute},
	{"h", time.Hour},
	{"d", 24 * time.Hour},
}

// Parse converts s into nanoseconds since the epoch, using now as the
// reference point for relative specs.
func Parse(s string, now time.Time) (uint64, error) {
	trimmed := strings.TrimSpace(s)

	for _, u := range units {
		if numStr, ok := strings.CutSuffix(trimmed, u.suffix); ok {
			n, err := strconv.ParseUint(numStr, 10, 64)
			if err == nil {
				delta := time.Duration(n) * u.multiplier
				return uint64(now.Add(-delta).UnixNano()), nil
			}
		}
	}

	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid time spec %q: %w", s, err)
	}
	return uint64(t.UnixNano()), nil
}

// ParseNow is Parse with the reference point fixed to the current time.
func ParseNow(s string) (uint64, error) {
	return Parse(s, time.Now())
}

// Format renders nanos as an RFC3339 timestamp (millisecond precision), or
// "N/A" for the zero timestamp.
func Format(nanos uint64) string {
	if nanos == 0 {
		return "N/A"
	}
	t := time.Unix(0, int64(nanos)).UTC()
	return t.Format("2006-01-02T15:04:05.000Z07:00")
}
