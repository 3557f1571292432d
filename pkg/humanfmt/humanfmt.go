// Package humanfmt provides human-readable formatting for bytes, latencies,
// and rates in benchmark output.
package humanfmt

import (
	"fmt"
	"strconv"
	"time"
)

// Binary (IEC) units for bytes.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

// unit is one step of a scale, largest first.
type unit struct {
	size   float64
	suffix string
}

var (
	byteUnits = []unit{{TiB, " TiB"}, {GiB, " GiB"}, {MiB, " MiB"}, {KiB, " KiB"}}
	siUnits   = []unit{{1e9, "B"}, {1e6, "M"}, {1e3, "K"}}
)

// scale formats v in the largest unit it reaches, with two decimals.
func scale(v float64, units []unit) (string, bool) {
	for _, u := range units {
		if v >= u.size {
			return fmt.Sprintf("%.2f%s", v/u.size, u.suffix), true
		}
	}
	return "", false
}

// Bytes formats a byte count using IEC binary units, e.g. "1.23 GiB".
func Bytes(b int64) string {
	if s, ok := scale(float64(b), byteUnits); ok {
		return s
	}
	return fmt.Sprintf("%d B", b)
}

// latencyUnits are the sub-minute steps of Duration.
var latencyUnits = []struct {
	size   time.Duration
	suffix string
	prec   int
}{
	{time.Second, "s", 2},
	{time.Millisecond, "ms", 2},
	{time.Microsecond, "µs", 1},
}

// Duration formats a latency with enough precision to compare benchmark runs.
// Examples: "1.23s", "45.62ms", "789.0µs", "1m30s", "2h15m".
func Duration(d time.Duration) string {
	if d < 0 {
		return d.String()
	}
	if d >= time.Hour {
		return compound(d/time.Hour, "h", (d%time.Hour)/time.Minute, "m")
	}
	if d >= time.Minute {
		return compound(d/time.Minute, "m", (d%time.Minute)/time.Second, "s")
	}
	for _, u := range latencyUnits {
		if d >= u.size {
			return strconv.FormatFloat(float64(d)/float64(u.size), 'f', u.prec, 64) + u.suffix
		}
	}
	return fmt.Sprintf("%dns", d.Nanoseconds())
}

// compound formats "<major><a>[<minor><b>]", dropping a zero minor part.
func compound(major time.Duration, a string, minor time.Duration, b string) string {
	if minor == 0 {
		return fmt.Sprintf("%d%s", major, a)
	}
	return fmt.Sprintf("%d%s%d%s", major, a, minor, b)
}

// Throughput formats bytes per duration, e.g. "123.40 MiB/s".
func Throughput(bytes int64, d time.Duration) string {
	if d <= 0 {
		return "∞"
	}
	perSec := float64(bytes) / d.Seconds()
	if s, ok := scale(perSec, byteUnits); ok {
		return s + "/s"
	}
	return fmt.Sprintf("%.0f B/s", perSec)
}

// Count formats a count with decimal SI suffixes.
// Examples: "1.23M", "456.00K", "789".
func Count(n int64) string {
	if s, ok := scale(float64(n), siUnits); ok {
		return s
	}
	return strconv.FormatInt(n, 10)
}

// Rate formats n events per duration, e.g. "1.25K/s" slices per second.
func Rate(n int64, d time.Duration) string {
	if d <= 0 {
		return "∞"
	}
	perSec := float64(n) / d.Seconds()
	if perSec < 1000 {
		return fmt.Sprintf("%.1f/s", perSec)
	}
	return Count(int64(perSec)) + "/s"
}
