package humanfmt

import (
	"testing"
	"time"
)

func TestBytesScale(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{KiB, "1.00 KiB"},
		{64*MiB + 512*KiB, "64.50 MiB"},
		{3 * GiB / 2, "1.50 GiB"},
		{2 * TiB, "2.00 TiB"},
		{-100, "-100 B"},
	}

	for _, tt := range tests {
		if got := Bytes(tt.input); got != tt.want {
			t.Errorf("Bytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// Summary lines compare loaders whose medians differ by fractions of a
// millisecond, so sub-second latencies keep two decimals.
func TestDurationLatencyPrecision(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0ns"},
		{850 * time.Nanosecond, "850ns"},
		{400 * time.Microsecond, "400.0µs"},
		{1250 * time.Microsecond, "1.25ms"},
		{12346 * time.Microsecond, "12.35ms"},
		{12344 * time.Microsecond, "12.34ms"},
		{999990 * time.Microsecond, "999.99ms"},
		{2004 * time.Millisecond, "2.00s"},
		{59 * time.Second, "59.00s"},
	}

	for _, tt := range tests {
		if got := Duration(tt.input); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDurationCompound(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{time.Minute, "1m"},
		{90 * time.Second, "1m30s"},
		{time.Hour, "1h"},
		{135 * time.Minute, "2h15m"},
		{-time.Second, "-1s"},
	}

	for _, tt := range tests {
		if got := Duration(tt.input); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestThroughputAndCount(t *testing.T) {
	if got := Throughput(0, 0); got != "∞" {
		t.Errorf("Throughput with zero duration = %q", got)
	}
	if got := Throughput(100*MiB, 2*time.Second); got != "50.00 MiB/s" {
		t.Errorf("Throughput = %q, want 50.00 MiB/s", got)
	}
	if got := Throughput(500, time.Second); got != "500 B/s" {
		t.Errorf("Throughput = %q, want 500 B/s", got)
	}

	counts := map[int64]string{
		999:        "999",
		10000:      "10.00K",
		2500000:    "2.50M",
		1000000000: "1.00B",
		-5:         "-5",
	}
	for n, want := range counts {
		if got := Count(n); got != want {
			t.Errorf("Count(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		n    int64
		d    time.Duration
		want string
	}{
		{50, time.Second, "50.0/s"},
		{50, 100 * time.Millisecond, "500.0/s"},
		{50, 40 * time.Millisecond, "1.25K/s"},
		{1, 3 * time.Second, "0.3/s"},
		{5000, time.Second, "5.00K/s"},
		{2000000, time.Second, "2.00M/s"},
		{1, 0, "∞"},
		{1, -time.Second, "∞"},
	}

	for _, tt := range tests {
		if got := Rate(tt.n, tt.d); got != tt.want {
			t.Errorf("Rate(%d, %v) = %q, want %q", tt.n, tt.d, got, tt.want)
		}
	}
}

func BenchmarkDuration(b *testing.B) {
	medians := []time.Duration{
		400 * time.Microsecond,
		12 * time.Millisecond,
		1500 * time.Millisecond,
	}
	for i := range b.N {
		_ = Duration(medians[i%len(medians)])
	}
}
