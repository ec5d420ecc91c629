package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FormatInvariance(t *testing.T) {
	// every textual variant of the same wall-clock instant must normalize
	// to the identical epoch value
	want := time.Date(2026, time.February, 13, 5, 50, 0, 0, time.UTC).UnixMilli()

	variants := []string{
		"2026-02-13 05:50:00+00",
		"2026-02-13 05:50:00+00:00",
		"2026-02-13T05:50:00+00",
		"2026-02-13T05:50:00+00:00",
		"2026-02-13T05:50:00Z",
		"2026-02-13 05:50:00Z",
		"2026-02-13 05:50:00",
		"2026-02-13T05:50:00",
		"2026-02-13 05:50:00.000+00",
		"2026-02-13 05:50:00.0Z",
		"2026-02-13 06:50:00+01",
		"2026-02-13 06:50:00+01:00",
		"2026-02-13 04:50:00-01",
		"2026-02-13 04:20:00-01:30",
	}

	for _, v := range variants {
		got, ok := Normalize(v)
		assert.True(t, ok, "should parse %q", v)
		assert.Equal(t, want, got, "variant %q", v)
	}
}

func TestNormalize_FractionTruncation(t *testing.T) {
	base := time.Date(2026, time.February, 13, 5, 52, 6, 0, time.UTC).UnixMilli()

	tests := []struct {
		in     string
		millis int64
	}{
		{"2026-02-13 05:52:06.1+00", 100},
		{"2026-02-13 05:52:06.13+00", 130},
		{"2026-02-13 05:52:06.136+00", 136},
		{"2026-02-13 05:52:06.136236+00", 136},
		{"2026-02-13 05:52:06.9996+00", 999}, // truncated, never rounded
		{"2026-02-13 05:52:06.1362360000+00", 136},
	}

	for _, tc := range tests {
		got, ok := Normalize(tc.in)
		assert.True(t, ok, "should parse %q", tc.in)
		assert.Equal(t, base+tc.millis, got, "input %q", tc.in)
	}
}

func TestNormalize_Unparseable(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"2026-02-13",
		"2026/02/13 05:50:00",
		"2026-02-13 05:50",
		"2026-02-13 05:50:00.",
		"2026-02-13 05:50:00+0",
		"2026-02-13 05:50:00+00:0",
		"2026-02-13 05:50:00+00:00x",
		"2026-02-13 05:50:00Zx",
		"2026-02-13 25:50:00",
		"2026-13-13 05:50:00",
		"2026-02-13X05:50:00",
	}

	for _, in := range inputs {
		_, ok := Normalize(in)
		assert.False(t, ok, "should reject %q", in)
	}
}

func TestNormalize_OffsetDirection(t *testing.T) {
	// +02 means the instant is two hours earlier in UTC
	plus, ok := Normalize("2026-02-13 07:50:00+02")
	assert.True(t, ok)
	minus, ok := Normalize("2026-02-13 03:50:00-02")
	assert.True(t, ok)
	utc, ok := Normalize("2026-02-13 05:50:00Z")
	assert.True(t, ok)

	assert.Equal(t, utc, plus)
	assert.Equal(t, utc, minus)
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, time.February, 13, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{"2026-02-13 05:59:30+00", "just now"},
		{"2026-02-13 05:55:00+00", "5m ago"},
		{"2026-02-13 05:01:00+00", "59m ago"},
		{"2026-02-13 05:00:00+00", "1h ago"},
		{"2026-02-13 03:00:00+00", "3h ago"},
		{"2026-02-12 06:00:00+00", "24h ago"},
		{"2026-02-13 06:30:00+00", "just now"}, // future reads as just now
		{"not a timestamp", "just now"},        // no confident value
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, TimeAgo(tc.in, now), "input %q", tc.in)
	}
}
