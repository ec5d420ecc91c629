package timeutil

import (
	"fmt"
	"time"
)

// Normalize parses a timestamp string as the store emits it and returns the
// UTC instant in epoch milliseconds. Postgres text output comes in several
// shapes ("2026-02-13 05:52:06.136236+00", with a T separator, with a Z,
// with or without fractional seconds) and some of them are not valid ISO
// 8601, so they are parsed field by field here instead of with layouts.
// The second return is false when the input does not match any accepted
// shape; callers treat that as "no confident value", never as an error.
func Normalize(s string) (int64, bool) {
	if len(s) < 19 {
		return 0, false
	}

	if s[4] != '-' || s[7] != '-' || s[13] != ':' || s[16] != ':' {
		return 0, false
	}
	if s[10] != ' ' && s[10] != 'T' {
		return 0, false
	}

	year, ok := digits(s[0:4])
	if !ok {
		return 0, false
	}
	month, ok := digits(s[5:7])
	if !ok || month < 1 || month > 12 {
		return 0, false
	}
	day, ok := digits(s[8:10])
	if !ok || day < 1 || day > 31 {
		return 0, false
	}
	hour, ok := digits(s[11:13])
	if !ok || hour > 23 {
		return 0, false
	}
	minute, ok := digits(s[14:16])
	if !ok || minute > 59 {
		return 0, false
	}
	second, ok := digits(s[17:19])
	if !ok || second > 59 {
		return 0, false
	}

	i := 19

	// Fractional seconds: any number of digits, truncated to milliseconds.
	// ".1" means 100ms and ".136236" means 136ms; truncate, never round.
	millis := 0
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return 0, false
		}
		frac := s[start:i]
		for len(frac) < 3 {
			frac += "0"
		}
		millis, ok = digits(frac[:3])
		if !ok {
			return 0, false
		}
	}

	// Timezone: absent means UTC, "Z" means UTC, "+HH" / "+HH:MM" is an
	// offset east of UTC (so the UTC instant is that much earlier).
	offsetMin := 0
	switch {
	case i == len(s):
	case s[i] == 'Z' && i+1 == len(s):
	case s[i] == '+' || s[i] == '-':
		sign := 1
		if s[i] == '-' {
			sign = -1
		}
		i++
		if i+2 > len(s) {
			return 0, false
		}
		oh, ok := digits(s[i : i+2])
		if !ok {
			return 0, false
		}
		i += 2
		om := 0
		if i < len(s) {
			if s[i] != ':' || i+3 != len(s) {
				return 0, false
			}
			om, ok = digits(s[i+1 : i+3])
			if !ok {
				return 0, false
			}
		}
		offsetMin = sign * (oh*60 + om)
	default:
		return 0, false
	}

	utc := time.Date(year, time.Month(month), day, hour, minute, second, millis*int(time.Millisecond), time.UTC)
	return utc.UnixMilli() - int64(offsetMin)*60_000, true
}

// TimeAgo renders a store timestamp as a short relative string for the feed.
// Unparseable or future instants collapse to "just now".
func TimeAgo(s string, now time.Time) string {
	ms, ok := Normalize(s)
	if !ok {
		return "just now"
	}

	seconds := (now.UnixMilli() - ms) / 1000
	if seconds < 60 {
		return "just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	return fmt.Sprintf("%dh ago", minutes/60)
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
