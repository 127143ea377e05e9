package common

import (
	"strconv"
	"strings"
	"time"
)

// PadZero pads an integer with leading zeros to reach the specified width.
func PadZero(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// JoinURL joins a base URL and a relative path with exactly one slash between them.
func JoinURL(base, rel string) string {
	if base == "" {
		return rel
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}

// FormatTimestamp renders a playback position as MM:SS or HH:MM:SS,
// optionally followed by :cc hundredths.
func FormatTimestamp(d time.Duration, withHundredths bool) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	cs := int(d % time.Second / (10 * time.Millisecond))

	var b strings.Builder
	if h > 0 {
		b.WriteString(PadZero(h, 2))
		b.WriteByte(':')
	}
	b.WriteString(PadZero(m, 2))
	b.WriteByte(':')
	b.WriteString(PadZero(s, 2))
	if withHundredths {
		b.WriteByte(':')
		b.WriteString(PadZero(cs, 2))
	}
	return b.String()
}

// Seconds converts a float number of seconds into a duration.
func Seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
