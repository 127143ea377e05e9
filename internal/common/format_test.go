package common

import (
	"testing"
	"time"
)

func TestPadZero(t *testing.T) {
	tests := []struct {
		n, width int
		want     string
	}{
		{3, 2, "03"},
		{7, 2, "07"},
		{10, 2, "10"},
		{123, 2, "123"},
		{0, 2, "00"},
	}

	for _, tt := range tests {
		if got := PadZero(tt.n, tt.width); got != tt.want {
			t.Errorf("PadZero(%d, %d) = %q, want %q", tt.n, tt.width, got, tt.want)
		}
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		rel  string
		want string
	}{
		{"empty base", "", "subtitles/S01E01.ass", "subtitles/S01E01.ass"},
		{"plain", "http://host", "subtitles/S01E01.ass", "http://host/subtitles/S01E01.ass"},
		{"trailing slash", "http://host/", "/subtitles/S01E01.ass", "http://host/subtitles/S01E01.ass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinURL(tt.base, tt.rel); got != tt.want {
				t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		ms   bool
		want string
	}{
		{"zero", 0, true, "00:00:00"},
		{"zero short", 0, false, "00:00"},
		{"minutes", 83*time.Second + 450*time.Millisecond, true, "01:23:45"},
		{"minutes short", 83*time.Second + 450*time.Millisecond, false, "01:23"},
		{"hours", time.Hour + 2*time.Minute + 3*time.Second, false, "01:02:03"},
		{"negative", -time.Second, false, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.d, tt.ms); got != tt.want {
				t.Errorf("FormatTimestamp(%v, %v) = %q, want %q", tt.d, tt.ms, got, tt.want)
			}
		})
	}
}
