// Package ass parses SubStation Alpha (.ass/.ssa) subtitle scripts into
// timed events whose text is split into styled runs.
package ass

import (
	"errors"
	"time"
)

var (
	ErrMissingEvents    = errors.New("missing [Events] section")
	ErrMissingFormat    = errors.New("missing format line")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidLine      = errors.New("invalid data line")
)

// ForcedLineBreak is the ASS hard line break escape.
const ForcedLineBreak = `\N`

// Tag is one override tag such as \fnArial (Name "fn", Value "Arial").
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Run is a contiguous text fragment together with the override tags of the
// {...} block that precedes it.
type Run struct {
	Text string `json:"text"`
	Tags []Tag  `json:"tags,omitempty"`
}

// Font returns the last \fn value of the run, or "" when the run does not
// switch font.
func (r Run) Font() string {
	font := ""
	for _, t := range r.Tags {
		if t.Name == "fn" {
			font = t.Value
		}
	}
	return font
}

// HasTag reports whether the run carries tag name with the given value.
func (r Run) HasTag(name, value string) bool {
	for _, t := range r.Tags {
		if t.Name == name && t.Value == value {
			return true
		}
	}
	return false
}

// Style is one row of the [V4+ Styles] table.
type Style struct {
	Name     string
	FontName string
	Fields   map[string]string
}

// Event is one Dialogue line of the [Events] section.
type Event struct {
	Line   int
	Layer  int
	Start  time.Duration
	End    time.Duration
	Style  string
	Name   string
	Effect string
	Text   string
	Runs   []Run
}

// Script is a parsed subtitle script.
type Script struct {
	Info   map[string]string
	Styles []Style
	Events []Event
}

// StyleByName returns the style with the given name.
func (s *Script) StyleByName(name string) (*Style, bool) {
	for i := range s.Styles {
		if s.Styles[i].Name == name {
			return &s.Styles[i], true
		}
	}
	return nil, false
}
