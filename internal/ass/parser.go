package ass

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const maxLineSize = 1024 * 1024

type section int

const (
	sectionNone section = iota
	sectionInfo
	sectionStyles
	sectionEvents
)

type parseState struct {
	section     section
	hasEvents   bool
	styleFormat []string
	eventFormat []string
}

// Parse reads a whole script. Comment events and unknown sections are
// skipped; Dialogue lines keep their source order.
func Parse(r io.Reader) (*Script, error) {
	script := &Script{
		Info: make(map[string]string),
	}

	var s parseState
	lineNum := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if err := script.parseLine(&s, lineNum, line); err != nil {
			return nil, fmt.Errorf("failed to parse ass content at line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ass content: %w", err)
	}

	if !s.hasEvents {
		return nil, ErrMissingEvents
	}
	return script, nil
}

// ParseString is Parse over an in-memory script.
func ParseString(content string) (*Script, error) {
	return Parse(strings.NewReader(content))
}

func (sc *Script) parseLine(s *parseState, lineNum int, raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, ";") {
		return nil
	}

	if strings.HasPrefix(line, "[") {
		switch strings.ToLower(line) {
		case "[script info]":
			s.section = sectionInfo
		case "[v4+ styles]", "[v4 styles]":
			s.section = sectionStyles
			s.styleFormat = nil
		case "[events]":
			s.section = sectionEvents
			s.hasEvents = true
			s.eventFormat = nil
		default:
			s.section = sectionNone
		}
		return nil
	}

	switch s.section {
	case sectionInfo:
		if key, value, ok := strings.Cut(line, ":"); ok {
			sc.Info[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}

	case sectionStyles:
		switch {
		case startWith(line, "Format:"):
			s.styleFormat = parseFormat(line)
		case startWith(line, "Style:"):
			if s.styleFormat == nil {
				return ErrMissingFormat
			}
			fields, err := parseDataLine(line, s.styleFormat)
			if err != nil {
				return err
			}
			sc.Styles = append(sc.Styles, Style{
				Name:     fields["Name"],
				FontName: strings.TrimPrefix(fields["Fontname"], "@"),
				Fields:   fields,
			})
		}

	case sectionEvents:
		switch {
		case startWith(line, "Format:"):
			s.eventFormat = parseFormat(line)
		case startWith(line, "Dialogue:"):
			if s.eventFormat == nil {
				return ErrMissingFormat
			}
			ev, err := parseEvent(line, s.eventFormat)
			if err != nil {
				return err
			}
			ev.Line = lineNum
			sc.Events = append(sc.Events, *ev)
		}
	}
	return nil
}

func parseEvent(line string, format []string) (*Event, error) {
	fields, err := parseDataLine(line, format)
	if err != nil {
		return nil, err
	}

	start, err := ParseTimestamp(fields["Start"])
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := ParseTimestamp(fields["End"])
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	layer, _ := strconv.Atoi(fields["Layer"])
	text := fields["Text"]
	return &Event{
		Layer:  layer,
		Start:  start,
		End:    end,
		Style:  fields["Style"],
		Name:   fields["Name"],
		Effect: fields["Effect"],
		Text:   text,
		Runs:   SplitRuns(text),
	}, nil
}

// parseFormat parses a "Format:" line into its field names.
func parseFormat(line string) []string {
	_, rest, _ := strings.Cut(line, ":")
	names := strings.Split(strings.TrimSpace(rest), ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}

// parseDataLine maps a Style:/Dialogue: line onto the format fields. The last
// field (Text) keeps any commas it contains.
func parseDataLine(line string, format []string) (map[string]string, error) {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return nil, ErrInvalidLine
	}

	values := strings.SplitN(strings.TrimLeft(rest, " "), ",", len(format))
	if len(values) < len(format) {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidLine, len(format), len(values))
	}

	result := make(map[string]string, len(format))
	for i, name := range format {
		if name == "Text" {
			result[name] = values[i]
			continue
		}
		result[name] = strings.TrimSpace(values[i])
	}
	return result, nil
}

// ParseTimestamp parses H:MM:SS.cc into a duration.
func ParseTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || sec < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}

	// centisecond precision; round to avoid float drift (0.29 -> 289.999ms)
	cs := time.Duration(sec*100 + 0.5)
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + cs*10*time.Millisecond, nil
}

// startWith reports whether raw starts with prefix, ignoring case.
func startWith(raw string, prefix string) bool {
	return len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix)
}
