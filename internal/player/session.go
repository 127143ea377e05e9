// Package player holds the derived state of one viewer: the loaded episode,
// the slider and committed playback times and the words selected for lookup.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/debounce"
	"github.com/shapedtime/cuewords/internal/dialogue"
	"github.com/shapedtime/cuewords/internal/subtitle"
	"github.com/shapedtime/cuewords/internal/tokenize"
	"github.com/shapedtime/cuewords/internal/translate"
)

const (
	// ScrubDelay is how long the slider must rest before the time commits.
	ScrubDelay = 300 * time.Millisecond
	// JumpOffset places a clicked line's time just inside the line.
	JumpOffset = 10 * time.Millisecond
)

var (
	// ErrSuperseded is returned by Select when a newer selection started
	// while this one was loading. Its result is discarded.
	ErrSuperseded = errors.New("selection superseded")
	// ErrNoEpisode is returned when no episode is loaded.
	ErrNoEpisode = errors.New("no episode loaded")
)

// Opener loads an episode timeline.
type Opener interface {
	Open(ctx context.Context, sel catalog.Selection) (*subtitle.Episode, error)
}

// Session is safe for concurrent use.
type Session struct {
	opener     Opener
	translator translate.Translator
	debouncer  *debounce.Debouncer
	log        *slog.Logger

	mu        sync.Mutex
	gen       uint64
	selection *catalog.Selection
	timeline  *dialogue.Timeline
	slider    time.Duration
	current   time.Duration
	scrubSeq  uint64
	checked   map[int]map[int]bool // item index -> word index -> selected
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the debounce clock.
func WithClock(c debounce.Clock) Option {
	return func(s *Session) {
		s.debouncer = debounce.New(ScrubDelay, c)
	}
}

// NewSession creates a session. translator may be nil, in which case
// Lookup never returns a result.
func NewSession(opener Opener, translator translate.Translator, opts ...Option) *Session {
	s := &Session{
		opener:     opener,
		translator: translator,
		debouncer:  debounce.New(ScrubDelay, nil),
		log:        slog.With("component", "player"),
		checked:    make(map[int]map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select loads the subtitle timeline for sel. The previous timeline is
// cleared as soon as loading starts; on failure it stays cleared. If another
// Select begins before this one finishes, this result is dropped and
// ErrSuperseded is returned.
func (s *Session) Select(ctx context.Context, sel catalog.Selection) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.selection = &sel
	s.timeline = nil
	s.checked = make(map[int]map[int]bool)
	// a scrub still waiting on the old episode must not land on the new one
	s.debouncer.Stop()
	s.scrubSeq++
	s.mu.Unlock()

	ep, err := s.opener.Open(ctx, sel)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.Debug("discarding stale episode", "episode", sel.Key())
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", sel.Key(), err)
	}

	s.timeline = ep.Timeline()
	s.current = s.timeline.Clamp(s.current)
	s.slider = s.timeline.Clamp(s.slider)
	return nil
}

// Selection returns the current selection, if any.
func (s *Session) Selection() (catalog.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return catalog.Selection{}, false
	}
	return *s.selection, true
}

// Timeline returns the loaded timeline or nil.
func (s *Session) Timeline() *dialogue.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline
}

// Scrub moves the slider. The committed time follows once the slider has
// been still for ScrubDelay.
func (s *Session) Scrub(t time.Duration) {
	s.mu.Lock()
	if s.timeline != nil {
		t = s.timeline.Clamp(t)
	} else if t < 0 {
		t = 0
	}
	s.slider = t
	s.scrubSeq++
	seq := s.scrubSeq
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		s.mu.Lock()
		if seq == s.scrubSeq {
			if s.timeline != nil {
				t = s.timeline.Clamp(t)
			}
			s.current = t
		}
		s.mu.Unlock()
	})
}

// Jump commits the start of item index (plus JumpOffset) immediately and
// moves the slider there.
func (s *Session) Jump(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timeline == nil {
		return ErrNoEpisode
	}
	if index < 0 || index >= s.timeline.Len() {
		return fmt.Errorf("item %d out of range [0, %d)", index, s.timeline.Len())
	}

	s.debouncer.Stop()
	s.scrubSeq++
	t := s.timeline.Items[index].Start + JumpOffset
	s.current = t
	s.slider = t
	return nil
}

// Times returns the slider position and the committed time.
func (s *Session) Times() (slider, current time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slider, s.current
}

// Current returns the active item for the committed time.
func (s *Session) Current() (dialogue.Item, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Session) activeLocked() (dialogue.Item, int, bool) {
	if s.timeline == nil {
		return dialogue.Item{}, -1, false
	}
	return s.timeline.Active(s.current)
}

// Words returns the word tokens of the active English line.
func (s *Session) Words() []string {
	item, _, ok := s.Current()
	if !ok {
		return nil
	}
	return tokenize.Words(item.English)
}

// Toggle flips the selection of word i of the active line and reports the
// new state. Selections are remembered per line.
func (s *Session) Toggle(i int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, idx, ok := s.activeLocked()
	if !ok {
		return false, ErrNoEpisode
	}
	if n := len(tokenize.Words(item.English)); i < 0 || i >= n {
		return false, fmt.Errorf("word %d out of range [0, %d)", i, n)
	}

	words := s.checked[idx]
	if words == nil {
		words = make(map[int]bool)
		s.checked[idx] = words
	}
	words[i] = !words[i]
	return words[i], nil
}

// Selected returns the selected word indexes of the active line, ascending.
func (s *Session) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := s.activeLocked()
	if !ok {
		return nil
	}
	var out []int
	for i, on := range s.checked[idx] {
		if on {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// SelectedText joins the selected words of the active line.
func (s *Session) SelectedText() string {
	return tokenize.Join(tokenize.Select(s.Words(), s.Selected()))
}

// Lookup translates the selected words. Nothing selected means no request.
// Failures are logged and reported as no result.
func (s *Session) Lookup(ctx context.Context) *translate.Result {
	text := s.SelectedText()
	if text == "" || s.translator == nil {
		return nil
	}

	result, err := s.translator.Translate(ctx, text)
	if err != nil {
		s.log.Warn("lookup failed", "text", text, "error", err)
		return nil
	}
	return result
}

// Close cancels a pending scrub commit.
func (s *Session) Close() {
	s.debouncer.Stop()
}
