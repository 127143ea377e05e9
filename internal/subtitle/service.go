package subtitle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shapedtime/cuewords/internal/ass"
	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/dialogue"
	"github.com/shapedtime/cuewords/internal/metrics"
)

// Service turns a selection into a normalized episode timeline.
type Service struct {
	loader    Loader
	extractor dialogue.Extractor
	charset   string
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewService creates a subtitle service. m may be nil.
func NewService(loader Loader, extractor dialogue.Extractor, charset string, m *metrics.Metrics) *Service {
	return &Service{
		loader:    loader,
		extractor: extractor,
		charset:   charset,
		metrics:   m,
		log:       slog.With("component", "subtitle"),
	}
}

// Open loads, decodes and parses the episode's subtitle file and normalizes
// its dialogue events.
func (s *Service) Open(ctx context.Context, sel catalog.Selection) (*Episode, error) {
	started := time.Now()

	if err := sel.Validate(); err != nil {
		s.metrics.ObserveLoad(metrics.ResultNotFound, started, 0)
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	raw, err := s.loader.Load(ctx, sel)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, ErrNotFound) {
			result = metrics.ResultNotFound
		}
		s.metrics.ObserveLoad(result, started, 0)
		s.log.Warn("failed to load subtitle", "episode", sel.Key(), "error", err)
		return nil, err
	}

	content, err := Decode(raw, s.charset)
	if err != nil {
		s.metrics.ObserveLoad(metrics.ResultError, started, 0)
		return nil, err
	}

	script, err := ass.ParseString(content)
	if err != nil {
		s.metrics.ObserveLoad(metrics.ResultError, started, 0)
		s.log.Warn("failed to parse subtitle", "episode", sel.Key(), "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, sel.Key(), err)
	}

	tl := dialogue.NewTimeline(script.Events, s.extractor)
	ep := &Episode{
		Selection: sel,
		Key:       sel.Key(),
		Title:     script.Info["Title"],
		Items:     tl.Items,
		Duration:  tl.Duration,
		LoadedAt:  time.Now(),
	}

	s.metrics.ObserveLoad(metrics.ResultOK, started, len(ep.Items))
	s.log.Debug("subtitle opened",
		"episode", ep.Key,
		"events", len(script.Events),
		"items", len(ep.Items),
		"duration", ep.Duration,
	)
	return ep, nil
}
