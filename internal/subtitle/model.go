package subtitle

import (
	"context"
	"errors"
	"time"

	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/dialogue"
)

var (
	// ErrNotFound means the episode has no subtitle file.
	ErrNotFound = errors.New("subtitle not found")
	// ErrTransport covers every other read failure.
	ErrTransport = errors.New("subtitle transport failed")
	// ErrDecode means the bytes could not be decoded or parsed.
	ErrDecode = errors.New("subtitle decode failed")
)

// Loader fetches the raw subtitle bytes of one episode. Implementations do
// not cache: every call performs one read.
type Loader interface {
	Load(ctx context.Context, sel catalog.Selection) ([]byte, error)
}

// Episode is a loaded and normalized subtitle timeline.
type Episode struct {
	Selection catalog.Selection
	Key       string
	Title     string
	Items     []dialogue.Item
	Duration  time.Duration
	LoadedAt  time.Time
}

// Timeline returns the episode's items as a dialogue.Timeline.
func (e *Episode) Timeline() *dialogue.Timeline {
	return &dialogue.Timeline{Items: e.Items, Duration: e.Duration}
}
