// Package dialogue reduces parsed subtitle events to an ordered list of
// bilingual lines and answers which line is active at a playback time.
package dialogue

import (
	"sort"
	"time"

	"github.com/shapedtime/cuewords/internal/ass"
)

// Item is one bilingual dialogue line.
type Item struct {
	Start   time.Duration
	End     time.Duration
	Chinese string
	English string
}

// Normalize extracts a bilingual Item from every event and keeps only those
// with both languages present. Source order is preserved; items are not
// re-sorted.
func Normalize(events []ass.Event, ex Extractor) []Item {
	items := make([]Item, 0, len(events))
	for _, ev := range events {
		chinese, english := ex.Extract(ev.Runs)
		if chinese == "" || english == "" {
			continue
		}
		items = append(items, Item{
			Start:   ev.Start,
			End:     ev.End,
			Chinese: chinese,
			English: english,
		})
	}
	return items
}

// Duration returns the largest event end plus one second, or zero when there
// are no events. All raw events count, including those Normalize drops.
func Duration(events []ass.Event) time.Duration {
	if len(events) == 0 {
		return 0
	}
	var maxEnd time.Duration
	for _, ev := range events {
		if ev.End > maxEnd {
			maxEnd = ev.End
		}
	}
	return maxEnd + time.Second
}

// Locate returns the index of the last item whose Start is <= t. When t is
// before every item it still returns 0; only an empty list yields false.
//
// items must be sorted by Start. Unsorted input is not detected and gives an
// arbitrary index: the scan stops at the first item starting after t.
func Locate(items []Item, t time.Duration) (int, bool) {
	if len(items) == 0 {
		return -1, false
	}
	idx := 0
	for i := range items {
		if items[i].Start > t {
			break
		}
		idx = i
	}
	return idx, true
}

// LocateSorted is Locate using binary search. Results are identical for
// sorted input.
func LocateSorted(items []Item, t time.Duration) (int, bool) {
	if len(items) == 0 {
		return -1, false
	}
	// first index with Start > t
	n := sort.Search(len(items), func(i int) bool {
		return items[i].Start > t
	})
	if n == 0 {
		return 0, true
	}
	return n - 1, true
}

// Timeline is the derived state of one episode.
type Timeline struct {
	Items    []Item
	Duration time.Duration
}

// NewTimeline normalizes events and computes the duration.
func NewTimeline(events []ass.Event, ex Extractor) *Timeline {
	return &Timeline{
		Items:    Normalize(events, ex),
		Duration: Duration(events),
	}
}

// Clamp limits t to [0, Duration].
func (tl *Timeline) Clamp(t time.Duration) time.Duration {
	if t < 0 {
		return 0
	}
	if t > tl.Duration {
		return tl.Duration
	}
	return t
}

// Active returns the active item at t (clamped) and its index.
func (tl *Timeline) Active(t time.Duration) (Item, int, bool) {
	idx, ok := LocateSorted(tl.Items, tl.Clamp(t))
	if !ok {
		return Item{}, -1, false
	}
	return tl.Items[idx], idx, true
}

// Len returns the number of items.
func (tl *Timeline) Len() int {
	return len(tl.Items)
}
