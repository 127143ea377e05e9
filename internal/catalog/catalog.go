// Package catalog holds the fixed season/episode table and the naming of
// per-episode subtitle resources.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/shapedtime/cuewords/internal/common"
)

// Sentinel errors for selection validation.
var (
	ErrUnknownSeason   = errors.New("unknown season")
	ErrEpisodeOutRange = errors.New("episode out of range")
)

// DefaultExtension is the subtitle file extension served for every episode.
const DefaultExtension = "ass"

// seasonEpisodes maps a season number (as its query-string form) to the
// number of episodes in that season.
var seasonEpisodes = map[string]int{
	"1":  24,
	"2":  24,
	"3":  25,
	"4":  24,
	"5":  24,
	"6":  25,
	"7":  24,
	"8":  24,
	"9":  23,
	"10": 17,
}

// Season describes one entry of the bounds table.
type Season struct {
	Number   int `json:"number"`
	Episodes int `json:"episodes"`
}

// Seasons returns the bounds table ordered by season number.
func Seasons() []Season {
	seasons := make([]Season, 0, len(seasonEpisodes))
	for key, count := range seasonEpisodes {
		n, _ := strconv.Atoi(key)
		seasons = append(seasons, Season{Number: n, Episodes: count})
	}
	sort.Slice(seasons, func(i, j int) bool {
		return seasons[i].Number < seasons[j].Number
	})
	return seasons
}

// Episodes returns the episode count for a season key ("1".."10").
func Episodes(season string) (int, bool) {
	n, ok := seasonEpisodes[season]
	return n, ok
}

// Selection identifies one episode.
type Selection struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// NewSelection validates season and episode against the bounds table.
func NewSelection(season, episode int) (Selection, error) {
	sel := Selection{Season: season, Episode: episode}
	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// Validate reports whether the selection falls inside the bounds table.
func (s Selection) Validate() error {
	count, ok := Episodes(strconv.Itoa(s.Season))
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSeason, s.Season)
	}
	if s.Episode < 1 || s.Episode > count {
		return fmt.Errorf("%w: season %d has %d episodes, got %d", ErrEpisodeOutRange, s.Season, count, s.Episode)
	}
	return nil
}

// Key returns the zero-padded S{ss}E{ee} identifier.
func (s Selection) Key() string {
	return "S" + common.PadZero(s.Season, 2) + "E" + common.PadZero(s.Episode, 2)
}

// FileName returns the subtitle file name for the selection.
func (s Selection) FileName(ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	return s.Key() + "." + ext
}

// Path returns the relative resource path, e.g. subtitles/S03E07.ass.
func (s Selection) Path(ext string) string {
	return "subtitles/" + s.FileName(ext)
}

func (s Selection) String() string {
	return s.Key()
}
