// Package navigation maps the season/episode query state onto a view and
// computes the state that follows a user action. It holds no state itself.
package navigation

import (
	"net/url"
	"strconv"

	"github.com/shapedtime/cuewords/internal/catalog"
)

const (
	QuerySeason  = "season"
	QueryEpisode = "episode"
)

// View is what the page should show for a given state.
type View string

const (
	// ViewPicker asks for the missing season or episode.
	ViewPicker View = "picker"
	// ViewContent plays the selected episode.
	ViewContent View = "content"
	// ViewReset means the state is invalid and navigation returns home.
	ViewReset View = "reset"
)

// Params are the raw query values.
type Params struct {
	Season  string `json:"season,omitempty"`
	Episode string `json:"episode,omitempty"`
}

// Result is the outcome of Resolve.
type Result struct {
	View      View               `json:"view"`
	Params    Params             `json:"params"`
	Selection *catalog.Selection `json:"selection,omitempty"`
	Episodes  int                `json:"episodes,omitempty"`
}

// Resolve decides the view for p. An unknown season or an episode that is
// out of range or not a positive integer resets navigation.
func Resolve(p Params) Result {
	res := Result{Params: p}

	if p.Season == "" {
		res.View = ViewPicker
		return res
	}
	count, ok := catalog.Episodes(p.Season)
	if !ok {
		res.View = ViewReset
		return res
	}
	res.Episodes = count

	if p.Episode == "" {
		res.View = ViewPicker
		return res
	}
	episode, err := strconv.Atoi(p.Episode)
	if err != nil || episode < 1 || episode > count {
		res.View = ViewReset
		return res
	}

	season, _ := strconv.Atoi(p.Season)
	sel := catalog.Selection{Season: season, Episode: episode}
	res.View = ViewContent
	res.Selection = &sel
	return res
}

// Action is a user intent on the navigation state.
type Action interface {
	apply(Params) Params
}

// SelectSeason picks a season and clears the episode.
type SelectSeason struct{ Season string }

// SelectEpisode picks an episode within the current season.
type SelectEpisode struct{ Episode string }

// Reset returns to the empty state.
type Reset struct{}

func (a SelectSeason) apply(Params) Params { return Params{Season: a.Season} }

func (a SelectEpisode) apply(p Params) Params {
	return Params{Season: p.Season, Episode: a.Episode}
}

func (Reset) apply(Params) Params { return Params{} }

// Next returns the state after applying a to p.
func Next(p Params, a Action) Params {
	if a == nil {
		return p
	}
	return a.apply(p)
}

// Query encodes p as query values; empty fields are omitted.
func (p Params) Query() url.Values {
	q := url.Values{}
	if p.Season != "" {
		q.Set(QuerySeason, p.Season)
	}
	if p.Episode != "" {
		q.Set(QueryEpisode, p.Episode)
	}
	return q
}

// FromQuery reads Params from query values.
func FromQuery(q url.Values) Params {
	return Params{
		Season:  q.Get(QuerySeason),
		Episode: q.Get(QueryEpisode),
	}
}
