package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/common"
	"github.com/shapedtime/cuewords/internal/dialogue"
	"github.com/shapedtime/cuewords/internal/navigation"
	"github.com/shapedtime/cuewords/internal/subtitle"
	"github.com/shapedtime/cuewords/internal/tokenize"
)

// Episode request/response types

type SeasonsResponse struct {
	Seasons []catalog.Season `json:"seasons"`
}

type ItemResponse struct {
	Index      int     `json:"index"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	StartLabel string  `json:"start_label"`
	EndLabel   string  `json:"end_label"`
	Chinese    string  `json:"chinese"`
	English    string  `json:"english"`
}

type EpisodeResponse struct {
	Key           string         `json:"key"`
	Season        int            `json:"season"`
	Episode       int            `json:"episode"`
	Title         string         `json:"title,omitempty"`
	Duration      float64        `json:"duration"`
	DurationLabel string         `json:"duration_label"`
	Items         []ItemResponse `json:"items"`
}

type ActiveResponse struct {
	Key   string        `json:"key"`
	Time  float64       `json:"t"`
	Index int           `json:"index"`
	Item  *ItemResponse `json:"item,omitempty"`
	Words []string      `json:"words"`
}

// Episode handlers

func (s *Server) listSeasons(c *gin.Context) {
	c.JSON(http.StatusOK, SeasonsResponse{Seasons: catalog.Seasons()})
}

func (s *Server) resolveView(c *gin.Context) {
	c.JSON(http.StatusOK, navigation.Resolve(navigation.FromQuery(c.Request.URL.Query())))
}

func (s *Server) getEpisode(c *gin.Context) {
	ep, ok := s.openEpisode(c)
	if !ok {
		return
	}

	resp := EpisodeResponse{
		Key:           ep.Key,
		Season:        ep.Selection.Season,
		Episode:       ep.Selection.Episode,
		Title:         ep.Title,
		Duration:      ep.Duration.Seconds(),
		DurationLabel: common.FormatTimestamp(ep.Duration, false),
		Items:         make([]ItemResponse, len(ep.Items)),
	}
	for i, item := range ep.Items {
		resp.Items[i] = toItemResponse(i, item)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getActive(c *gin.Context) {
	t := time.Duration(0)
	if raw := c.Query("t"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			errorResponse(c, http.StatusBadRequest, "t must be a non-negative number of seconds")
			return
		}
		t = common.Seconds(v)
	}

	ep, ok := s.openEpisode(c)
	if !ok {
		return
	}

	tl := ep.Timeline()
	t = tl.Clamp(t)
	resp := ActiveResponse{Key: ep.Key, Time: t.Seconds(), Index: -1, Words: []string{}}
	if item, idx, found := tl.Active(t); found {
		ir := toItemResponse(idx, item)
		resp.Index = idx
		resp.Item = &ir
		resp.Words = tokenize.Words(item.English)
	}
	c.JSON(http.StatusOK, resp)
}

// openEpisode parses the path parameters and loads the episode, writing an
// error response on failure.
func (s *Server) openEpisode(c *gin.Context) (*subtitle.Episode, bool) {
	season, err1 := strconv.Atoi(c.Param("season"))
	episode, err2 := strconv.Atoi(c.Param("episode"))
	if err1 != nil || err2 != nil {
		errorResponse(c, http.StatusBadRequest, "season and episode must be integers")
		return nil, false
	}

	sel, err := catalog.NewSelection(season, episode)
	if err != nil {
		errorResponse(c, http.StatusNotFound, err.Error())
		return nil, false
	}

	ep, err := s.episodes.Open(c.Request.Context(), sel)
	switch {
	case err == nil:
		return ep, true
	case errors.Is(err, subtitle.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "No subtitles for "+sel.Key())
	case errors.Is(err, subtitle.ErrTransport):
		errorResponse(c, http.StatusBadGateway, "Failed to fetch subtitles for "+sel.Key())
	default:
		s.log.Error("Failed to open episode", "episode", sel.Key(), "error", err)
		errorResponse(c, http.StatusInternalServerError, "Failed to read subtitles for "+sel.Key())
	}
	return nil, false
}

func toItemResponse(index int, item dialogue.Item) ItemResponse {
	return ItemResponse{
		Index:      index,
		Start:      item.Start.Seconds(),
		End:        item.End.Seconds(),
		StartLabel: common.FormatTimestamp(item.Start, true),
		EndLabel:   common.FormatTimestamp(item.End, true),
		Chinese:    item.Chinese,
		English:    item.English,
	}
}
