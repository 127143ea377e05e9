package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/cuewords/internal/metrics"
	"github.com/shapedtime/cuewords/internal/translate"
	"github.com/shapedtime/cuewords/internal/vocab"
)

// Translation request/response types

type TranslateRequest struct {
	Text    string `json:"text"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
}

type LookupResponse struct {
	ID          int64    `json:"id"`
	Query       string   `json:"query"`
	Translation string   `json:"translation"`
	Explains    []string `json:"explains"`
	Phonetic    string   `json:"phonetic,omitempty"`
	Season      int      `json:"season,omitempty"`
	Episode     int      `json:"episode,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

type LookupListResponse struct {
	Lookups []LookupResponse `json:"lookups"`
}

// relayTranslate signs and forwards a lookup so the app secret never leaves
// the server.
func (s *Server) relayTranslate(c *gin.Context) {
	started := time.Now()

	if s.translator == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Translation not configured")
		return
	}

	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		s.metrics.ObserveTranslation(metrics.ResultEmpty, started)
		errorResponse(c, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.translator.Translate(c.Request.Context(), req.Text)
	if err != nil {
		var se *translate.ServiceError
		switch {
		case errors.Is(err, translate.ErrEmptyInput):
			s.metrics.ObserveTranslation(metrics.ResultEmpty, started)
			errorResponse(c, http.StatusBadRequest, "text is required")
		case errors.As(err, &se):
			s.metrics.ObserveTranslation(metrics.ResultRejected, started)
			s.log.Warn("Translation rejected", "text", req.Text, "code", se.Code, "status", se.Status)
			errorResponse(c, http.StatusBadGateway, se.Error())
		default:
			s.metrics.ObserveTranslation(metrics.ResultTransport, started)
			s.log.Warn("Translation failed", "text", req.Text, "error", err)
			errorResponse(c, http.StatusBadGateway, "Translation service unavailable")
		}
		return
	}
	s.metrics.ObserveTranslation(metrics.ResultOK, started)

	s.recordLookup(c, req, result)
	c.JSON(http.StatusOK, result)
}

// recordLookup stores a successful lookup. Storage failures are logged and
// do not fail the request.
func (s *Server) recordLookup(c *gin.Context, req TranslateRequest, result *translate.Result) {
	if s.lookups == nil {
		return
	}
	l := &vocab.Lookup{
		Query:       req.Text,
		Translation: result.FirstTranslation(),
		Explains:    result.Explains(),
		Phonetic:    result.Phonetic(),
		Season:      req.Season,
		Episode:     req.Episode,
	}
	if err := s.lookups.Create(c.Request.Context(), l); err != nil {
		s.log.Error("Failed to record lookup", "query", req.Text, "error", err)
	}
}

func (s *Server) listLookups(c *gin.Context) {
	if s.lookups == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Lookup history not configured")
		return
	}

	var opts vocab.ListOptions
	for name, dst := range map[string]*int{
		"season":  &opts.Season,
		"episode": &opts.Episode,
		"limit":   &opts.Limit,
		"offset":  &opts.Offset,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			errorResponse(c, http.StatusBadRequest, "Invalid "+name)
			return
		}
		*dst = v
	}

	lookups, err := s.lookups.List(c.Request.Context(), opts)
	if err != nil {
		s.log.Error("Failed to list lookups", "error", err)
		errorResponse(c, http.StatusInternalServerError, "Failed to list lookups")
		return
	}

	resp := LookupListResponse{Lookups: make([]LookupResponse, 0, len(lookups))}
	for _, l := range lookups {
		resp.Lookups = append(resp.Lookups, toLookupResponse(l))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteLookup(c *gin.Context) {
	if s.lookups == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Lookup history not configured")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid lookup ID")
		return
	}

	if err := s.lookups.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, vocab.ErrLookupNotFound) {
			errorResponse(c, http.StatusNotFound, "Lookup not found")
			return
		}
		s.log.Error("Failed to delete lookup", "id", id, "error", err)
		errorResponse(c, http.StatusInternalServerError, "Failed to delete lookup")
		return
	}

	c.Status(http.StatusNoContent)
}

func toLookupResponse(l *vocab.Lookup) LookupResponse {
	explains := l.Explains
	if explains == nil {
		explains = []string{}
	}
	return LookupResponse{
		ID:          l.ID,
		Query:       l.Query,
		Translation: l.Translation,
		Explains:    explains,
		Phonetic:    l.Phonetic,
		Season:      l.Season,
		Episode:     l.Episode,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
}
