package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/metrics"
	"github.com/shapedtime/cuewords/internal/subtitle"
	"github.com/shapedtime/cuewords/internal/translate"
	"github.com/shapedtime/cuewords/internal/vocab"
)

// EpisodeOpener loads an episode timeline.
type EpisodeOpener interface {
	Open(ctx context.Context, sel catalog.Selection) (*subtitle.Episode, error)
}

// LookupStore persists translation lookups.
type LookupStore interface {
	Create(ctx context.Context, l *vocab.Lookup) error
	List(ctx context.Context, opts vocab.ListOptions) ([]*vocab.Lookup, error)
	Delete(ctx context.Context, id int64) error
}

// Options configures optional parts of the server.
type Options struct {
	// CORSOrigins lists allowed origins; empty allows any origin.
	CORSOrigins []string
	// SubtitlesDir, when set, is served under /subtitles/.
	SubtitlesDir string
}

// Server represents the REST API server
type Server struct {
	router     *gin.Engine
	episodes   EpisodeOpener
	translator translate.Translator // Optional: nil disables the relay
	lookups    LookupStore          // Optional: nil disables history
	metrics    *metrics.Metrics     // Optional
	opts       Options
	started    time.Time
	log        *slog.Logger
}

// NewServer creates a new API server
func NewServer(episodes EpisodeOpener, translator translate.Translator, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:     gin.New(),
		episodes:   episodes,
		translator: translator,
		opts:       opts,
		started:    time.Now(),
		log:        slog.With("component", "api"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// SetLookupStore enables the vocabulary history.
func (s *Server) SetLookupStore(store LookupStore) {
	s.lookups = store
	s.log.Info("Lookup history configured")
}

// SetMetrics enables translation metrics.
func (s *Server) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging middleware
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	})

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(s.opts.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = s.opts.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	// Catalog and navigation
	api.GET("/seasons", s.listSeasons)
	api.GET("/view", s.resolveView)

	// Episodes
	api.GET("/episodes/:season/:episode", s.getEpisode)
	api.GET("/episodes/:season/:episode/active", s.getActive)

	// Translation relay
	api.POST("/translate", s.relayTranslate)

	// Vocabulary history
	api.GET("/lookups", s.listLookups)
	api.DELETE("/lookups/:id", s.deleteLookup)

	// Status
	api.GET("/status", s.getStatus)

	// Raw subtitle files
	if s.opts.SubtitlesDir != "" {
		files := s.router.Group("/subtitles", gzip.Gzip(gzip.DefaultCompression))
		files.Static("/", s.opts.SubtitlesDir)
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime_seconds":  int64(time.Since(s.started).Seconds()),
		"translate_relay": s.translator != nil,
		"lookup_history":  s.lookups != nil,
	})
}

// Error response helper
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
