package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LookupStats is the subset of the vocabulary store read on each scrape.
type LookupStats interface {
	Count(ctx context.Context) (int64, error)
	CountDistinct(ctx context.Context) (int64, error)
}

// VocabCollector implements prometheus.Collector for the lookup history.
// It queries the store lazily on each scrape instead of tracking counts.
type VocabCollector struct {
	store   LookupStats
	timeout time.Duration
	log     *slog.Logger

	lookupsStored *prometheus.Desc
	wordsDistinct *prometheus.Desc
	scrapeErrors  *prometheus.Desc
}

// NewVocabCollector creates a collector backed by store.
func NewVocabCollector(store LookupStats) *VocabCollector {
	return &VocabCollector{
		store:   store,
		timeout: 2 * time.Second,
		log:     slog.With("component", "vocab-collector"),

		lookupsStored: prometheus.NewDesc(
			namespace+"_vocab_lookups",
			"Number of stored translation lookups.",
			nil, nil,
		),
		wordsDistinct: prometheus.NewDesc(
			namespace+"_vocab_distinct_queries",
			"Number of distinct looked-up queries.",
			nil, nil,
		),
		scrapeErrors: prometheus.NewDesc(
			namespace+"_vocab_scrape_error",
			"1 if the last scrape of the lookup store failed.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *VocabCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lookupsStored
	ch <- c.wordsDistinct
	ch <- c.scrapeErrors
}

// Collect implements prometheus.Collector.
func (c *VocabCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	failed := 0.0
	total, err := c.store.Count(ctx)
	if err != nil {
		c.log.Warn("failed to count lookups", "error", err)
		failed = 1
	} else {
		ch <- prometheus.MustNewConstMetric(c.lookupsStored, prometheus.GaugeValue, float64(total))
	}

	distinct, err := c.store.CountDistinct(ctx)
	if err != nil {
		c.log.Warn("failed to count distinct queries", "error", err)
		failed = 1
	} else {
		ch <- prometheus.MustNewConstMetric(c.wordsDistinct, prometheus.GaugeValue, float64(distinct))
	}

	ch <- prometheus.MustNewConstMetric(c.scrapeErrors, prometheus.GaugeValue, failed)
}
