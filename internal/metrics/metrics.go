package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cuewords"

// Result label values.
const (
	ResultOK        = "ok"
	ResultNotFound  = "not_found"
	ResultError     = "error"
	ResultEmpty     = "empty"
	ResultRejected  = "service_error"
	ResultTransport = "transport_error"
)

// Metrics holds counters for subtitle loading and translation lookups.
type Metrics struct {
	SubtitleLoads       *prometheus.CounterVec
	SubtitleLoadSeconds prometheus.Histogram
	TimelineItems       prometheus.Gauge
	Translations        *prometheus.CounterVec
	TranslationSeconds  prometheus.Histogram
}

// New creates and registers the metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubtitleLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subtitle",
			Name:      "loads_total",
			Help:      "Subtitle loads by result.",
		}, []string{"result"}),
		SubtitleLoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "subtitle",
			Name:      "load_duration_seconds",
			Help:      "Time to load, decode and parse one subtitle file.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		TimelineItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "subtitle",
			Name:      "timeline_items",
			Help:      "Dialogue items in the most recently opened episode.",
		}),
		Translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translate",
			Name:      "requests_total",
			Help:      "Translation requests by result.",
		}, []string{"result"}),
		TranslationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "translate",
			Name:      "request_duration_seconds",
			Help:      "Latency of upstream translation requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	reg.MustRegister(
		m.SubtitleLoads,
		m.SubtitleLoadSeconds,
		m.TimelineItems,
		m.Translations,
		m.TranslationSeconds,
	)

	return m
}

// ObserveLoad records one subtitle load. Safe on a nil receiver.
func (m *Metrics) ObserveLoad(result string, started time.Time, items int) {
	if m == nil {
		return
	}
	m.SubtitleLoads.WithLabelValues(result).Inc()
	m.SubtitleLoadSeconds.Observe(time.Since(started).Seconds())
	if result == ResultOK {
		m.TimelineItems.Set(float64(items))
	}
}

// ObserveTranslation records one translation request. Safe on a nil receiver.
func (m *Metrics) ObserveTranslation(result string, started time.Time) {
	if m == nil {
		return
	}
	m.Translations.WithLabelValues(result).Inc()
	if result != ResultEmpty {
		m.TranslationSeconds.Observe(time.Since(started).Seconds())
	}
}
