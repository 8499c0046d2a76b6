package telemetry

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohammad-safakhou/webrag/config"
)

// Telemetry provides request metrics and a shared logger for the pipeline.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger

	asksTotal      *prometheus.CounterVec
	askDuration    prometheus.Histogram
	scrapeFailures prometheus.Counter
	llmFailures    prometheus.Counter
}

// NewTelemetry registers the pipeline metrics on reg (the default
// registerer when nil, which /metrics serves).
func NewTelemetry(cfg config.TelemetryConfig, reg prometheus.Registerer) *Telemetry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	factory := promauto.With(reg)
	return &Telemetry{
		config: cfg,
		logger: log.New(out, "[RAG] ", log.LstdFlags),
		asksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webrag_asks_total",
			Help: "Ask pipeline invocations by outcome.",
		}, []string{"outcome"}),
		askDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "webrag_ask_duration_seconds",
			Help:    "End-to-end ask pipeline latency.",
			Buckets: prometheus.DefBuckets,
		}),
		scrapeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "webrag_scrape_failures_total",
			Help: "Per-URL extraction failures converted to error excerpts.",
		}),
		llmFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "webrag_llm_failures_total",
			Help: "Completion calls that returned an error marker.",
		}),
	}
}

// Logger returns the shared pipeline logger.
func (t *Telemetry) Logger() *log.Logger { return t.logger }

// RecordAsk records one finished pipeline invocation.
func (t *Telemetry) RecordAsk(success bool, d time.Duration) {
	if !t.config.Enabled {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	t.asksTotal.WithLabelValues(outcome).Inc()
	t.askDuration.Observe(d.Seconds())
}

// RecordScrapeFailure counts a single-source extraction failure.
func (t *Telemetry) RecordScrapeFailure() {
	if !t.config.Enabled {
		return
	}
	t.scrapeFailures.Inc()
}

// RecordLLMFailure counts a completion call that produced an error marker.
func (t *Telemetry) RecordLLMFailure() {
	if !t.config.Enabled {
		return
	}
	t.llmFailures.Inc()
}
