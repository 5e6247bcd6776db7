// Package metrics exposes report pipeline metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the pipeline metrics. A nil *Recorder records nothing, so
// callers do not need to guard every call.
type Recorder struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	filesLoaded   *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	records       prometheus.Gauge
	totalHours    prometheus.Gauge
	categoryHours *prometheus.GaugeVec
	lastRun       prometheus.Gauge
}

// New creates a Recorder and registers its collectors.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace:        "hours_report",
		histogramBuckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
		r.registry.MustRegister(collectors.NewGoCollector())
	}

	r.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "runs_total",
		Help:      "Report pipeline runs by outcome.",
	}, []string{"status"})
	r.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a report pipeline run.",
		Buckets:   r.histogramBuckets,
	})
	r.filesLoaded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "files_loaded_total",
		Help:      "Input files loaded, by source (cache or parse).",
	}, []string{"source"})
	r.cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "cache_misses_total",
		Help:      "Record cache misses by reason.",
	}, []string{"reason"})
	r.records = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "records",
		Help:      "Work log records in the last successful run.",
	})
	r.totalHours = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "hours_total",
		Help:      "Hours worked in the last successful run.",
	})
	r.categoryHours = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "category_hours",
		Help:      "Hours per category in the last successful run.",
	}, []string{"category"})
	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful run.",
	})

	r.registry.MustRegister(r.runs, r.runDuration, r.filesLoaded, r.cacheMisses,
		r.records, r.totalHours, r.categoryHours, r.lastRun)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records the outcome and duration of one pipeline run.
func (r *Recorder) ObserveRun(duration time.Duration, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.runs.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration.Seconds())
	if err == nil {
		r.lastRun.SetToCurrentTime()
	}
}

// FileLoaded counts one input file. reason is empty on a cache hit.
func (r *Recorder) FileLoaded(fromCache bool, missReason string) {
	if r == nil {
		return
	}
	if fromCache {
		r.filesLoaded.WithLabelValues("cache").Inc()
		return
	}
	r.filesLoaded.WithLabelValues("parse").Inc()
	if missReason != "" {
		r.cacheMisses.WithLabelValues(missReason).Inc()
	}
}

// SetTotals publishes the totals of a successful run. Categories that
// dropped out of the data are reset to zero by replacing the whole vector.
func (r *Recorder) SetTotals(records int, totalHours float64, categories []string, hours []float64) {
	if r == nil {
		return
	}
	r.records.Set(float64(records))
	r.totalHours.Set(totalHours)
	r.categoryHours.Reset()
	for i, c := range categories {
		if i < len(hours) {
			r.categoryHours.WithLabelValues(c).Set(hours[i])
		}
	}
}
