package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glslreflect_parsing_seconds",
		Help:    "Time spent scanning shader source into a parse tree.",
		Buckets: prometheus.DefBuckets,
	})

	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glslreflect_extraction_seconds",
		Help:    "Time spent building the reflection document from a parse tree.",
		Buckets: prometheus.DefBuckets,
	})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glslreflect_runs_total",
		Help: "Total number of reflection runs by outcome.",
	}, []string{"outcome"})

	StructsExtracted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "glslreflect_structs",
		Help: "Number of structs in the most recent reflection document.",
	})

	FunctionsExtracted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "glslreflect_functions",
		Help: "Number of functions in the most recent reflection document.",
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glslreflect_cache_lookups_total",
		Help: "Total number of output cache lookups by result.",
	}, []string{"result"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glslreflect_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RegenerationsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glslreflect_regenerations_throttled_total",
		Help: "Total number of watch-mode regenerations delayed by the rate limiter.",
	})
)
