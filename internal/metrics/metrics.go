// Package metrics exposes Prometheus instrumentation for graph execution.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Skip reasons recorded in SkippedFramesTotal.
const (
	ReasonEmpty   = "empty"
	ReasonInvalid = "invalid"
	ReasonBusy    = "busy"
	ReasonClosed  = "closed"
	ReasonRead    = "read"
)

// Registry holds every collector of this process.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	FramesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mediagraph_frames_total",
		Help: "Frames pushed through a graph, by graph",
	}, []string{"graph"})

	DetectionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mediagraph_detections_total",
		Help: "Frames on which a graph reported landmarks, by graph",
	}, []string{"graph"})

	SkippedFramesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mediagraph_skipped_frames_total",
		Help: "Frames rejected before reaching a graph, by graph and reason",
	}, []string{"graph", "reason"})

	InferenceDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mediagraph_inference_duration_seconds",
		Help:    "Duration of a single inference pass",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.02, 0.033, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"graph"})

	OpenGraphs = factory.NewGauge(prometheus.GaugeOpts{
		Name: "mediagraph_open_graphs",
		Help: "Graph handles currently holding a native resource",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
