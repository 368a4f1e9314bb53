package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes cache and graph bookkeeping as Prometheus gauges,
// scraped via /metrics (§2.2 domain stack: client_golang backs C3/C4
// observability). Pull-based GaugeFuncs avoid a separate update goroutine.
func RegisterMetrics(registry prometheus.Registerer, cache *RouteCache, graph *RouteGraph) {
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "swaprouter_cache_hits_total", Help: "Route cache hit count."},
		func() float64 { return float64(cache.Stats().Hits) },
	))
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "swaprouter_cache_misses_total", Help: "Route cache miss count."},
		func() float64 { return float64(cache.Stats().Misses) },
	))
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "swaprouter_cache_evictions_total", Help: "Route cache eviction count."},
		func() float64 { return float64(cache.Stats().Evictions) },
	))
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "swaprouter_graph_edges", Help: "Edge count in the current route graph."},
		func() float64 { return float64(len(graph.snapshot().edges)) },
	))
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "swaprouter_graph_cross_chain_edges", Help: "Cross-chain edge count in the current route graph."},
		func() float64 { return float64(graph.Stats().CrossChainEdges) },
	))
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "swaprouter_graph_build_duration_seconds", Help: "Duration of the most recent route graph rebuild."},
		func() float64 { return graph.Stats().BuildDuration.Seconds() },
	))
}
