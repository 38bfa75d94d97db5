package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the Prometheus collector set recorded by a ScoreServer.
type Metrics struct {
	registry *prometheus.Registry

	recalculations  *prometheus.CounterVec
	affectedNodes   *prometheus.HistogramVec
	unresolved      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	streamClients   prometheus.Gauge
	streamDropped   prometheus.Counter
}

// NewMetrics registers the archscore collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recalculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archscore_recalculations_total",
				Help: "Number of recalculation passes by kind.",
			},
			[]string{"kind"},
		),
		affectedNodes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "archscore_recalculation_affected_nodes",
				Help:    "Number of nodes recalculated per pass.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"kind"},
		),
		unresolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archscore_unresolved_components_total",
				Help: "Number of nodes scored as placeholders because their component did not resolve.",
			},
			[]string{"kind"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "archscore_http_request_duration_seconds",
				Help:    "HTTP request latency by route and status code.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "code"},
		),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "archscore_event_stream_clients",
			Help: "Number of connected event stream clients.",
		}),
		streamDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archscore_event_stream_dropped_total",
			Help: "Events not delivered to a stream client whose buffer was full.",
		}),
	}
	m.registry.MustRegister(
		m.recalculations,
		m.affectedNodes,
		m.unresolved,
		m.requestDuration,
		m.streamClients,
		m.streamDropped,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) instrument(route string, h http.HandlerFunc) http.Handler {
	return promhttp.InstrumentHandlerDuration(
		m.requestDuration.MustCurryWith(prometheus.Labels{"route": route}), h)
}

func (m *Metrics) observeRecalculation(kind string, affected, unresolved int) {
	m.recalculations.WithLabelValues(kind).Inc()
	m.affectedNodes.WithLabelValues(kind).Observe(float64(affected))
	if unresolved > 0 {
		m.unresolved.WithLabelValues(kind).Add(float64(unresolved))
	}
}
