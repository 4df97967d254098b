package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Connections tracks currently open websocket sessions.
	Connections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nexora_ws_connections",
		Help: "Active websocket connections.",
	})

	// Events counts inbound relay events by type.
	Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexora_ws_events_total",
		Help: "Inbound relay events by type.",
	}, []string{"type"})

	// Broadcasts counts fan-outs to all connections.
	Broadcasts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nexora_ws_broadcasts_total",
		Help: "Snapshot broadcasts to all connections.",
	})
)

func init() {
	prometheus.MustRegister(Connections, Events, Broadcasts)
}

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
