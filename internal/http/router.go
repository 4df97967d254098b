package httpx

import (
	"net/http"

	"log/slog"

	"github.com/Ironmac17/nexora/internal/app"
	"github.com/Ironmac17/nexora/internal/store"
	"github.com/Ironmac17/nexora/internal/ws"
	"github.com/Ironmac17/nexora/pkg/metrics"
)

// NewRouter wires up the relay's HTTP surface: health, metrics, the
// websocket endpoint, and the area-status reads that clients hit
// after an areaStatusUpdate notification.
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres) http.Handler {
	mw := NewMiddleware(cfg)
	areas := &AreasAPI{DB: db, Log: logger}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Area reads
	mux.Handle("/api/areas", http.HandlerFunc(areas.List))
	mux.Handle("/api/areas/{slug}/status", http.HandlerFunc(areas.Status))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
