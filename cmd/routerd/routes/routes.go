package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/synnergy-network/swaprouter/cmd/routerd/controllers"
	"github.com/synnergy-network/swaprouter/cmd/routerd/middleware"
	"github.com/synnergy-network/swaprouter/cmd/routerd/ws"
)

// Register mounts every §6.1 HTTP and WebSocket route onto r.
func Register(r *mux.Router, rc *controllers.RouterController, hub *ws.Hub, allowedOrigins []string) {
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(allowedOrigins))

	r.HandleFunc("/health", rc.Health).Methods(http.MethodGet)
	r.HandleFunc("/quotes", rc.CreateQuote).Methods(http.MethodPost)
	r.HandleFunc("/quotes/{quoteId}", rc.GetQuote).Methods(http.MethodGet)
	r.HandleFunc("/swaps/multi-step-quote", rc.MultiStepQuote).Methods(http.MethodPost)
	r.HandleFunc("/ws", hub.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}
