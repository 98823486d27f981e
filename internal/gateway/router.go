package gateway

import (
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRouter assembles the gateway routes and middleware.
func NewRouter(h *Handlers, registry *prometheus.Registry, metrics *observability.Metrics, logger logging.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(
		RequestIDMiddleware,
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
		observability.HTTPMetricsMiddleware(metrics),
	)

	h.RegisterRoutes(router)
	router.HandleFunc("/health", h.liveness).Methods(http.MethodGet)
	observability.RegisterMetricsEndpoint(router, registry)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorBody{
			StatusCode: http.StatusNotFound,
			Message:    "Cannot " + r.Method + " " + r.URL.Path,
			Error:      http.StatusText(http.StatusNotFound),
		})
	})

	return router
}
