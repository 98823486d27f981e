package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/observability"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// HealthChecker reports the liveness of the auth core.
type HealthChecker interface {
	Health(ctx context.Context) (*services.HealthReport, error)
}

// NewOpsRouter builds the operational HTTP surface of the auth service:
// GET /health and GET /metrics.
func NewOpsRouter(hc HealthChecker, registry *prometheus.Registry, metrics *observability.Metrics, logger logging.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(observability.HTTPMetricsMiddleware(metrics))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		report, err := hc.Health(r.Context())
		if err != nil {
			logger.Error(r.Context(), "health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "service": services.ServiceName})
			return
		}

		metrics.RegisteredUsers.Set(float64(report.UserCount))
		_ = json.NewEncoder(w).Encode(rpc.HealthResponse{
			Status:    report.Status,
			Service:   report.Service,
			UserCount: report.UserCount,
			Timestamp: report.Timestamp,
		})
	}).Methods(http.MethodGet)

	observability.RegisterMetricsEndpoint(router, registry)

	return router
}
