package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// readyzHandler reports ready only when the backing store answers. The
// stage list is the cheapest query touching it.
func readyzHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if _, err := crm.ListStages(ctx); err != nil {
			logger.Warn("readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// statsHandler serves aggregated counter totals as JSON for the admin UI,
// which cannot parse the Prometheus text exposition.
func statsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := metrics.Snapshot()
		if err != nil {
			logger.Error("gather metrics snapshot", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}
