package handler

import (
	"net/http"

	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func notificationsHandler(notifier *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/notifications")
		defer span.End()

		list, err := notifier.Notifications(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
