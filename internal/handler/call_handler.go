package handler

import (
	"encoding/json"
	"net/http"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func initiateCallHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/call")
		defer span.End()

		id, err := idParam(r, "leadID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req domain.InitiateCallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := crm.InitiateCall(ctx, domain.LeadID(id), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"call_id": result.CallID,
			"message": result.Message,
		})
	}
}

func callWebhookHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calls/webhook")
		defer span.End()

		var hook domain.CallWebhook
		if err := json.NewDecoder(r.Body).Decode(&hook); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := crm.HandleCallWebhook(ctx, &hook); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
