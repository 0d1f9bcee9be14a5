package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func listStagesHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stages")
		defer span.End()

		stages, err := crm.ListStages(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"stages":  stages,
		})
	}
}

func createStageHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stages")
		defer span.End()

		var req domain.CreateStageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id, err := crm.CreateStage(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success":  true,
			"stage_id": id,
		})
	}
}

func updateStageHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/stages/{stageID}")
		defer span.End()

		id, err := idParam(r, "stageID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req domain.UpdateStageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := crm.UpdateStage(ctx, domain.StageID(id), &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// deleteStageHandler accepts the confirmation either as a JSON body
// {"confirm":true} or a ?confirm=true query parameter.
func deleteStageHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stages/{stageID}")
		defer span.End()

		id, err := idParam(r, "stageID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req domain.DeleteStageRequest
		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if !req.Confirm && r.URL.Query().Get("confirm") == "true" {
			req.Confirm = true
		}

		if err := crm.DeleteStage(ctx, domain.StageID(id), &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
