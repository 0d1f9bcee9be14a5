package handler

import (
	"encoding/json"
	"net/http"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func createTaskHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/tasks")
		defer span.End()

		id, err := idParam(r, "leadID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req domain.CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		taskID, err := crm.CreateTask(ctx, domain.LeadID(id), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"task_id": taskID,
		})
	}
}

func toggleTaskHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/tasks/{taskID}")
		defer span.End()

		id, err := idParam(r, "taskID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req domain.ToggleTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := crm.ToggleTask(ctx, domain.TaskID(id), &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func addCommentHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/comments")
		defer span.End()

		id, err := idParam(r, "leadID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req domain.AddCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		commentID, err := crm.AddComment(ctx, domain.LeadID(id), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success":    true,
			"comment_id": commentID,
		})
	}
}
