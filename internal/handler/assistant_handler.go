package handler

import (
	"encoding/json"
	"net/http"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func analyzeLeadHandler(assistant *service.Assistant, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/analyze")
		defer span.End()

		id, err := idParam(r, "leadID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int64("lead.id", id))

		analysis, err := assistant.Analyze(ctx, domain.LeadID(id))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"analysis": analysis,
		})
	}
}

func suggestActionHandler(assistant *service.Assistant, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/suggest")
		defer span.End()

		id, err := idParam(r, "leadID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		suggestion, err := assistant.SuggestAction(ctx, domain.LeadID(id))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"suggestion": suggestion,
		})
	}
}

func summarizeLeadHandler(assistant *service.Assistant, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/summarize")
		defer span.End()

		id, err := idParam(r, "leadID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		summary, err := assistant.Summarize(ctx, domain.LeadID(id))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"summary": summary,
		})
	}
}

func insightsHandler(assistant *service.Assistant, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/leads/{leadID}/insights")
		defer span.End()

		id, err := idParam(r, "leadID")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		insights, err := assistant.Insights(ctx, domain.LeadID(id))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"insights": insights,
		})
	}
}

type dailyPlanRequest struct {
	LeadIDs []domain.LeadID `json:"lead_ids"`
}

func dailyPlanHandler(assistant *service.Assistant, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/assistant/daily-plan")
		defer span.End()

		var req dailyPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tasks, err := assistant.DailyPlan(ctx, req.LeadIDs)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"daily_tasks": tasks,
		})
	}
}
