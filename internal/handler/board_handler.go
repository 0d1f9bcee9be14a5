package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

// leadFilterFromQuery maps the board query string to a LeadFilter.
func leadFilterFromQuery(r *http.Request) domain.LeadFilter {
	q := r.URL.Query()

	filter := domain.LeadFilter{
		Query:  q.Get("q"),
		Source: q.Get("source"),
	}
	if p := q.Get("priority"); p != "" && p != "all" {
		filter.Priority = domain.Priority(p)
	}
	if filter.Source == "all" {
		filter.Source = ""
	}
	if v := q.Get("stage_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.StageID = domain.StageID(id)
		}
	}
	if v := q.Get("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateFrom = t
		}
	}
	if v := q.Get("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateTo = t
		}
	}
	return filter
}

func boardHandler(crm *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/board")
		defer span.End()

		board, err := crm.GetBoard(ctx, leadFilterFromQuery(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}
