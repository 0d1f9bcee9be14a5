package service

import (
	"context"
	"strings"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// CreateTask adds a follow-up task to a lead. Title is required.
func (s *CRMService) CreateTask(ctx context.Context, leadID domain.LeadID, req *domain.CreateTaskRequest) (domain.TaskID, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateTask")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return 0, &domain.ErrValidation{Field: "title", Message: "required"}
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	if !req.Priority.Valid() {
		return 0, &domain.ErrValidation{Field: "priority", Message: "must be high, medium or low"}
	}

	return s.activities.CreateTask(ctx, leadID, req)
}

// ToggleTask marks a task completed or reopens it.
func (s *CRMService) ToggleTask(ctx context.Context, id domain.TaskID, req *domain.ToggleTaskRequest) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.ToggleTask")
	defer span.End()
	span.SetAttributes(attribute.Int64("task.id", int64(id)))

	return s.activities.SetTaskCompleted(ctx, id, req.Completed)
}

// AddComment attaches a note to a lead. Text is trimmed and must be
// non-empty.
func (s *CRMService) AddComment(ctx context.Context, leadID domain.LeadID, req *domain.AddCommentRequest) (domain.CommentID, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.AddComment")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return 0, &domain.ErrValidation{Field: "text", Message: "required"}
	}

	return s.activities.CreateComment(ctx, leadID, req)
}
