package service

import (
	"context"
	"strings"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ListStages returns the pipeline stages in position order.
func (s *CRMService) ListStages(ctx context.Context) ([]domain.Stage, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListStages")
	defer span.End()

	return s.stages.ListStages(ctx)
}

// CreateStage adds a pipeline stage. Name is required; color and position
// get defaults in the store when absent.
func (s *CRMService) CreateStage(ctx context.Context, req *domain.CreateStageRequest) (domain.StageID, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateStage")
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return 0, &domain.ErrValidation{Field: "name", Message: "required"}
	}

	id, err := s.stages.CreateStage(ctx, req)
	if err != nil {
		return 0, err
	}
	s.invalidateBoard()
	return id, nil
}

// UpdateStage edits a stage's name, color or position.
func (s *CRMService) UpdateStage(ctx context.Context, id domain.StageID, req *domain.UpdateStageRequest) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateStage")
	defer span.End()
	span.SetAttributes(attribute.Int64("stage.id", int64(id)))

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}

	if err := s.stages.UpdateStage(ctx, id, req); err != nil {
		return err
	}
	s.invalidateBoard()
	return nil
}

// DeleteStage removes a stage. Confirm must be set: a delete without it is
// rejected before anything reaches the store, mirroring the confirmation
// dialog the board shows. The store reassigns the stage's leads to the
// lowest-position stage before deleting.
func (s *CRMService) DeleteStage(ctx context.Context, id domain.StageID, req *domain.DeleteStageRequest) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeleteStage")
	defer span.End()
	span.SetAttributes(attribute.Int64("stage.id", int64(id)))

	if req == nil || !req.Confirm {
		return &domain.ErrValidation{Field: "confirm", Message: "stage deletion must be confirmed"}
	}

	if err := s.stages.DeleteStage(ctx, id); err != nil {
		return err
	}
	s.invalidateBoard()
	s.logger.Info("stage deleted", zap.Int64("stage_id", int64(id)))
	return nil
}
