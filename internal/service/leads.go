package service

import (
	"context"
	"strings"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ListLeads returns leads matching the filter, straight from the store.
func (s *CRMService) ListLeads(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListLeads")
	defer span.End()

	leads, err := s.leads.ListLeads(ctx, filter)
	if err != nil {
		return nil, err
	}
	return FilterLeads(leads, domain.LeadFilter{Query: filter.Query}), nil
}

// GetLeadDetail returns one lead with its tasks, comments and calls loaded
// concurrently.
func (s *CRMService) GetLeadDetail(ctx context.Context, id domain.LeadID) (*domain.Lead, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.GetLeadDetail")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(id)))

	lead, err := s.leads.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lead.Tasks, err = s.activities.ListTasks(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		lead.Comments, err = s.activities.ListComments(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		lead.Calls, err = s.activities.ListCalls(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lead, nil
}

// CreateLead validates and stores a new lead. Name and phone are required;
// nothing reaches the store when either is missing.
func (s *CRMService) CreateLead(ctx context.Context, req *domain.CreateLeadRequest) (domain.LeadID, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateLead")
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return 0, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if req.Phone == "" {
		return 0, &domain.ErrValidation{Field: "phone", Message: "required"}
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	if !req.Priority.Valid() {
		return 0, &domain.ErrValidation{Field: "priority", Message: "must be high, medium or low"}
	}

	id, err := s.leads.CreateLead(ctx, req)
	if err != nil {
		return 0, err
	}

	s.metrics.IncrLeadCreated(req.Source)
	s.invalidateBoard()
	s.logger.Info("lead created",
		zap.Int64("lead_id", int64(id)),
		zap.String("source", req.Source),
	)
	return id, nil
}

// UpdateLead applies a partial edit to a lead.
func (s *CRMService) UpdateLead(ctx context.Context, id domain.LeadID, req *domain.UpdateLeadRequest) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateLead")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(id)))

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return &domain.ErrValidation{Field: "name", Message: "cannot be blank"}
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) == "" {
		return &domain.ErrValidation{Field: "phone", Message: "cannot be blank"}
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return &domain.ErrValidation{Field: "priority", Message: "must be high, medium or low"}
	}

	if err := s.leads.UpdateLead(ctx, id, req); err != nil {
		return err
	}
	s.invalidateBoard()
	return nil
}

// MoveLead moves a lead to another stage after a board drop. A zero stage id
// means the drag was cancelled; nothing reaches the store in that case.
func (s *CRMService) MoveLead(ctx context.Context, id domain.LeadID, req *domain.MoveLeadRequest) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.MoveLead")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("lead.id", int64(id)),
		attribute.Int64("stage.id", int64(req.StageID)),
	)

	if req.StageID == 0 {
		// Cancelled drag. Last write wins between concurrent movers; the
		// next board fetch shows whatever the store settled on.
		return nil
	}

	if err := s.leads.MoveLead(ctx, id, req.StageID); err != nil {
		return err
	}
	s.invalidateBoard()
	s.logger.Info("lead moved",
		zap.Int64("lead_id", int64(id)),
		zap.Int64("stage_id", int64(req.StageID)),
	)

	if s.events != nil {
		event := &domain.LeadEvent{
			Type:    "lead.moved",
			LeadID:  id,
			StageID: req.StageID,
		}
		if err := s.events.PublishLeadEvent(ctx, event); err != nil {
			s.metrics.IncrExternalError("rabbitmq")
			s.logger.Warn("move: event publish failed",
				zap.Int64("lead_id", int64(id)),
				zap.Error(err),
			)
		}
	}
	return nil
}
