package service

import (
	"context"
	"strings"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.uber.org/zap"
)

// Intake stores a landing-page form submission as a new lead, then relays it
// to Telegram and the event bus. Storage failure fails the request; relay
// failures are only logged so a broken bot never loses a lead.
func (s *CRMService) Intake(ctx context.Context, req *domain.IntakeRequest) (*domain.IntakeResponse, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.Intake")
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if req.Phone == "" {
		return nil, &domain.ErrValidation{Field: "phone", Message: "required"}
	}

	source := req.Source
	if source == "" {
		source = "website"
	}

	id, err := s.leads.CreateLead(ctx, &domain.CreateLeadRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		Company:  req.Company,
		Vacancy:  req.Vacancy,
		Source:   source,
		Priority: domain.PriorityMedium,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrLeadCreated(source)
	s.invalidateBoard()

	// Fire-and-forget relays. The HTTP response does not wait for them.
	go s.relayIntake(id, req, source)

	return &domain.IntakeResponse{
		Success: true,
		LeadID:  id,
		Message: "Заявка принята",
	}, nil
}

func (s *CRMService) relayIntake(id domain.LeadID, req *domain.IntakeRequest, source string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.notifier != nil {
		if err := s.notifier.NotifyNewLead(ctx, req); err != nil {
			s.metrics.IncrExternalError("telegram")
			s.logger.Warn("intake: telegram relay failed",
				zap.Int64("lead_id", int64(id)),
				zap.Error(err),
			)
		}
	}

	if s.events != nil {
		event := &domain.LeadEvent{
			Type:     "lead.created",
			LeadID:   id,
			Name:     req.Name,
			Phone:    req.Phone,
			Source:   source,
			Page:     req.Page,
			FormType: req.FormType,
		}
		if err := s.events.PublishLeadEvent(ctx, event); err != nil {
			s.metrics.IncrExternalError("rabbitmq")
			s.logger.Warn("intake: event publish failed",
				zap.Int64("lead_id", int64(id)),
				zap.Error(err),
			)
		}
	}
}
