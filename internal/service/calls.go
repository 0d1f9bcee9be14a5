package service

import (
	"context"
	"strings"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InitiateCall starts an outgoing call through the telephony provider and
// records it against the lead. When credentials are missing or rejected the
// provider error is returned as-is so the handler can emit the structured
// "provider_not_configured" code.
func (s *CRMService) InitiateCall(ctx context.Context, leadID domain.LeadID, req *domain.InitiateCallRequest) (*domain.CallResult, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.InitiateCall")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, &domain.ErrValidation{Field: "phone", Message: "required"}
	}

	providerID, err := s.dialer.Dial(ctx, leadID, phone)
	if err != nil {
		return nil, err
	}

	callID, err := s.activities.RecordCall(ctx, &domain.Call{
		LeadID:      leadID,
		PhoneNumber: phone,
		Direction:   domain.CallOutgoing,
		Status:      "initiated",
		ProviderID:  providerID,
		StartedAt:   time.Now().UTC(),
	})
	if err != nil {
		// The call is already ringing; losing the record is worth a log
		// line but not a failed response.
		s.logger.Error("call initiated but not recorded",
			zap.Int64("lead_id", int64(leadID)),
			zap.Error(err),
		)
		return &domain.CallResult{Message: "call initiated"}, nil
	}

	return &domain.CallResult{CallID: callID, Message: "call initiated"}, nil
}

// HandleCallWebhook records a completed call pushed by the provider.
func (s *CRMService) HandleCallWebhook(ctx context.Context, hook *domain.CallWebhook) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.HandleCallWebhook")
	defer span.End()

	if hook.LeadID == 0 {
		return &domain.ErrValidation{Field: "lead_id", Message: "required"}
	}

	direction := hook.Direction
	if direction != domain.CallIncoming {
		direction = domain.CallOutgoing
	}
	status := hook.Status
	if status == "" {
		status = "completed"
	}

	_, err := s.activities.RecordCall(ctx, &domain.Call{
		LeadID:       hook.LeadID,
		PhoneNumber:  hook.PhoneNumber,
		Direction:    direction,
		Duration:     hook.Duration,
		RecordingURL: hook.RecordingURL,
		Status:       status,
		ProviderID:   hook.ProviderID,
		StartedAt:    time.Now().UTC(),
	})
	return err
}
