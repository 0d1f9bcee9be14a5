package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/onedayhr/leadboard/internal/domain"
)

func TestInitiateCall_EmptyPhoneNeverDials(t *testing.T) {
	dialer := &mockDialer{}
	crm := newCRM(&mockLeadStore{}, &mockStageStore{}, &mockActivityStore{}, dialer)

	_, err := crm.InitiateCall(context.Background(), 1, &domain.InitiateCallRequest{Phone: " "})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if dialer.dialCalls != 0 {
		t.Errorf("provider was dialed %d times without a phone", dialer.dialCalls)
	}
}

func TestInitiateCall_RecordsOutgoingCall(t *testing.T) {
	dialer := &mockDialer{providerID: "cmd-123"}
	activities := &mockActivityStore{}
	crm := newCRM(&mockLeadStore{}, &mockStageStore{}, activities, dialer)

	result, err := crm.InitiateCall(context.Background(), 5, &domain.InitiateCallRequest{Phone: "+79990001122"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CallID != 1 {
		t.Errorf("expected call id 1, got %d", result.CallID)
	}
	if activities.recorded == nil {
		t.Fatal("expected the call to be recorded")
	}
	if activities.recorded.Direction != domain.CallOutgoing {
		t.Errorf("expected an outgoing call, got %s", activities.recorded.Direction)
	}
	if activities.recorded.ProviderID != "cmd-123" {
		t.Errorf("expected provider id cmd-123, got %s", activities.recorded.ProviderID)
	}
}

func TestInitiateCall_ProviderNotConfiguredPassesThrough(t *testing.T) {
	dialer := &mockDialer{err: &domain.ErrProviderNotConfigured{Provider: "mango"}}
	activities := &mockActivityStore{}
	crm := newCRM(&mockLeadStore{}, &mockStageStore{}, activities, dialer)

	_, err := crm.InitiateCall(context.Background(), 5, &domain.InitiateCallRequest{Phone: "+79990001122"})

	var notConfigured *domain.ErrProviderNotConfigured
	if !errors.As(err, &notConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
	if activities.recordCalls != 0 {
		t.Errorf("a failed dial should not record a call")
	}
}

func TestHandleCallWebhook_RequiresLeadID(t *testing.T) {
	activities := &mockActivityStore{}
	crm := newCRM(&mockLeadStore{}, &mockStageStore{}, activities, &mockDialer{})

	err := crm.HandleCallWebhook(context.Background(), &domain.CallWebhook{PhoneNumber: "+79990001122"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if activities.recordCalls != 0 {
		t.Errorf("a webhook without a lead should not be recorded")
	}
}

func TestHandleCallWebhook_DefaultsDirectionAndStatus(t *testing.T) {
	activities := &mockActivityStore{}
	crm := newCRM(&mockLeadStore{}, &mockStageStore{}, activities, &mockDialer{})

	err := crm.HandleCallWebhook(context.Background(), &domain.CallWebhook{
		LeadID:      7,
		PhoneNumber: "+79990001122",
		Duration:    95,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if activities.recorded.Direction != domain.CallOutgoing {
		t.Errorf("expected default outgoing direction, got %s", activities.recorded.Direction)
	}
	if activities.recorded.Status != "completed" {
		t.Errorf("expected default completed status, got %s", activities.recorded.Status)
	}
}
