package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/onedayhr/leadboard/internal/domain"
)

func TestIntake_EmptyNameNeverReachesStore(t *testing.T) {
	leadStore := &mockLeadStore{}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	_, err := crm.Intake(context.Background(), &domain.IntakeRequest{
		Name:  "",
		Phone: "+79990001122",
	})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if leadStore.createCalls != 0 {
		t.Errorf("store was called %d times for an invalid submission", leadStore.createCalls)
	}
}

func TestIntake_EmptyPhoneNeverReachesStore(t *testing.T) {
	leadStore := &mockLeadStore{}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	_, err := crm.Intake(context.Background(), &domain.IntakeRequest{
		Name:  "Иван",
		Phone: "   ",
	})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if leadStore.createCalls != 0 {
		t.Errorf("store was called %d times for an invalid submission", leadStore.createCalls)
	}
}

func TestIntake_StoresLeadAndAcknowledges(t *testing.T) {
	leadStore := &mockLeadStore{createdID: 9}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	resp, err := crm.Intake(context.Background(), &domain.IntakeRequest{
		Name:  "Иван Петров",
		Phone: "+79990001122",
		Page:  "/pricing",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.Success || resp.LeadID != 9 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if leadStore.createCalls != 1 {
		t.Errorf("expected exactly one store call, got %d", leadStore.createCalls)
	}
}
