package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/onedayhr/leadboard/internal/domain"
)

func TestDeleteStage_RequiresConfirmation(t *testing.T) {
	stageStore := &mockStageStore{}
	crm := newCRM(&mockLeadStore{}, stageStore, &mockActivityStore{}, &mockDialer{})

	err := crm.DeleteStage(context.Background(), 3, &domain.DeleteStageRequest{Confirm: false})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if stageStore.deleteCalls != 0 {
		t.Errorf("store was called %d times without confirmation", stageStore.deleteCalls)
	}
}

func TestDeleteStage_NilRequestRejected(t *testing.T) {
	stageStore := &mockStageStore{}
	crm := newCRM(&mockLeadStore{}, stageStore, &mockActivityStore{}, &mockDialer{})

	if err := crm.DeleteStage(context.Background(), 3, nil); err == nil {
		t.Fatal("expected a validation error for a missing body")
	}
	if stageStore.deleteCalls != 0 {
		t.Errorf("store was called %d times without confirmation", stageStore.deleteCalls)
	}
}

func TestDeleteStage_ConfirmedReachesStore(t *testing.T) {
	stageStore := &mockStageStore{}
	crm := newCRM(&mockLeadStore{}, stageStore, &mockActivityStore{}, &mockDialer{})

	if err := crm.DeleteStage(context.Background(), 3, &domain.DeleteStageRequest{Confirm: true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stageStore.deleteCalls != 1 {
		t.Errorf("expected exactly one store call, got %d", stageStore.deleteCalls)
	}
}

func TestCreateStage_RequiresName(t *testing.T) {
	stageStore := &mockStageStore{}
	crm := newCRM(&mockLeadStore{}, stageStore, &mockActivityStore{}, &mockDialer{})

	_, err := crm.CreateStage(context.Background(), &domain.CreateStageRequest{Name: "  "})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if stageStore.createCalls != 0 {
		t.Errorf("store was called for an unnamed stage")
	}
}
