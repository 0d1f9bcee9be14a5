package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/cache"
	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func TestCreateLead_EmptyNameNeverReachesStore(t *testing.T) {
	leadStore := &mockLeadStore{createdID: 1}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	_, err := crm.CreateLead(context.Background(), &domain.CreateLeadRequest{
		Name:  "   ",
		Phone: "+79990001122",
	})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if leadStore.createCalls != 0 {
		t.Errorf("store was called %d times for an invalid lead", leadStore.createCalls)
	}
}

func TestCreateLead_EmptyPhoneNeverReachesStore(t *testing.T) {
	leadStore := &mockLeadStore{createdID: 1}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	_, err := crm.CreateLead(context.Background(), &domain.CreateLeadRequest{
		Name:  "Иван Петров",
		Phone: "",
	})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if verr.Field != "phone" {
		t.Errorf("expected the phone field to be flagged, got %q", verr.Field)
	}
	if leadStore.createCalls != 0 {
		t.Errorf("store was called %d times for an invalid lead", leadStore.createCalls)
	}
}

func TestCreateLead_DefaultsPriorityToMedium(t *testing.T) {
	leadStore := &mockLeadStore{createdID: 5}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	req := &domain.CreateLeadRequest{Name: "Иван", Phone: "+79990001122"}
	id, err := crm.CreateLead(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != 5 {
		t.Errorf("expected lead id 5, got %d", id)
	}
	if req.Priority != domain.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", req.Priority)
	}
}

func TestMoveLead_CancelledDragSkipsStore(t *testing.T) {
	leadStore := &mockLeadStore{}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	err := crm.MoveLead(context.Background(), 42, &domain.MoveLeadRequest{StageID: 0})
	if err != nil {
		t.Fatalf("cancelled drag should not error, got %v", err)
	}
	if leadStore.moveCalls != 0 {
		t.Errorf("store was called %d times for a cancelled drag", leadStore.moveCalls)
	}
}

func TestMoveLead_ValidDropReachesStore(t *testing.T) {
	leadStore := &mockLeadStore{}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	err := crm.MoveLead(context.Background(), 42, &domain.MoveLeadRequest{StageID: 7})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if leadStore.moveCalls != 1 {
		t.Fatalf("expected exactly one store call, got %d", leadStore.moveCalls)
	}
	if leadStore.movedTo != 7 {
		t.Errorf("expected move to stage 7, got %d", leadStore.movedTo)
	}
}

func TestMoveLead_PublishesEvent(t *testing.T) {
	leadStore := &mockLeadStore{}
	events := &mockPublisher{}
	crm := service.NewCRMService(
		leadStore,
		&mockStageStore{},
		&mockActivityStore{},
		&mockDialer{},
		nil,
		events,
		cache.New[*domain.BoardSnapshot](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	if err := crm.MoveLead(context.Background(), 42, &domain.MoveLeadRequest{StageID: 7}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(events.events))
	}
	event := events.events[0]
	if event.Type != "lead.moved" {
		t.Errorf("expected event type lead.moved, got %q", event.Type)
	}
	if event.LeadID != 42 || event.StageID != 7 {
		t.Errorf("expected lead 42 to stage 7, got lead %d stage %d", event.LeadID, event.StageID)
	}

	// A cancelled drag publishes nothing.
	if err := crm.MoveLead(context.Background(), 42, &domain.MoveLeadRequest{StageID: 0}); err != nil {
		t.Fatalf("cancelled drag should not error, got %v", err)
	}
	if len(events.events) != 1 {
		t.Errorf("cancelled drag published an event")
	}
}

func TestUpdateLead_BlankNameRejected(t *testing.T) {
	leadStore := &mockLeadStore{}
	crm := newCRM(leadStore, &mockStageStore{}, &mockActivityStore{}, &mockDialer{})

	blank := "  "
	err := crm.UpdateLead(context.Background(), 1, &domain.UpdateLeadRequest{Name: &blank})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if leadStore.updateCalls != 0 {
		t.Errorf("store was called for an invalid update")
	}
}
