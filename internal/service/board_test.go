package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/cache"
	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func newCRM(leads *mockLeadStore, stages *mockStageStore, activities *mockActivityStore, dialer *mockDialer) *service.CRMService {
	return service.NewCRMService(
		leads,
		stages,
		activities,
		dialer,
		nil,
		nil,
		cache.New[*domain.BoardSnapshot](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func TestFilterLeads_QueryMatchesCompany(t *testing.T) {
	leads := []domain.Lead{
		{ID: 1, Name: "Иван Петров", Phone: "+79990001122", Company: "Acme Logistics"},
		{ID: 2, Name: "Мария Смирнова", Phone: "+79990003344", Company: "Globex"},
	}

	got := service.FilterLeads(leads, domain.LeadFilter{Query: "acme"})

	if len(got) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected lead 1, got %d", got[0].ID)
	}
}

func TestFilterLeads_QueryMatchesNameAndPhone(t *testing.T) {
	leads := []domain.Lead{
		{ID: 1, Name: "Иван Петров", Phone: "+79990001122"},
		{ID: 2, Name: "Мария Смирнова", Phone: "+79990003344"},
	}

	if got := service.FilterLeads(leads, domain.LeadFilter{Query: "мария"}); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("name query: expected only lead 2, got %v", got)
	}
	if got := service.FilterLeads(leads, domain.LeadFilter{Query: "0001122"}); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("phone query: expected only lead 1, got %v", got)
	}
}

func TestFilterLeads_PriorityExcludesOthers(t *testing.T) {
	leads := []domain.Lead{
		{ID: 1, Name: "A", Priority: domain.PriorityHigh},
		{ID: 2, Name: "B", Priority: domain.PriorityMedium},
		{ID: 3, Name: "C", Priority: domain.PriorityLow},
	}

	got := service.FilterLeads(leads, domain.LeadFilter{Priority: domain.PriorityHigh})

	if len(got) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected the high-priority lead, got %d", got[0].ID)
	}
}

func TestFilterLeads_ZeroFilterKeepsAll(t *testing.T) {
	leads := []domain.Lead{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	got := service.FilterLeads(leads, domain.LeadFilter{})

	if len(got) != 2 {
		t.Errorf("expected all leads with an empty filter, got %d", len(got))
	}
}

func TestFilterLeads_DoesNotMutateInput(t *testing.T) {
	leads := []domain.Lead{
		{ID: 1, Name: "A", Priority: domain.PriorityHigh},
		{ID: 2, Name: "B", Priority: domain.PriorityLow},
	}

	_ = service.FilterLeads(leads, domain.LeadFilter{Priority: domain.PriorityHigh})

	if len(leads) != 2 || leads[0].ID != 1 || leads[1].ID != 2 {
		t.Errorf("input slice was mutated: %v", leads)
	}
}

func TestGetBoard_PartitionsByStage(t *testing.T) {
	stages := &mockStageStore{stages: []domain.Stage{
		{ID: 10, Name: "Новый", Position: 1},
		{ID: 20, Name: "В работе", Position: 2},
	}}
	leadStore := &mockLeadStore{leads: []domain.Lead{
		{ID: 1, Name: "A", StageID: 10},
		{ID: 2, Name: "B", StageID: 20},
		{ID: 3, Name: "C", StageID: 10},
		{ID: 4, Name: "D", StageID: 99}, // unknown stage, dropped from columns
	}}

	crm := newCRM(leadStore, stages, &mockActivityStore{}, &mockDialer{})

	board, err := crm.GetBoard(context.Background(), domain.LeadFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(board.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(board.Columns))
	}
	if got := len(board.Columns[0].Leads); got != 2 {
		t.Errorf("expected 2 leads in first column, got %d", got)
	}
	if board.Columns[0].Leads[0].ID != 1 || board.Columns[0].Leads[1].ID != 3 {
		t.Errorf("lead order inside the column changed: %v", board.Columns[0].Leads)
	}
	if len(board.Columns[1].Leads) != 1 || board.Columns[1].Leads[0].ID != 2 {
		t.Errorf("expected only lead 2 in second column, got %v", board.Columns[1].Leads)
	}
}
