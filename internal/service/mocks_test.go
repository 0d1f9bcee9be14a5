package service_test

import (
	"context"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
)

// --- Mocks ---

type mockLeadStore struct {
	leads []domain.Lead
	lead  *domain.Lead
	err   error

	createCalls int
	updateCalls int
	moveCalls   int
	movedTo     domain.StageID
	createdID   domain.LeadID
}

func (m *mockLeadStore) ListLeads(_ context.Context, _ domain.LeadFilter) ([]domain.Lead, error) {
	return m.leads, m.err
}

func (m *mockLeadStore) GetLead(_ context.Context, _ domain.LeadID) (*domain.Lead, error) {
	return m.lead, m.err
}

func (m *mockLeadStore) CreateLead(_ context.Context, _ *domain.CreateLeadRequest) (domain.LeadID, error) {
	m.createCalls++
	return m.createdID, m.err
}

func (m *mockLeadStore) UpdateLead(_ context.Context, _ domain.LeadID, _ *domain.UpdateLeadRequest) error {
	m.updateCalls++
	return m.err
}

func (m *mockLeadStore) MoveLead(_ context.Context, _ domain.LeadID, stageID domain.StageID) error {
	m.moveCalls++
	m.movedTo = stageID
	return m.err
}

type mockStageStore struct {
	stages []domain.Stage
	err    error

	createCalls int
	updateCalls int
	deleteCalls int
	createdID   domain.StageID
}

func (m *mockStageStore) ListStages(_ context.Context) ([]domain.Stage, error) {
	return m.stages, m.err
}

func (m *mockStageStore) CreateStage(_ context.Context, _ *domain.CreateStageRequest) (domain.StageID, error) {
	m.createCalls++
	return m.createdID, m.err
}

func (m *mockStageStore) UpdateStage(_ context.Context, _ domain.StageID, _ *domain.UpdateStageRequest) error {
	m.updateCalls++
	return m.err
}

func (m *mockStageStore) DeleteStage(_ context.Context, _ domain.StageID) error {
	m.deleteCalls++
	return m.err
}

type mockActivityStore struct {
	tasks    []domain.Task
	dueTasks []domain.Task
	comments []domain.Comment
	calls    map[domain.LeadID][]domain.Call
	err      error

	taskCalls    int
	commentCalls int
	recordCalls  int
	recorded     *domain.Call
}

func (m *mockActivityStore) ListTasks(_ context.Context, _ domain.LeadID) ([]domain.Task, error) {
	return m.tasks, m.err
}

func (m *mockActivityStore) ListDueTasks(_ context.Context, _ time.Time) ([]domain.Task, error) {
	return m.dueTasks, m.err
}

func (m *mockActivityStore) CreateTask(_ context.Context, _ domain.LeadID, _ *domain.CreateTaskRequest) (domain.TaskID, error) {
	m.taskCalls++
	return 1, m.err
}

func (m *mockActivityStore) SetTaskCompleted(_ context.Context, _ domain.TaskID, _ bool) error {
	return m.err
}

func (m *mockActivityStore) ListComments(_ context.Context, _ domain.LeadID) ([]domain.Comment, error) {
	return m.comments, m.err
}

func (m *mockActivityStore) CreateComment(_ context.Context, _ domain.LeadID, _ *domain.AddCommentRequest) (domain.CommentID, error) {
	m.commentCalls++
	return 1, m.err
}

func (m *mockActivityStore) ListCalls(_ context.Context, leadID domain.LeadID) ([]domain.Call, error) {
	if m.calls == nil {
		return nil, m.err
	}
	return m.calls[leadID], m.err
}

func (m *mockActivityStore) RecordCall(_ context.Context, call *domain.Call) (domain.CallID, error) {
	m.recordCalls++
	m.recorded = call
	return 1, m.err
}

type mockDialer struct {
	providerID string
	err        error
	dialCalls  int
}

func (m *mockDialer) Dial(_ context.Context, _ domain.LeadID, _ string) (string, error) {
	m.dialCalls++
	return m.providerID, m.err
}

type mockAgent struct {
	response *domain.AgentResponse
	err      error
}

func (m *mockAgent) Call(_ context.Context, _ *domain.AgentRequest) (*domain.AgentResponse, error) {
	return m.response, m.err
}

type mockPublisher struct {
	events []*domain.LeadEvent
}

func (m *mockPublisher) PublishLeadEvent(_ context.Context, event *domain.LeadEvent) error {
	m.events = append(m.events, event)
	return nil
}
