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

func newNotifier(leads *mockLeadStore, stages *mockStageStore, activities *mockActivityStore) *service.Notifier {
	return service.NewNotifier(
		leads,
		stages,
		activities,
		cache.New[*domain.NotificationList](time.Minute),
		time.Minute,
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func datePtr(t time.Time) *time.Time { return &t }

func TestNotifications_ClassifiesDueTasks(t *testing.T) {
	now := time.Now()
	activities := &mockActivityStore{dueTasks: []domain.Task{
		{ID: 1, LeadID: 10, Title: "Отправить КП", DueDate: datePtr(now.AddDate(0, 0, -2))},
		{ID: 2, LeadID: 10, Title: "Перезвонить", DueDate: datePtr(now)},
		{ID: 3, LeadID: 10, Title: "Встреча", DueDate: datePtr(now.AddDate(0, 0, 1))},
	}}
	leads := &mockLeadStore{leads: []domain.Lead{{ID: 10, Name: "Иван"}}}
	stages := &mockStageStore{stages: []domain.Stage{{ID: 1, Name: "Новый"}}}

	notifier := newNotifier(leads, stages, activities)

	list, err := notifier.Notifications(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if list.Total != 3 {
		t.Fatalf("expected 3 notifications, got %d", list.Total)
	}

	// Overdue first, then today, then tomorrow.
	wantUrgency := []domain.NotificationUrgency{
		domain.UrgencyOverdue,
		domain.UrgencyUrgent,
		domain.UrgencyNormal,
	}
	for i, want := range wantUrgency {
		if list.Notifications[i].Urgency != want {
			t.Errorf("position %d: expected urgency %s, got %s", i, want, list.Notifications[i].Urgency)
		}
	}

	// The tomorrow task is normal, so it does not count as unread.
	if list.Unread != 2 {
		t.Errorf("expected 2 unread, got %d", list.Unread)
	}
}

func TestNotifications_FlagsUncalledHighPriorityLead(t *testing.T) {
	now := time.Now()
	leads := &mockLeadStore{leads: []domain.Lead{
		{ID: 1, Name: "Горячий лид", Priority: domain.PriorityHigh, StageID: 10, CreatedAt: now.AddDate(0, 0, -2)},
		{ID: 2, Name: "Обычный лид", Priority: domain.PriorityLow, StageID: 10, CreatedAt: now.AddDate(0, 0, -30)},
	}}
	stages := &mockStageStore{stages: []domain.Stage{
		{ID: 10, Name: "Новый", Position: 1},
		{ID: 20, Name: "В работе", Position: 2},
	}}
	activities := &mockActivityStore{calls: map[domain.LeadID][]domain.Call{}}

	notifier := newNotifier(leads, stages, activities)

	list, err := notifier.Notifications(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if list.Total != 1 {
		t.Fatalf("expected 1 notification, got %d", list.Total)
	}
	n := list.Notifications[0]
	if n.ID != "lead_1_no_calls" {
		t.Errorf("expected lead_1_no_calls, got %s", n.ID)
	}
	if n.Urgency != domain.UrgencyUrgent {
		t.Errorf("expected urgent, got %s", n.Urgency)
	}
}

func TestNotifications_FlagsStaleContact(t *testing.T) {
	now := time.Now()
	leads := &mockLeadStore{leads: []domain.Lead{
		{ID: 5, Name: "Тихий лид", Priority: domain.PriorityHigh, StageID: 10, CreatedAt: now.AddDate(0, 0, -20)},
	}}
	stages := &mockStageStore{stages: []domain.Stage{{ID: 10, Name: "Новый"}}}
	activities := &mockActivityStore{calls: map[domain.LeadID][]domain.Call{
		5: {{ID: 1, LeadID: 5, StartedAt: now.AddDate(0, 0, -5)}},
	}}

	notifier := newNotifier(leads, stages, activities)

	list, err := notifier.Notifications(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if list.Total != 1 {
		t.Fatalf("expected 1 notification, got %d", list.Total)
	}
	if list.Notifications[0].ID != "lead_5_inactive" {
		t.Errorf("expected lead_5_inactive, got %s", list.Notifications[0].ID)
	}
	if list.Notifications[0].Urgency != domain.UrgencyNormal {
		t.Errorf("expected normal urgency, got %s", list.Notifications[0].Urgency)
	}
}

func TestNotifications_LeadsOutsideEarlyStagesIgnored(t *testing.T) {
	now := time.Now()
	leads := &mockLeadStore{leads: []domain.Lead{
		{ID: 1, Name: "Закрытый", Priority: domain.PriorityHigh, StageID: 40, CreatedAt: now.AddDate(0, 0, -10)},
	}}
	stages := &mockStageStore{stages: []domain.Stage{
		{ID: 10, Position: 1}, {ID: 20, Position: 2}, {ID: 30, Position: 3}, {ID: 40, Position: 4},
	}}
	activities := &mockActivityStore{calls: map[domain.LeadID][]domain.Call{}}

	notifier := newNotifier(leads, stages, activities)

	list, err := notifier.Notifications(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list.Total != 0 {
		t.Errorf("expected no notifications for a late-stage lead, got %d", list.Total)
	}
}

func TestNotifications_SecondCallServedFromCache(t *testing.T) {
	leads := &mockLeadStore{leads: []domain.Lead{}}
	stages := &mockStageStore{stages: []domain.Stage{}}
	activities := &mockActivityStore{}

	notifier := newNotifier(leads, stages, activities)

	first, err := notifier.Notifications(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := notifier.Notifications(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first != second {
		t.Error("expected the cached list on the second call")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	notifier := newNotifier(
		&mockLeadStore{leads: []domain.Lead{}},
		&mockStageStore{stages: []domain.Stage{}},
		&mockActivityStore{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		notifier.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
