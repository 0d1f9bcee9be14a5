package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var notifierTracer = otel.Tracer("service/notifier")

const notificationsCacheKey = "notifications"

// maxFailureShift caps the interval growth at interval*2^4 on repeated
// sweep failures.
const maxFailureShift = 4

// Notifier rebuilds the notification feed on a schedule. The HTTP handler
// only reads the cached result, so polling clients never fan out into store
// queries. The worker is tied to the server's lifetime through its context
// and stretches its interval with jitter and exponential backoff while the
// store is failing.
type Notifier struct {
	leads      port.LeadStore
	stages     port.StageStore
	activities port.ActivityStore
	cache      port.Cache[*domain.NotificationList]
	interval   time.Duration
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotifier creates the sweep worker.
func NewNotifier(
	leads port.LeadStore,
	stages port.StageStore,
	activities port.ActivityStore,
	cache port.Cache[*domain.NotificationList],
	interval time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		leads:      leads,
		stages:     stages,
		activities: activities,
		cache:      cache,
		interval:   interval,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	failures := 0
	for {
		if err := n.sweep(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			n.metrics.RecordSweep(false, 0)
			n.logger.Warn("notifier: sweep failed",
				zap.Int("consecutive_failures", failures),
				zap.Error(err),
			)
		} else {
			failures = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(n.nextDelay(failures)):
		}
	}
}

// nextDelay returns the wait before the next sweep: the base interval with
// up to 10% jitter, doubled per consecutive failure.
func (n *Notifier) nextDelay(failures int) time.Duration {
	if failures > maxFailureShift {
		failures = maxFailureShift
	}
	delay := n.interval << failures
	jitter := time.Duration(rand.Int63n(int64(n.interval/10) + 1))
	return delay + jitter
}

// Notifications returns the latest sweep result. Before the first sweep
// completes (or after a cache expiry) it sweeps synchronously.
func (n *Notifier) Notifications(ctx context.Context) (*domain.NotificationList, error) {
	ctx, span := notifierTracer.Start(ctx, "Notifier.Notifications")
	defer span.End()

	if list, ok := n.cache.Get(notificationsCacheKey); ok {
		n.metrics.IncrCacheHit("notifications")
		return list, nil
	}
	n.metrics.IncrCacheMiss("notifications")

	if err := n.sweep(ctx); err != nil {
		return nil, err
	}
	list, _ := n.cache.Get(notificationsCacheKey)
	return list, nil
}

// sweep rebuilds the feed from the store and caches it.
func (n *Notifier) sweep(ctx context.Context) error {
	ctx, span := notifierTracer.Start(ctx, "Notifier.sweep")
	defer span.End()

	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	var (
		tasks  []domain.Task
		leads  []domain.Lead
		stages []domain.Stage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = n.activities.ListDueTasks(gctx, tomorrow)
		return err
	})
	g.Go(func() error {
		var err error
		leads, err = n.leads.ListLeads(gctx, domain.LeadFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		stages, err = n.stages.ListStages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	leadNames := make(map[domain.LeadID]string, len(leads))
	for _, lead := range leads {
		leadNames[lead.ID] = lead.Name
	}

	notifications := taskNotifications(tasks, leadNames, now)

	leadNotifs, err := n.leadNotifications(ctx, leads, stages, now)
	if err != nil {
		return err
	}
	notifications = append(notifications, leadNotifs...)

	sortNotifications(notifications)

	unread := 0
	for _, notif := range notifications {
		if notif.Urgency != domain.UrgencyNormal {
			unread++
		}
	}

	n.cache.Set(notificationsCacheKey, &domain.NotificationList{
		Success:       true,
		Notifications: notifications,
		Total:         len(notifications),
		Unread:        unread,
	})
	n.metrics.RecordSweep(true, len(notifications))
	return nil
}

// taskNotifications classifies due tasks: past due dates are overdue, today
// is urgent, tomorrow is normal.
func taskNotifications(tasks []domain.Task, leadNames map[domain.LeadID]string, now time.Time) []domain.Notification {
	today := now.Truncate(24 * time.Hour)
	out := make([]domain.Notification, 0, len(tasks))

	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		due := task.DueDate.Truncate(24 * time.Hour)

		var urgency domain.NotificationUrgency
		var title string
		switch {
		case due.Before(today):
			urgency = domain.UrgencyOverdue
			days := int(today.Sub(due).Hours() / 24)
			title = fmt.Sprintf("Просрочено %d дн.: %s", days, task.Title)
		case due.Equal(today):
			urgency = domain.UrgencyUrgent
			title = fmt.Sprintf("Задача сегодня: %s", task.Title)
		default:
			urgency = domain.UrgencyNormal
			title = fmt.Sprintf("Задача завтра: %s", task.Title)
		}

		out = append(out, domain.Notification{
			ID:        fmt.Sprintf("task_%d", task.ID),
			Type:      "task",
			Urgency:   urgency,
			Title:     title,
			LeadID:    task.LeadID,
			LeadName:  leadNames[task.LeadID],
			Priority:  task.Priority,
			DueDate:   task.DueDate.Format("2006-01-02"),
			CreatedAt: now,
		})
	}
	return out
}

// leadNotifications flags high-priority leads in the first three pipeline
// stages: leads never called, and leads silent for more than three days.
func (n *Notifier) leadNotifications(ctx context.Context, leads []domain.Lead, stages []domain.Stage, now time.Time) ([]domain.Notification, error) {
	earlyStages := make(map[domain.StageID]bool, 3)
	for i, stage := range stages {
		if i >= 3 {
			break
		}
		earlyStages[stage.ID] = true
	}

	var out []domain.Notification
	checked := 0
	for _, lead := range leads {
		if lead.Priority != domain.PriorityHigh || !earlyStages[lead.StageID] {
			continue
		}
		if checked >= 10 {
			break
		}
		checked++

		calls, err := n.activities.ListCalls(ctx, lead.ID)
		if err != nil {
			return nil, err
		}

		daysOld := int(now.Sub(lead.CreatedAt).Hours() / 24)
		if len(calls) == 0 && daysOld > 0 {
			out = append(out, domain.Notification{
				ID:        fmt.Sprintf("lead_%d_no_calls", lead.ID),
				Type:      "lead",
				Urgency:   domain.UrgencyUrgent,
				Title:     fmt.Sprintf("Нет звонков: %s", lead.Name),
				LeadID:    lead.ID,
				LeadName:  lead.Name,
				Priority:  lead.Priority,
				Message:   fmt.Sprintf("Приоритетный лид без звонков уже %d дн.", daysOld),
				CreatedAt: now,
			})
			continue
		}

		if len(calls) > 0 {
			daysSince := int(now.Sub(calls[0].StartedAt).Hours() / 24)
			if daysSince > 3 {
				out = append(out, domain.Notification{
					ID:        fmt.Sprintf("lead_%d_inactive", lead.ID),
					Type:      "lead",
					Urgency:   domain.UrgencyNormal,
					Title:     fmt.Sprintf("Давно не было контакта: %s", lead.Name),
					LeadID:    lead.ID,
					LeadName:  lead.Name,
					Priority:  lead.Priority,
					Message:   fmt.Sprintf("Последний звонок был %d дн. назад", daysSince),
					CreatedAt: now,
				})
			}
		}
	}
	return out, nil
}

// sortNotifications orders overdue first, then urgent, then normal, with
// earlier due dates first inside each band.
func sortNotifications(notifications []domain.Notification) {
	sort.SliceStable(notifications, func(i, j int) bool {
		if notifications[i].Urgency.Rank() != notifications[j].Urgency.Rank() {
			return notifications[i].Urgency.Rank() < notifications[j].Urgency.Rank()
		}
		di, dj := notifications[i].DueDate, notifications[j].DueDate
		if di == "" {
			di = "9999-99-99"
		}
		if dj == "" {
			dj = "9999-99-99"
		}
		return di < dj
	})
}
