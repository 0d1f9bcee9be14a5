package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/onedayhr/leadboard/internal/domain"
)

// BuildTimeline merges a lead's creation, tasks, comments and calls into one
// feed sorted most recent first. Pure and repeatable: the same lead always
// yields the same ordered output, and ties keep their insertion order
// (creation, tasks, comments, calls).
func BuildTimeline(lead *domain.Lead) []domain.TimelineEvent {
	events := make([]domain.TimelineEvent, 0, 1+len(lead.Tasks)+len(lead.Comments)+len(lead.Calls))

	events = append(events, domain.TimelineEvent{
		ID:        fmt.Sprintf("info-%d", lead.ID),
		Type:      domain.EventInfo,
		Timestamp: lead.CreatedAt,
		Title:     "Лид создан",
	})

	for i := range lead.Tasks {
		task := lead.Tasks[i]
		ts := task.CreatedAt
		if ts.IsZero() {
			ts = lead.CreatedAt
		}
		events = append(events, domain.TimelineEvent{
			ID:        fmt.Sprintf("task-%d", task.ID),
			Type:      domain.EventTask,
			Timestamp: ts,
			Title:     task.Title,
			Task:      &task,
		})
	}

	for i := range lead.Comments {
		comment := lead.Comments[i]
		events = append(events, domain.TimelineEvent{
			ID:        fmt.Sprintf("comment-%d", comment.ID),
			Type:      domain.EventComment,
			Timestamp: comment.CreatedAt,
			Title:     comment.Text,
			Comment:   &comment,
		})
	}

	for i := range lead.Calls {
		call := lead.Calls[i]
		title := "Исходящий звонок"
		if call.Direction == domain.CallIncoming {
			title = "Входящий звонок"
		}
		events = append(events, domain.TimelineEvent{
			ID:        fmt.Sprintf("call-%d", call.ID),
			Type:      domain.EventCall,
			Timestamp: call.StartedAt,
			Title:     title,
			Call:      &call,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	return events
}

// GetTimeline loads the lead detail and projects it into the event feed.
func (s *CRMService) GetTimeline(ctx context.Context, id domain.LeadID) ([]domain.TimelineEvent, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.GetTimeline")
	defer span.End()

	lead, err := s.GetLeadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildTimeline(lead), nil
}
