package domain

import "time"

// TimelineEventType tags entries of a lead's unified activity feed.
type TimelineEventType string

const (
	EventInfo    TimelineEventType = "info"
	EventTask    TimelineEventType = "task"
	EventComment TimelineEventType = "comment"
	EventCall    TimelineEventType = "call"
)

// TimelineEvent is a derived, client-only union over a lead's creation,
// tasks, comments and calls. It is rebuilt on every request and never
// persisted.
type TimelineEvent struct {
	ID        string            `json:"id"`
	Type      TimelineEventType `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Title     string            `json:"title"`
	Task      *Task             `json:"task,omitempty"`
	Comment   *Comment          `json:"comment,omitempty"`
	Call      *Call             `json:"call,omitempty"`
}
