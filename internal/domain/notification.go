package domain

import "time"

// NotificationUrgency orders notifications in the dropdown: overdue first,
// then urgent, then normal.
type NotificationUrgency string

const (
	UrgencyOverdue NotificationUrgency = "overdue"
	UrgencyUrgent  NotificationUrgency = "urgent"
	UrgencyNormal  NotificationUrgency = "normal"
)

// Rank returns the sort rank of u (lower sorts first).
func (u NotificationUrgency) Rank() int {
	switch u {
	case UrgencyOverdue:
		return 0
	case UrgencyUrgent:
		return 1
	}
	return 2
}

// Notification is a derived alert about a due task or a lead needing
// attention. Rebuilt by the sweep worker; never persisted.
type Notification struct {
	ID        string              `json:"id"`
	Type      string              `json:"type"` // "task" | "lead"
	Urgency   NotificationUrgency `json:"urgency"`
	Title     string              `json:"title"`
	LeadID    LeadID              `json:"lead_id,omitempty"`
	LeadName  string              `json:"lead_name,omitempty"`
	Priority  Priority            `json:"priority,omitempty"`
	Message   string              `json:"message,omitempty"`
	DueDate   string              `json:"due_date,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// NotificationList is the polled response shape.
type NotificationList struct {
	Success       bool           `json:"success"`
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
}
