package domain

import "time"

// TaskID, CommentID and CallID identify activity records owned by one lead.
type TaskID int64

type CommentID int64

type CallID int64

// Task is a follow-up item attached to a lead.
type Task struct {
	ID          TaskID     `json:"id"`
	LeadID      LeadID     `json:"lead_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Comment is a free-text note on a lead's timeline.
type Comment struct {
	ID         CommentID `json:"id"`
	LeadID     LeadID    `json:"lead_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// CallDirection of a telephony call.
type CallDirection string

const (
	CallIncoming CallDirection = "incoming"
	CallOutgoing CallDirection = "outgoing"
)

// Call is one telephony interaction with a lead.
type Call struct {
	ID           CallID        `json:"id"`
	LeadID       LeadID        `json:"lead_id"`
	PhoneNumber  string        `json:"phone_number"`
	Direction    CallDirection `json:"direction"`
	Duration     int           `json:"duration"` // seconds
	RecordingURL string        `json:"recording_url,omitempty"`
	Status       string        `json:"status"`
	ProviderID   string        `json:"provider_call_id,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
}

// CreateTaskRequest creates a task on a lead.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
}

// ToggleTaskRequest marks a task completed or reopens it.
type ToggleTaskRequest struct {
	Completed bool `json:"completed"`
}

// AddCommentRequest adds a comment to a lead. Text is trimmed and must be
// non-empty.
type AddCommentRequest struct {
	AuthorName string `json:"author_name,omitempty"`
	Text       string `json:"text"`
}

// InitiateCallRequest starts an outgoing call to a lead's phone through the
// telephony provider.
type InitiateCallRequest struct {
	Phone string `json:"phone"`
}

// CallResult is returned to the UI after a call initiation.
type CallResult struct {
	CallID  CallID `json:"call_id"`
	Message string `json:"message"`
}

// CallWebhook is the payload the telephony provider pushes when a call
// completes.
type CallWebhook struct {
	LeadID       LeadID        `json:"lead_id"`
	PhoneNumber  string        `json:"to"`
	Direction    CallDirection `json:"direction"`
	Duration     int           `json:"duration"`
	RecordingURL string        `json:"recording_url,omitempty"`
	Status       string        `json:"status"`
	ProviderID   string        `json:"call_id"`
}
