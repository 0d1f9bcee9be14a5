package domain

import "time"

// LeadID and StageID are typed identifiers. Drag-and-drop payloads arrive as
// opaque strings from the board UI; they become typed at the data-model
// boundary and stay typed from there on.
type LeadID int64

// StageID identifies one pipeline column.
type StageID int64

// Priority of a lead or task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Lead is a prospective client contact record tracked through the pipeline.
// The external store owns it; the gateway holds transient copies only.
type Lead struct {
	ID         LeadID    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	Company    string    `json:"company,omitempty"`
	Vacancy    string    `json:"vacancy,omitempty"`
	Source     string    `json:"source"`
	StageID    StageID   `json:"stage_id"`
	StageName  string    `json:"stage_name,omitempty"`
	StageColor string    `json:"stage_color,omitempty"`
	Priority   Priority  `json:"priority"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`

	// Populated on the detail view only.
	Tasks    []Task    `json:"tasks,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
	Calls    []Call    `json:"calls,omitempty"`
}

// CreateLeadRequest creates a lead from the CRM "new lead" dialog.
type CreateLeadRequest struct {
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email,omitempty"`
	Company  string   `json:"company,omitempty"`
	Vacancy  string   `json:"vacancy,omitempty"`
	Source   string   `json:"source,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// UpdateLeadRequest carries the editable subset of lead fields. Nil pointers
// mean "leave unchanged" so the store can issue a partial PATCH.
type UpdateLeadRequest struct {
	Name     *string   `json:"name,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Company  *string   `json:"company,omitempty"`
	Vacancy  *string   `json:"vacancy,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

// MoveLeadRequest moves a lead to another pipeline stage (drag-and-drop).
type MoveLeadRequest struct {
	StageID StageID `json:"stage_id"`
}

// LeadFilter selects leads for the board projection and the export.
// Zero values mean "all".
type LeadFilter struct {
	Query    string
	Priority Priority
	Source   string
	StageID  StageID
	DateFrom time.Time
	DateTo   time.Time
}
