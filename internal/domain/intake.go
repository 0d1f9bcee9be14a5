package domain

// IntakeRequest is a lead-capture submission from a landing page form.
type IntakeRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Company   string `json:"company,omitempty"`
	Vacancy   string `json:"vacancy,omitempty"`
	Source    string `json:"source,omitempty"`
	FormType  string `json:"form_type,omitempty"`
	Page      string `json:"page,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// IntakeResponse acknowledges a stored submission.
type IntakeResponse struct {
	Success bool   `json:"success"`
	LeadID  LeadID `json:"lead_id"`
	Message string `json:"message"`
}

// LeadEvent is published to the event bus when a lead is created through
// intake or moved to another stage.
type LeadEvent struct {
	Type     string  `json:"type"` // "lead.created" or "lead.moved"
	LeadID   LeadID  `json:"lead_id"`
	StageID  StageID `json:"stage_id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Source   string  `json:"source,omitempty"`
	Page     string  `json:"page,omitempty"`
	FormType string  `json:"form_type,omitempty"`
}
