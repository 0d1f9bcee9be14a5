package domain

// Assistant request/response contracts between the gateway and the external
// AI agent service.

// AssistantAction selects what the agent should do with a lead.
type AssistantAction string

const (
	ActionAnalyze   AssistantAction = "analyze"
	ActionSuggest   AssistantAction = "suggest"
	ActionSummarize AssistantAction = "summarize"
	ActionDailyPlan AssistantAction = "daily_plan"
)

// LeadContext is the flattened view of a lead handed to the agent.
type LeadContext struct {
	ID             LeadID   `json:"id"`
	Name           string   `json:"name"`
	Company        string   `json:"company,omitempty"`
	Vacancy        string   `json:"vacancy,omitempty"`
	Stage          string   `json:"stage"`
	Priority       Priority `json:"priority"`
	Source         string   `json:"source"`
	Notes          string   `json:"notes,omitempty"`
	DaysInPipeline int      `json:"days_in_pipeline"`
	CallsCount     int      `json:"calls_count"`
	OpenTasks      int      `json:"open_tasks"`
	CompletedTasks int      `json:"completed_tasks"`
	CommentsCount  int      `json:"comments_count"`
}

// LeadAnalysis is the agent's (or the fallback's) assessment of a lead.
type LeadAnalysis struct {
	LeadTemperature       string   `json:"lead_temperature"`
	ConversionProbability int      `json:"conversion_probability"`
	RiskLevel             string   `json:"risk_level"`
	KeyInsights           string   `json:"key_insights"`
	Recommendations       []string `json:"recommendations"`
}

// NextAction is a suggested next step for a lead.
type NextAction struct {
	Action         string   `json:"action"`
	Description    string   `json:"description"`
	Priority       Priority `json:"priority"`
	EstimatedTime  string   `json:"estimated_time"`
	ExpectedResult string   `json:"expected_result"`
}

// DailyTask is one entry of the backend-generated daily plan, consumed
// read-only by the CRM.
type DailyTask struct {
	LeadID        LeadID   `json:"lead_id"`
	LeadName      string   `json:"lead_name"`
	Action        string   `json:"action"`
	Priority      Priority `json:"priority"`
	Reason        string   `json:"reason"`
	EstimatedTime string   `json:"estimated_time"`
}

// LeadDigest is the per-lead summary fed into the daily plan generator.
type LeadDigest struct {
	ID        LeadID   `json:"id"`
	Name      string   `json:"name"`
	StageID   StageID  `json:"stage_id"`
	Priority  Priority `json:"priority"`
	OpenTasks int      `json:"open_tasks"`
	LastCall  string   `json:"last_call"`
}

// Insight is a quick, locally computed hint about a lead.
type Insight struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
	Type string `json:"type"` // urgent | warning | info | success
}

// AgentRequest is the HTTP contract to the agent service.
type AgentRequest struct {
	Action  AssistantAction `json:"action"`
	Lead    *LeadContext    `json:"lead,omitempty"`
	Leads   []LeadDigest    `json:"leads,omitempty"`
	Context string          `json:"context,omitempty"`
}

// AgentResponse is everything the agent can return; only the fields for the
// requested action are populated.
type AgentResponse struct {
	Analysis   *LeadAnalysis `json:"analysis,omitempty"`
	Suggestion *NextAction   `json:"suggestion,omitempty"`
	Summary    string        `json:"summary,omitempty"`
	DailyTasks []DailyTask   `json:"daily_tasks,omitempty"`
}
