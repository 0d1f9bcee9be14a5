package domain

// BoardColumn is one kanban column: a stage plus the (filtered) leads in it.
type BoardColumn struct {
	Stage Stage  `json:"stage"`
	Leads []Lead `json:"leads"`
}

// BoardSnapshot is the full board view the CRM renders: every stage in
// position order with its leads, after the search/priority/source projection.
type BoardSnapshot struct {
	Success bool          `json:"success"`
	Stages  []Stage       `json:"stages"`
	Leads   []Lead        `json:"leads"`
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}
