package domain

// Stage is one named, ordered column of the pipeline kanban board.
type Stage struct {
	ID       StageID `json:"id"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Position int     `json:"position"`
}

// DefaultStageColor is applied when a stage is created without one.
const DefaultStageColor = "#3b82f6"

// CreateStageRequest creates a pipeline stage. Position is assigned
// server-side (max+1) when zero.
type CreateStageRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Position int    `json:"position,omitempty"`
}

// UpdateStageRequest edits an existing stage.
type UpdateStageRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

// DeleteStageRequest deletes a stage. Confirm must be set explicitly;
// deletion reassigns the stage's leads to the lowest-position stage first.
type DeleteStageRequest struct {
	Confirm bool `json:"confirm"`
}
