package postgrest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// stageRow maps the lead_stages table.
type stageRow struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

func (r *stageRow) toDomain() domain.Stage {
	return domain.Stage{
		ID:       domain.StageID(r.ID),
		Name:     r.Name,
		Color:    r.Color,
		Position: r.Position,
	}
}

// ListStages fetches all pipeline stages in position order.
func (c *Client) ListStages(ctx context.Context) ([]domain.Stage, error) {
	ctx, span := tracer.Start(ctx, "Store.ListStages")
	defer span.End()

	var stages []domain.Stage
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "lead_stages?order=position.asc")
		if err != nil {
			return err
		}
		if body == nil {
			stages = []domain.Stage{}
			return nil
		}

		var rows []stageRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode stages: %w", err)
		}

		stages = make([]domain.Stage, 0, len(rows))
		for i := range rows {
			stages = append(stages, rows[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/stages", Err: err}
	}

	return stages, nil
}

// CreateStage inserts a stage. When req.Position is zero the next free
// position (max+1) is assigned.
func (c *Client) CreateStage(ctx context.Context, req *domain.CreateStageRequest) (domain.StageID, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateStage")
	defer span.End()

	position := req.Position
	if position == 0 {
		stages, err := c.ListStages(ctx)
		if err != nil {
			return 0, err
		}
		for _, s := range stages {
			if s.Position >= position {
				position = s.Position + 1
			}
		}
		if position == 0 {
			position = 1
		}
	}

	color := req.Color
	if color == "" {
		color = domain.DefaultStageColor
	}

	var id domain.StageID
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "lead_stages", map[string]any{
			"name":     req.Name,
			"color":    color,
			"position": position,
		})
		if err != nil {
			return err
		}
		raw, err := insertedID(body)
		if err != nil {
			return err
		}
		id = domain.StageID(raw)
		return nil
	})
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "store/stages", Err: err}
	}

	return id, nil
}

// UpdateStage overwrites name, color and position of a stage.
func (c *Client) UpdateStage(ctx context.Context, id domain.StageID, req *domain.UpdateStageRequest) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateStage")
	defer span.End()
	span.SetAttributes(attribute.Int64("stage.id", int64(id)))

	err := c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("lead_stages?id=eq.%d", id), map[string]any{
			"name":     req.Name,
			"color":    req.Color,
			"position": req.Position,
		})
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/stages", Err: err}
	}
	return nil
}

// DeleteStage reassigns the stage's leads to the lowest-position stage and
// then deletes the stage, so no lead is left with a dangling stage_id.
func (c *Client) DeleteStage(ctx context.Context, id domain.StageID) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteStage")
	defer span.End()
	span.SetAttributes(attribute.Int64("stage.id", int64(id)))

	stages, err := c.ListStages(ctx)
	if err != nil {
		return err
	}

	var first *domain.Stage
	for i := range stages {
		if stages[i].ID == id {
			continue
		}
		if first == nil || stages[i].Position < first.Position {
			first = &stages[i]
		}
	}

	err = c.execute(ctx, func() error {
		if first != nil {
			if err := c.doPatch(ctx, fmt.Sprintf("lead_data?stage_id=eq.%d", id), map[string]any{
				"stage_id": int64(first.ID),
			}); err != nil {
				return err
			}
		}
		return c.doDelete(ctx, fmt.Sprintf("lead_stages?id=eq.%d", id))
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/stages", Err: err}
	}
	return nil
}
