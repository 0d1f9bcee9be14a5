package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// leadRow maps the lead_data table. The embedded stage row comes from a
// PostgREST resource embed on stage_id.
type leadRow struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     *string    `json:"email"`
	Company   *string    `json:"company"`
	Vacancy   *string    `json:"vacancy"`
	Source    string     `json:"source"`
	StageID   int64      `json:"stage_id"`
	Priority  string     `json:"priority"`
	Notes     *string    `json:"notes"`
	CreatedAt storeTime  `json:"created_at"`
	UpdatedAt *storeTime `json:"updated_at"`
	Stage     *stageRow  `json:"stage"`
}

func (r *leadRow) toDomain() domain.Lead {
	lead := domain.Lead{
		ID:        domain.LeadID(r.ID),
		Name:      r.Name,
		Phone:     r.Phone,
		Source:    r.Source,
		StageID:   domain.StageID(r.StageID),
		Priority:  domain.Priority(r.Priority),
		CreatedAt: r.CreatedAt.Time,
	}
	if r.Email != nil {
		lead.Email = *r.Email
	}
	if r.Company != nil {
		lead.Company = *r.Company
	}
	if r.Vacancy != nil {
		lead.Vacancy = *r.Vacancy
	}
	if r.Notes != nil {
		lead.Notes = *r.Notes
	}
	if r.UpdatedAt != nil {
		lead.UpdatedAt = r.UpdatedAt.Time
	}
	if r.Stage != nil {
		lead.StageName = r.Stage.Name
		lead.StageColor = r.Stage.Color
	}
	return lead
}

// ListLeads fetches leads newest-first, with optional store-side filters.
// Free-text search stays in the service layer by design.
func (c *Client) ListLeads(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Store.ListLeads")
	defer span.End()

	params := url.Values{}
	params.Set("select", "*,stage:lead_stages(id,name,color,position)")
	params.Set("order", "created_at.desc")
	if filter.Priority != "" && filter.Priority != "all" {
		params.Set("priority", "eq."+string(filter.Priority))
	}
	if filter.Source != "" && filter.Source != "all" {
		params.Set("source", "eq."+filter.Source)
	}
	if filter.StageID != 0 {
		params.Set("stage_id", fmt.Sprintf("eq.%d", filter.StageID))
	}
	if !filter.DateFrom.IsZero() {
		params.Add("created_at", "gte."+filter.DateFrom.Format(time.RFC3339))
	}
	if !filter.DateTo.IsZero() {
		params.Add("created_at", "lte."+filter.DateTo.Format(time.RFC3339))
	}

	var leads []domain.Lead
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "lead_data?"+params.Encode())
		if err != nil {
			return err
		}
		if body == nil {
			leads = []domain.Lead{}
			return nil
		}

		var rows []leadRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode leads: %w", err)
		}

		leads = make([]domain.Lead, 0, len(rows))
		for i := range rows {
			leads = append(leads, rows[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/leads", Err: err}
	}

	return leads, nil
}

// GetLead fetches one lead without its activity; the service layer fans out
// for tasks/comments/calls.
func (c *Client) GetLead(ctx context.Context, id domain.LeadID) (*domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Store.GetLead")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(id)))

	var lead *domain.Lead
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("lead_data?id=eq.%d&select=*,stage:lead_stages(id,name,color,position)&limit=1", id)
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			return &domain.ErrNotFound{Resource: "lead", ID: fmt.Sprint(id)}
		}

		var rows []leadRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode lead: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "lead", ID: fmt.Sprint(id)}
		}

		l := rows[0].toDomain()
		lead = &l
		return nil
	})
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, &domain.ErrExternalService{Service: "store/leads", Err: err}
	}

	return lead, nil
}

// CreateLead inserts a lead and returns its id.
func (c *Client) CreateLead(ctx context.Context, req *domain.CreateLeadRequest) (domain.LeadID, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateLead")
	defer span.End()

	data := map[string]any{
		"name":     req.Name,
		"phone":    req.Phone,
		"source":   req.Source,
		"priority": string(req.Priority),
	}
	if req.Email != "" {
		data["email"] = req.Email
	}
	if req.Company != "" {
		data["company"] = req.Company
	}
	if req.Vacancy != "" {
		data["vacancy"] = req.Vacancy
	}
	if req.Notes != "" {
		data["notes"] = req.Notes
	}

	var id domain.LeadID
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "lead_data", data)
		if err != nil {
			return err
		}
		raw, err := insertedID(body)
		if err != nil {
			return err
		}
		id = domain.LeadID(raw)
		return nil
	})
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "store/leads", Err: err}
	}

	return id, nil
}

// UpdateLead issues a partial PATCH with only the fields present in req.
func (c *Client) UpdateLead(ctx context.Context, id domain.LeadID, req *domain.UpdateLeadRequest) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateLead")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(id)))

	data := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if req.Name != nil {
		data["name"] = *req.Name
	}
	if req.Phone != nil {
		data["phone"] = *req.Phone
	}
	if req.Email != nil {
		data["email"] = *req.Email
	}
	if req.Company != nil {
		data["company"] = *req.Company
	}
	if req.Vacancy != nil {
		data["vacancy"] = *req.Vacancy
	}
	if req.Priority != nil {
		data["priority"] = string(*req.Priority)
	}
	if req.Notes != nil {
		data["notes"] = *req.Notes
	}

	err := c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("lead_data?id=eq.%d", id), data)
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/leads", Err: err}
	}
	return nil
}

// MoveLead PATCHes only the stage_id column. Last write wins; the board
// refetch afterwards shows the authoritative state.
func (c *Client) MoveLead(ctx context.Context, id domain.LeadID, stageID domain.StageID) error {
	ctx, span := tracer.Start(ctx, "Store.MoveLead")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("lead.id", int64(id)),
		attribute.Int64("stage.id", int64(stageID)),
	)

	err := c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("lead_data?id=eq.%d", id), map[string]any{
			"stage_id":   int64(stageID),
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		})
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/leads", Err: err}
	}
	return nil
}
