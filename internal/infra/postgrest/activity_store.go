package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// taskRow maps the lead_tasks table.
type taskRow struct {
	ID          int64      `json:"id"`
	LeadID      int64      `json:"lead_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *storeTime `json:"due_date"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	CreatedAt   storeTime  `json:"created_at"`
}

func (r *taskRow) toDomain() domain.Task {
	task := domain.Task{
		ID:        domain.TaskID(r.ID),
		LeadID:    domain.LeadID(r.LeadID),
		Title:     r.Title,
		DueDate:   timeOrNil(r.DueDate),
		Completed: r.Completed,
		Priority:  domain.Priority(r.Priority),
		CreatedAt: r.CreatedAt.Time,
	}
	if r.Description != nil {
		task.Description = *r.Description
	}
	return task
}

// commentRow maps the lead_comments table.
type commentRow struct {
	ID         int64     `json:"id"`
	LeadID     int64     `json:"lead_id"`
	AuthorName *string   `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  storeTime `json:"created_at"`
}

func (r *commentRow) toDomain() domain.Comment {
	comment := domain.Comment{
		ID:        domain.CommentID(r.ID),
		LeadID:    domain.LeadID(r.LeadID),
		Text:      r.Text,
		CreatedAt: r.CreatedAt.Time,
	}
	if r.AuthorName != nil {
		comment.AuthorName = *r.AuthorName
	}
	return comment
}

// callRow maps the lead_calls table.
type callRow struct {
	ID           int64     `json:"id"`
	LeadID       int64     `json:"lead_id"`
	PhoneNumber  string    `json:"phone_number"`
	Direction    string    `json:"direction"`
	Duration     int       `json:"duration"`
	RecordingURL *string   `json:"recording_url"`
	Status       string    `json:"status"`
	ProviderID   *string   `json:"provider_call_id"`
	StartedAt    storeTime `json:"started_at"`
}

func (r *callRow) toDomain() domain.Call {
	call := domain.Call{
		ID:          domain.CallID(r.ID),
		LeadID:      domain.LeadID(r.LeadID),
		PhoneNumber: r.PhoneNumber,
		Direction:   domain.CallDirection(r.Direction),
		Duration:    r.Duration,
		Status:      r.Status,
		StartedAt:   r.StartedAt.Time,
	}
	if r.RecordingURL != nil {
		call.RecordingURL = *r.RecordingURL
	}
	if r.ProviderID != nil {
		call.ProviderID = *r.ProviderID
	}
	return call
}

// ListTasks fetches a lead's tasks newest-first.
func (c *Client) ListTasks(ctx context.Context, leadID domain.LeadID) ([]domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.ListTasks")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	var tasks []domain.Task
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, fmt.Sprintf("lead_tasks?lead_id=eq.%d&order=created_at.desc", leadID))
		if err != nil {
			return err
		}
		if body == nil {
			tasks = []domain.Task{}
			return nil
		}

		var rows []taskRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode tasks: %w", err)
		}

		tasks = make([]domain.Task, 0, len(rows))
		for i := range rows {
			tasks = append(tasks, rows[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/tasks", Err: err}
	}

	return tasks, nil
}

// ListDueTasks returns open tasks with a due date on or before the cutoff,
// across all leads, earliest due first.
func (c *Client) ListDueTasks(ctx context.Context, dueBefore time.Time) ([]domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.ListDueTasks")
	defer span.End()

	var tasks []domain.Task
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf(
			"lead_tasks?completed=eq.false&due_date=not.is.null&due_date=lte.%s&order=due_date.asc",
			dueBefore.UTC().Format("2006-01-02"),
		)
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}
		if body == nil {
			tasks = []domain.Task{}
			return nil
		}

		var rows []taskRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode due tasks: %w", err)
		}

		tasks = make([]domain.Task, 0, len(rows))
		for i := range rows {
			tasks = append(tasks, rows[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/tasks", Err: err}
	}

	return tasks, nil
}

// CreateTask inserts a task for a lead.
func (c *Client) CreateTask(ctx context.Context, leadID domain.LeadID, req *domain.CreateTaskRequest) (domain.TaskID, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateTask")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	data := map[string]any{
		"lead_id":  int64(leadID),
		"title":    req.Title,
		"priority": string(priority),
	}
	if req.Description != "" {
		data["description"] = req.Description
	}
	if req.DueDate != nil {
		data["due_date"] = req.DueDate.UTC().Format(time.RFC3339)
	}

	var id domain.TaskID
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "lead_tasks", data)
		if err != nil {
			return err
		}
		raw, err := insertedID(body)
		if err != nil {
			return err
		}
		id = domain.TaskID(raw)
		return nil
	})
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "store/tasks", Err: err}
	}

	return id, nil
}

// SetTaskCompleted toggles a task's completed flag.
func (c *Client) SetTaskCompleted(ctx context.Context, id domain.TaskID, completed bool) error {
	ctx, span := tracer.Start(ctx, "Store.SetTaskCompleted")
	defer span.End()
	span.SetAttributes(attribute.Int64("task.id", int64(id)))

	err := c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("lead_tasks?id=eq.%d", id), map[string]any{
			"completed": completed,
		})
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/tasks", Err: err}
	}
	return nil
}

// ListComments fetches a lead's comments newest-first.
func (c *Client) ListComments(ctx context.Context, leadID domain.LeadID) ([]domain.Comment, error) {
	ctx, span := tracer.Start(ctx, "Store.ListComments")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	var comments []domain.Comment
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, fmt.Sprintf("lead_comments?lead_id=eq.%d&order=created_at.desc", leadID))
		if err != nil {
			return err
		}
		if body == nil {
			comments = []domain.Comment{}
			return nil
		}

		var rows []commentRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode comments: %w", err)
		}

		comments = make([]domain.Comment, 0, len(rows))
		for i := range rows {
			comments = append(comments, rows[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/comments", Err: err}
	}

	return comments, nil
}

// CreateComment inserts a comment on a lead.
func (c *Client) CreateComment(ctx context.Context, leadID domain.LeadID, req *domain.AddCommentRequest) (domain.CommentID, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateComment")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	data := map[string]any{
		"lead_id": int64(leadID),
		"text":    req.Text,
	}
	if req.AuthorName != "" {
		data["author_name"] = req.AuthorName
	}

	var id domain.CommentID
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "lead_comments", data)
		if err != nil {
			return err
		}
		raw, err := insertedID(body)
		if err != nil {
			return err
		}
		id = domain.CommentID(raw)
		return nil
	})
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "store/comments", Err: err}
	}

	return id, nil
}

// ListCalls fetches a lead's calls newest-first.
func (c *Client) ListCalls(ctx context.Context, leadID domain.LeadID) ([]domain.Call, error) {
	ctx, span := tracer.Start(ctx, "Store.ListCalls")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	var calls []domain.Call
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, fmt.Sprintf("lead_calls?lead_id=eq.%d&order=started_at.desc", leadID))
		if err != nil {
			return err
		}
		if body == nil {
			calls = []domain.Call{}
			return nil
		}

		var rows []callRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode calls: %w", err)
		}

		calls = make([]domain.Call, 0, len(rows))
		for i := range rows {
			calls = append(calls, rows[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/calls", Err: err}
	}

	return calls, nil
}

// RecordCall inserts a call record (initiation or provider webhook).
func (c *Client) RecordCall(ctx context.Context, call *domain.Call) (domain.CallID, error) {
	ctx, span := tracer.Start(ctx, "Store.RecordCall")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(call.LeadID)))

	data := map[string]any{
		"lead_id":      int64(call.LeadID),
		"phone_number": call.PhoneNumber,
		"direction":    string(call.Direction),
		"duration":     call.Duration,
		"status":       call.Status,
	}
	if call.RecordingURL != "" {
		data["recording_url"] = call.RecordingURL
	}
	if call.ProviderID != "" {
		data["provider_call_id"] = call.ProviderID
	}
	if !call.StartedAt.IsZero() {
		data["started_at"] = call.StartedAt.UTC().Format(time.RFC3339)
	}

	var id domain.CallID
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "lead_calls", data)
		if err != nil {
			return err
		}
		raw, err := insertedID(body)
		if err != nil {
			return err
		}
		id = domain.CallID(raw)
		return nil
	})
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "store/calls", Err: err}
	}

	return id, nil
}
