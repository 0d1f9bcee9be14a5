package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var assistantTracer = otel.Tracer("service/assistant")

// Assistant orchestrates the AI agent calls for lead analysis, next-step
// suggestions, summaries and the daily plan. When the agent is unreachable
// or not configured it falls back to local heuristics, so the CRM always
// gets an answer.
type Assistant struct {
	agent      port.AgentCaller
	leads      port.LeadStore
	activities port.ActivityStore
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewAssistant creates the assistant service.
func NewAssistant(agent port.AgentCaller, leads port.LeadStore, activities port.ActivityStore, metrics *observability.Metrics, logger *zap.Logger) *Assistant {
	return &Assistant{
		agent:      agent,
		leads:      leads,
		activities: activities,
		metrics:    metrics,
		logger:     logger,
	}
}

// buildContext loads the lead and flattens it with its activity counters
// into the view the agent prompt wants.
func (a *Assistant) buildContext(ctx context.Context, leadID domain.LeadID) (*domain.LeadContext, error) {
	lead, err := a.leads.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	var (
		tasks    []domain.Task
		comments []domain.Comment
		calls    []domain.Call
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = a.activities.ListTasks(gctx, leadID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = a.activities.ListComments(gctx, leadID)
		return err
	})
	g.Go(func() error {
		var err error
		calls, err = a.activities.ListCalls(gctx, leadID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	return &domain.LeadContext{
		ID:             lead.ID,
		Name:           lead.Name,
		Company:        lead.Company,
		Vacancy:        lead.Vacancy,
		Stage:          lead.StageName,
		Priority:       lead.Priority,
		Source:         lead.Source,
		Notes:          lead.Notes,
		DaysInPipeline: int(time.Since(lead.CreatedAt).Hours() / 24),
		CallsCount:     len(calls),
		OpenTasks:      len(tasks) - completed,
		CompletedTasks: completed,
		CommentsCount:  len(comments),
	}, nil
}

// callAgent invokes the agent and reports whether the fallback should take
// over. Store errors (lead missing etc.) are never swallowed.
func (a *Assistant) callAgent(ctx context.Context, req *domain.AgentRequest) (*domain.AgentResponse, bool) {
	resp, err := a.agent.Call(ctx, req)
	if err == nil {
		return resp, false
	}

	var notConfigured *domain.ErrProviderNotConfigured
	if !errors.As(err, &notConfigured) {
		a.metrics.IncrExternalError("agent")
	}
	a.logger.Warn("assistant: agent unavailable, using fallback",
		zap.String("action", string(req.Action)),
		zap.Error(err),
	)
	return nil, true
}

// Analyze returns the agent's assessment of a lead, or the heuristic one.
func (a *Assistant) Analyze(ctx context.Context, leadID domain.LeadID) (*domain.LeadAnalysis, error) {
	ctx, span := assistantTracer.Start(ctx, "Assistant.Analyze")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	start := time.Now()
	defer func() { a.metrics.RecordRequestDuration("assistant_analyze", time.Since(start)) }()

	lc, err := a.buildContext(ctx, leadID)
	if err != nil {
		return nil, err
	}

	resp, fallback := a.callAgent(ctx, &domain.AgentRequest{Action: domain.ActionAnalyze, Lead: lc})
	if !fallback && resp.Analysis != nil {
		return resp.Analysis, nil
	}
	return fallbackAnalysis(lc), nil
}

// SuggestAction returns one concrete next step for a lead.
func (a *Assistant) SuggestAction(ctx context.Context, leadID domain.LeadID) (*domain.NextAction, error) {
	ctx, span := assistantTracer.Start(ctx, "Assistant.SuggestAction")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	lc, err := a.buildContext(ctx, leadID)
	if err != nil {
		return nil, err
	}

	resp, fallback := a.callAgent(ctx, &domain.AgentRequest{Action: domain.ActionSuggest, Lead: lc})
	if !fallback && resp.Suggestion != nil {
		return resp.Suggestion, nil
	}
	return fallbackSuggestion(lc), nil
}

// Summarize returns a short free-text briefing on a lead.
func (a *Assistant) Summarize(ctx context.Context, leadID domain.LeadID) (string, error) {
	ctx, span := assistantTracer.Start(ctx, "Assistant.Summarize")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	lc, err := a.buildContext(ctx, leadID)
	if err != nil {
		return "", err
	}

	resp, fallback := a.callAgent(ctx, &domain.AgentRequest{Action: domain.ActionSummarize, Lead: lc})
	if !fallback && resp.Summary != "" {
		return resp.Summary, nil
	}
	return fmt.Sprintf("Лид %s на этапе %s. Компания: %s.", lc.Name, orDefault(lc.Stage, "не указан"), orDefault(lc.Company, "не указана")), nil
}

// DailyPlan digests up to 20 leads and asks the agent for 5-7 prioritised
// tasks for the day.
func (a *Assistant) DailyPlan(ctx context.Context, leadIDs []domain.LeadID) ([]domain.DailyTask, error) {
	ctx, span := assistantTracer.Start(ctx, "Assistant.DailyPlan")
	defer span.End()

	if len(leadIDs) == 0 {
		return []domain.DailyTask{}, nil
	}
	if len(leadIDs) > 20 {
		leadIDs = leadIDs[:20]
	}

	digests := make([]domain.LeadDigest, 0, len(leadIDs))
	var firstLead *domain.Lead
	for _, id := range leadIDs {
		lead, err := a.leads.GetLead(ctx, id)
		if err != nil {
			return nil, err
		}
		if firstLead == nil {
			firstLead = lead
		}

		tasks, err := a.activities.ListTasks(ctx, id)
		if err != nil {
			return nil, err
		}
		open := 0
		for _, t := range tasks {
			if !t.Completed {
				open++
			}
		}

		calls, err := a.activities.ListCalls(ctx, id)
		if err != nil {
			return nil, err
		}
		lastCall := "никогда"
		if len(calls) > 0 {
			lastCall = calls[0].StartedAt.Format(time.RFC3339)
		}

		digests = append(digests, domain.LeadDigest{
			ID:        lead.ID,
			Name:      lead.Name,
			StageID:   lead.StageID,
			Priority:  lead.Priority,
			OpenTasks: open,
			LastCall:  lastCall,
		})
	}

	resp, fallback := a.callAgent(ctx, &domain.AgentRequest{Action: domain.ActionDailyPlan, Leads: digests})
	if !fallback && len(resp.DailyTasks) > 0 {
		tasks := resp.DailyTasks
		if len(tasks) > 7 {
			tasks = tasks[:7]
		}
		return tasks, nil
	}

	return []domain.DailyTask{{
		LeadID:        firstLead.ID,
		LeadName:      firstLead.Name,
		Action:        "Связаться с клиентом",
		Priority:      domain.PriorityHigh,
		Reason:        "Автоматическая рекомендация",
		EstimatedTime: "15 минут",
	}}, nil
}

// Insights computes quick local hints about a lead without calling the
// agent.
func (a *Assistant) Insights(ctx context.Context, leadID domain.LeadID) ([]domain.Insight, error) {
	ctx, span := assistantTracer.Start(ctx, "Assistant.Insights")
	defer span.End()

	lead, err := a.leads.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return QuickInsights(lead), nil
}

// QuickInsights derives the insight list from the lead fields alone.
func QuickInsights(lead *domain.Lead) []domain.Insight {
	var insights []domain.Insight

	if lead.StageName == "Новый лид" {
		insights = append(insights, domain.Insight{
			Icon: "Sparkles",
			Text: "Новый лид! Рекомендуется связаться в течение 2 часов",
			Type: "urgent",
		})
	}
	if lead.Priority == domain.PriorityHigh {
		insights = append(insights, domain.Insight{
			Icon: "AlertTriangle",
			Text: "Высокий приоритет - требует особого внимания",
			Type: "warning",
		})
	}
	if lead.Company == "" {
		insights = append(insights, domain.Insight{
			Icon: "Building2",
			Text: "Не указана компания - добавьте для лучшего контекста",
			Type: "info",
		})
	}
	if lead.Vacancy == "" {
		insights = append(insights, domain.Insight{
			Icon: "Briefcase",
			Text: "Не указана вакансия - уточните при первом контакте",
			Type: "info",
		})
	}
	if len(insights) == 0 {
		insights = append(insights, domain.Insight{
			Icon: "CheckCircle2",
			Text: "Все основные данные заполнены",
			Type: "success",
		})
	}
	return insights
}

// fallbackAnalysis scores the lead without the agent: 50 base, +20 for high
// priority, +10 for any call, +10 for any completed task. Temperature is
// cold up to 50, warm up to 70, hot above.
func fallbackAnalysis(lc *domain.LeadContext) *domain.LeadAnalysis {
	probability := 50
	if lc.Priority == domain.PriorityHigh {
		probability += 20
	}
	if lc.CallsCount > 0 {
		probability += 10
	}
	if lc.CompletedTasks > 0 {
		probability += 10
	}

	temperature := "холодный"
	switch {
	case probability > 70:
		temperature = "горячий"
	case probability > 50:
		temperature = "теплый"
	}

	return &domain.LeadAnalysis{
		LeadTemperature:       temperature,
		ConversionProbability: probability,
		RiskLevel:             "средний",
		KeyInsights:           fmt.Sprintf("Лид %s находится на этапе %s. Требуется активная работа.", lc.Name, orDefault(lc.Stage, "не указан")),
		Recommendations: []string{
			"Связаться с клиентом",
			"Уточнить детали вакансии",
			"Назначить следующую встречу",
		},
	}
}

func fallbackSuggestion(lc *domain.LeadContext) *domain.NextAction {
	return &domain.NextAction{
		Action:         "Позвонить клиенту",
		Description:    fmt.Sprintf("Свяжитесь с %s для уточнения деталей и обсуждения следующих шагов", lc.Name),
		Priority:       domain.PriorityMedium,
		EstimatedTime:  "15-20 минут",
		ExpectedResult: "Получить обратную связь и согласовать дальнейшие действия",
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
