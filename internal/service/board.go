package service

import (
	"context"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// GetBoard returns the full kanban view: every stage in position order with
// the leads that pass the filter, partitioned into columns. The unfiltered
// snapshot is cached briefly; filters are applied as a pure projection on
// top so every keystroke variant hits the same cached data.
func (s *CRMService) GetBoard(ctx context.Context, filter domain.LeadFilter) (*domain.BoardSnapshot, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.GetBoard")
	defer span.End()

	snapshot, ok := s.boardCache.Get(boardCacheKey)
	if ok {
		s.metrics.IncrCacheHit("board")
	} else {
		s.metrics.IncrCacheMiss("board")
		var err error
		snapshot, err = s.fetchBoard(ctx)
		if err != nil {
			return nil, err
		}
		s.boardCache.Set(boardCacheKey, snapshot)
	}

	filtered := FilterLeads(snapshot.Leads, filter)
	span.SetAttributes(attribute.Int("board.leads", len(filtered)))

	return &domain.BoardSnapshot{
		Success: true,
		Stages:  snapshot.Stages,
		Leads:   filtered,
		Columns: partitionByStage(snapshot.Stages, filtered),
		Total:   len(filtered),
	}, nil
}

// fetchBoard loads stages and leads from the store concurrently.
func (s *CRMService) fetchBoard(ctx context.Context) (*domain.BoardSnapshot, error) {
	g, gctx := errgroup.WithContext(ctx)

	var stages []domain.Stage
	var leads []domain.Lead

	g.Go(func() error {
		var err error
		stages, err = s.stages.ListStages(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		leads, err = s.leads.ListLeads(gctx, domain.LeadFilter{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.BoardSnapshot{
		Success: true,
		Stages:  stages,
		Leads:   leads,
		Columns: partitionByStage(stages, leads),
		Total:   len(leads),
	}, nil
}

// FilterLeads applies the free-text query and the priority/source/stage
// filters. A lead matches the query when its name, phone or company contains
// it case-insensitively. Zero filter values mean "all". Pure function; the
// input slice is never mutated.
func FilterLeads(leads []domain.Lead, filter domain.LeadFilter) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if filter.Query != "" &&
			!containsFold(lead.Name, filter.Query) &&
			!containsFold(lead.Phone, filter.Query) &&
			!containsFold(lead.Company, filter.Query) {
			continue
		}
		if filter.Priority != "" && lead.Priority != filter.Priority {
			continue
		}
		if filter.Source != "" && lead.Source != filter.Source {
			continue
		}
		if filter.StageID != 0 && lead.StageID != filter.StageID {
			continue
		}
		out = append(out, lead)
	}
	return out
}

// partitionByStage groups leads into one column per stage, preserving stage
// position order and lead order within each column.
func partitionByStage(stages []domain.Stage, leads []domain.Lead) []domain.BoardColumn {
	columns := make([]domain.BoardColumn, len(stages))
	index := make(map[domain.StageID]int, len(stages))
	for i, stage := range stages {
		columns[i] = domain.BoardColumn{Stage: stage, Leads: []domain.Lead{}}
		index[stage.ID] = i
	}
	for _, lead := range leads {
		if i, ok := index[lead.StageID]; ok {
			columns[i].Leads = append(columns[i].Leads, lead)
		}
	}
	return columns
}
