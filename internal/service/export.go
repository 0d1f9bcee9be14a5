package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/excel"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// ExportLeads renders the leads matching the filter into an xlsx workbook
// and returns the bytes plus a date-stamped filename.
func (s *CRMService) ExportLeads(ctx context.Context, filter domain.LeadFilter) ([]byte, string, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ExportLeads")
	defer span.End()

	leads, err := s.leads.ListLeads(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	if filter.Query != "" {
		leads = FilterLeads(leads, domain.LeadFilter{Query: filter.Query})
	}
	span.SetAttributes(attribute.Int("export.leads", len(leads)))

	counts, err := s.exportCounts(ctx, leads)
	if err != nil {
		return nil, "", err
	}

	workbook, err := excel.BuildWorkbook(leads, counts)
	if err != nil {
		return nil, "", fmt.Errorf("build workbook: %w", err)
	}
	defer workbook.Close()

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("leads_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// exportCounts gathers per-lead task, comment and call totals concurrently.
func (s *CRMService) exportCounts(ctx context.Context, leads []domain.Lead) (map[domain.LeadID]excel.ActivityCounts, error) {
	counts := make(map[domain.LeadID]excel.ActivityCounts, len(leads))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, lead := range leads {
		id := lead.ID
		g.Go(func() error {
			tasks, err := s.activities.ListTasks(gctx, id)
			if err != nil {
				return err
			}
			comments, err := s.activities.ListComments(gctx, id)
			if err != nil {
				return err
			}
			calls, err := s.activities.ListCalls(gctx, id)
			if err != nil {
				return err
			}

			var c excel.ActivityCounts
			for _, task := range tasks {
				if task.Completed {
					c.CompletedTasks++
				} else {
					c.OpenTasks++
				}
			}
			c.Comments = len(comments)
			c.Calls = len(calls)

			mu.Lock()
			counts[id] = c
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
