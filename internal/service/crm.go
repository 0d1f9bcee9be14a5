// Package service provides the business logic layer (use cases).
// CRMService handles the lead pipeline: board projection, lead and stage
// mutations, activity timeline, telephony, intake and export.
package service

import (
	"strings"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var crmTracer = otel.Tracer("service/crm")

// boardCacheKey caches the unfiltered board snapshot between refetches.
const boardCacheKey = "board"

// CRMService orchestrates lead pipeline operations via the external store.
type CRMService struct {
	leads      port.LeadStore
	stages     port.StageStore
	activities port.ActivityStore
	dialer     port.Dialer
	notifier   port.LeadNotifier
	events     port.EventPublisher
	boardCache port.Cache[*domain.BoardSnapshot]
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewCRMService creates the CRM service. notifier and events may be nil when
// the Telegram relay or the message bus are not configured.
func NewCRMService(
	leads port.LeadStore,
	stages port.StageStore,
	activities port.ActivityStore,
	dialer port.Dialer,
	notifier port.LeadNotifier,
	events port.EventPublisher,
	boardCache port.Cache[*domain.BoardSnapshot],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CRMService {
	return &CRMService{
		leads:      leads,
		stages:     stages,
		activities: activities,
		dialer:     dialer,
		notifier:   notifier,
		events:     events,
		boardCache: boardCache,
		metrics:    metrics,
		logger:     logger,
	}
}

// invalidateBoard drops the cached snapshot after any mutation so the next
// board fetch reflects the authoritative store state.
func (s *CRMService) invalidateBoard() {
	s.boardCache.Delete(boardCacheKey)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
