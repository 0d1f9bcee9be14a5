package postgrest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/postgrest"
	"github.com/onedayhr/leadboard/internal/infra/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *postgrest.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return postgrest.NewClient(
		srv.Client(),
		srv.URL,
		"anon-key",
		"service-key",
		resilience.NewCircuitBreaker("test-store"),
		resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond},
		zap.NewNop(),
	)
}

func TestListLeads_MapsRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/lead_data", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.RawQuery, "order=created_at.desc")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":1,"name":"Иван Петров","phone":"+79990001122","source":"website",
			 "stage_id":10,"priority":"high","created_at":"2026-03-01T10:00:00Z",
			 "stage":{"id":10,"name":"Новый","color":"#3b82f6","position":1}},
			{"id":2,"name":"Мария","phone":"+79990003344","source":"referral",
			 "stage_id":20,"priority":"medium","created_at":"2026-03-02"}
		]`)
	})

	leads, err := client.ListLeads(context.Background(), domain.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, domain.LeadID(1), leads[0].ID)
	assert.Equal(t, "Новый", leads[0].StageName)
	assert.Equal(t, domain.PriorityHigh, leads[0].Priority)
	// Bare dates are tolerated alongside RFC3339.
	assert.Equal(t, 2026, leads[1].CreatedAt.Year())
}

func TestListLeads_PriorityFilterInQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `[]`)
	})

	_, err := client.ListLeads(context.Background(), domain.LeadFilter{Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "priority=eq.high")
}

func TestGetLead_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := client.GetLead(context.Background(), 99)

	var notFound *domain.ErrNotFound
	require.True(t, errors.As(err, &notFound), "expected ErrNotFound, got %v", err)
}

func TestCreateLead_ReturnsInsertedID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var data map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&data))
		assert.Equal(t, "Иван", data["name"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":42}]`)
	})

	id, err := client.CreateLead(context.Background(), &domain.CreateLeadRequest{
		Name:     "Иван",
		Phone:    "+79990001122",
		Source:   "website",
		Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadID(42), id)
}

func TestMoveLead_PatchesStage(t *testing.T) {
	var gotPath string
	var gotData map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotData))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.MoveLead(context.Background(), 7, 20)
	require.NoError(t, err)
	assert.Contains(t, gotPath, "lead_data?id=eq.7")
	assert.Equal(t, float64(20), gotData["stage_id"])
}

func TestMoveLead_StoreFailureWrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.MoveLead(context.Background(), 7, 20)

	var external *domain.ErrExternalService
	require.True(t, errors.As(err, &external), "expected ErrExternalService, got %v", err)
	assert.Equal(t, "store/leads", external.Service)
}

func TestListDueTasks_FiltersOpenTasksByDate(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `[{"id":1,"lead_id":5,"title":"Позвонить","completed":false,
			"priority":"high","due_date":"2026-03-10","created_at":"2026-03-01T10:00:00Z"}]`)
	})

	cutoff := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	tasks, err := client.ListDueTasks(context.Background(), cutoff)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "completed=eq.false")
	assert.Contains(t, gotQuery, "due_date=lte.2026-03-11")
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 10, tasks[0].DueDate.Day())
}
