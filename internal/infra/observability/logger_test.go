package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onedayhr/leadboard/internal/infra/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_LevelFloor(t *testing.T) {
	warn := observability.NewLogger("warn")
	defer warn.Sync()
	if warn.Core().Enabled(zapcore.InfoLevel) {
		t.Error("warn logger should not enable info entries")
	}
	if !warn.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn logger should enable warn entries")
	}

	debug := observability.NewLogger("debug")
	defer debug.Sync()
	if !debug.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug logger should enable debug entries")
	}
}

func TestRequestLogger_SeverityFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusNotFound, zapcore.WarnLevel},
		{"server error", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			handler := observability.RequestLogger(logger)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/board", nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			if entries[0].Level != tt.level {
				t.Errorf("status %d logged at %s, want %s", tt.status, entries[0].Level, tt.level)
			}

			fields := entries[0].ContextMap()
			if fields["status"] != int64(tt.status) {
				t.Errorf("status field = %v, want %d", fields["status"], tt.status)
			}
			if fields["path"] != "/v1/board" {
				t.Errorf("path field = %v, want /v1/board", fields["path"])
			}
		})
	}
}
