package client_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/client"
	"github.com/onedayhr/leadboard/internal/infra/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMango(t *testing.T, handler http.HandlerFunc, apiKey, apiSalt string) *client.MangoClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.NewMangoClient(
		srv.Client(), srv.URL, apiKey, apiSalt,
		resilience.NewCircuitBreaker("test-mango"), testResilienceCfg(), zap.NewNop(),
	)
}

func TestDial_SignsCommand(t *testing.T) {
	const apiKey = "key-123"
	const apiSalt = "salt-456"

	var gotForm map[string]string
	mango := newMango(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commands/callback", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"vpbx_api_key": r.PostForm.Get("vpbx_api_key"),
			"sign":         r.PostForm.Get("sign"),
			"json":         r.PostForm.Get("json"),
		}
		w.WriteHeader(http.StatusOK)
	}, apiKey, apiSalt)

	commandID, err := mango.Dial(context.Background(), 1, "+79990001122")
	require.NoError(t, err)
	assert.NotEmpty(t, commandID)

	assert.Equal(t, apiKey, gotForm["vpbx_api_key"])
	assert.Contains(t, gotForm["json"], "+79990001122")
	assert.Contains(t, gotForm["json"], commandID)

	sum := sha256.Sum256([]byte(apiKey + gotForm["json"] + apiSalt))
	assert.Equal(t, hex.EncodeToString(sum[:]), gotForm["sign"])
}

func TestDial_MissingCredentials(t *testing.T) {
	mango := client.NewMangoClient(
		http.DefaultClient, "https://app.mango-office.ru/vpbx", "", "",
		resilience.NewCircuitBreaker("test-mango"), testResilienceCfg(), zap.NewNop(),
	)

	_, err := mango.Dial(context.Background(), 1, "+79990001122")

	var notConfigured *domain.ErrProviderNotConfigured
	require.True(t, errors.As(err, &notConfigured), "expected ErrProviderNotConfigured, got %v", err)
}

func TestDial_RejectedKeysNotConfigured(t *testing.T) {
	calls := 0
	mango := newMango(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}, "bad-key", "bad-salt")

	_, err := mango.Dial(context.Background(), 1, "+79990001122")

	var notConfigured *domain.ErrProviderNotConfigured
	require.True(t, errors.As(err, &notConfigured), "expected ErrProviderNotConfigured, got %v", err)
	// A rejected key is not transient, so no retries.
	assert.Equal(t, 1, calls)
}

func TestDial_ServerErrorWrapped(t *testing.T) {
	mango := newMango(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "key", "salt")

	_, err := mango.Dial(context.Background(), 1, "+79990001122")

	var external *domain.ErrExternalService
	require.True(t, errors.As(err, &external), "expected ErrExternalService, got %v", err)
	assert.Equal(t, "mango", external.Service)
}
