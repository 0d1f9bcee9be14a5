package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/resilience"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MangoClient initiates outgoing calls through the Mango Office VPBX API.
//
// Mango's auth scheme: every request is a form POST carrying the vpbx api
// key, the JSON command, and sign = sha256(apiKey + json + apiSalt).
type MangoClient struct {
	httpClient *http.Client
	baseURL    string // default https://app.mango-office.ru/vpbx
	apiKey     string
	apiSalt    string
	cb         *gobreaker.CircuitBreaker
	bh         *resilience.Bulkhead
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewMangoClient creates the telephony client. Empty apiKey or apiSalt means
// the provider is not wired up; Dial then returns ErrProviderNotConfigured
// so the handler can tell the UI to open the provider settings dialog.
func NewMangoClient(httpClient *http.Client, baseURL, apiKey, apiSalt string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *MangoClient {
	return &MangoClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		apiSalt:    apiSalt,
		cb:         cb,
		bh:         resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		logger:     logger,
	}
}

type mangoCallback struct {
	CommandID string `json:"command_id"`
	From      struct {
		Extension string `json:"extension"`
	} `json:"from"`
	ToNumber string `json:"to_number"`
}

func (c *MangoClient) sign(jsonBody string) string {
	sum := sha256.Sum256([]byte(c.apiKey + jsonBody + c.apiSalt))
	return hex.EncodeToString(sum[:])
}

// Dial asks Mango to start a callback call to the lead's phone. Returns the
// command id Mango will echo back in the completion webhook.
func (c *MangoClient) Dial(ctx context.Context, leadID domain.LeadID, phone string) (string, error) {
	ctx, span := tracer.Start(ctx, "MangoClient.Dial")
	defer span.End()
	span.SetAttributes(attribute.Int64("lead.id", int64(leadID)))

	if c.apiKey == "" || c.apiSalt == "" {
		return "", &domain.ErrProviderNotConfigured{Provider: "mango"}
	}

	if err := c.bh.Acquire(ctx); err != nil {
		return "", err
	}
	defer c.bh.Release()

	cmd := mangoCallback{CommandID: uuid.NewString()}
	cmd.ToNumber = phone

	jsonBody, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("marshal mango command: %w", err)
	}

	form := url.Values{}
	form.Set("vpbx_api_key", c.apiKey)
	form.Set("sign", c.sign(string(jsonBody)))
	form.Set("json", string(jsonBody))

	// Bad keys are a configuration problem, not a transient failure. The
	// closure reports 401/403 as success so neither the retry loop nor the
	// breaker chews on it; the flag carries the real outcome.
	var keysRejected bool

	_, err = c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			endpoint := c.baseURL + "/commands/callback"
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
			if err != nil {
				return fmt.Errorf("create http request: %w", err)
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("http call to mango: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				keysRejected = true
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("mango callback returned status %d", resp.StatusCode)
			}
			return nil
		})
	})

	if keysRejected {
		c.logger.Warn("mango: api keys rejected", zap.Int64("lead_id", int64(leadID)))
		return "", &domain.ErrProviderNotConfigured{Provider: "mango"}
	}
	if err != nil {
		c.logger.Error("mango: callback failed",
			zap.Int64("lead_id", int64(leadID)),
			zap.Error(err),
		)
		return "", &domain.ErrExternalService{Service: "mango", Err: err}
	}

	return cmd.CommandID, nil
}
