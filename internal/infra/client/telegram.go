package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.uber.org/zap"
)

// TelegramNotifier relays new lead submissions to a Telegram chat via the
// Bot API. Delivery is best effort: intake must not fail because the relay
// is down, so callers log errors and move on.
type TelegramNotifier struct {
	httpClient *http.Client
	botToken   string
	chatID     string
	logger     *zap.Logger
}

// NewTelegramNotifier creates the notifier. Empty token or chat id disables
// delivery; NotifyNewLead then returns ErrProviderNotConfigured.
func NewTelegramNotifier(httpClient *http.Client, botToken, chatID string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		httpClient: httpClient,
		botToken:   botToken,
		chatID:     chatID,
		logger:     logger,
	}
}

// NotifyNewLead posts a formatted message about the submission.
func (n *TelegramNotifier) NotifyNewLead(ctx context.Context, req *domain.IntakeRequest) error {
	ctx, span := tracer.Start(ctx, "TelegramNotifier.NotifyNewLead")
	defer span.End()

	if n.botToken == "" || n.chatID == "" {
		return &domain.ErrProviderNotConfigured{Provider: "telegram"}
	}

	text := fmt.Sprintf("🔔 Новая заявка!\n\n👤 Имя: %s\n📞 Телефон: %s", req.Name, req.Phone)
	if req.Company != "" {
		text += fmt.Sprintf("\n🏢 Компания: %s", req.Company)
	}
	if req.Vacancy != "" {
		text += fmt.Sprintf("\n💼 Вакансия: %s", req.Vacancy)
	}
	if req.Page != "" {
		text += fmt.Sprintf("\n📄 Страница: %s", req.Page)
	}
	if req.Source != "" {
		text += fmt.Sprintf("\n📍 Источник: %s", req.Source)
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		n.logger.Warn("telegram: sendMessage failed", zap.Error(err))
		return &domain.ErrExternalService{Service: "telegram", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("telegram: sendMessage non-200", zap.Int("status", resp.StatusCode))
		return &domain.ErrExternalService{Service: "telegram",
			Err: fmt.Errorf("sendMessage returned status %d", resp.StatusCode)}
	}

	return nil
}
