package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

const telegramAPI = "https://api.telegram.org"

// Sender delivers a finished report.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BaseURL  string
	BotToken string
	ChatID   string
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, timeout time.Duration) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BaseURL:  telegramAPI,
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Send posts text to the configured chat once. Plain text: the report uses
// characters such as '>' that HTML parse mode would reject.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	if t.BotToken == "" || t.ChatID == "" {
		return fmt.Errorf("%w: telegram bot token or chat id not configured", model.ErrDelivery)
	}
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	payload := map[string]string{
		"chat_id": t.ChatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.Client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			// the URL embeds the bot token
			err = uerr.Err
		}
		return fmt.Errorf("%w: send message: %v", model.ErrDelivery, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: telegram API status %d, body: %s", model.ErrDelivery, resp.StatusCode, string(respBody))
	}
	return nil
}

// StdoutSender prints reports instead of delivering them (dry runs).
type StdoutSender struct {
	W io.Writer
}

func (s StdoutSender) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintln(s.W, text)
	return err
}
