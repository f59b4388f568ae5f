package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SecretTokenHeader carries the pre-shared webhook secret on inbound updates.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Client is a Telegram Bot API HTTP client. Unlike a long-polling bot it is
// not bound to one token: every call takes the token of the bot it acts for,
// so one client serves the whole bot registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Bot API client. baseURL defaults to the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(ctx context.Context, token, method string, body interface{}, result interface{}) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var envelope struct {
		apiResponse
		Result json.RawMessage `json:"result,omitempty"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s failed: %s", method, envelope.Description)
	}

	if result != nil && envelope.Result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// GetMe verifies a bot token and returns the bot's identity.
func (c *Client) GetMe(ctx context.Context, token string) (*BotIdentity, error) {
	var me BotIdentity
	if err := c.doRequest(ctx, token, "getMe", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// SetWebhook points a bot at url. Telegram will echo secretToken back in the
// secret token header on every delivery. Pending updates are dropped so a
// re-registration does not replay a backlog.
func (c *Client) SetWebhook(ctx context.Context, token, url, secretToken string) error {
	body := map[string]interface{}{
		"url":                  url,
		"secret_token":         secretToken,
		"drop_pending_updates": true,
		"allowed_updates":      []string{"message"},
	}
	return c.doRequest(ctx, token, "setWebhook", body, nil)
}

// SendMessage sends an HTML-formatted message to a chat.
func (c *Client) SendMessage(ctx context.Context, token string, chatID int64, text string) error {
	body := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	return c.doRequest(ctx, token, "sendMessage", body, nil)
}
