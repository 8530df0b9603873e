package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/payliv/fulfillment-service/app/models"
	"github.com/payliv/fulfillment-service/internal/pkg/env"
)

// ErrNotConfigured marks a missing channel configuration (sender number, API
// endpoint or API key). Callers must treat it as a permanent configuration
// fault, not a transient send failure.
var ErrNotConfigured = errors.New("whatsapp channel is not configured")

type Client struct {
	SenderNumber string
	APIBaseURL   string
	APIKey       string

	HTTPClient *http.Client
}

type sendMessageRequest struct {
	From string      `json:"from"`
	To   string      `json:"to"`
	Type string      `json:"type"`
	Text messageText `json:"text"`
}

type messageText struct {
	Body string `json:"body"`
}

type sendMessageResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// NewClientFromSettings builds a YCloud client from the stored channel
// configuration. The API key only lives in the environment.
func NewClientFromSettings(settings *models.FulfillmentSettings) *Client {
	c := &Client{
		APIKey: strings.TrimSpace(env.GetEnv("YCLOUD_API_KEY", "")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	if settings != nil {
		c.SenderNumber = strings.TrimSpace(settings.WhatsAppSenderNumber)
		c.APIBaseURL = strings.TrimRight(strings.TrimSpace(settings.WhatsAppAPIURL), "/")
	}
	return c
}

// NormalizeRecipient reduces a phone number to digits only, the format the
// messaging API expects.
func NormalizeRecipient(to string) string {
	var b strings.Builder
	for _, r := range to {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SendMessage delivers a text message and returns the provider message id.
func (c *Client) SendMessage(ctx context.Context, to string, body string) (string, error) {
	if c.SenderNumber == "" || c.APIBaseURL == "" {
		return "", fmt.Errorf("%w: sender number or API URL missing", ErrNotConfigured)
	}
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: YCLOUD_API_KEY is not set", ErrNotConfigured)
	}

	recipient := NormalizeRecipient(to)
	if recipient == "" {
		return "", errors.New("recipient number is empty")
	}

	payload, err := json.Marshal(sendMessageRequest{
		From: c.SenderNumber,
		To:   recipient,
		Type: "text",
		Text: messageText{Body: body},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/whatsapp/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("whatsapp response read failed: %w", err)
	}

	var result sendMessageResponse
	if len(raw) > 0 {
		// A body that is not JSON still counts as an API failure below.
		_ = json.Unmarshal(raw, &result)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := result.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return "", fmt.Errorf("YCloud API error: %s", msg)
	}

	return result.ID, nil
}
