// internal/common/telegram/client.go
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"jobless/internal/common/config"
	apperrors "jobless/internal/common/errors"
	httpclient "jobless/internal/common/http"
)

const (
	MethodSendMessage = "sendMessage"
	MethodSendPhoto   = "sendPhoto"

	// Bot API limits, counted in characters.
	MaxMessageRunes = 4096
	MaxCaptionRunes = 1024
)

// Client talks to the Telegram Bot API for a single configured chat.
type Client struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *httpclient.Client
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewClient builds a client for cfg. Every Bot API call is a POST, so
// cfg.MaxRetries > 0 resends after an upstream 5xx and can post the same
// message twice; the default of 0 sends each call once.
func NewClient(cfg config.TelegramConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	opts := []httpclient.Option{}
	if cfg.MaxRetries > 0 {
		opts = append(opts, httpclient.WithRetries(cfg.MaxRetries), httpclient.WithRetryNonIdempotent())
	}
	return &Client{
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		baseURL:    baseURL,
		httpClient: httpclient.NewClient(timeout, opts...),
	}
}

// Configured reports whether both the bot token and the chat id are present.
func (c *Client) Configured() bool {
	return c.botToken != "" && c.chatID != ""
}

func (c *Client) ChatID() string {
	return c.chatID
}

// SendMessage posts text to the configured chat. Text longer than MaxMessageRunes
// is truncated.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if !c.Configured() {
		return apperrors.NewTelegramNotConfiguredError()
	}
	body, err := json.Marshal(map[string]string{
		"chat_id": c.chatID,
		"text":    Truncate(text, MaxMessageRunes),
	})
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.post(ctx, MethodSendMessage, "application/json", body)
}

// SendPhotoURL asks Telegram to fetch the photo from photoURL.
func (c *Client) SendPhotoURL(ctx context.Context, photoURL, caption string) error {
	if !c.Configured() {
		return apperrors.NewTelegramNotConfiguredError()
	}
	payload := map[string]string{
		"chat_id": c.chatID,
		"photo":   photoURL,
	}
	if caption != "" {
		payload["caption"] = Truncate(caption, MaxCaptionRunes)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.post(ctx, MethodSendPhoto, "application/json", body)
}

// SendPhotoUpload uploads the image bytes as multipart form data.
func (c *Client) SendPhotoUpload(ctx context.Context, filename string, data []byte, caption string) error {
	if !c.Configured() {
		return apperrors.NewTelegramNotConfiguredError()
	}
	if filename == "" {
		filename = "photo.png"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chat_id", c.chatID); err != nil {
		return apperrors.NewInternalError(err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", Truncate(caption, MaxCaptionRunes)); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if _, err := part.Write(data); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := mw.Close(); err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.post(ctx, MethodSendPhoto, mw.FormDataContentType(), buf.Bytes())
}

func (c *Client) post(ctx context.Context, method, contentType string, body []byte) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalError(stripURL(err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return apperrors.NewTelegramUpstreamFailedError(method, stripURL(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.NewTelegramUpstreamFailedError(method, fmt.Errorf("failed to read response body: %w", err))
	}

	var result apiResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return apperrors.NewTelegramUpstreamFailedError(method,
			fmt.Errorf("unexpected response (status %d)", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK || !result.OK {
		return apperrors.NewTelegramUpstreamFailedError(method,
			fmt.Errorf("status %d: %s", resp.StatusCode, result.Description))
	}
	return nil
}

// stripURL drops the request URL from transport errors; it embeds the bot token.
func stripURL(err error) error {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// Truncate cuts s to at most maxRunes characters.
func Truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}
