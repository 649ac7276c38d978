// internal/common/telegram/relay.go
package telegram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/logger"
	"jobless/internal/common/metrics"
	"jobless/internal/common/validation"
)

// Sender is the subset of Client the relay needs.
type Sender interface {
	Configured() bool
	ChatID() string
	SendMessage(ctx context.Context, text string) error
	SendPhotoURL(ctx context.Context, photoURL, caption string) error
	SendPhotoUpload(ctx context.Context, filename string, data []byte, caption string) error
}

// Deduper claims a key for a ttl. database.RedisClient satisfies it.
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Result is what the HTTP layer and the worker report back.
type Result struct {
	OK        bool `json:"ok"`
	Duplicate bool `json:"duplicate,omitempty"`
}

// Relay forwards share content to Telegram, suppressing identical sends inside
// the dedupe window. A nil Deduper disables deduplication.
type Relay struct {
	sender Sender
	dedupe Deduper
	ttl    time.Duration
	logger logger.Logger
}

func NewRelay(sender Sender, dedupe Deduper, ttl time.Duration, log logger.Logger) *Relay {
	return &Relay{
		sender: sender,
		dedupe: dedupe,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "telegram-relay"}),
	}
}

func (r *Relay) Configured() bool {
	return r.sender.Configured()
}

// Message relays a text message.
func (r *Relay) Message(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewInvalidRequestError("text is required")
	}
	text = Truncate(text, MaxMessageRunes)
	return r.relay(ctx, MethodSendMessage, []byte(text), func(ctx context.Context) error {
		return r.sender.SendMessage(ctx, text)
	})
}

// PhotoURL relays a photo Telegram fetches itself.
func (r *Relay) PhotoURL(ctx context.Context, photoURL, caption string) (*Result, error) {
	if !validation.ValidateURL(photoURL) {
		return nil, apperrors.NewInvalidRequestError("photoUrl must be an absolute http(s) URL")
	}
	caption = Truncate(caption, MaxCaptionRunes)
	return r.relay(ctx, MethodSendPhoto, []byte(photoURL+"\x00"+caption), func(ctx context.Context) error {
		return r.sender.SendPhotoURL(ctx, photoURL, caption)
	})
}

// PhotoUpload relays uploaded image bytes.
func (r *Relay) PhotoUpload(ctx context.Context, filename string, data []byte, caption string) (*Result, error) {
	if len(data) == 0 {
		return nil, apperrors.NewInvalidRequestError("photo is required")
	}
	caption = Truncate(caption, MaxCaptionRunes)
	content := make([]byte, 0, len(data)+len(caption)+1)
	content = append(content, data...)
	content = append(content, 0)
	content = append(content, caption...)
	return r.relay(ctx, MethodSendPhoto, content, func(ctx context.Context) error {
		return r.sender.SendPhotoUpload(ctx, filename, data, caption)
	})
}

func (r *Relay) relay(ctx context.Context, method string, content []byte, send func(context.Context) error) (*Result, error) {
	if !r.sender.Configured() {
		metrics.TelegramRelays.WithLabelValues(method, metrics.ResultInvalid).Inc()
		return nil, apperrors.NewTelegramNotConfiguredError()
	}

	key := dedupeKey(method, r.sender.ChatID(), content)
	claimed := false
	if r.dedupe != nil && r.ttl > 0 {
		ok, err := r.dedupe.Claim(ctx, key, r.ttl)
		switch {
		case err != nil:
			r.logger.Warn("dedupe unavailable, sending anyway", map[string]interface{}{
				"method": method,
				"error":  err,
			})
		case !ok:
			metrics.TelegramRelays.WithLabelValues(method, metrics.ResultDuplicate).Inc()
			r.logger.Info("duplicate send suppressed", map[string]interface{}{"method": method})
			return &Result{OK: true, Duplicate: true}, nil
		default:
			claimed = true
		}
	}

	if err := send(ctx); err != nil {
		metrics.TelegramRelays.WithLabelValues(method, metrics.ResultError).Inc()
		if claimed {
			if relErr := r.dedupe.Release(context.WithoutCancel(ctx), key); relErr != nil {
				r.logger.Warn("failed to release dedupe key", map[string]interface{}{"error": relErr})
			}
		}
		r.logger.Error("telegram send failed", map[string]interface{}{
			"method": method,
			"error":  err,
		})
		return nil, err
	}

	metrics.TelegramRelays.WithLabelValues(method, metrics.ResultOK).Inc()
	r.logger.Info("telegram send succeeded", map[string]interface{}{"method": method})
	return &Result{OK: true}, nil
}

func dedupeKey(method, chatID string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(chatID))
	h.Write([]byte{0})
	h.Write(content)
	return "tg:" + hex.EncodeToString(h.Sum(nil))
}
