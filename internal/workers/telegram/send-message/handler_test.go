// internal/workers/telegram/send-message/handler_test.go
package sendmessage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"jobless/internal/common/config"
	"jobless/internal/common/database"
	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/logger"
	"jobless/internal/common/telegram"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type botAPI struct {
	mu      sync.Mutex
	methods []string
	bodies  []map[string]string
	status  int
}

func (b *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	b.methods = append(b.methods, r.URL.Path)
	b.bodies = append(b.bodies, body)
	status := b.status
	b.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
		return
	}
	io.WriteString(w, `{"ok":true,"result":{}}`)
}

func createTestHandler(t *testing.T, api *botAPI, configured bool) *Handler {
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	tgCfg := config.TelegramConfig{APIBaseURL: srv.URL, Timeout: 2000}
	if configured {
		tgCfg.BotToken = "token"
		tgCfg.ChatID = "99"
	}

	log := logger.NewTestLogger(t)
	relay := telegram.NewRelay(telegram.NewClient(tgCfg), rdb, time.Minute, log)
	return NewHandler(LoadConfig(), relay, log)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsText(t *testing.T) {
	api := &botAPI{}
	handler := createTestHandler(t, api, true)

	output, err := handler.Execute(context.Background(), &Input{Text: "My AI risk is 34%"})
	require.NoError(t, err)
	assert.Equal(t, &Output{OK: true}, output)

	require.Len(t, api.methods, 1)
	assert.Equal(t, "/bottoken/sendMessage", api.methods[0])
	assert.Equal(t, "My AI risk is 34%", api.bodies[0]["text"])
}

func TestHandler_Execute_PhotoUsesTextAsCaption(t *testing.T) {
	api := &botAPI{}
	handler := createTestHandler(t, api, true)

	output, err := handler.Execute(context.Background(), &Input{
		Text:     "share card",
		PhotoURL: "https://jobless.example/og/high.png",
	})
	require.NoError(t, err)
	assert.True(t, output.OK)

	require.Len(t, api.methods, 1)
	assert.Equal(t, "/bottoken/sendPhoto", api.methods[0])
	assert.Equal(t, "share card", api.bodies[0]["caption"])
}

func TestHandler_Execute_Duplicate(t *testing.T) {
	api := &botAPI{}
	handler := createTestHandler(t, api, true)

	_, err := handler.Execute(context.Background(), &Input{Text: "same"})
	require.NoError(t, err)
	output, err := handler.Execute(context.Background(), &Input{Text: "same"})
	require.NoError(t, err)

	assert.Equal(t, &Output{OK: true, Duplicate: true}, output)
	assert.Len(t, api.methods, 1)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		status     int
		input      *Input
		code       apperrors.ErrorCode
		retries    int
	}{
		{"empty input", true, 0, &Input{}, apperrors.ErrCodeInvalidRequest, 0},
		{"not configured", false, 0, &Input{Text: "hi"}, apperrors.ErrCodeTelegramNotConfigured, 0},
		{"upstream rejects", true, http.StatusBadRequest, &Input{Text: "hi"}, apperrors.ErrCodeTelegramUpstreamFailed, 3},
		{"bad photo url", true, 0, &Input{PhotoURL: "javascript:alert(1)"}, apperrors.ErrCodeInvalidRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, &botAPI{status: tt.status}, tt.configured)

			output, err := handler.Execute(context.Background(), tt.input)
			assert.Nil(t, output)
			require.Error(t, err)

			stdErr := apperrors.AsStandardError(err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retries, apperrors.ConvertToBPMNError(stdErr).Retries)
		})
	}
}
