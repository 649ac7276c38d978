// internal/common/telegram/client_test.go
package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"jobless/internal/common/config"
	apperrors "jobless/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBotAPI records what the client sends and answers like the Bot API.
type fakeBotAPI struct {
	mu       sync.Mutex
	calls    []recordedCall
	status   int
	response string
}

type recordedCall struct {
	Path        string
	ContentType string
	JSON        map[string]string
	Form        map[string]string
	File        []byte
	Filename    string
}

func (f *fakeBotAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Path: r.URL.Path, ContentType: r.Header.Get("Content-Type")}
		if strings.HasPrefix(call.ContentType, "multipart/form-data") {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			call.Form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				call.Form[k] = v[0]
			}
			file, header, err := r.FormFile("photo")
			require.NoError(t, err)
			call.File, _ = io.ReadAll(file)
			call.Filename = header.Filename
		} else {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&call.JSON))
		}

		f.mu.Lock()
		f.calls = append(f.calls, call)
		status, response := f.status, f.response
		f.mu.Unlock()

		if status == 0 {
			status = http.StatusOK
		}
		if response == "" {
			response = `{"ok":true,"result":{}}`
		}
		w.WriteHeader(status)
		io.WriteString(w, response)
	}
}

func (f *fakeBotAPI) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func createTestClient(t *testing.T, api *fakeBotAPI) *Client {
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(config.TelegramConfig{
		BotToken:   "123:secret",
		ChatID:     "-1001",
		APIBaseURL: srv.URL,
		Timeout:    2000,
	})
}

// ==========================
// SendMessage
// ==========================

func TestSendMessage_Success(t *testing.T) {
	api := &fakeBotAPI{}
	client := createTestClient(t, api)

	require.NoError(t, client.SendMessage(context.Background(), "hello"))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bot123:secret/sendMessage", calls[0].Path)
	assert.Equal(t, "-1001", calls[0].JSON["chat_id"])
	assert.Equal(t, "hello", calls[0].JSON["text"])
}

func TestSendMessage_TruncatesTo4096Runes(t *testing.T) {
	api := &fakeBotAPI{}
	client := createTestClient(t, api)

	require.NoError(t, client.SendMessage(context.Background(), strings.Repeat("风", 5000)))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, MaxMessageRunes, utf8.RuneCountInString(calls[0].JSON["text"]))
}

func TestSendMessage_NotConfigured(t *testing.T) {
	client := NewClient(config.TelegramConfig{BotToken: "x"})

	err := client.SendMessage(context.Background(), "hello")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTelegramNotConfigured))
}

func TestSendMessage_UpstreamRejects(t *testing.T) {
	api := &fakeBotAPI{
		status:   http.StatusBadRequest,
		response: `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
	}
	client := createTestClient(t, api)

	err := client.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTelegramUpstreamFailed))
	assert.Contains(t, apperrors.AsStandardError(err).Details, "chat not found")
}

func TestSendMessage_ServerErrorIsNotResent(t *testing.T) {
	api := &fakeBotAPI{
		status:   http.StatusBadGateway,
		response: `{"ok":false,"error_code":502,"description":"Bad Gateway"}`,
	}
	client := createTestClient(t, api)

	err := client.SendMessage(context.Background(), "hello")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTelegramUpstreamFailed))
	assert.Len(t, api.Calls(), 1)
}

func TestSendMessage_RetriesWhenConfigured(t *testing.T) {
	api := &fakeBotAPI{
		status:   http.StatusBadGateway,
		response: `{"ok":false,"error_code":502,"description":"Bad Gateway"}`,
	}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	client := NewClient(config.TelegramConfig{
		BotToken:   "123:secret",
		ChatID:     "-1001",
		APIBaseURL: srv.URL,
		Timeout:    2000,
		MaxRetries: 1,
	})

	err := client.SendMessage(context.Background(), "hello")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTelegramUpstreamFailed))
	assert.Len(t, api.Calls(), 2)
}

func TestSendMessage_NonJSONResponse(t *testing.T) {
	api := &fakeBotAPI{status: http.StatusOK, response: "<html>proxy</html>"}
	client := createTestClient(t, api)

	err := client.SendMessage(context.Background(), "hello")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTelegramUpstreamFailed))
}

func TestSendMessage_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(config.TelegramConfig{BotToken: "123:secret", ChatID: "1", APIBaseURL: base, Timeout: 500})
	err := client.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTelegramUpstreamFailed))
	assert.NotContains(t, apperrors.AsStandardError(err).Details, "secret")
}

// ==========================
// SendPhoto
// ==========================

func TestSendPhotoURL_Success(t *testing.T) {
	api := &fakeBotAPI{}
	client := createTestClient(t, api)

	caption := strings.Repeat("a", 1500)
	require.NoError(t, client.SendPhotoURL(context.Background(), "https://example.com/card.png", caption))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bot123:secret/sendPhoto", calls[0].Path)
	assert.Equal(t, "https://example.com/card.png", calls[0].JSON["photo"])
	assert.Len(t, calls[0].JSON["caption"], MaxCaptionRunes)
}

func TestSendPhotoURL_OmitsEmptyCaption(t *testing.T) {
	api := &fakeBotAPI{}
	client := createTestClient(t, api)

	require.NoError(t, client.SendPhotoURL(context.Background(), "https://example.com/card.png", ""))

	_, ok := api.Calls()[0].JSON["caption"]
	assert.False(t, ok)
}

func TestSendPhotoUpload_Multipart(t *testing.T) {
	api := &fakeBotAPI{}
	client := createTestClient(t, api)

	data := []byte{0x89, 'P', 'N', 'G'}
	require.NoError(t, client.SendPhotoUpload(context.Background(), "risk.png", data, "my result"))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "-1001", calls[0].Form["chat_id"])
	assert.Equal(t, "my result", calls[0].Form["caption"])
	assert.Equal(t, "risk.png", calls[0].Filename)
	assert.Equal(t, data, calls[0].File)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "我的", Truncate("我的风险", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}
