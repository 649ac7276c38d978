// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobless/internal/api"
	"jobless/internal/common/config"
	"jobless/internal/common/database"
	"jobless/internal/common/logger"
	"jobless/internal/common/telegram"
	"jobless/internal/content"
	"jobless/internal/scoring"
	"jobless/internal/share"
	"jobless/pkg/registry"

	calculateairisk "jobless/internal/workers/assessment/calculate-ai-risk"
	decodesharepayload "jobless/internal/workers/share/decode-share-payload"
	encodesharepayload "jobless/internal/workers/share/encode-share-payload"
	sendmessage "jobless/internal/workers/telegram/send-message"
)

const baseURL = "https://jobless.example"

// botRecorder answers like the Bot API and keeps every request body.
type botRecorder struct {
	mu     sync.Mutex
	bodies []map[string]interface{}
}

func (b *botRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	b.bodies = append(b.bodies, body)
	b.mu.Unlock()
	io.WriteString(w, `{"ok":true,"result":{"message_id":1}}`)
}

func (b *botRecorder) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bodies)
}

type stack struct {
	url   string
	bot   *botRecorder
	relay *telegram.Relay
	log   logger.Logger
	reg   *registry.InputValidator
}

func startStack(t *testing.T) *stack {
	t.Helper()
	log := logger.NewTestLogger(t)

	bot := &botRecorder{}
	botSrv := httptest.NewServer(bot)
	t.Cleanup(botSrv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	dedupe := database.NewRedisFromClient(rdb)

	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := registry.NewInputValidator(reg)
	require.NoError(t, err)
	catalog, err := content.Default()
	require.NoError(t, err)

	relay := telegram.NewRelay(telegram.NewClient(config.TelegramConfig{
		BotToken:   "e2e:token",
		ChatID:     "-100123",
		APIBaseURL: botSrv.URL,
		Timeout:    2000,
	}), dedupe, time.Minute, log)

	server := api.NewServer(api.Deps{
		Config:    config.ServerConfig{BaseURL: baseURL, MaxBodyBytes: 1 << 20},
		Logger:    log,
		Validator: validator,
		Relay:     relay,
		Catalog:   catalog,
		Checks: map[string]api.ReadinessCheck{
			"redis": dedupe.Ping,
		},
	})
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	return &stack{url: srv.URL, bot: bot, relay: relay, log: log, reg: validator}
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) int {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ==========================
// HTTP flow
// ==========================

func TestHTTPFlow_CalculateShareDecodeRelay(t *testing.T) {
	s := startStack(t)

	require.Equal(t, http.StatusOK, getJSON(t, s.url+"/ready", nil))

	// 1. Score a profile.
	var result struct {
		scoring.Output
		Lang string `json:"lang"`
	}
	status := postJSON(t, s.url+"/api/risk/calculate", map[string]interface{}{
		"industry":               "technology",
		"yearsOfExperience":      4,
		"dataOpenness":           85,
		"workDataDigitalization": 95,
		"processStandardization": 60,
		"currentAIAdoption":      75,
		"creativeRequirement":    30,
		"lang":                   "zh",
	}, &result)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "zh", result.Lang)
	assert.True(t, result.RiskLevel.IsValid())

	// 2. Share it.
	summary := share.SummaryFromOutput(result.Output, "zh")
	var created struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	require.Equal(t, http.StatusOK, postJSON(t, s.url+"/api/share", summary, &created))
	assert.Equal(t, baseURL+"/share/"+created.Token, created.URL)

	// 3. Open the link.
	var payload share.Payload
	require.Equal(t, http.StatusOK, getJSON(t, s.url+"/api/share/"+created.Token, &payload))
	assert.Equal(t, result.ReplacementProbability, payload.ReplacementProbability)
	assert.Equal(t, result.RiskLevel, payload.RiskLevel)
	assert.Equal(t, result.PredictedReplacementYear, payload.PredictedReplacementYear)
	assert.Equal(t, "zh", payload.Lang.String())
	assert.LessOrEqual(t, payload.EarliestYear, payload.PredictedReplacementYear)
	assert.GreaterOrEqual(t, payload.LatestYear, payload.PredictedReplacementYear)

	// 4. Crawler metadata.
	var meta share.Meta
	require.Equal(t, http.StatusOK, getJSON(t, s.url+"/api/share/"+created.Token+"/meta", &meta))
	assert.True(t, meta.Valid)
	assert.Contains(t, meta.Title, "我的AI替代风险")

	// 5. Post to Telegram twice; the second is deduplicated.
	var relayed telegram.Result
	require.Equal(t, http.StatusOK, postJSON(t, s.url+"/api/telegram/message",
		map[string]string{"text": meta.Title + "\n" + created.URL}, &relayed))
	assert.False(t, relayed.Duplicate)
	require.Equal(t, http.StatusOK, postJSON(t, s.url+"/api/telegram/message",
		map[string]string{"text": meta.Title + "\n" + created.URL}, &relayed))
	assert.True(t, relayed.Duplicate)
	assert.Equal(t, 1, s.bot.Count())
}

func TestHTTPFlow_TamperedLinkFallsBack(t *testing.T) {
	s := startStack(t)

	token := share.Encode(share.Summary{RiskLevel: scoring.RiskMedium, ReplacementProbability: 50, Lang: "en"})
	tampered := token[:len(token)/2]

	assert.Equal(t, http.StatusNotFound, getJSON(t, s.url+"/api/share/"+tampered, nil))

	var meta share.Meta
	require.Equal(t, http.StatusOK, getJSON(t, s.url+"/api/share/"+tampered+"/meta", &meta))
	assert.False(t, meta.Valid)
	assert.Equal(t, "Invalid Share Link", meta.Title)
}

// ==========================
// Worker chain
// ==========================

// The process chains calculate -> encode -> decode -> telegram through job
// variables; this drives the same handlers without a broker.
func TestWorkerChain(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	calcCfg := calculateairisk.LoadConfig()
	calcCfg.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	calc := calculateairisk.NewHandler(calcCfg, s.reg, s.log)

	encCfg := encodesharepayload.LoadConfig()
	encCfg.BaseURL = baseURL
	enc := encodesharepayload.NewHandler(encCfg, s.log)

	decCfg := decodesharepayload.LoadConfig()
	decCfg.BaseURL = baseURL
	dec := decodesharepayload.NewHandler(decCfg, s.log)

	send := sendmessage.NewHandler(sendmessage.LoadConfig(), s.relay, s.log)

	scored, err := calc.Execute(ctx, &calculateairisk.Input{
		Input: scoring.Input{
			Industry:               "finance",
			DataOpenness:           70,
			WorkDataDigitalization: 80,
			ProcessStandardization: 90,
			CurrentAIAdoption:      50,
		},
		Lang: "en",
	})
	require.NoError(t, err)

	// Round-trip through job variables the way Zeebe would hand them over.
	vars, err := json.Marshal(scored)
	require.NoError(t, err)
	var encIn encodesharepayload.Input
	require.NoError(t, json.Unmarshal(vars, &encIn))

	encoded, err := enc.Execute(ctx, &encIn)
	require.NoError(t, err)
	assert.Equal(t, baseURL+"/share/"+encoded.Token, encoded.URL)

	decoded, err := dec.Execute(ctx, &decodesharepayload.Input{Token: encoded.Token})
	require.NoError(t, err)
	require.True(t, decoded.Valid)
	assert.Equal(t, scored.ReplacementProbability, decoded.Payload.ReplacementProbability)
	assert.Equal(t, scored.ConfidenceInterval.Earliest, decoded.Payload.EarliestYear)
	assert.Equal(t, scored.ConfidenceInterval.Latest, decoded.Payload.LatestYear)

	sent, err := send.Execute(ctx, &sendmessage.Input{Text: decoded.Meta.Title + " " + encoded.URL})
	require.NoError(t, err)
	assert.True(t, sent.OK)
	assert.Equal(t, 1, s.bot.Count())
}
