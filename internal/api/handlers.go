// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/i18n"
	"jobless/internal/common/metrics"
	"jobless/internal/scoring"
	"jobless/internal/share"
)

// Registry task types whose input schemas guard the JSON routes.
const (
	calculateTaskType = "calculate-ai-risk"
	encodeTaskType    = "encode-share-payload"
)

type calculateRequest struct {
	scoring.Input
	Lang string `json:"lang,omitempty"`
}

type calculateResponse struct {
	scoring.Output
	Lang i18n.Lang `json:"lang"`
}

type shareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type photoRequest struct {
	PhotoURL string `json:"photoUrl"`
	Caption  string `json:"caption"`
}

// ==========================
// Health
// ==========================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.deps.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps.Checks))
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"time":   s.deps.Now().Format(time.RFC3339),
	})
}

// ==========================
// Risk
// ==========================

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var failed error
	defer func() { s.deps.Obs.Track(r.Context(), calculateTaskType, start, failed) }()

	body, failed := s.readValidated(w, r, calculateTaskType)
	if failed != nil {
		return
	}

	var req calculateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		failed = apperrors.NewInvalidRequestError(err.Error())
		writeError(w, failed)
		return
	}

	lang := i18n.Negotiate(r.Header.Get("Accept-Language"))
	if req.Lang != "" {
		lang = i18n.Normalize(req.Lang)
	}

	out := scoring.CalculateAIRiskAt(req.Input, lang, s.deps.Now().Year())
	metrics.Assessments.WithLabelValues(out.RiskLevel.String()).Inc()

	if s.deps.Stats != nil {
		if _, err := s.deps.Stats.Record(r.Context(), req.Industry, lang.String(), out); err != nil {
			s.logger.Warn("failed to record assessment", map[string]interface{}{
				"requestId": RequestIDFrom(r.Context()),
				"error":     err,
			})
		}
	}

	writeJSON(w, http.StatusOK, calculateResponse{Output: out, Lang: lang})
}

// ==========================
// Share
// ==========================

func (s *Server) handleShareCreate(w http.ResponseWriter, r *http.Request) {
	body, err := s.readValidated(w, r, encodeTaskType)
	if err != nil {
		return
	}

	var summary share.Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		writeError(w, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	token := share.Encode(summary)
	writeJSON(w, http.StatusOK, shareResponse{
		Token: token,
		URL:   share.URL(s.deps.Config.BaseURL, token),
	})
}

func (s *Server) handleShareGet(w http.ResponseWriter, r *http.Request) {
	payload, ok := share.Decode(r.PathValue("token"))
	if !ok {
		metrics.ShareDecodes.WithLabelValues(metrics.ResultInvalid).Inc()
		writeError(w, apperrors.NewShareTokenInvalidError())
		return
	}
	metrics.ShareDecodes.WithLabelValues(metrics.ResultOK).Inc()
	writeJSON(w, http.StatusOK, payload)
}

// handleShareMeta always answers 200: crawlers get a placeholder card for bad tokens.
func (s *Server) handleShareMeta(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Negotiate(r.Header.Get("Accept-Language"))
	if q := r.URL.Query().Get("lang"); q != "" {
		lang = i18n.Normalize(q)
	}

	payload, ok := share.Decode(r.PathValue("token"))
	if !ok {
		metrics.ShareDecodes.WithLabelValues(metrics.ResultInvalid).Inc()
		writeJSON(w, http.StatusOK, share.PlaceholderMeta(s.deps.Config.BaseURL, lang))
		return
	}
	metrics.ShareDecodes.WithLabelValues(metrics.ResultOK).Inc()
	writeJSON(w, http.StatusOK, share.MetaFromPayload(payload, s.deps.Config.BaseURL))
}

// ==========================
// Telegram
// ==========================

func (s *Server) handleTelegramMessage(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		return
	}

	var req messageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	result, err := s.deps.Relay.Message(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTelegramPhoto(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		s.handleTelegramPhotoUpload(w, r)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		return
	}
	var req photoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	result, err := s.deps.Relay.PhotoURL(r.Context(), req.PhotoURL, req.Caption)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTelegramPhotoUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody())
	if err := r.ParseMultipartForm(s.maxBody()); err != nil {
		writeError(w, apperrors.NewInvalidRequestError(fmt.Sprintf("parse multipart form: %v", err)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, apperrors.NewInvalidRequestError("photo file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperrors.NewInvalidRequestError(fmt.Sprintf("read photo: %v", err)))
		return
	}

	result, err := s.deps.Relay.PhotoUpload(r.Context(), header.Filename, data, r.FormValue("caption"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ==========================
// Content and stats
// ==========================

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Negotiate(r.Header.Get("Accept-Language"))
	if q := r.URL.Query().Get("lang"); q != "" {
		lang = i18n.Normalize(q)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lang":  lang,
		"stats": s.deps.Catalog.Stats(lang),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Stats == nil {
		writeError(w, apperrors.NewStatsDisabledError())
		return
	}
	dist, err := s.deps.Stats.Distribution(r.Context())
	if err != nil {
		s.logger.Error("failed to load assessment distribution", map[string]interface{}{
			"requestId": RequestIDFrom(r.Context()),
			"error":     err,
		})
		writeError(w, apperrors.NewQueryExecutionFailedError("risk-distribution", err))
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

// ==========================
// Helpers
// ==========================

func (s *Server) maxBody() int64 {
	if s.deps.Config.MaxBodyBytes > 0 {
		return s.deps.Config.MaxBodyBytes
	}
	return 10 << 20
}

// readBody reads a non-empty request body. On failure the error response has
// already been written and the returned error is what was reported.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		reqErr := apperrors.NewInvalidRequestError(fmt.Sprintf("read body: %v", err))
		if errors.As(err, &tooLarge) {
			reqErr = apperrors.NewInvalidRequestError("request body too large")
		}
		writeError(w, reqErr)
		return nil, reqErr
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		reqErr := apperrors.NewInvalidRequestError("request body is empty")
		writeError(w, reqErr)
		return nil, reqErr
	}
	return body, nil
}

// readValidated reads the body and checks it against taskType's registry schema.
func (s *Server) readValidated(w http.ResponseWriter, r *http.Request, taskType string) ([]byte, error) {
	body, err := s.readBody(w, r)
	if err != nil {
		return nil, err
	}
	if s.deps.Validator == nil {
		return body, nil
	}

	result, err := s.deps.Validator.ValidateJSON(taskType, body)
	if err != nil {
		reqErr := apperrors.NewInvalidRequestError(err.Error())
		writeError(w, reqErr)
		return nil, reqErr
	}
	if !result.Valid {
		reqErr := apperrors.NewSchemaValidationFailedError(taskType)
		writeError(w, reqErr, result.GetErrorMessages()...)
		return nil, reqErr
	}
	return body, nil
}
