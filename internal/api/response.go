// internal/api/response.go
package api

import (
	"encoding/json"
	"net/http"

	apperrors "jobless/internal/common/errors"
)

// errorBody is the failure envelope shared by every route.
type errorBody struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error, details ...string) {
	stdErr := apperrors.AsStandardError(err)
	writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorBody{
		OK:      false,
		Error:   stdErr.Message,
		Code:    string(stdErr.Code),
		Details: details,
	})
}
