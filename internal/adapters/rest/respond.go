package rest

import (
	"errors"
	"mime"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/logging"
)

const (
	errCodeInvalidArgument = "INVALID_ARGUMENT"
	errCodeInvalidFeedback = "INVALID_FEEDBACK"
	errCodeNotFound        = "NOT_FOUND"
	errCodeInternal        = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("rest: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFeedback):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidFeedback)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidArgument)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNotFound)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("rest: unexpected service error")
		writeErrorWithCode(w, http.StatusInternalServerError, "internal error", errCodeInternal)
	}
}

func isJSONContentType(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// decodeJSON enforces the content type and decodes the body into dst,
// writing the error response itself when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

const maxBodyBytes = 1 << 20
