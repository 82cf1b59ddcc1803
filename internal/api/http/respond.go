package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"drc-backend/internal/domain"
	"drc-backend/internal/logger"
)

// errorBody is the JSON error envelope: a stable machine-readable kind plus
// a human message.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain error kinds to HTTP statuses. Every kind keeps a
// distinct code so clients can branch without parsing messages.
func writeError(w http.ResponseWriter, err error) {
	var limitErr *domain.LimitError

	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_format", Message: err.Error()})
	case errors.Is(err, domain.ErrTypeMismatch):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "type_mismatch", Message: err.Error()})
	case errors.As(err, &limitErr), errors.Is(err, domain.ErrUserLimitReached):
		writeJSON(w, http.StatusConflict, errorBody{Error: "limit_reached", Message: err.Error()})
	case errors.Is(err, domain.ErrContainerUnavailable):
		writeJSON(w, http.StatusConflict, errorBody{Error: "container_unavailable", Message: err.Error()})
	case errors.Is(err, domain.ErrNotCheckedOut):
		writeJSON(w, http.StatusConflict, errorBody{Error: "not_checked_out", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden", Message: err.Error()})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal server error"})
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", Message: msg})
}
