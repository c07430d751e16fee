package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
	"github.com/sidelinehq/courtside/internal/remote"
	"github.com/sidelinehq/courtside/internal/repo"
)

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	Succeeded int    `json:"succeeded,omitempty"`
	Failed    int    `json:"failed,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses: invalid input
// 400, unknown targets 404, half-landed batches 207, unreachable store
// 503 (retryable), anything else 500.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var verr *domain.ValidationError
	var perr *repo.PartialBatchError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusMultiStatus, errorResponse{
			Error:     perr.Error(),
			Retryable: true,
			Succeeded: perr.Succeeded,
			Failed:    perr.Failed,
		})
	case errors.Is(err, remote.ErrNotFound),
		errors.Is(err, domain.ErrObligationNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrURLNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, remote.ErrUnavailable):
		log.Warn("remote collection unavailable", logger.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Retryable: true})
	default:
		log.Error("request failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "must be valid JSON"}
	}
	return nil
}
