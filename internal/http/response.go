package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cesargomez89/leaktracker/internal/apperr"
	"github.com/cesargomez89/leaktracker/internal/logger"
)

// Envelope is the body of every API response.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

func respondOK(w http.ResponseWriter, data any, log *logger.Logger) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data}, log)
}

// respondError maps err to its HTTP status. Errors without a code become a generic 500.
func respondError(w http.ResponseWriter, err error, log *logger.Logger) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		log.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, Envelope{Error: "internal server error"}, log)
		return
	}
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	// Internal causes stay in the log; every other cause is part of the message.
	msg := ae.Error()
	if ae.Code == apperr.CodeInternal {
		msg = ae.Message
	}
	writeJSON(w, status, Envelope{Error: msg}, log)
}
