package web

// errors.go provides unified error responses for the JSON API.
//
// Every handler error goes through respondError: the technical error is
// logged server-side with the request ID, and the client gets the
// user-facing message and support code from pipeline.MapError.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tabwash/tabwash/internal/clean"
	"github.com/tabwash/tabwash/internal/logging"
	"github.com/tabwash/tabwash/internal/pipeline"
	"github.com/tabwash/tabwash/internal/table"
)

// errorResponse is the JSON shape of an API error.
type errorResponse struct {
	Error pipeline.UserMessage `json:"error"`
}

func errorBody(msg pipeline.UserMessage) errorResponse {
	return errorResponse{Error: msg}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	msg := pipeline.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
		"error", err.Error(),
	)

	writeJSON(w, status, errorBody(msg))
}

// statusForError maps pipeline error kinds to HTTP status codes. All of
// them are recoverable by the client; only unknown errors become 500s.
func statusForError(err error) int {
	var parseErr *table.ParseError
	switch {
	case errors.Is(err, pipeline.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrNotText):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, pipeline.ErrEmptyInput),
		errors.As(err, &parseErr),
		errors.Is(err, clean.ErrEmptyAfterCleaning):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
