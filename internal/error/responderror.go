// Package error centralizes HTTP error responses. Internal error detail
// is logged but never echoed to the client.
package error

import (
	"log/slog"
	"net/http"

	"github.com/qraftyhq/api/internal/json"
)

// ErrorResponse is the wire shape of every error body the API emits.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// RespondError writes a generic error body for status and logs err.
// The client sees only the HTTP status text.
func RespondError(w http.ResponseWriter, status int, err error) {
	if err != nil {
		slog.Error("request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	respond(w, status, http.StatusText(status))
}

// RespondErrorMsg writes msg as the user-facing error and logs err.
func RespondErrorMsg(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		slog.Error("request failed",
			slog.Int("status", status),
			slog.String("message", msg),
			slog.String("error", err.Error()),
		)
	}
	respond(w, status, msg)
}

func respond(w http.ResponseWriter, status int, msg string) {
	body := ErrorResponse{Error: msg, Code: status}
	if err := json.RespondJSON(w, status, body); err != nil {
		slog.Error("failed to write error response", slog.String("error", err.Error()))
	}
}
