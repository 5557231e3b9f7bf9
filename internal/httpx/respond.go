package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/nanolink/internal/errx"
)

// ErrorResponse represents a JSON error response.
// ErrorType carries the errx reason marker when there is one, so clients can
// branch on it without parsing Message.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	ErrorType  string `json:"errorType,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    any    `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	resp := ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	}
	WriteJSON(w, status, resp)
}

// WriteKindError writes an error response whose status and code come from the
// errx kind of err. The reason marker of err, if any, is sent as errorType.
// message is what the client sees; err itself is never written out.
func WriteKindError(w http.ResponseWriter, err error, message, suggestion string) {
	kind := errx.KindOf(err)
	WriteJSON(w, ErrorKindToStatus(kind), ErrorResponse{
		Error:      ErrorKindToCode(kind),
		Message:    message,
		ErrorType:  errx.ReasonOf(err),
		Suggestion: suggestion,
	})
}

// WriteNoContent writes an empty 204 response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
