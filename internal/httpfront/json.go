package httpfront

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}

// anthropicError is the {type:"error", error:{type,message}} envelope used
// by /v1/messages.
type anthropicError struct {
	Type  string              `json:"type"`
	Error wire.UpstreamError `json:"error"`
}

func writeAnthropicError(ctx context.Context, w http.ResponseWriter, status int, errType, message string) {
	writeJSON(ctx, w, anthropicError{
		Type:  "error",
		Error: wire.UpstreamError{Type: errType, Message: message},
	}, status)
}

// countTokensError is the bare {"error": <message>} envelope used by
// /v1/messages/count_tokens.
type countTokensError struct {
	Error string `json:"error"`
}

func writeCountTokensError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, countTokensError{Error: message}, status)
}
