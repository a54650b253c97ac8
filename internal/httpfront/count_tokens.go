package httpfront

import (
	"encoding/json"
	"net/http"

	"github.com/abhiram1809/anthropic-adapter/internal/tokencount"
	"github.com/abhiram1809/anthropic-adapter/internal/translate"
	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

type countTokensResponse struct {
	InputTokens int `json:"input_tokens"`
}

func (s *Server) handleCountTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req wire.AnthropicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCountTokensError(ctx, w, http.StatusInternalServerError, "malformed request body")
		return
	}

	// The counting formula is defined over the Chat-Completions shape
	// regardless of the configured upstream flavor.
	chatReq, err := translate.ToChat(&req)
	if err != nil {
		writeCountTokensError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	count := tokencount.Count(s.enc, chatReq)
	writeJSON(ctx, w, countTokensResponse{InputTokens: count}, http.StatusOK)
}
