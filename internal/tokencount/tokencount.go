// Package tokencount estimates input token counts on a translated
// Chat-Completions body, exposed to clients via count_tokens.
package tokencount

import (
	"encoding/json"

	"github.com/abhiram1809/anthropic-adapter/internal/tokenizer"
	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

const (
	perMessageOverhead = 3
	replyPriming       = 3
)

// Count estimates the number of input tokens a Chat-Completions body would
// consume. Multimodal image parts and non-string content are skipped; the
// estimate is deliberately rough.
func Count(enc *tokenizer.Encoder, req *wire.ChatRequest) int {
	total := 0

	for _, msg := range req.Messages {
		total += perMessageOverhead

		if content, ok := msg.Content.(string); ok {
			total += enc.Count(content)
		}

		for _, tc := range msg.ToolCalls {
			total += enc.Count(tc.Function.Name)
			total += enc.Count(tc.Function.Arguments)
		}
	}

	total += replyPriming

	if len(req.Tools) > 0 {
		if toolsJSON, err := json.Marshal(req.Tools); err == nil {
			total += enc.Count(string(toolsJSON))
		}
	}

	return total
}
