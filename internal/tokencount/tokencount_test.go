package tokencount

import (
	"testing"

	"github.com/abhiram1809/anthropic-adapter/internal/tokenizer"
	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

func TestCountBaselineIsReplyPriming(t *testing.T) {
	enc := tokenizer.New("cl100k_base")
	req := &wire.ChatRequest{}
	if got := Count(enc, req); got != replyPriming {
		t.Fatalf("Count(empty request) = %d, want %d (reply priming only)", got, replyPriming)
	}
}

func TestCountAddsPerMessageOverhead(t *testing.T) {
	enc := tokenizer.New("cl100k_base")
	req := &wire.ChatRequest{Messages: []wire.ChatMessage{{Role: wire.ChatRoleUser, Content: ""}}}
	got := Count(enc, req)
	if got < perMessageOverhead+replyPriming {
		t.Fatalf("Count() = %d, want at least %d", got, perMessageOverhead+replyPriming)
	}
}

func TestCountIncreasesWithContent(t *testing.T) {
	// S6 — Count tokens, structural check: adding real message text must
	// strictly increase the total over the same request with empty content.
	enc := tokenizer.New("cl100k_base")
	empty := Count(enc, &wire.ChatRequest{Messages: []wire.ChatMessage{{Role: wire.ChatRoleUser, Content: ""}}})
	withText := Count(enc, &wire.ChatRequest{Messages: []wire.ChatMessage{{Role: wire.ChatRoleUser, Content: "hello world"}}})
	if withText <= empty {
		t.Fatalf("Count(with text) = %d, want > Count(empty) = %d", withText, empty)
	}
}

func TestCountSkipsNonStringContent(t *testing.T) {
	enc := tokenizer.New("cl100k_base")
	req := &wire.ChatRequest{Messages: []wire.ChatMessage{{
		Role:    wire.ChatRoleUser,
		Content: []wire.ChatContentPart{{Type: "image_url", ImageURL: &wire.ChatImageURL{URL: "https://example.com/x.png"}}},
	}}}
	got := Count(enc, req)
	if got != perMessageOverhead+replyPriming {
		t.Fatalf("Count(multimodal content) = %d, want %d (non-string content skipped)", got, perMessageOverhead+replyPriming)
	}
}

func TestCountIncludesToolsWhenPresent(t *testing.T) {
	enc := tokenizer.New("cl100k_base")
	withoutTools := Count(enc, &wire.ChatRequest{})
	withTools := Count(enc, &wire.ChatRequest{Tools: []wire.ChatTool{{Type: "function", Function: wire.ChatToolFunc{Name: "get_weather", Description: "fetch weather"}}}})
	if withTools <= withoutTools {
		t.Fatalf("Count(with tools) = %d, want > Count(without tools) = %d", withTools, withoutTools)
	}
}

func TestCountIncludesToolCallArguments(t *testing.T) {
	enc := tokenizer.New("cl100k_base")
	withoutCall := Count(enc, &wire.ChatRequest{Messages: []wire.ChatMessage{{Role: wire.ChatRoleAssistant}}})
	withCall := Count(enc, &wire.ChatRequest{Messages: []wire.ChatMessage{{
		Role:      wire.ChatRoleAssistant,
		ToolCalls: []wire.ChatToolCall{{ID: "call_1", Function: wire.ChatToolCallFunc{Name: "get_weather", Arguments: `{"city":"NYC"}`}}},
	}}})
	if withCall <= withoutCall {
		t.Fatalf("Count(with tool call) = %d, want > Count(without) = %d", withCall, withoutCall)
	}
}
