package translate

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// FromChat translates an upstream Chat-Completions unary reply into an
// AnthropicResponse.
func FromChat(resp *wire.ChatResponse) (*wire.AnthropicResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat-completions response has no choices")
	}
	choice := resp.Choices[0]

	var content []wire.ContentBlock
	if choice.Message.Content != "" {
		content = append(content, wire.NewTextBlock(choice.Message.Content))
	}
	for _, tc := range choice.Message.ToolCalls {
		input, err := parseArguments(tc.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("tool call %q arguments: %w", tc.ID, err)
		}
		content = append(content, wire.NewToolUseBlock(tc.ID, tc.Function.Name, input))
	}

	model := resp.Model
	if model == "" {
		model = "unknown"
	}

	return &wire.AnthropicResponse{
		ID:         newMessageID(),
		Type:       "message",
		Role:       wire.RoleAssistant,
		Content:    content,
		Model:      model,
		StopReason: chatStopReason(choice.FinishReason),
		Usage: wire.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func chatStopReason(finishReason string) string {
	switch finishReason {
	case wire.ChatFinishReasonToolCalls:
		return wire.StopReasonToolUse
	case wire.ChatFinishReasonLength:
		return wire.StopReasonMaxTokens
	default:
		return wire.StopReasonEndTurn
	}
}

func parseArguments(arguments string) (json.RawMessage, error) {
	if arguments == "" {
		return json.RawMessage("{}"), nil
	}
	var v any
	if err := json.Unmarshal([]byte(arguments), &v); err != nil {
		return nil, err
	}
	return json.RawMessage(arguments), nil
}

func newMessageID() string {
	return "msg_" + uuidHex()
}

func uuidHex() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:])
}
