package translate

import (
	"fmt"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// FromResponses translates an upstream Responses unary reply into an
// AnthropicResponse.
func FromResponses(resp *wire.ResponsesResponse) (*wire.AnthropicResponse, error) {
	var content []wire.ContentBlock
	stopReason := wire.StopReasonEndTurn

	for _, item := range resp.Output {
		switch item.Type {
		case wire.ResponsesItemTypeMessage:
			for _, part := range item.Content {
				if part.Type == wire.ResponsesContentOutputText {
					content = append(content, wire.NewTextBlock(part.Text))
				}
			}
		case wire.ResponsesItemTypeFunctionCall:
			id := item.CallID
			if id == "" {
				id = item.ID
			}
			input, err := parseArguments(item.Arguments)
			if err != nil {
				return nil, fmt.Errorf("function_call %q arguments: %w", id, err)
			}
			content = append(content, wire.NewToolUseBlock(id, item.Name, input))
			stopReason = wire.StopReasonToolUse
		}
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
		StopReason: stopReason,
		Usage: wire.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}
