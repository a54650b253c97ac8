// Package translate implements the bidirectional schema translation between
// the Anthropic Messages wire format and the two upstream OpenAI-family
// flavors (Chat Completions and Responses), plus the stateful SSE-to-SSE
// transducers for each flavor's streaming replies.
package translate

import (
	"encoding/json"
	"fmt"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// ToChat translates an AnthropicRequest into the body posted to an upstream's
// v1/chat/completions endpoint.
func ToChat(req *wire.AnthropicRequest) (*wire.ChatRequest, error) {
	var messages []wire.ChatMessage

	if req.System != nil {
		messages = append(messages, wire.ChatMessage{
			Role:    wire.ChatRoleSystem,
			Content: req.System.JoinedText(),
		})
	}

	for _, msg := range req.Messages {
		translated, err := chatMessagesFor(msg)
		if err != nil {
			return nil, err
		}
		messages = append(messages, translated...)
	}

	out := &wire.ChatRequest{
		Model:       req.Model,
		Messages:    messages,
		Stream:      req.Stream,
		MaxTokens:   req.EffectiveMaxTokens(),
		Temperature: req.EffectiveTemperature(),
	}

	if len(req.StopSequences) > 0 {
		out.Stop = req.StopSequences
	}
	out.TopP = req.TopP
	out.PresencePenalty = req.PresencePenalty
	out.FrequencyPenalty = req.FrequencyPenalty

	if len(req.Tools) > 0 {
		out.Tools = chatTools(req.Tools)
		if req.ToolChoice != nil {
			out.ToolChoice = chatToolChoice(req.ToolChoice)
		}
	}

	if len(messages) > 0 && messages[len(messages)-1].Role == wire.ChatRoleAssistant {
		out.ContinueFinalMessage = true
		addGenerationPrompt := false
		out.AddGenerationPrompt = &addGenerationPrompt
	}

	return out, nil
}

// chatMessagesFor translates a single Anthropic message into zero or more
// Chat-Completions messages: a user message with tool_result blocks expands
// into one "tool"-role message per block and produces no user wrapper.
func chatMessagesFor(msg wire.Message) ([]wire.ChatMessage, error) {
	switch msg.Role {
	case wire.RoleUser:
		return chatUserMessages(msg.Content)
	case wire.RoleAssistant:
		m, err := chatAssistantMessage(msg.Content)
		if err != nil {
			return nil, err
		}
		return []wire.ChatMessage{m}, nil
	default:
		return nil, fmt.Errorf("unsupported message role %q", msg.Role)
	}
}

func chatUserMessages(content wire.MessageContent) ([]wire.ChatMessage, error) {
	if !content.IsList() {
		return []wire.ChatMessage{{Role: wire.ChatRoleUser, Content: content.Text}}, nil
	}

	if hasToolResult(content.Blocks) {
		var out []wire.ChatMessage
		for _, b := range content.Blocks {
			if b.Type != wire.ContentBlockTypeToolResult {
				continue
			}
			out = append(out, wire.ChatMessage{
				Role:       wire.ChatRoleTool,
				ToolCallID: b.ToolUseID,
				Content:    b.ResultContent.JoinedText(),
			})
		}
		return out, nil
	}

	var parts []wire.ChatContentPart
	for _, b := range content.Blocks {
		switch b.Type {
		case wire.ContentBlockTypeText:
			parts = append(parts, wire.ChatContentPart{Type: "text", Text: b.Text})
		case wire.ContentBlockTypeImage:
			parts = append(parts, wire.ChatContentPart{
				Type:     "image_url",
				ImageURL: &wire.ChatImageURL{URL: b.Source.ToDataURIOrURL()},
			})
		case "":
			return nil, fmt.Errorf("content block missing required \"type\" field")
		}
		// unknown block types are ignored
	}
	return []wire.ChatMessage{{Role: wire.ChatRoleUser, Content: parts}}, nil
}

func chatAssistantMessage(content wire.MessageContent) (wire.ChatMessage, error) {
	if !content.IsList() {
		return wire.ChatMessage{Role: wire.ChatRoleAssistant, Content: content.Text}, nil
	}

	var textParts []string
	var toolCalls []wire.ChatToolCall
	for _, b := range content.Blocks {
		switch b.Type {
		case wire.ContentBlockTypeText:
			textParts = append(textParts, b.Text)
		case wire.ContentBlockTypeToolUse:
			argsJSON, err := toJSONString(b.Input)
			if err != nil {
				return wire.ChatMessage{}, fmt.Errorf("tool_use %q input: %w", b.ID, err)
			}
			toolCalls = append(toolCalls, wire.ChatToolCall{
				ID:   b.ID,
				Type: "function",
				Function: wire.ChatToolCallFunc{
					Name:      b.Name,
					Arguments: argsJSON,
				},
			})
		case "":
			return wire.ChatMessage{}, fmt.Errorf("content block missing required \"type\" field")
		}
	}

	out := wire.ChatMessage{Role: wire.ChatRoleAssistant, ToolCalls: toolCalls}
	if len(textParts) > 0 {
		out.Content = joinLines(textParts)
	}
	return out, nil
}

func hasToolResult(blocks []wire.ContentBlock) bool {
	for _, b := range blocks {
		if b.Type == wire.ContentBlockTypeToolResult {
			return true
		}
	}
	return false
}

func chatTools(tools []wire.Tool) []wire.ChatTool {
	out := make([]wire.ChatTool, 0, len(tools))
	for _, t := range tools {
		out = append(out, wire.ChatTool{
			Type: "function",
			Function: wire.ChatToolFunc{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			},
		})
	}
	return out
}

func chatToolChoice(tc *wire.ToolChoice) any {
	switch tc.Type {
	case wire.ToolChoiceAny:
		return "required"
	case wire.ToolChoiceTool:
		return wire.ChatToolChoiceFunction{
			Type:     "function",
			Function: wire.ChatToolChoiceFunctionName{Name: tc.Name},
		}
	case wire.ToolChoiceAuto:
		fallthrough
	default:
		return "auto"
	}
}

func toJSONString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "{}", nil
	}
	// Re-marshal through an any to normalize whitespace consistently with
	// json.Marshal elsewhere, rather than passing the client's raw bytes
	// straight through.
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func joinLines(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}
