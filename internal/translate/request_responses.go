package translate

import (
	"fmt"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// ToResponses translates an AnthropicRequest into the body posted to an
// upstream's v1/responses endpoint.
func ToResponses(req *wire.AnthropicRequest) (*wire.ResponsesRequest, error) {
	var items []wire.ResponsesItem

	for _, msg := range req.Messages {
		translated, err := responsesItemsFor(msg)
		if err != nil {
			return nil, err
		}
		items = append(items, translated...)
	}

	out := &wire.ResponsesRequest{
		Model:           req.Model,
		Input:           items,
		Stream:          req.Stream,
		MaxOutputTokens: req.EffectiveMaxTokens(),
		Temperature:     req.EffectiveTemperature(),
	}

	if req.System != nil {
		out.Instructions = req.System.JoinedText()
	}

	if len(req.StopSequences) > 0 {
		out.Stop = req.StopSequences
	}
	out.TopP = req.TopP
	out.PresencePenalty = req.PresencePenalty
	out.FrequencyPenalty = req.FrequencyPenalty

	if len(req.Tools) > 0 {
		out.Tools = responsesTools(req.Tools)
		if req.ToolChoice != nil {
			out.ToolChoice = chatToolChoice(req.ToolChoice)
		}
	}

	return out, nil
}

func responsesItemsFor(msg wire.Message) ([]wire.ResponsesItem, error) {
	switch msg.Role {
	case wire.RoleUser:
		return responsesUserItems(msg.Content)
	case wire.RoleAssistant:
		return responsesAssistantItems(msg.Content)
	default:
		return nil, fmt.Errorf("unsupported message role %q", msg.Role)
	}
}

func responsesUserItems(content wire.MessageContent) ([]wire.ResponsesItem, error) {
	if !content.IsList() {
		return []wire.ResponsesItem{{
			Type: wire.ResponsesItemTypeMessage,
			Role: wire.RoleUser,
			Content: []wire.ResponsesContentPart{
				{Type: wire.ResponsesContentInputText, Text: content.Text},
			},
		}}, nil
	}

	if hasToolResult(content.Blocks) {
		var out []wire.ResponsesItem
		for _, b := range content.Blocks {
			if b.Type != wire.ContentBlockTypeToolResult {
				continue
			}
			out = append(out, wire.ResponsesItem{
				Type:   wire.ResponsesItemTypeCustomToolCallOutput,
				CallID: b.ToolUseID,
				Output: b.ResultContent.JoinedText(),
			})
		}
		return out, nil
	}

	var parts []wire.ResponsesContentPart
	for _, b := range content.Blocks {
		switch b.Type {
		case wire.ContentBlockTypeText:
			parts = append(parts, wire.ResponsesContentPart{Type: wire.ResponsesContentInputText, Text: b.Text})
		case wire.ContentBlockTypeImage:
			parts = append(parts, wire.ResponsesContentPart{
				Type:     wire.ResponsesContentInputImage,
				ImageURL: b.Source.ToDataURIOrURL(),
			})
		case "":
			return nil, fmt.Errorf("content block missing required \"type\" field")
		}
	}
	return []wire.ResponsesItem{{Type: wire.ResponsesItemTypeMessage, Role: wire.RoleUser, Content: parts}}, nil
}

func responsesAssistantItems(content wire.MessageContent) ([]wire.ResponsesItem, error) {
	if !content.IsList() {
		return []wire.ResponsesItem{{
			Type: wire.ResponsesItemTypeMessage,
			Role: wire.RoleAssistant,
			Content: []wire.ResponsesContentPart{
				{Type: wire.ResponsesContentOutputText, Text: content.Text},
			},
		}}, nil
	}

	var items []wire.ResponsesItem
	var textParts []wire.ResponsesContentPart
	for _, b := range content.Blocks {
		switch b.Type {
		case wire.ContentBlockTypeText:
			textParts = append(textParts, wire.ResponsesContentPart{Type: wire.ResponsesContentOutputText, Text: b.Text})
		case wire.ContentBlockTypeToolUse:
			argsJSON, err := toJSONString(b.Input)
			if err != nil {
				return nil, fmt.Errorf("tool_use %q input: %w", b.ID, err)
			}
			items = append(items, wire.ResponsesItem{
				Type:      wire.ResponsesItemTypeFunctionCall,
				CallID:    b.ID,
				Name:      b.Name,
				Arguments: argsJSON,
			})
		case "":
			return nil, fmt.Errorf("content block missing required \"type\" field")
		}
	}
	if len(textParts) > 0 {
		items = append(items, wire.ResponsesItem{Type: wire.ResponsesItemTypeMessage, Role: wire.RoleAssistant, Content: textParts})
	}
	return items, nil
}

func responsesTools(tools []wire.Tool) []wire.ResponsesTool {
	out := make([]wire.ResponsesTool, 0, len(tools))
	for _, t := range tools {
		out = append(out, wire.ResponsesTool{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.InputSchema,
		})
	}
	return out
}
