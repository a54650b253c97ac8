package translate

import (
	"testing"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

func TestFromResponsesTextOutput(t *testing.T) {
	resp := &wire.ResponsesResponse{
		Model: "gpt-4",
		Output: []wire.ResponsesItem{
			{Type: wire.ResponsesItemTypeMessage, Role: wire.RoleAssistant, Content: []wire.ResponsesContentPart{
				{Type: wire.ResponsesContentOutputText, Text: "Hello!"},
			}},
		},
		Usage: wire.ResponsesUsage{InputTokens: 3, OutputTokens: 2},
	}

	out, err := FromResponses(resp)
	if err != nil {
		t.Fatalf("FromResponses: %v", err)
	}
	if len(out.Content) != 1 || out.Content[0].Text != "Hello!" {
		t.Fatalf("Content = %+v", out.Content)
	}
	if out.StopReason != wire.StopReasonEndTurn {
		t.Fatalf("StopReason = %q, want %q", out.StopReason, wire.StopReasonEndTurn)
	}
	if out.Usage.InputTokens != 3 || out.Usage.OutputTokens != 2 {
		t.Fatalf("Usage = %+v", out.Usage)
	}
}

func TestFromResponsesFunctionCallStickyStopReason(t *testing.T) {
	resp := &wire.ResponsesResponse{
		Output: []wire.ResponsesItem{
			{Type: wire.ResponsesItemTypeFunctionCall, CallID: "call_1", Name: "get_weather", Arguments: `{"city":"NYC"}`},
			{Type: wire.ResponsesItemTypeMessage, Role: wire.RoleAssistant, Content: []wire.ResponsesContentPart{
				{Type: wire.ResponsesContentOutputText, Text: "checking"},
			}},
		},
	}

	out, err := FromResponses(resp)
	if err != nil {
		t.Fatalf("FromResponses: %v", err)
	}
	if out.StopReason != wire.StopReasonToolUse {
		t.Fatalf("StopReason = %q, want %q (sticky once seen)", out.StopReason, wire.StopReasonToolUse)
	}
	if len(out.Content) != 2 {
		t.Fatalf("len(Content) = %d, want 2", len(out.Content))
	}
}

func TestFromResponsesFunctionCallIDFallback(t *testing.T) {
	resp := &wire.ResponsesResponse{
		Output: []wire.ResponsesItem{
			{Type: wire.ResponsesItemTypeFunctionCall, ID: "fc_1", Name: "f", Arguments: "{}"},
		},
	}
	out, err := FromResponses(resp)
	if err != nil {
		t.Fatalf("FromResponses: %v", err)
	}
	if out.Content[0].ID != "fc_1" {
		t.Fatalf("ID = %q, want fc_1 (fallback when call_id absent)", out.Content[0].ID)
	}
}
