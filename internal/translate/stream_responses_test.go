package translate

import (
	"context"
	"strings"
	"testing"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

func collectResponsesStream(t *testing.T, sse string) []wire.StreamEvent {
	t.Helper()
	var events []wire.StreamEvent
	for evt, err := range ResponsesStream(context.Background(), strings.NewReader(sse), nil) {
		if err != nil {
			t.Fatalf("unexpected transducer error: %v", err)
		}
		events = append(events, evt)
	}
	return events
}

func TestResponsesStreamTextOnly(t *testing.T) {
	sse := "" +
		"event: response.created\n" +
		`data: {}` + "\n" +
		"event: response.output_item.added\n" +
		`data: {"output_index":0,"item":{"type":"message"}}` + "\n" +
		"event: response.output_text.delta\n" +
		`data: {"delta":"Hel"}` + "\n" +
		"event: response.output_text.delta\n" +
		`data: {"delta":"lo"}` + "\n" +
		"event: response.output_item.done\n" +
		`data: {"output_index":0}` + "\n" +
		"event: response.completed\n" +
		`data: {"response":{"output":[],"usage":{"output_tokens":2}}}` + "\n"

	events := collectResponsesStream(t, sse)

	wantEventNames := []string{
		wire.EventMessageStart,
		wire.EventContentBlockStart,
		wire.EventContentBlockDelta,
		wire.EventContentBlockDelta,
		wire.EventContentBlockStop,
		wire.EventMessageDelta,
		wire.EventMessageStop,
	}
	if len(events) != len(wantEventNames) {
		t.Fatalf("len(events) = %d, want %d: %+v", len(events), len(wantEventNames), events)
	}
	for i, want := range wantEventNames {
		if events[i].Event != want {
			t.Errorf("events[%d].Event = %q, want %q", i, events[i].Event, want)
		}
	}

	md := events[5].MessageDelta
	if md.Delta.StopReason != wire.StopReasonEndTurn {
		t.Errorf("stop_reason = %q, want %q", md.Delta.StopReason, wire.StopReasonEndTurn)
	}
	if md.Usage.OutputTokens != 2 {
		t.Errorf("output_tokens = %d, want 2", md.Usage.OutputTokens)
	}
}

func TestResponsesStreamFunctionCall(t *testing.T) {
	sse := "" +
		"event: response.created\n" +
		`data: {}` + "\n" +
		"event: response.output_item.added\n" +
		`data: {"output_index":0,"item":{"type":"function_call","call_id":"call_1","name":"get_weather"}}` + "\n" +
		"event: response.function_call_delta\n" +
		`data: {"delta":{"arguments":"{\"city\":\"NYC\"}"}}` + "\n" +
		"event: response.output_item.done\n" +
		`data: {"output_index":0}` + "\n" +
		"event: response.completed\n" +
		`data: {"response":{"output":[{"type":"function_call","call_id":"call_1","name":"get_weather","arguments":"{\"city\":\"NYC\"}"}]}}` + "\n"

	events := collectResponsesStream(t, sse)

	var sawToolUseStart, sawInputDelta bool
	var stopReason string
	for _, e := range events {
		switch e.Event {
		case wire.EventContentBlockStart:
			if e.ContentBlockStart.ContentBlock.Type == wire.ContentBlockTypeToolUse {
				sawToolUseStart = true
				if e.ContentBlockStart.ContentBlock.ID != "call_1" || e.ContentBlockStart.ContentBlock.Name != "get_weather" {
					t.Errorf("tool_use start = %+v", e.ContentBlockStart.ContentBlock)
				}
			}
		case wire.EventContentBlockDelta:
			if e.ContentBlockDelta.Delta.Type == wire.DeltaTypeInputJSON {
				sawInputDelta = true
				if e.ContentBlockDelta.Delta.PartialJSON != `{"city":"NYC"}` {
					t.Errorf("partial_json = %q", e.ContentBlockDelta.Delta.PartialJSON)
				}
			}
		case wire.EventMessageDelta:
			stopReason = e.MessageDelta.Delta.StopReason
		}
	}
	if !sawToolUseStart {
		t.Errorf("expected a tool_use content_block_start")
	}
	if !sawInputDelta {
		t.Errorf("expected an input_json_delta")
	}
	if stopReason != wire.StopReasonToolUse {
		t.Errorf("stop_reason = %q, want %q", stopReason, wire.StopReasonToolUse)
	}
}

func TestResponsesStreamMessageStartOnlyOnce(t *testing.T) {
	sse := "" +
		"event: response.created\n" +
		`data: {}` + "\n" +
		"event: response.created\n" +
		`data: {}` + "\n"

	events := collectResponsesStream(t, sse)
	var starts int
	for _, e := range events {
		if e.Event == wire.EventMessageStart {
			starts++
		}
	}
	if starts != 1 {
		t.Fatalf("message_start emitted %d times, want 1", starts)
	}
}

func TestResponsesStreamTrailingMessageStopWithoutCompleted(t *testing.T) {
	sse := "" +
		"event: response.created\n" +
		`data: {}` + "\n" +
		"event: response.output_item.added\n" +
		`data: {"output_index":0,"item":{"type":"message"}}` + "\n"
	// upstream closes without response.completed

	events := collectResponsesStream(t, sse)
	if len(events) == 0 || events[len(events)-1].Event != wire.EventMessageStop {
		t.Fatalf("events = %+v, want trailing message_stop", events)
	}
}
