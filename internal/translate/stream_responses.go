package translate

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// ResponsesStream transduces an upstream Responses SSE body into the
// Anthropic stream-event sequence. The upstream carries an "event: <name>"
// line before each "data:" line; this function keeps a one-line lookahead
// associating each payload with the event name that preceded it.
func ResponsesStream(ctx context.Context, body io.Reader, logger *slog.Logger) iter.Seq2[wire.StreamEvent, error] {
	return func(yield func(wire.StreamEvent, error) bool) {
		if logger == nil {
			logger = slog.Default()
		}

		messageStarted := false
		currentBlockIndex := -1
		blockOpen := false

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var pendingEvent string

		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}

			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				pendingEvent = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
				continue
			case strings.HasPrefix(line, "data: "):
				payload := strings.TrimPrefix(line, "data: ")
				if payload == "" || payload == "[DONE]" {
					continue
				}

				var evt wire.ResponsesStreamEvent
				if err := json.Unmarshal([]byte(payload), &evt); err != nil {
					logger.DebugContext(ctx, "dropping unparsable responses stream event", "event", pendingEvent, "error", err)
					continue
				}

				switch pendingEvent {
				case wire.ResponsesEventCreated:
					if messageStarted {
						continue
					}
					messageStarted = true
					if !yield(wire.NewMessageStart(newMessageID()), nil) {
						return
					}

				case wire.ResponsesEventOutputItemAdded:
					outputIndex := currentBlockIndex + 1
					if evt.OutputIndex != nil {
						outputIndex = *evt.OutputIndex
					}
					if blockOpen && currentBlockIndex != outputIndex {
						if !yield(wire.NewContentBlockStop(currentBlockIndex), nil) {
							return
						}
						blockOpen = false
					}
					currentBlockIndex = outputIndex

					if evt.Item != nil {
						switch evt.Item.Type {
						case wire.ResponsesItemTypeMessage:
							if !yield(wire.NewTextBlockStart(currentBlockIndex), nil) {
								return
							}
							blockOpen = true
						case wire.ResponsesItemTypeFunctionCall:
							id := evt.Item.CallID
							if id == "" {
								id = evt.Item.ID
							}
							if !yield(wire.NewToolUseBlockStart(currentBlockIndex, id, evt.Item.Name), nil) {
								return
							}
							blockOpen = true
						}
					}

				case wire.ResponsesEventContentPartAdded:
					// No Anthropic output; content-index bookkeeping is not
					// needed since this implementation tracks open blocks by
					// output index alone.

				case wire.ResponsesEventOutputTextDelta:
					var text string
					if err := json.Unmarshal(evt.Delta, &text); err != nil {
						logger.DebugContext(ctx, "dropping malformed output_text.delta", "error", err)
						continue
					}
					if !yield(wire.NewTextDelta(currentBlockIndex, text), nil) {
						return
					}

				case wire.ResponsesEventFunctionCallDelta:
					var d wire.FunctionCallDelta
					if err := json.Unmarshal(evt.Delta, &d); err != nil {
						logger.DebugContext(ctx, "dropping malformed function_call_delta", "error", err)
						continue
					}
					if d.Arguments != "" {
						if !yield(wire.NewInputJSONDelta(currentBlockIndex, d.Arguments), nil) {
							return
						}
					}

				case wire.ResponsesEventOutputTextDone, wire.ResponsesEventContentPartDone:
					// ignored; no Anthropic equivalent

				case wire.ResponsesEventOutputItemDone:
					outputIndex := currentBlockIndex
					if evt.OutputIndex != nil {
						outputIndex = *evt.OutputIndex
					}
					if blockOpen && outputIndex == currentBlockIndex {
						if !yield(wire.NewContentBlockStop(currentBlockIndex), nil) {
							return
						}
						blockOpen = false
					}

				case wire.ResponsesEventCompleted:
					stopReason := wire.StopReasonEndTurn
					outputTokens := 0
					if evt.Response != nil {
						for _, item := range evt.Response.Output {
							if item.Type == wire.ResponsesItemTypeFunctionCall {
								stopReason = wire.StopReasonToolUse
								break
							}
						}
						outputTokens = evt.Response.Usage.OutputTokens
					}
					if !yield(wire.NewMessageDelta(stopReason, outputTokens), nil) {
						return
					}
					yield(wire.NewMessageStop(), nil)
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			logger.DebugContext(ctx, "responses stream read error", "error", err)
		}

		// Upstream closed without response.completed; still terminate the
		// Anthropic stream if a message was ever opened.
		if messageStarted {
			yield(wire.NewMessageStop(), nil)
		}
	}
}
