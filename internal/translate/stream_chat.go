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

// ChatStream transduces an upstream Chat-Completions SSE body into the
// Anthropic stream-event sequence. Per-chunk JSON parse failures are logged
// and skipped rather than surfaced — some upstreams emit keepalive or
// vendor-specific lines that do not fit the expected chunk shape — so the
// yielded error is always nil; the second return slot exists to match the
// shape expected by callers that also drive non-transducer iterators.
func ChatStream(ctx context.Context, body io.Reader, logger *slog.Logger) iter.Seq2[wire.StreamEvent, error] {
	return func(yield func(wire.StreamEvent, error) bool) {
		if logger == nil {
			logger = slog.Default()
		}

		if !yield(wire.NewMessageStart(newMessageID()), nil) {
			return
		}

		// Index 0 is always the text block; it is opened unconditionally,
		// even if upstream never sends text content.
		currentBlockIndex := 0
		if !yield(wire.NewTextBlockStart(currentBlockIndex), nil) {
			return
		}

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}

			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			payload := strings.TrimPrefix(line, "data: ")
			if payload == "" || payload == "[DONE]" {
				continue
			}

			var chunk wire.ChatStreamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				logger.DebugContext(ctx, "dropping unparsable chat-completions stream chunk", "error", err)
				continue
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]
			delta := choice.Delta

			if delta.Content != nil && *delta.Content != "" {
				// Text always lands on block 0, never on currentBlockIndex: a
				// text delta after a tool-call block has opened must not be
				// attributed to that tool-use block.
				if !yield(wire.NewTextDelta(0, *delta.Content), nil) {
					return
				}
			}

			if len(delta.ToolCalls) > 0 {
				tc := delta.ToolCalls[0]
				// Anthropic reserves index 0 for the initial text block, so
				// OpenAI tool-call index N maps to Anthropic block N+1.
				targetIndex := tc.Index + 1
				if targetIndex != currentBlockIndex {
					if !yield(wire.NewContentBlockStop(currentBlockIndex), nil) {
						return
					}
					currentBlockIndex = targetIndex

					id := tc.ID
					if id == "" {
						id = "pending"
					}
					name := "pending"
					if tc.Function != nil && tc.Function.Name != "" {
						name = tc.Function.Name
					}
					if !yield(wire.NewToolUseBlockStart(currentBlockIndex, id, name), nil) {
						return
					}
				}

				if tc.Function != nil && tc.Function.Arguments != "" {
					if !yield(wire.NewInputJSONDelta(currentBlockIndex, tc.Function.Arguments), nil) {
						return
					}
				}
			}

			if choice.FinishReason != "" {
				if !yield(wire.NewContentBlockStop(currentBlockIndex), nil) {
					return
				}
				// Output-token accounting here is a placeholder per the
				// streaming protocol; real usage is not available mid-stream
				// from Chat-Completions.
				if !yield(wire.NewMessageDelta(chatStreamStopReason(choice.FinishReason), 10), nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			logger.DebugContext(ctx, "chat-completions stream read error", "error", err)
		}

		yield(wire.NewMessageStop(), nil)
	}
}

func chatStreamStopReason(finishReason string) string {
	switch finishReason {
	case wire.ChatFinishReasonToolCalls:
		return wire.StopReasonToolUse
	case wire.ChatFinishReasonLength:
		return wire.StopReasonMaxTokens
	default:
		return wire.StopReasonEndTurn
	}
}
