package wire

// StreamEvent is one Anthropic SSE record. Event names the payload's
// discriminator (mirrored into the "event:" SSE line); the concrete payload
// lives in one of the pointer fields below, selected by Event.
type StreamEvent struct {
	Event             string
	MessageStart      *MessageStartPayload
	ContentBlockStart *ContentBlockStartPayload
	ContentBlockDelta *ContentBlockDeltaPayload
	ContentBlockStop  *ContentBlockStopPayload
	MessageDelta      *MessageDeltaPayload
	MessageStop       *MessageStopPayload
}

const (
	EventMessageStart      = "message_start"
	EventContentBlockStart = "content_block_start"
	EventContentBlockDelta = "content_block_delta"
	EventContentBlockStop  = "content_block_stop"
	EventMessageDelta      = "message_delta"
	EventMessageStop       = "message_stop"
)

// Data returns the JSON-serializable payload carried by this event, i.e.
// whatever belongs on the "data:" line.
func (e StreamEvent) Data() any {
	switch e.Event {
	case EventMessageStart:
		return e.MessageStart
	case EventContentBlockStart:
		return e.ContentBlockStart
	case EventContentBlockDelta:
		return e.ContentBlockDelta
	case EventContentBlockStop:
		return e.ContentBlockStop
	case EventMessageDelta:
		return e.MessageDelta
	case EventMessageStop:
		return e.MessageStop
	default:
		return nil
	}
}

type MessageStartPayload struct {
	Type    string            `json:"type"`
	Message StreamingMessage  `json:"message"`
}

// StreamingMessage is the partial AnthropicResponse sent in message_start:
// empty content, no stop reason yet, zeroed usage.
type StreamingMessage struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   *string        `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        Usage          `json:"usage"`
}

func NewMessageStart(id string) StreamEvent {
	return StreamEvent{
		Event: EventMessageStart,
		MessageStart: &MessageStartPayload{
			Type: EventMessageStart,
			Message: StreamingMessage{
				ID:      id,
				Type:    "message",
				Role:    RoleAssistant,
				Content: []ContentBlock{},
				Model:   "proxy",
				Usage:   Usage{},
			},
		},
	}
}

type ContentBlockStartPayload struct {
	Type         string       `json:"type"`
	Index        int          `json:"index"`
	ContentBlock ContentBlock `json:"content_block"`
}

func NewContentBlockStart(index int, block ContentBlock) StreamEvent {
	return StreamEvent{
		Event: EventContentBlockStart,
		ContentBlockStart: &ContentBlockStartPayload{
			Type:         EventContentBlockStart,
			Index:        index,
			ContentBlock: block,
		},
	}
}

// NewTextBlockStart and NewToolUseBlockStart are the two block shapes opened
// mid-stream: an empty text block and a tool_use block with empty input.
func NewTextBlockStart(index int) StreamEvent {
	return NewContentBlockStart(index, ContentBlock{Type: ContentBlockTypeText, Text: ""})
}

func NewToolUseBlockStart(index int, id, name string) StreamEvent {
	return NewContentBlockStart(index, ContentBlock{
		Type:  ContentBlockTypeToolUse,
		ID:    id,
		Name:  name,
		Input: []byte("{}"),
	})
}

type ContentBlockDeltaPayload struct {
	Type  string     `json:"type"`
	Index int        `json:"index"`
	Delta BlockDelta `json:"delta"`
}

// BlockDelta is a tagged union over the two delta shapes: text_delta and
// input_json_delta. Exactly one of Text / PartialJSON is populated,
// selected by Type.
type BlockDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

const (
	DeltaTypeText       = "text_delta"
	DeltaTypeInputJSON  = "input_json_delta"
)

func NewTextDelta(index int, text string) StreamEvent {
	return StreamEvent{
		Event: EventContentBlockDelta,
		ContentBlockDelta: &ContentBlockDeltaPayload{
			Type:  EventContentBlockDelta,
			Index: index,
			Delta: BlockDelta{Type: DeltaTypeText, Text: text},
		},
	}
}

func NewInputJSONDelta(index int, partialJSON string) StreamEvent {
	return StreamEvent{
		Event: EventContentBlockDelta,
		ContentBlockDelta: &ContentBlockDeltaPayload{
			Type:  EventContentBlockDelta,
			Index: index,
			Delta: BlockDelta{Type: DeltaTypeInputJSON, PartialJSON: partialJSON},
		},
	}
}

type ContentBlockStopPayload struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

func NewContentBlockStop(index int) StreamEvent {
	return StreamEvent{
		Event:            EventContentBlockStop,
		ContentBlockStop: &ContentBlockStopPayload{Type: EventContentBlockStop, Index: index},
	}
}

type MessageDeltaPayload struct {
	Type  string          `json:"type"`
	Delta MessageDeltaBody `json:"delta"`
	Usage MessageDeltaUsage `json:"usage"`
}

type MessageDeltaBody struct {
	StopReason   string  `json:"stop_reason"`
	StopSequence *string `json:"stop_sequence"`
}

// MessageDeltaUsage carries only output_tokens, matching the data model's
// message_delta usage shape (input token accounting belongs to the unary
// response and message_start only).
type MessageDeltaUsage struct {
	OutputTokens int `json:"output_tokens"`
}

func NewMessageDelta(stopReason string, outputTokens int) StreamEvent {
	return StreamEvent{
		Event: EventMessageDelta,
		MessageDelta: &MessageDeltaPayload{
			Type:  EventMessageDelta,
			Delta: MessageDeltaBody{StopReason: stopReason, StopSequence: nil},
			Usage: MessageDeltaUsage{OutputTokens: outputTokens},
		},
	}
}

type MessageStopPayload struct {
	Type string `json:"type"`
}

func NewMessageStop() StreamEvent {
	return StreamEvent{Event: EventMessageStop, MessageStop: &MessageStopPayload{Type: EventMessageStop}}
}
