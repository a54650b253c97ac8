package wire

import "encoding/json"

// ResponsesRequest is the body sent to an upstream's v1/responses endpoint.
type ResponsesRequest struct {
	Model            string           `json:"model"`
	Input            []ResponsesItem  `json:"input"`
	Instructions     string           `json:"instructions,omitempty"`
	Stream           bool             `json:"stream"`
	MaxOutputTokens  int              `json:"max_output_tokens"`
	Temperature      float64          `json:"temperature"`
	Stop             []string         `json:"stop,omitempty"`
	TopP             *float64         `json:"top_p,omitempty"`
	PresencePenalty  *float64         `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64         `json:"frequency_penalty,omitempty"`
	Tools            []ResponsesTool  `json:"tools,omitempty"`
	ToolChoice       any              `json:"tool_choice,omitempty"`
}

// ResponsesItem is a tagged union over the input/output item variants named
// in the data model: message, function_call, custom_tool_call_output.
// Exactly one shape is populated, selected by Type.
type ResponsesItem struct {
	Type string `json:"type"`

	// message
	Role    string                  `json:"role,omitempty"`
	Content []ResponsesContentPart  `json:"content,omitempty"`

	// function_call
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	// function_call (output, as seen by the unary/streaming translators)
	ID string `json:"id,omitempty"`

	// custom_tool_call_output
	Output string `json:"output,omitempty"`
}

const (
	ResponsesItemTypeMessage              = "message"
	ResponsesItemTypeFunctionCall         = "function_call"
	ResponsesItemTypeCustomToolCallOutput = "custom_tool_call_output"
)

// ResponsesContentPart is one entry of a message item's content list.
type ResponsesContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

const (
	ResponsesContentInputText  = "input_text"
	ResponsesContentInputImage = "input_image"
	ResponsesContentOutputText = "output_text"
)

type ResponsesTool struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ResponsesResponse is the unary JSON reply from v1/responses.
type ResponsesResponse struct {
	Model  string          `json:"model"`
	Output []ResponsesItem `json:"output"`
	Usage  ResponsesUsage  `json:"usage"`
}

type ResponsesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Streaming event payloads. Each upstream SSE record carries an "event:"
// name naming one of these, and a "data:" line whose JSON shape depends on
// that name; ResponsesStreamEvent is the superset of fields any event might
// carry, since the transducer only ever needs a handful per event kind.

type ResponsesStreamEvent struct {
	// response.output_item.added / response.output_item.done
	OutputIndex *int           `json:"output_index,omitempty"`
	Item        *ResponsesItem `json:"item,omitempty"`

	// response.content_part.added
	ContentIndex *int `json:"content_index,omitempty"`

	// response.output_text.delta
	Delta json.RawMessage `json:"delta,omitempty"`

	// response.completed
	Response *ResponsesResponse `json:"response,omitempty"`
}

// FunctionCallDelta is the shape of "delta" on response.function_call_delta,
// distinct from the bare-string delta used by response.output_text.delta.
type FunctionCallDelta struct {
	Arguments string `json:"arguments"`
}

const (
	ResponsesEventCreated             = "response.created"
	ResponsesEventOutputItemAdded     = "response.output_item.added"
	ResponsesEventContentPartAdded    = "response.content_part.added"
	ResponsesEventOutputTextDelta     = "response.output_text.delta"
	ResponsesEventFunctionCallDelta   = "response.function_call_delta"
	ResponsesEventOutputTextDone      = "response.output_text.done"
	ResponsesEventContentPartDone     = "response.content_part.done"
	ResponsesEventOutputItemDone      = "response.output_item.done"
	ResponsesEventCompleted           = "response.completed"
)
