package wire

import "encoding/json"

// ChatRequest is the body sent to an upstream's v1/chat/completions endpoint.
type ChatRequest struct {
	Model               string           `json:"model"`
	Messages            []ChatMessage    `json:"messages"`
	Stream              bool             `json:"stream"`
	MaxTokens           int              `json:"max_tokens"`
	Temperature         float64          `json:"temperature"`
	Stop                []string         `json:"stop,omitempty"`
	TopP                *float64         `json:"top_p,omitempty"`
	PresencePenalty     *float64         `json:"presence_penalty,omitempty"`
	FrequencyPenalty    *float64         `json:"frequency_penalty,omitempty"`
	Tools               []ChatTool       `json:"tools,omitempty"`
	ToolChoice          any              `json:"tool_choice,omitempty"`
	ContinueFinalMessage bool            `json:"continue_final_message,omitempty"`
	AddGenerationPrompt  *bool           `json:"add_generation_prompt,omitempty"`
}

// ChatMessage is one entry of ChatRequest.Messages. Content is any because it
// is either a bare string (system/user/assistant/tool) or a list of
// multimodal parts (user only); the translator always produces one concrete
// shape per message, so a plain interface avoids a second tagged union here.
type ChatMessage struct {
	Role       string         `json:"role"`
	Content    any            `json:"content,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []ChatToolCall `json:"tool_calls,omitempty"`
}

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleTool      = "tool"
)

// ChatContentPart is one entry of a multimodal user ChatMessage.Content list.
type ChatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *ChatImageURL `json:"image_url,omitempty"`
}

type ChatImageURL struct {
	URL string `json:"url"`
}

type ChatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ChatToolCallFunc `json:"function"`
}

type ChatToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ChatTool struct {
	Type     string       `json:"type"`
	Function ChatToolFunc `json:"function"`
}

type ChatToolFunc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ChatToolChoiceFunction is the {type:"function", function:{name}} shape used
// when tool_choice pins a specific tool.
type ChatToolChoiceFunction struct {
	Type     string                     `json:"type"`
	Function ChatToolChoiceFunctionName `json:"function"`
}

type ChatToolChoiceFunctionName struct {
	Name string `json:"name"`
}

// ChatResponse is the unary JSON reply from v1/chat/completions.
type ChatResponse struct {
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

type ChatChoice struct {
	Message      ChatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type ChatResponseMessage struct {
	Content   string         `json:"content"`
	ToolCalls []ChatToolCall `json:"tool_calls"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

const (
	ChatFinishReasonToolCalls = "tool_calls"
	ChatFinishReasonLength    = "length"
	ChatFinishReasonStop      = "stop"
)

// ChatStreamChunk is one SSE data payload from a streaming
// v1/chat/completions reply.
type ChatStreamChunk struct {
	Choices []ChatStreamChoice `json:"choices"`
}

type ChatStreamChoice struct {
	Delta        ChatStreamDelta `json:"delta"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

type ChatStreamDelta struct {
	Content   *string                `json:"content,omitempty"`
	ToolCalls []ChatStreamToolCall   `json:"tool_calls,omitempty"`
}

// ChatStreamToolCall is one entry of delta.tool_calls. Every field is
// optional: upstream sends id/name only on the first chunk for a given
// index, and arguments fragments on every chunk thereafter.
type ChatStreamToolCall struct {
	Index    int                      `json:"index"`
	ID       string                   `json:"id,omitempty"`
	Function *ChatStreamToolCallFunc  `json:"function,omitempty"`
}

type ChatStreamToolCallFunc struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// UpstreamErrorBody is the {"error": {...}} envelope many OpenAI-compatible
// servers use for non-2xx replies.
type UpstreamErrorBody struct {
	Error UpstreamError `json:"error"`
}

type UpstreamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
