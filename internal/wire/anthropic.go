// Package wire defines the JSON shapes exchanged on both sides of the adapter:
// the Anthropic Messages API on the front, and the two OpenAI-family upstream
// flavors (Chat Completions and Responses) on the back.
package wire

import (
	"encoding/json"
	"fmt"
)

// AnthropicRequest is the body of POST /v1/messages and
// POST /v1/messages/count_tokens.
type AnthropicRequest struct {
	Model             string           `json:"model"`
	System            *SystemPrompt    `json:"system,omitempty"`
	Messages          []Message        `json:"messages"`
	Tools             []Tool           `json:"tools,omitempty"`
	ToolChoice        *ToolChoice      `json:"tool_choice,omitempty"`
	MaxTokens         *int             `json:"max_tokens,omitempty"`
	Temperature       *float64         `json:"temperature,omitempty"`
	Stream            bool             `json:"stream,omitempty"`
	StopSequences     []string         `json:"stop_sequences,omitempty"`
	TopP              *float64         `json:"top_p,omitempty"`
	PresencePenalty   *float64         `json:"presence_penalty,omitempty"`
	FrequencyPenalty  *float64         `json:"frequency_penalty,omitempty"`
}

// DefaultMaxTokens and DefaultTemperature are applied when the client omits
// the corresponding field, per the request-translation algorithm.
const (
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7
)

// EffectiveMaxTokens returns the request's max_tokens, or the default.
func (r *AnthropicRequest) EffectiveMaxTokens() int {
	if r.MaxTokens != nil {
		return *r.MaxTokens
	}
	return DefaultMaxTokens
}

// EffectiveTemperature returns the request's temperature, or the default.
func (r *AnthropicRequest) EffectiveTemperature() float64 {
	if r.Temperature != nil {
		return *r.Temperature
	}
	return DefaultTemperature
}

// SystemPrompt models the dual shape of the "system" field: a bare string, or
// an ordered list of text content blocks. JoinedText collapses either shape
// into a single newline-joined string, ignoring non-text blocks in the list
// form, matching the request-translation algorithm for both upstream flavors.
type SystemPrompt struct {
	Text   string
	Blocks []ContentBlock
	isList bool
}

func (s *SystemPrompt) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = SystemPrompt{Text: asString}
		return nil
	}

	var asBlocks []ContentBlock
	if err := json.Unmarshal(data, &asBlocks); err != nil {
		return fmt.Errorf("system: expected string or content-block list: %w", err)
	}
	*s = SystemPrompt{Blocks: asBlocks, isList: true}
	return nil
}

func (s SystemPrompt) MarshalJSON() ([]byte, error) {
	if s.isList {
		return json.Marshal(s.Blocks)
	}
	return json.Marshal(s.Text)
}

// JoinedText returns the system prompt as a single string, joining list-form
// text blocks with newlines in order and dropping non-text blocks.
func (s *SystemPrompt) JoinedText() string {
	if s == nil {
		return ""
	}
	if !s.isList {
		return s.Text
	}
	joined := ""
	for i, b := range s.Blocks {
		if b.Type != ContentBlockTypeText {
			continue
		}
		if i > 0 && joined != "" {
			joined += "\n"
		}
		joined += b.Text
	}
	return joined
}

// Message is one turn of the Anthropic conversation.
type Message struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageContent models the dual shape of Message.content: a bare string, or
// an ordered list of ContentBlock.
type MessageContent struct {
	Text   string
	Blocks []ContentBlock
	isList bool
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*c = MessageContent{Text: asString}
		return nil
	}

	var asBlocks []ContentBlock
	if err := json.Unmarshal(data, &asBlocks); err != nil {
		return fmt.Errorf("message content: expected string or content-block list: %w", err)
	}
	*c = MessageContent{Blocks: asBlocks, isList: true}
	return nil
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.isList {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// IsList reports whether the content arrived as a block list rather than a
// bare string.
func (c MessageContent) IsList() bool { return c.isList }

const (
	ContentBlockTypeText       = "text"
	ContentBlockTypeImage      = "image"
	ContentBlockTypeToolUse    = "tool_use"
	ContentBlockTypeToolResult = "tool_result"
)

// ContentBlock is a tagged union over the four content-block variants named
// in the data model: text, image, tool_use, tool_result. Exactly one set of
// fields is populated, selected by Type.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// image
	Source *ImageSource `json:"source,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID    string          `json:"tool_use_id,omitempty"`
	ResultContent ToolResultContent `json:"content,omitempty"`
}

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	type probe struct {
		Type string `json:"type"`
	}
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("content block: %w", err)
	}
	if p.Type == "" {
		return fmt.Errorf("content block missing required \"type\" field")
	}

	switch p.Type {
	case ContentBlockTypeText:
		var t struct{ Text string `json:"text"` }
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("text block: %w", err)
		}
		*b = ContentBlock{Type: p.Type, Text: t.Text}
	case ContentBlockTypeImage:
		var im struct{ Source ImageSource `json:"source"` }
		if err := json.Unmarshal(data, &im); err != nil {
			return fmt.Errorf("image block: %w", err)
		}
		*b = ContentBlock{Type: p.Type, Source: &im.Source}
	case ContentBlockTypeToolUse:
		var tu struct {
			ID    string          `json:"id"`
			Name  string          `json:"name"`
			Input json.RawMessage `json:"input"`
		}
		if err := json.Unmarshal(data, &tu); err != nil {
			return fmt.Errorf("tool_use block: %w", err)
		}
		*b = ContentBlock{Type: p.Type, ID: tu.ID, Name: tu.Name, Input: tu.Input}
	case ContentBlockTypeToolResult:
		var tr struct {
			ToolUseID string            `json:"tool_use_id"`
			Content   ToolResultContent `json:"content"`
		}
		if err := json.Unmarshal(data, &tr); err != nil {
			return fmt.Errorf("tool_result block: %w", err)
		}
		*b = ContentBlock{Type: p.Type, ToolUseID: tr.ToolUseID, ResultContent: tr.Content}
	default:
		// Unknown block types are ignored by the translator, not fatal here;
		// keep the type tag so callers can skip it.
		*b = ContentBlock{Type: p.Type}
	}
	return nil
}

// ImageSource is either a base64-encoded inline image or a URL reference.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

const (
	ImageSourceTypeBase64 = "base64"
	ImageSourceTypeURL    = "url"
)

// ToDataURIOrURL renders the source as an OpenAI-compatible image_url value:
// a data: URI for base64 sources, the raw URL otherwise.
func (s *ImageSource) ToDataURIOrURL() string {
	if s == nil {
		return ""
	}
	if s.Type == ImageSourceTypeBase64 {
		return fmt.Sprintf("data:%s;base64,%s", s.MediaType, s.Data)
	}
	return s.URL
}

// ToolResultContent models the dual shape of tool_result.content: a bare
// string, or a list of text blocks.
type ToolResultContent struct {
	Text   string
	Blocks []ContentBlock
	isList bool
	isSet  bool
}

func (c *ToolResultContent) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*c = ToolResultContent{Text: asString, isSet: true}
		return nil
	}
	var asBlocks []ContentBlock
	if err := json.Unmarshal(data, &asBlocks); err != nil {
		return fmt.Errorf("tool_result content: expected string or content-block list: %w", err)
	}
	*c = ToolResultContent{Blocks: asBlocks, isList: true, isSet: true}
	return nil
}

func (c ToolResultContent) MarshalJSON() ([]byte, error) {
	if c.isList {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// JoinedText flattens the content to a single string: the bare string as-is,
// or list-form text blocks joined with single spaces. Returns "Success" (the
// spec-mandated substitute) when the result would otherwise be empty.
func (c ToolResultContent) JoinedText() string {
	var joined string
	if c.isList {
		for _, b := range c.Blocks {
			if b.Type != ContentBlockTypeText {
				continue
			}
			if joined != "" {
				joined += " "
			}
			joined += b.Text
		}
	} else {
		joined = c.Text
	}
	if joined == "" {
		return "Success"
	}
	return joined
}

// Tool is an Anthropic tool declaration.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ToolChoice selects how the model must use tools.
type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

const (
	ToolChoiceAuto = "auto"
	ToolChoiceAny  = "any"
	ToolChoiceTool = "tool"
)

// AnthropicResponse is the unary JSON reply for POST /v1/messages.
type AnthropicResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        Usage          `json:"usage"`
}

const (
	StopReasonEndTurn  = "end_turn"
	StopReasonToolUse  = "tool_use"
	StopReasonMaxTokens = "max_tokens"
)

// Usage reports token accounting on a response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// NewTextBlock and NewToolUseBlock are response-side convenience constructors
// (they never need the fields unused in that direction).

func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentBlockTypeText, Text: text}
}

func NewToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	if input == nil {
		input = json.RawMessage("{}")
	}
	return ContentBlock{Type: ContentBlockTypeToolUse, ID: id, Name: name, Input: input}
}
