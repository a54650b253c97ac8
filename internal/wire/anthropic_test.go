package wire

import (
	"encoding/json"
	"testing"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestSystemPromptDualShape(t *testing.T) {
	var s SystemPrompt
	if err := json.Unmarshal([]byte(`"be nice"`), &s); err != nil {
		t.Fatalf("unmarshal string form: %v", err)
	}
	if got := s.JoinedText(); got != "be nice" {
		t.Fatalf("JoinedText() = %q, want %q", got, "be nice")
	}

	var listForm SystemPrompt
	raw := `[{"type":"text","text":"a"},{"type":"text","text":"b"}]`
	if err := json.Unmarshal([]byte(raw), &listForm); err != nil {
		t.Fatalf("unmarshal list form: %v", err)
	}
	if got := listForm.JoinedText(); got != "a\nb" {
		t.Fatalf("JoinedText() = %q, want %q", got, "a\nb")
	}
}

func TestMessageContentRoundTrip(t *testing.T) {
	var c MessageContent
	if err := json.Unmarshal([]byte(`"hello"`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.IsList() {
		t.Fatalf("expected non-list content")
	}
	out := mustMarshal(t, c)
	if string(out) != `"hello"` {
		t.Fatalf("marshal = %s, want %q", out, "hello")
	}
}

func TestContentBlockMissingTypeIsFatal(t *testing.T) {
	var b ContentBlock
	err := json.Unmarshal([]byte(`{"text":"no type field"}`), &b)
	if err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestContentBlockUnknownTypeIsNotFatal(t *testing.T) {
	var b ContentBlock
	if err := json.Unmarshal([]byte(`{"type":"future_block","stuff":1}`), &b); err != nil {
		t.Fatalf("unexpected error for unknown block type: %v", err)
	}
	if b.Type != "future_block" {
		t.Fatalf("Type = %q, want future_block", b.Type)
	}
}

func TestImageSourceToDataURIOrURL(t *testing.T) {
	base64Src := &ImageSource{Type: ImageSourceTypeBase64, MediaType: "image/png", Data: "AAAA"}
	if got, want := base64Src.ToDataURIOrURL(), "data:image/png;base64,AAAA"; got != want {
		t.Fatalf("base64 source = %q, want %q", got, want)
	}

	urlSrc := &ImageSource{Type: ImageSourceTypeURL, URL: "https://example.com/x.png"}
	if got, want := urlSrc.ToDataURIOrURL(), "https://example.com/x.png"; got != want {
		t.Fatalf("url source = %q, want %q", got, want)
	}
}

func TestToolResultContentJoinedTextSuccessFallback(t *testing.T) {
	var empty ToolResultContent
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := empty.JoinedText(); got != "Success" {
		t.Fatalf("JoinedText() = %q, want %q", got, "Success")
	}

	var listForm ToolResultContent
	raw := `[{"type":"text","text":"a"},{"type":"text","text":"b"}]`
	if err := json.Unmarshal([]byte(raw), &listForm); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := listForm.JoinedText(); got != "a b" {
		t.Fatalf("JoinedText() = %q, want %q", got, "a b")
	}
}

func TestEffectiveDefaults(t *testing.T) {
	req := &AnthropicRequest{}
	if got := req.EffectiveMaxTokens(); got != DefaultMaxTokens {
		t.Fatalf("EffectiveMaxTokens() = %d, want %d", got, DefaultMaxTokens)
	}
	if got := req.EffectiveTemperature(); got != DefaultTemperature {
		t.Fatalf("EffectiveTemperature() = %v, want %v", got, DefaultTemperature)
	}

	maxTokens := 10
	temp := 0.1
	req2 := &AnthropicRequest{MaxTokens: &maxTokens, Temperature: &temp}
	if got := req2.EffectiveMaxTokens(); got != 10 {
		t.Fatalf("EffectiveMaxTokens() = %d, want 10", got)
	}
	if got := req2.EffectiveTemperature(); got != 0.1 {
		t.Fatalf("EffectiveTemperature() = %v, want 0.1", got)
	}
}

func TestNewToolUseBlockDefaultsEmptyInput(t *testing.T) {
	b := NewToolUseBlock("id1", "fn", nil)
	if string(b.Input) != "{}" {
		t.Fatalf("Input = %s, want {}", b.Input)
	}
}
