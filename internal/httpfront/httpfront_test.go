package httpfront

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, upstreamURL, apiKey string) *Server {
	t.Helper()
	return New(upstreamURL, apiKey, "cl100k_base", discardLogger())
}

func doRequest(s *Server, method, path string, headers map[string]string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleMessagesMissingCredentialReturns401(t *testing.T) {
	s := newTestServer(t, "https://api.openai.com/v1/chat/completions", "")
	rec := doRequest(s, "POST", "/v1/messages", nil, `{"model":"gpt-4","messages":[]}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401; body = %s", rec.Code, rec.Body.String())
	}
	var errBody anthropicError
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errBody.Error.Type != "authentication_error" {
		t.Fatalf("error.type = %q, want authentication_error", errBody.Error.Type)
	}
}

func TestHandleMessagesMalformedJSONReturns500(t *testing.T) {
	s := newTestServer(t, "https://api.openai.com/v1/chat/completions", "sk-default")
	rec := doRequest(s, "POST", "/v1/messages", nil, `not json`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandleMessagesUnaryChatSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("authorization"); got != "Bearer sk-inbound" {
			t.Errorf("upstream saw authorization = %q, want Bearer sk-inbound", got)
		}
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(wire.ChatResponse{
			Model: "gpt-4",
			Choices: []wire.ChatChoice{{
				Message:      wire.ChatResponseMessage{Content: "hi there"},
				FinishReason: wire.ChatFinishReasonStop,
			}},
			Usage: wire.ChatUsage{PromptTokens: 5, CompletionTokens: 2},
		})
	}))
	defer upstream.Close()

	s := newTestServer(t, upstream.URL, "sk-default")
	rec := doRequest(s, "POST", "/v1/messages",
		map[string]string{"x-api-key": "sk-inbound"},
		`{"model":"claude-3","messages":[{"role":"user","content":"hello"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	var resp wire.AnthropicResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.StopReason != wire.StopReasonEndTurn {
		t.Errorf("stop_reason = %q, want %q", resp.StopReason, wire.StopReasonEndTurn)
	}
	if len(resp.Content) != 1 || resp.Content[0].Text != "hi there" {
		t.Errorf("content = %+v", resp.Content)
	}
}

func TestHandleMessagesUpstreamErrorPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(wire.UpstreamErrorBody{
			Error: wire.UpstreamError{Type: "rate_limit_error", Message: "slow down"},
		})
	}))
	defer upstream.Close()

	s := newTestServer(t, upstream.URL, "sk-default")
	rec := doRequest(s, "POST", "/v1/messages", nil,
		`{"model":"claude-3","messages":[{"role":"user","content":"hello"}]}`)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429; body = %s", rec.Code, rec.Body.String())
	}
	var errBody anthropicError
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errBody.Error.Type != "rate_limit_error" || errBody.Error.Message != "slow down" {
		t.Fatalf("error = %+v, want rate_limit_error/slow down", errBody.Error)
	}
}

func TestHandleMessagesStreamingPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"hi"}}]}`+"\n")
		fmt.Fprint(w, `data: {"choices":[{"finish_reason":"stop"}]}`+"\n")
		fmt.Fprint(w, `data: [DONE]`+"\n")
	}))
	defer upstream.Close()

	s := newTestServer(t, upstream.URL, "sk-default")
	rec := doRequest(s, "POST", "/v1/messages", nil,
		`{"model":"claude-3","stream":true,"messages":[{"role":"user","content":"hello"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"event: message_start", "event: content_block_delta", "event: message_stop"} {
		if !strings.Contains(body, want) {
			t.Errorf("stream body missing %q; got:\n%s", want, body)
		}
	}
}

func TestHandleCountTokensSuccess(t *testing.T) {
	s := newTestServer(t, "https://api.openai.com/v1/chat/completions", "sk-default")
	rec := doRequest(s, "POST", "/v1/messages/count_tokens", nil,
		`{"model":"claude-3","messages":[{"role":"user","content":"hello world"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	var resp countTokensResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.InputTokens <= 0 {
		t.Errorf("input_tokens = %d, want > 0", resp.InputTokens)
	}
}

func TestHandleCountTokensMalformedJSON(t *testing.T) {
	s := newTestServer(t, "https://api.openai.com/v1/chat/completions", "sk-default")
	rec := doRequest(s, "POST", "/v1/messages/count_tokens", nil, `not json`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body = %s", rec.Code, rec.Body.String())
	}
	var resp countTokensError
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if resp.Error == "" {
		t.Errorf("expected a non-empty error message")
	}
}
