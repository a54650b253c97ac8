// Package upstream forwards translated request bodies to an
// OpenAI-compatible target and surfaces either a unary JSON reply or a raw
// SSE body for a stream transducer to consume.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// unaryTimeout bounds a non-streaming upstream call. Streaming calls carry
// no wall-clock deadline once response headers are received.
const unaryTimeout = 60 * time.Second

// Client forwards requests to a single configured upstream.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a Client targeting baseURL, authenticating with apiKey unless
// a per-request key is supplied to Do.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{},
	}
}

// Error is returned when the upstream responds with a non-2xx status. It
// carries the decoded error body when one could be parsed, so the caller can
// translate it into the Anthropic error envelope while preserving the
// original status code.
type Error struct {
	StatusCode int
	Body       wire.UpstreamErrorBody
	RawBody    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Do posts body to the configured upstream. apiKeyOverride, if non-empty,
// takes precedence over the client's configured key. The returned
// io.ReadCloser is the raw response body — callers decide whether to decode
// it as a unary JSON reply or hand it to a stream transducer line by line —
// and must always be closed.
func (c *Client) Do(ctx context.Context, body any, apiKeyOverride string) (io.ReadCloser, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding upstream request: %w", err)
	}

	key := c.apiKey
	if apiKeyOverride != "" {
		key = apiKeyOverride
	}

	streaming := isStreaming(body)

	reqCtx := ctx
	var cancel context.CancelFunc
	if !streaming {
		reqCtx, cancel = context.WithTimeout(ctx, unaryTimeout)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, bytes.NewReader(encoded))
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	if key != "" {
		req.Header.Set("authorization", "Bearer "+key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, fmt.Errorf("calling upstream: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		if cancel != nil {
			defer cancel()
		}
		raw, _ := io.ReadAll(resp.Body)
		upErr := &Error{StatusCode: resp.StatusCode, RawBody: raw}
		_ = json.Unmarshal(raw, &upErr.Body)
		return nil, upErr
	}

	// The timeout deadline must outlive Do: the caller reads resp.Body after
	// Do returns, so cancel is deferred to Close rather than fired here.
	if cancel == nil {
		return resp.Body, nil
	}
	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// cancelOnClose releases a request's timeout context when the response body
// is closed, instead of when Do returns.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func isStreaming(body any) bool {
	switch b := body.(type) {
	case *wire.ChatRequest:
		return b.Stream
	case *wire.ResponsesRequest:
		return b.Stream
	default:
		return false
	}
}
