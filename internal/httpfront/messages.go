package httpfront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"log/slog"
	"net/http"

	"github.com/abhiram1809/anthropic-adapter/internal/sse"
	"github.com/abhiram1809/anthropic-adapter/internal/translate"
	"github.com/abhiram1809/anthropic-adapter/internal/upstream"
	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// transducerFor selects the SSE transducer matching the configured upstream
// flavor.
func transducerFor(flavor wire.Flavor) func(context.Context, io.Reader, *slog.Logger) iter.Seq2[wire.StreamEvent, error] {
	if flavor == wire.FlavorResponses {
		return translate.ResponsesStream
	}
	return translate.ChatStream
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apiKey := r.Header.Get("x-api-key")
	if apiKey == "" {
		apiKey = s.apiKey
	}
	if apiKey == "" {
		writeAnthropicError(ctx, w, http.StatusUnauthorized, "authentication_error", "missing API credential")
		return
	}

	var req wire.AnthropicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", "malformed request body")
		return
	}

	flavor := s.flavor

	if req.Stream {
		s.streamMessage(ctx, w, &req, flavor, apiKey)
		return
	}
	s.unaryMessage(ctx, w, &req, flavor, apiKey)
}

func (s *Server) unaryMessage(ctx context.Context, w http.ResponseWriter, req *wire.AnthropicRequest, flavor wire.Flavor, apiKey string) {
	var (
		upstreamBody any
		err          error
	)

	switch flavor {
	case wire.FlavorResponses:
		upstreamBody, err = translate.ToResponses(req)
	default:
		upstreamBody, err = translate.ToChat(req)
	}
	if err != nil {
		writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", err.Error())
		return
	}

	body, err := s.upstream.Do(ctx, upstreamBody, apiKey)
	if err != nil {
		s.writeUpstreamError(ctx, w, err)
		return
	}
	defer body.Close()

	var anthropicResp *wire.AnthropicResponse
	switch flavor {
	case wire.FlavorResponses:
		var resp wire.ResponsesResponse
		if err := json.NewDecoder(body).Decode(&resp); err != nil {
			writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", "malformed upstream response")
			return
		}
		anthropicResp, err = translate.FromResponses(&resp)
	default:
		var resp wire.ChatResponse
		if err := json.NewDecoder(body).Decode(&resp); err != nil {
			writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", "malformed upstream response")
			return
		}
		anthropicResp, err = translate.FromChat(&resp)
	}
	if err != nil {
		writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", err.Error())
		return
	}

	writeJSON(ctx, w, anthropicResp, http.StatusOK)
}

func (s *Server) streamMessage(ctx context.Context, w http.ResponseWriter, req *wire.AnthropicRequest, flavor wire.Flavor, apiKey string) {
	var (
		upstreamBody any
		err          error
	)

	switch flavor {
	case wire.FlavorResponses:
		upstreamBody, err = translate.ToResponses(req)
	default:
		upstreamBody, err = translate.ToChat(req)
	}
	if err != nil {
		writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", err.Error())
		return
	}

	body, err := s.upstream.Do(ctx, upstreamBody, apiKey)
	if err != nil {
		s.writeUpstreamError(ctx, w, err)
		return
	}
	defer body.Close()

	writer, err := sse.NewSSEWriter(w)
	if err != nil {
		writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", err.Error())
		return
	}

	seq := transducerFor(flavor)(ctx, body, s.logger)
	for evt, err := range seq {
		if err != nil {
			s.logger.ErrorContext(ctx, "stream transducer error", "error", err)
			return
		}
		if writeErr := writer.WriteEvent(evt.Event, evt.Data()); writeErr != nil {
			s.logger.DebugContext(ctx, "client disconnected mid-stream", "error", writeErr)
			return
		}
	}
}

func (s *Server) writeUpstreamError(ctx context.Context, w http.ResponseWriter, err error) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		errType := upErr.Body.Error.Type
		message := upErr.Body.Error.Message
		if errType == "" {
			errType = "invalid_request_error"
		}
		if message == "" {
			message = "Unknown error"
		}
		writeAnthropicError(ctx, w, upErr.StatusCode, errType, message)
		return
	}
	writeAnthropicError(ctx, w, http.StatusInternalServerError, "internal_server_error", err.Error())
}
