// Package httpfront exposes the Anthropic-compatible Messages API and
// forwards translated requests to a configured OpenAI-compatible upstream.
package httpfront

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/abhiram1809/anthropic-adapter/internal/observability/middleware"
	"github.com/abhiram1809/anthropic-adapter/internal/tokenizer"
	"github.com/abhiram1809/anthropic-adapter/internal/upstream"
	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// Server is the Anthropic-compatible HTTP front. It is independent of the
// application's configuration layer — callers resolve configuration once at
// startup and pass the concrete values New needs.
type Server struct {
	flavor   wire.Flavor
	apiKey   string
	upstream *upstream.Client
	enc      *tokenizer.Encoder
	logger   *slog.Logger

	httpServer *http.Server
}

// New builds a Server targeting baseURL, with apiKey as the default bearer
// token (an inbound x-api-key header overrides it per request), and
// encoding naming the BPE vocabulary used for token counting.
func New(baseURL, apiKey, encoding string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		flavor:   wire.DeriveFlavor(baseURL),
		apiKey:   apiKey,
		upstream: upstream.New(baseURL, apiKey),
		enc:      tokenizer.New(encoding),
		logger:   logger,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", s.handleMessages)
	mux.HandleFunc("POST /v1/messages/count_tokens", s.handleCountTokens)

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return middleware.Chain(mux, middleware.Recovery, middleware.Logging(s.logger), corsMiddleware)
}

// Start binds addr and begins serving in the background, returning a channel
// that receives the eventual Serve error (nil on graceful Shutdown).
func (s *Server) Start(ctx context.Context, addr string) (<-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	return errCh, nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests to
// finish before ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
