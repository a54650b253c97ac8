package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/abhiram1809/anthropic-adapter/internal/httpfront"
)

// App orchestrates the lifecycle of the HTTP front and related services.
type App struct {
	cfg    *Config
	front  *httpfront.Server
}

// New creates a new App instance.
func New(cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &App{
		cfg:   cfg,
		front: httpfront.New(cfg.Upstream.BaseURL, cfg.Upstream.APIKey, cfg.Tokenizer.Encoding, slog.Default()),
	}, nil
}

// Start starts all services and blocks until shutdown is triggered.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	address := a.cfg.Server.Host + ":" + strconv.FormatUint(uint64(a.cfg.Server.Port), 10)
	var shutdownFuncs []func(context.Context) error

	slog.InfoContext(gCtx, "starting adapter", "address", address, "upstream", a.cfg.Upstream.BaseURL, "flavor", a.cfg.Upstream.Flavor())
	frontErrCh, err := a.front.Start(gCtx, address)
	if err != nil {
		return fmt.Errorf("front startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.front.Shutdown)

	g.Go(func() error {
		select {
		case err := <-frontErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "front runtime error", "error", err)
				return fmt.Errorf("front: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	slog.InfoContext(gCtx, "adapter ready", "address", address)

	runtimeErr := g.Wait()

	slog.InfoContext(gCtx, "shutting down services")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Shutdown.Timeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("adapter stopped")
	return nil
}
