// Package observability wires structured logging into an OpenTelemetry logs
// bridge, so slog call sites are exported via OTLP (or, locally, via the
// OTel stdout exporter) while trace context on the request stays attached to
// every record.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/trace"
)

const otelEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// Instrument configures the process-global slog default logger at the given
// level and format. Records are always additionally exported through an
// OpenTelemetry logs bridge: to a gRPC or HTTP OTLP exporter when
// OTEL_EXPORTER_OTLP_ENDPOINT names one (selected by its URL scheme), or to
// the OTel stdout exporter otherwise.
func Instrument(level slog.Level, format string) error {
	local := localHandler(level, format)

	exporter, err := newExporter(context.Background())
	if err != nil {
		return fmt.Errorf("configuring OTel log exporter: %w", err)
	}

	bridge := bridgedHandler(level, exporter)
	slog.SetDefault(slog.New(fanoutHandler{local: local, bridge: bridge}))
	return nil
}

func localHandler(level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.NewTextHandler(os.Stdout, opts)
}

// newExporter picks the log exporter implied by OTEL_EXPORTER_OTLP_ENDPOINT:
// http(s):// selects the HTTP/protobuf exporter, any other non-empty value the
// gRPC exporter's bare host:port convention, and an unset endpoint falls back
// to the stdout exporter so a record always has somewhere OTel-shaped to go
// even with no collector configured.
func newExporter(ctx context.Context) (sdklog.Exporter, error) {
	endpoint := os.Getenv(otelEndpointEnv)
	switch {
	case endpoint == "":
		return stdoutlog.New()
	case strings.HasPrefix(endpoint, "http://"), strings.HasPrefix(endpoint, "https://"):
		return otlploghttp.New(ctx)
	default:
		return otlploggrpc.New(ctx)
	}
}

// bridgedHandler wraps exporter in a minimum-severity processor so the
// bridge never emits records below the configured level.
func bridgedHandler(level slog.Level, exporter sdklog.Exporter) slog.Handler {
	severity := minsev.SeverityInfo
	switch {
	case level <= slog.LevelDebug:
		severity = minsev.SeverityDebug
	case level >= slog.LevelError:
		severity = minsev.SeverityError
	case level >= slog.LevelWarn:
		severity = minsev.SeverityWarn
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), severity)
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))

	return otelslog.NewHandler("anthropic-adapter", otelslog.WithLoggerProvider(provider))
}

// fanoutHandler writes every record to both the local (human-facing) handler
// and the OTel bridge, so stdout output is unaffected by export
// configuration, and stamps trace_id/span_id attributes from the record's
// context onto the bridge copy so exported logs correlate with any active
// span.
type fanoutHandler struct {
	local  slog.Handler
	bridge slog.Handler
}

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.local.Enabled(ctx, level) || h.bridge.Enabled(ctx, level)
}

func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	if err := h.local.Handle(ctx, record.Clone()); err != nil {
		return err
	}
	return h.bridge.Handle(ctx, withSpanContext(ctx, record.Clone()))
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return fanoutHandler{local: h.local.WithAttrs(attrs), bridge: h.bridge.WithAttrs(attrs)}
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	return fanoutHandler{local: h.local.WithGroup(name), bridge: h.bridge.WithGroup(name)}
}

func withSpanContext(ctx context.Context, record slog.Record) slog.Record {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return record
	}
	record.AddAttrs(
		slog.String("trace_id", span.TraceID().String()),
		slog.String("span_id", span.SpanID().String()),
	)
	return record
}
