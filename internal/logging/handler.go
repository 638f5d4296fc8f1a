// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package logging configures the process-wide slog logger: JSON or text
// records carrying the service identity and, when a span is in flight,
// OpenTelemetry trace correlation IDs.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// contextHandler decorates an inner handler with service identity and
// trace correlation attributes.
type contextHandler struct {
	inner   slog.Handler
	service string
	version string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := []slog.Attr{
		slog.String("service", h.service),
		slog.String("version", h.version),
	}
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
	}
	if sc.HasSpanID() {
		attrs = append(attrs, slog.String("span_id", sc.SpanID().String()))
	}
	r.AddAttrs(attrs...)

	//nolint:wrapcheck // slog.Handler passes the inner error through unchanged
	return h.inner.Handle(ctx, r)
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs), service: h.service, version: h.version}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name), service: h.service, version: h.version}
}

// Setup builds a logger writing to w, or os.Stderr when w is nil.
// Records are JSON unless format is "text".
func Setup(service, version, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var inner slog.Handler
	if format == "text" {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&contextHandler{inner: inner, service: service, version: version})
}

// SetDefault installs the configured logger as the slog default.
func SetDefault(service, version, format string) {
	slog.SetDefault(Setup(service, version, format, nil))
}
