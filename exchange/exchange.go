// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package exchange runs a single request/response exchange over an
// accepted connection.
package exchange

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"

	"github.com/z5labs/tinyhttp/dispatch"
	"github.com/z5labs/tinyhttp/handler"
	"github.com/z5labs/tinyhttp/httperr"
	"github.com/z5labs/tinyhttp/internal/noop"
	"github.com/z5labs/tinyhttp/internal/otelslog"
	"github.com/z5labs/tinyhttp/internal/slogfield"
	"github.com/z5labs/tinyhttp/internal/try"
	"github.com/z5labs/tinyhttp/request"
	"github.com/z5labs/tinyhttp/response"
	"github.com/z5labs/tinyhttp/wire"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/tinyhttp/exchange"

// Option configures a [Handler].
type Option func(*Handler)

// LogHandler configures the underlying slog.Handler.
func LogHandler(h slog.Handler) Option {
	return func(eh *Handler) {
		eh.log = otelslog.New(h)
	}
}

// TracerProvider overrides the globally registered trace.TracerProvider.
func TracerProvider(tp trace.TracerProvider) Option {
	return func(eh *Handler) {
		eh.tracerProvider = tp
	}
}

// MeterProvider overrides the globally registered metric.MeterProvider.
func MeterProvider(mp metric.MeterProvider) Option {
	return func(eh *Handler) {
		eh.meterProvider = mp
	}
}

// BuilderOptions are passed on to the [response.Builder].
func BuilderOptions(opts ...response.BuilderOption) Option {
	return func(eh *Handler) {
		eh.builderOpts = append(eh.builderOpts, opts...)
	}
}

// Handler serves exactly one exchange per connection.
type Handler struct {
	log            *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	builderOpts    []response.BuilderOption

	sc         handler.Context
	dispatcher *dispatch.Dispatcher
	builder    *response.Builder
	writer     *wire.Writer

	tracer   trace.Tracer
	requests metric.Int64Counter
	bodySize metric.Int64Histogram
}

// New returns a Handler dispatching parsed requests through d with sc as
// the server context.
func New(sc handler.Context, d *dispatch.Dispatcher, opts ...Option) (*Handler, error) {
	h := &Handler{
		log:            otelslog.New(noop.LogHandler{}),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		sc:             sc,
		dispatcher:     d,
		writer:         wire.NewWriter(sc),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.builder = response.NewBuilder(sc.ServerInfo().Name, sc, sc, h.builderOpts...)
	h.tracer = h.tracerProvider.Tracer(instrumentationName)

	meter := h.meterProvider.Meter(instrumentationName)
	requests, err := meter.Int64Counter(
		"tinyhttp.server.exchanges",
		metric.WithDescription("Number of completed exchanges."),
	)
	if err != nil {
		return nil, err
	}
	bodySize, err := meter.Int64Histogram(
		"tinyhttp.server.response.body.size",
		metric.WithDescription("Size of response bodies as written to the wire."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}
	h.requests = requests
	h.bodySize = bodySize
	return h, nil
}

// Serve reads one request from conn, answers it and closes conn. It never
// panics and never returns an error; every failure is either turned into
// an error response or logged.
func (h *Handler) Serve(ctx context.Context, conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()

	spanCtx, span := h.tracer.Start(
		ctx,
		"Handler.Serve",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("net.peer.addr", remoteAddr)),
	)
	defer span.End()
	defer h.close(spanCtx, conn)

	resp := h.builder.New()
	firstLine, err := h.serve(spanCtx, conn, remoteAddr, resp)
	if errors.Is(err, wire.ErrEndOfStream) {
		h.log.DebugContext(spanCtx, "client closed connection", slogfield.RemoteAddr(remoteAddr))
		return
	}
	if err != nil {
		h.log.ErrorContext(
			spanCtx,
			"exception during request",
			slogfield.RemoteAddr(remoteAddr),
			slogfield.FirstLine(firstLine),
			slogfield.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.translate(err, resp)
	}

	err = h.builder.Prepare(resp, strings.HasPrefix(firstLine, "HEAD "))
	if err != nil {
		h.log.ErrorContext(spanCtx, "failed to prepare response", slogfield.Error(err))
	}

	h.record(spanCtx, span, remoteAddr, firstLine, resp)

	err = h.writer.Write(conn, resp)
	if err != nil {
		h.log.ErrorContext(spanCtx, "failed to write response", slogfield.RemoteAddr(remoteAddr), slogfield.Error(err))
		span.RecordError(err)
	}
}

// serve reads, parses and dispatches the request and returns the best
// known first line along with the fault, if any.
func (h *Handler) serve(ctx context.Context, conn net.Conn, remoteAddr string, resp response.Writable) (string, error) {
	rd := wire.NewReader(conn)
	head, err := rd.ReadHead()
	if errors.Is(err, wire.ErrEndOfStream) {
		return "", err
	}
	if err != nil {
		return "", httperr.BadRequest(err, "")
	}
	firstLine, _, _ := strings.Cut(head, "\r\n")

	n, _, err := wire.ContentLength(head)
	if err != nil {
		return firstLine, httperr.BadRequest(err, firstLine)
	}
	body, err := rd.ReadBody(n)
	if err != nil {
		return firstLine, httperr.BadRequest(err, firstLine)
	}

	req, err := request.Parse(head, body, remoteAddr)
	if err != nil {
		return firstLine, err
	}
	return req.FirstLine(), h.dispatcher.Dispatch(ctx, h.sc, req, resp)
}

func (h *Handler) translate(err error, resp response.Writable) {
	herr, ok := httperr.As(err)
	if !ok {
		resp.SetStatus(500)
		return
	}

	resp.SetStatus(herr.StatusCode)
	if herr.Kind == httperr.KindMethodNotAllowed {
		resp.SetHeader("Allow", strings.Join(h.sc.SupportedMethods(), ", "))
	}
}

func (h *Handler) record(ctx context.Context, span trace.Span, remoteAddr, firstLine string, resp *response.Response) {
	status := resp.Status()
	size := int64(resp.BodyLen())

	h.log.InfoContext(
		ctx,
		"access",
		slogfield.RemoteAddr(remoteAddr),
		slogfield.FirstLine(firstLine),
		slogfield.Status(status),
		slogfield.Int("bytes", int(size)),
	)

	attrs := attribute.NewSet(attribute.Int("http.status_code", status))
	h.requests.Add(ctx, 1, metric.WithAttributeSet(attrs))
	h.bodySize.Record(ctx, size, metric.WithAttributeSet(attrs))

	span.SetAttributes(
		attribute.String("http.first_line", firstLine),
		attribute.Int("http.status_code", status),
		attribute.Int64("http.response.body.size", size),
	)
}

type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

func (h *Handler) close(ctx context.Context, conn net.Conn) {
	var err error
	if hc, ok := conn.(halfCloser); ok {
		err = errors.Join(hc.CloseWrite(), hc.CloseRead())
	}
	try.Close(&err, conn)
	if err != nil {
		h.log.WarnContext(ctx, "failed to close connection", slogfield.Error(err))
	}
}
