// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package telemetry initializes the global OpenTelemetry tracer and meter providers.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Supported exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config
type Config struct {
	ServiceName string `config:"serviceName"`

	// Exporter is one of "none", the default, "stdout" or "otlp".
	Exporter string `config:"exporter"`

	// Out is where the stdout exporter writes. Defaults to os.Stdout.
	Out io.Writer `config:"-"`

	OTLP struct {
		// Target is the host:port of an OTLP gRPC collector.
		Target string `config:"target"`
	} `config:"otlp"`
}

// MissingOTLPTargetError
type MissingOTLPTargetError struct{}

// Error implements the [builtin.error] interface.
func (MissingOTLPTargetError) Error() string {
	return "otlp exporter requires otel.otlp.target"
}

// UnknownExporterError
type UnknownExporterError struct {
	Exporter string
}

// Error implements the [builtin.error] interface.
func (e UnknownExporterError) Error() string {
	return fmt.Sprintf("unknown otel exporter: %s", e.Exporter)
}

// InitializeOTel registers the configured providers as the otel globals.
// With no exporter the globals are left as they are. The otlp exporter
// ships spans only, so the meter provider stays untouched.
func (cfg Config) InitializeOTel(ctx context.Context) error {
	switch cfg.Exporter {
	case "", ExporterNone:
		return nil
	case ExporterStdout, ExporterOTLP:
	default:
		return UnknownExporterError{Exporter: cfg.Exporter}
	}

	res, err := resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return err
	}

	if cfg.Exporter == ExporterOTLP {
		return cfg.initOTLP(ctx, res)
	}
	return cfg.initStdout(res)
}

func (cfg Config) initStdout(res *resource.Resource) error {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return err
	}

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(out))
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return nil
}

func (cfg Config) initOTLP(ctx context.Context, res *resource.Resource) error {
	if cfg.OTLP.Target == "" {
		return MissingOTLPTargetError{}
	}

	// plaintext gRPC, put TLS in front of the collector if needed
	spanExporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLP.Target),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return nil
}
