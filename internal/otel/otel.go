package otel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc is a function that shuts down the OpenTelemetry providers.
type ShutdownFunc func(context.Context) error

// SetupOTelSDK exports traces and metrics over OTLP/HTTP to endpoint, which
// may be a host:port or a full URL, and returns a shutdown function.
func SetupOTelSDK(ctx context.Context, endpoint string, headers map[string]string) (ShutdownFunc, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("md2dita"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	slog.Info("initialising opentelemetry exporters", "endpoint", endpoint)

	// Set up the OTLP/HTTP trace exporter
	traceExporter, err := otlptracehttp.New(ctx, traceOptions(endpoint, headers)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Set up the TracerProvider
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	// Set up the OTLP/HTTP metric exporter
	metricExporter, err := otlpmetrichttp.New(ctx, metricOptions(endpoint, headers)...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create metric exporter: %w", err), tracerProvider.Shutdown(ctx))
	}

	// Set up the MeterProvider
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter)),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		slog.Warn("failed to start runtime metrics", "error", err)
	}

	return func(ctx context.Context) error {
		slog.Debug("shutting down opentelemetry providers")
		if err := tracerProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
		if err := meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
		return nil
	}, nil
}

func isURL(endpoint string) bool {
	return strings.Contains(endpoint, "://")
}

func traceOptions(endpoint string, headers map[string]string) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{otlptracehttp.WithHeaders(headers)}
	if isURL(endpoint) {
		return append(opts, otlptracehttp.WithEndpointURL(endpoint))
	}
	return append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
}

func metricOptions(endpoint string, headers map[string]string) []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithHeaders(headers)}
	if isURL(endpoint) {
		return append(opts, otlpmetrichttp.WithEndpointURL(endpoint))
	}
	return append(opts, otlpmetrichttp.WithEndpoint(endpoint), otlpmetrichttp.WithInsecure())
}
