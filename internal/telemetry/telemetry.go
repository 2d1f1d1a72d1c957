// Package telemetry builds the process logger and, when enabled, the
// OpenTelemetry trace and metric providers of the terminal backend.
package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	ServiceName string

	// Enabled installs the global providers. Exporters are picked by the
	// OTEL_TRACES_EXPORTER and OTEL_METRICS_EXPORTER variables.
	Enabled bool

	LogLevel slog.Leveler

	// Output defaults to os.Stdout.
	Output io.Writer
}

// Init returns the process logger and a function that flushes and stops
// whatever Init installed. Export errors reported by the OTel SDK go to
// the returned logger.
func Init(ctx context.Context, cfg Config) (*slog.Logger, func(context.Context) error, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	logger := NewLogger(out, cfg.LogLevel)

	if !cfg.Enabled {
		return logger, func(context.Context) error { return nil }, nil
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Error("opentelemetry export", slog.Any("err", err))
	}))
	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	p, err := newProviders(ctx, cfg.ServiceName)
	if err != nil {
		return nil, nil, err
	}
	otel.SetTracerProvider(p.tracer)
	otel.SetMeterProvider(p.meter)

	logger.Info("telemetry enabled", slog.String("service", cfg.ServiceName))

	return logger, p.shutdown, nil
}

type providers struct {
	tracer *trace.TracerProvider
	meter  *metric.MeterProvider
}

func newProviders(ctx context.Context, serviceName string) (*providers, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	spans, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return nil, err
	}

	reader, err := autoexport.NewMetricReader(ctx)
	if err != nil {
		return nil, errors.Join(err, spans.Shutdown(ctx))
	}

	return &providers{
		tracer: trace.NewTracerProvider(trace.WithBatcher(spans), trace.WithResource(res)),
		meter:  metric.NewMeterProvider(metric.WithReader(reader), metric.WithResource(res)),
	}, nil
}

func (p *providers) shutdown(ctx context.Context) error {
	return errors.Join(p.tracer.Shutdown(ctx), p.meter.Shutdown(ctx))
}

// NewLogger returns a JSON logger writing to w. Records logged with a
// context carrying a span get trace and span ids attached.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slogotel.OtelHandler{
		Next: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	})
}
