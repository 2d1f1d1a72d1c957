package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	require.Zero(t, buf.Len())

	logger.Info("visible", slog.String("device", "device-123"))
	require.Contains(t, buf.String(), `"msg":"visible"`)
	require.Contains(t, buf.String(), `"device":"device-123"`)
}

func TestNewLogger_AttachesTraceID(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).InfoContext(ctx, "traced")

	require.Contains(t, buf.String(), span.SpanContext().TraceID().String())
}

func restoreGlobals(t *testing.T) {
	t.Helper()

	tp, mp, eh := otel.GetTracerProvider(), otel.GetMeterProvider(), otel.GetErrorHandler()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
		otel.SetErrorHandler(eh)
	})
}

func TestInit_Disabled(t *testing.T) {
	restoreGlobals(t)
	prev := otel.GetTracerProvider()

	var buf bytes.Buffer
	logger, shutdown, err := Init(context.Background(), Config{
		ServiceName: "terminal-backend-test",
		LogLevel:    slog.LevelWarn,
		Output:      &buf,
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	// no providers installed
	require.Equal(t, prev, otel.GetTracerProvider())

	logger.Info("hidden")
	logger.Warn("visible")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"visible"`)
}

func TestInit_Enabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")
	restoreGlobals(t)

	var buf bytes.Buffer
	logger, shutdown, err := Init(context.Background(), Config{
		ServiceName: "terminal-backend-test",
		Enabled:     true,
		LogLevel:    slog.LevelInfo,
		Output:      &buf,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	require.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
	require.Contains(t, buf.String(), `"msg":"telemetry enabled"`)
	require.Contains(t, buf.String(), `"service":"terminal-backend-test"`)

	// export errors from the SDK end up in the process log
	otel.Handle(errors.New("collector unreachable"))

	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), `"msg":"opentelemetry export"`)
	require.Contains(t, buf.String(), "collector unreachable")
}
