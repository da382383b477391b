package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/angelmondragon/ims-backend/pkg/config"
)

func TestInitNoneReturnsNoop(t *testing.T) {
	provider, shutdown, err := Init(context.Background(), config.TracingConfig{Exporter: "none"}, Options{ServiceName: "test"})
	require.NoError(t, err)
	assert.IsType(t, noop.TracerProvider{}, provider)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitUnknownExporter(t *testing.T) {
	_, _, err := Init(context.Background(), config.TracingConfig{Exporter: "zipkin"}, Options{ServiceName: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}

func TestInitStdoutWritesSpansOnShutdown(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	buf := &bytes.Buffer{}
	provider, shutdown, err := Init(context.Background(), config.TracingConfig{Exporter: "stdout", SampleRatio: 1}, Options{
		ServiceName: "ims-test",
		Environment: "test",
		Output:      buf,
	})
	require.NoError(t, err)

	_, span := provider.Tracer("tracing-test").Start(context.Background(), "unit.span")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "unit.span")
	assert.Contains(t, buf.String(), "ims-test")
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 1.0, clampRatio(0))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.25, clampRatio(0.25))
}
