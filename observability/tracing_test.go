package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestSetupTracing_NoEndpointIsNoop(t *testing.T) {
	tp, shutdown, err := SetupTracing(context.Background(), TracingConfig{ServiceName: "pos-svc"})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestKafkaHeaders_RoundTrip(t *testing.T) {
	_, _, err := SetupTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := InjectKafkaHeaders(ctx)
	require.NotEmpty(t, headers)

	restored := ExtractKafkaHeaders(context.Background(), headers)
	sc := trace.SpanContextFromContext(restored)
	assert.Equal(t, span.SpanContext().TraceID(), sc.TraceID())
	assert.True(t, sc.IsRemote())
}
