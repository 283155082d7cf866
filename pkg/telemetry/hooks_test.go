package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/woodfordbl/maffei-design/pkg/observability"
)

func newTestHooks(t *testing.T) (*Hooks, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	h, err := NewHooks(tp.Tracer("test"), noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return h, rec
}

func TestHooks_LayoutSpan(t *testing.T) {
	h, rec := newTestHooks(t)
	ctx := context.Background()

	h.OnLayoutStart(ctx, 4, 1200)
	h.OnLayoutComplete(ctx, 4, 318.5, 25*time.Millisecond, nil)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	sp := spans[0]
	assert.Equal(t, "gallery.layout", sp.Name())
	assert.InDelta(t, 25*time.Millisecond, sp.EndTime().Sub(sp.StartTime()), float64(time.Millisecond))
	assert.Equal(t, codes.Unset, sp.Status().Code)
}

func TestHooks_ErrorStatus(t *testing.T) {
	h, rec := newTestHooks(t)

	h.OnStored(context.Background(), "contact", time.Millisecond, errors.New("mongo down"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "forms.store", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "mongo down", spans[0].Status().Description)
}

func TestHooks_HTTPResponseSpanName(t *testing.T) {
	h, rec := newTestHooks(t)
	ctx := context.Background()

	h.OnRequest(ctx, "GET", "/api/gallery")
	h.OnResponse(ctx, "GET", "/api/gallery", 200, 3*time.Millisecond)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/gallery", spans[0].Name())
}

func TestHooks_MetricsOnlyEventsDoNotSpan(t *testing.T) {
	h, rec := newTestHooks(t)
	ctx := context.Background()

	h.OnCacheHit(ctx, "layout")
	h.OnCacheMiss(ctx, "artifact")
	h.OnCacheSet(ctx, "artifact", 2048)
	h.OnSubmission(ctx, "newsletter")
	h.OnRejected(ctx, "contact", []string{"email", "name"})

	assert.Empty(t, rec.Ended())
}

func TestInitWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background(), Config{ServiceName: "maffei-test", ServiceVersion: "dev"})
	require.NoError(t, err)
	t.Cleanup(observability.Reset)
	require.NoError(t, Register())
	_, ok := observability.Pipeline().(*Hooks)
	assert.True(t, ok)
	assert.NoError(t, shutdown(context.Background()))
}
