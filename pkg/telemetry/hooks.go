package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/woodfordbl/maffei-design/pkg/observability"
)

// Register installs OpenTelemetry-backed hooks using the global tracer and
// meter providers. Call it after [Init].
func Register() error {
	h, err := NewHooks(otel.Tracer(InstrumentationName), otel.Meter(InstrumentationName))
	if err != nil {
		return err
	}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetFormHooks(h)
	return nil
}

// Hooks implements every observability hook interface.
type Hooks struct {
	tracer trace.Tracer

	layouts     metric.Int64Counter
	renders     metric.Int64Counter
	cacheLookup metric.Int64Counter
	cacheBytes  metric.Int64Counter
	requests    metric.Int64Counter
	latency     metric.Float64Histogram
	forms       metric.Int64Counter
}

// NewHooks builds Hooks from an explicit tracer and meter.
func NewHooks(tracer trace.Tracer, meter metric.Meter) (*Hooks, error) {
	h := &Hooks{tracer: tracer}
	var err error
	if h.layouts, err = meter.Int64Counter("gallery.layouts", metric.WithDescription("Gallery layout passes")); err != nil {
		return nil, err
	}
	if h.renders, err = meter.Int64Counter("gallery.renders", metric.WithDescription("Rendered artifacts")); err != nil {
		return nil, err
	}
	if h.cacheLookup, err = meter.Int64Counter("cache.lookups", metric.WithDescription("Cache lookups by result")); err != nil {
		return nil, err
	}
	if h.cacheBytes, err = meter.Int64Counter("cache.bytes_written", metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if h.requests, err = meter.Int64Counter("http.server.requests"); err != nil {
		return nil, err
	}
	if h.latency, err = meter.Float64Histogram("http.server.duration", metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if h.forms, err = meter.Int64Counter("forms.submissions"); err != nil {
		return nil, err
	}
	return h, nil
}

// span records a finished operation of the given duration ending now.
func (h *Hooks) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, sp := h.tracer.Start(ctx, name, trace.WithTimestamp(end.Add(-d)), trace.WithAttributes(attrs...))
	if err != nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, err.Error())
	}
	sp.End(trace.WithTimestamp(end))
}

// OnLayoutStart implements observability.PipelineHooks.
func (h *Hooks) OnLayoutStart(ctx context.Context, items int, width float64) {
	trace.SpanFromContext(ctx).AddEvent("layout.start", trace.WithAttributes(
		attribute.Int("gallery.items", items),
		attribute.Float64("gallery.width", width),
	))
}

// OnLayoutComplete implements observability.PipelineHooks.
func (h *Hooks) OnLayoutComplete(ctx context.Context, items int, height float64, d time.Duration, err error) {
	h.layouts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("error", err != nil)))
	h.span(ctx, "gallery.layout", d, err,
		attribute.Int("gallery.items", items),
		attribute.Float64("gallery.height", height),
	)
}

// OnRenderStart implements observability.PipelineHooks.
func (h *Hooks) OnRenderStart(ctx context.Context, formats []string) {
	trace.SpanFromContext(ctx).AddEvent("render.start", trace.WithAttributes(attribute.StringSlice("render.formats", formats)))
}

// OnRenderComplete implements observability.PipelineHooks.
func (h *Hooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	h.renders.Add(ctx, int64(len(formats)))
	h.span(ctx, "gallery.render", d, err, attribute.StringSlice("render.formats", formats))
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(ctx context.Context, keyType string) {
	h.cacheLookup.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key_type", keyType), attribute.String("cache.result", "hit")))
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.cacheLookup.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key_type", keyType), attribute.String("cache.result", "miss")))
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.cacheBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("cache.key_type", keyType)))
}

// OnRequest implements observability.HTTPHooks.
func (h *Hooks) OnRequest(ctx context.Context, method, route string) {
	h.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
	))
}

// OnResponse implements observability.HTTPHooks.
func (h *Hooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	}
	h.latency.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributes(attrs...))
	h.span(ctx, method+" "+route, d, nil, attrs...)
}

// OnSubmission implements observability.FormHooks.
func (h *Hooks) OnSubmission(ctx context.Context, form string) {
	h.forms.Add(ctx, 1, metric.WithAttributes(attribute.String("form", form), attribute.String("result", "received")))
}

// OnRejected implements observability.FormHooks.
func (h *Hooks) OnRejected(ctx context.Context, form string, fields []string) {
	h.forms.Add(ctx, 1, metric.WithAttributes(
		attribute.String("form", form),
		attribute.String("result", "rejected"),
		attribute.StringSlice("form.fields", fields),
	))
}

// OnStored implements observability.FormHooks.
func (h *Hooks) OnStored(ctx context.Context, form string, d time.Duration, err error) {
	result := "stored"
	if err != nil {
		result = "store_failed"
	}
	h.forms.Add(ctx, 1, metric.WithAttributes(attribute.String("form", form), attribute.String("result", result)))
	h.span(ctx, "forms.store", d, err, attribute.String("form", form))
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
	_ observability.FormHooks     = (*Hooks)(nil)
)
