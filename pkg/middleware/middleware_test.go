package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingTracer keeps every span it starts.
type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordingSpan{name: name, kind: cfg.SpanKind(), attrs: cfg.Attributes()}
	t.spans = append(t.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

type recordingSpan struct {
	noop.Span
	name  string
	kind  trace.SpanKind
	attrs []attribute.KeyValue
	code  codes.Code
	ended bool
}

func (s *recordingSpan) SetName(name string)                    { s.name = name }
func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) SetStatus(code codes.Code, _ string)    { s.code = code }
func (s *recordingSpan) End(...trace.SpanEndOption)             { s.ended = true }
func (s *recordingSpan) IsRecording() bool                      { return true }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw...)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("item " + chi.URLParam(r, "id")))
	})
	r.Post("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.Get("/bad", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	})
	return r
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	r := newRouter(m.Handler)

	serve(r, http.MethodGet, "/items/1")
	serve(r, http.MethodGet, "/items/2")
	serve(r, http.MethodPost, "/fail")
	serve(r, http.MethodGet, "/nowhere")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/items/{id}", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/fail", "POST", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("unmatched", "GET", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
	assert.Equal(t, 3, testutil.CollectAndCount(m.requestDuration))
}

func TestPrometheusOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Prometheus(
		WithRegistry(reg),
		WithNamespace("svc"),
		WithSubsystem("api"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	))
	serve(r, http.MethodGet, "/items/7")

	n, err := testutil.GatherAndCount(reg, "svc_api_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenTelemetry(t *testing.T) {
	tracer := &recordingTracer{}
	var inHandler trace.Span
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(OpenTelemetry(
		WithTracer(tracer),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		inHandler = SpanFromRequest(r)
	})

	serve(r, http.MethodGet, "/items/42")

	require.Len(t, tracer.spans, 1)
	span := tracer.spans[0]
	assert.Same(t, span, inHandler)
	assert.Equal(t, "GET /items/{id}", span.name)
	assert.Equal(t, trace.SpanKindServer, span.kind)
	assert.Equal(t, codes.Ok, span.code)
	assert.True(t, span.ended)

	v, ok := span.attr("http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(200), v.AsInt64())
	v, ok = span.attr("http.target")
	require.True(t, ok)
	assert.Equal(t, "/items/42", v.AsString())
	v, ok = span.attr("test.attr")
	require.True(t, ok)
	assert.Equal(t, "ok", v.AsString())
	_, ok = span.attr("http.request_id")
	assert.True(t, ok)
}

func TestOpenTelemetryServerError(t *testing.T) {
	tracer := &recordingTracer{}
	r := newRouter(OpenTelemetry(WithTracer(tracer)))

	serve(r, http.MethodPost, "/fail")
	serve(r, http.MethodGet, "/bad")

	require.Len(t, tracer.spans, 2)
	assert.Equal(t, codes.Error, tracer.spans[0].code)
	assert.Equal(t, codes.Ok, tracer.spans[1].code)
}

func TestOpenTelemetryFilter(t *testing.T) {
	tracer := &recordingTracer{}
	r := newRouter(OpenTelemetry(
		WithTracer(tracer),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/items/skip" }),
	))

	rec := serve(r, http.MethodGet, "/items/skip")
	assert.Equal(t, "item skip", rec.Body.String())
	assert.Empty(t, tracer.spans)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRouter(RequestLogger(logger))

	serve(r, http.MethodGet, "/items/1")
	serve(r, http.MethodGet, "/bad")
	serve(r, http.MethodPost, "/fail")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "level=DEBUG")
	assert.Contains(t, lines[0], "status=200")
	assert.Contains(t, lines[0], "bytes=6")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[2], "level=ERROR")
	assert.Contains(t, lines[2], "path=/fail")
	assert.NotContains(t, lines[2], `request_id=""`)
}
