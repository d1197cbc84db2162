package render

import (
	"bytes"
	"context"
	goerrors "errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/capability"
	. "github.com/vango-dev/domsync/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func list(second string) *VNode {
	return Ul(Li("a"), Li(Every(time.Second), second))
}

func TestRenderPage(t *testing.T) {
	r := NewRenderer(Config{})
	view := r.NewView(capability.Standard())

	var buf bytes.Buffer
	err := r.RenderPage(context.Background(), &buf, view, PageData{
		Title:         "A & B",
		Body:          list("b"),
		RuntimeScript: "/rt.js",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>A &amp; B</title>
</head>
<body>
<ul id="app"><li id="d1">a</li><li id="d2">b</li></ul>
<script src="/rt.js"></script>
<script>
V.addTimer('d2',1000,true);
</script>
</body>
</html>
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if view.Tree() == nil || view.Tree().ID != "app" {
		t.Errorf("view tree not recorded: %+v", view.Tree())
	}
}

func TestRenderPageClients(t *testing.T) {
	rtl := capability.Standard()
	rtl.Direction = capability.RightToLeft

	tests := []struct {
		name    string
		env     capability.Env
		page    PageData
		want    []string
		notWant []string
	}{
		{
			name:    "no scripting",
			env:     capability.Env{},
			page:    PageData{Body: list("b"), RuntimeScript: "/rt.js", Action: "/save?x=1&y=2"},
			want:    []string{`<form method="post" action="/save?x=1&amp;y=2">` + "\n<ul id=\"app\">", "</ul>\n</form>\n</body>"},
			notWant: []string{"<script"},
		},
		{
			name:    "crawler",
			env:     capability.Env{Crawler: true},
			page:    PageData{Body: list("b"), RuntimeScript: "/rt.js"},
			want:    []string{"<body>\n<ul id=\"app\">"},
			notWant: []string{"<script", "<form"},
		},
		{
			name: "right to left",
			env:  rtl,
			page: PageData{Body: list("b"), Lang: "he"},
			want: []string{`<html lang="he" dir="rtl">`},
		},
		{
			name: "head",
			env:  capability.Standard(),
			page: PageData{
				Body:        Div(),
				Meta:        []MetaTag{{Name: "description", Content: `say "hi"`}},
				Links:       []LinkTag{{Rel: "icon", Href: "/favicon.ico"}},
				StyleSheets: []string{"/app.css"},
				Styles:      []string{"body{margin:0}"},
			},
			want: []string{
				`  <meta name="description" content="say &#34;hi&#34;">`,
				`  <link rel="icon" href="/favicon.ico">`,
				`  <link rel="stylesheet" href="/app.css">`,
				`  <style>body{margin:0}</style>`,
				"<body>\n<div id=\"app\"></div>\n</body>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(Config{})
			var buf bytes.Buffer
			if err := r.RenderPage(context.Background(), &buf, r.NewView(tt.env), tt.page); err != nil {
				t.Fatal(err)
			}
			got := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("missing %q in:\n%s", s, got)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(got, s) {
					t.Errorf("unexpected %q in:\n%s", s, got)
				}
			}
		})
	}
}

func TestRenderPageFlushesHead(t *testing.T) {
	r := NewRenderer(Config{})
	rec := httptest.NewRecorder()
	if err := r.RenderPage(context.Background(), rec, r.NewView(capability.Standard()), PageData{Body: Div()}); err != nil {
		t.Fatal(err)
	}
	if !rec.Flushed {
		t.Error("head was not flushed")
	}
}

func TestRenderUpdate(t *testing.T) {
	r := NewRenderer(Config{})
	view := r.NewView(capability.Standard())
	ctx := context.Background()

	if _, err := r.RenderUpdate(ctx, view, list("b")); !goerrors.Is(err, ErrNotRendered) {
		t.Fatalf("got %v, want ErrNotRendered", err)
	}
	if _, err := r.Render(ctx, view, list("b")); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		next *VNode
		want string
	}{
		{list("c"), "var j1=V.$('d2');\nV.setHtml(j1,'c',false);\n"},
		{list("c"), ""},
		{Ul(Li("a", Display("none")), Li(Every(time.Second), "c")), "V.hide('d1');\n"},
	}
	for i, step := range steps {
		res, err := r.RenderUpdate(ctx, view, step.next)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Script != step.want {
			t.Errorf("step %d: got %q, want %q", i, res.Script, step.want)
		}
		if view.Tree() != step.next {
			t.Errorf("step %d: view tree not replaced", i)
		}
	}
}

func TestRenderFailures(t *testing.T) {
	r := NewRenderer(Config{})
	ctx := context.Background()

	view := r.NewView(capability.Standard())
	_, err := r.Render(ctx, view, Div(Func(func() *VNode { panic("boom") })))
	var e *errors.Error
	if !goerrors.As(err, &e) || e.Code != "D020" {
		t.Fatalf("got %v, want D020", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("panic value lost: %v", err)
	}
	if view.Tree() != nil {
		t.Error("failed pass changed the view")
	}

	_, err = r.Render(ctx, view, nil)
	if !goerrors.As(err, &e) || e.Code != "D022" {
		t.Fatalf("got %v, want D022", err)
	}
}

func TestDeferred(t *testing.T) {
	r := NewRenderer(Config{Namespace: "App"})
	view := r.NewView(capability.Standard())
	res, err := r.Render(context.Background(), view, Div(ID("it's"), After(250*time.Millisecond)))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Deferred(res); got != `App.addTimer('it\'s',250,false);`+"\n" {
		t.Errorf("got %q", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	r := NewRenderer(Config{Metrics: m})
	ctx := context.Background()

	view := r.NewView(capability.Standard())
	if _, err := r.Render(ctx, view, Ul(ID("l"))); err != nil {
		t.Fatal(err)
	}
	if _, err := r.RenderUpdate(ctx, view, Ul(ID("l"), Display("none"))); err != nil {
		t.Fatal(err)
	}
	if _, err := r.RenderUpdate(ctx, view, Ul(ID("l"), Display("none"), Li("a"), Li("b"))); err != nil {
		t.Fatal(err)
	}
	r.Render(ctx, r.NewView(capability.Standard()), Div(Func(func() *VNode { panic("boom") })))

	if got := counterValue(t, m.passes.WithLabelValues(ModePage)); got != 2 {
		t.Errorf("passes_total{page} = %v, want 2", got)
	}
	if got := counterValue(t, m.passes.WithLabelValues(ModeUpdate)); got != 2 {
		t.Errorf("passes_total{update} = %v, want 2", got)
	}
	if got := counterValue(t, m.failures.WithLabelValues(ModePage)); got != 1 {
		t.Errorf("pass_failures_total{page} = %v, want 1", got)
	}
	if got := counterValue(t, m.fastPath); got != 1 {
		t.Errorf("fast_path_total = %v, want 1", got)
	}
	if got := counterValue(t, m.bulkReplace); got != 1 {
		t.Errorf("bulk_replace_total = %v, want 1", got)
	}
	if got := histogramCount(t, m.scriptBytes); got != 2 {
		t.Errorf("script_bytes count = %d, want 2", got)
	}
	if got := histogramCount(t, m.duration.WithLabelValues(ModeUpdate)); got != 2 {
		t.Errorf("pass_duration_seconds{update} count = %d, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"domsync_render_passes_total",
		"domsync_render_pass_duration_seconds",
		"domsync_render_script_bytes",
		"domsync_render_fast_path_total",
		"domsync_render_bulk_replace_total",
	} {
		if !names[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}

type recordingSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	err    error
	status codes.Code
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.err = err }
func (s *recordingSpan) SetStatus(code codes.Code, _ string)           { s.status = code }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: cfg.Attributes()}
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

func TestTracing(t *testing.T) {
	tracer := &recordingTracer{}
	r := NewRenderer(Config{Tracer: tracer})
	ctx := context.Background()

	view := r.NewView(capability.Standard())
	if _, err := r.Render(ctx, view, list("b")); err != nil {
		t.Fatal(err)
	}
	r.RenderUpdate(ctx, view, Div(Func(func() *VNode { panic("boom") })))

	if len(tracer.spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(tracer.spans))
	}
	page, update := tracer.spans[0], tracer.spans[1]
	if page.name != "domsync.render.page" || update.name != "domsync.render.update" {
		t.Errorf("got span names %q, %q", page.name, update.name)
	}
	if v, ok := page.attr("domsync.nodes"); !ok || v.AsInt64() != 3 {
		t.Errorf("domsync.nodes = %v, %v; want 3", v.AsInt64(), ok)
	}
	if v, ok := page.attr("domsync.runtime"); !ok || v.AsString() != "standard" {
		t.Errorf("domsync.runtime = %q", v.AsString())
	}
	if page.status != codes.Ok || page.err != nil {
		t.Errorf("page span: status %v, err %v", page.status, page.err)
	}
	if update.status != codes.Error || update.err == nil {
		t.Errorf("update span: status %v, err %v", update.status, update.err)
	}
}
