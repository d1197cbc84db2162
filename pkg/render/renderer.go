package render

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	crdberrors "github.com/cockroachdb/errors"
	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/dom"
	"github.com/vango-dev/domsync/pkg/escape"
	"github.com/vango-dev/domsync/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for render passes.
const defaultTracerName = "domsync/render"

// Pass modes, used as the "mode" metric label.
const (
	ModePage   = "page"
	ModeUpdate = "update"
)

// ErrNotRendered is returned when an update is requested for a view that
// was never rendered.
var ErrNotRendered = crdberrors.New("render: view has not been rendered")

// Config configures a Renderer.
type Config struct {
	// Namespace is the client runtime object (default: "V").
	Namespace string

	// RootID is the id given to a root element without one (default: "app").
	RootID string

	// IDPrefix starts generated element ids (default: "d").
	IDPrefix string

	// BulkReplace overrides capability.BulkReplace.
	BulkReplace *capability.Table

	// Metrics records passes when set.
	Metrics *Metrics

	// Tracer traces passes. Defaults to the global provider's tracer.
	Tracer trace.Tracer

	// Logger receives failed passes. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer turns trees into page markup and update scripts.
// It is safe for concurrent use; each View is not.
type Renderer struct {
	config Config
	tracer trace.Tracer
	logger *slog.Logger
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Namespace == "" {
		config.Namespace = dom.DefaultNamespace
	}
	if config.RootID == "" {
		config.RootID = "app"
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(defaultTracerName)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		config: config,
		tracer: tracer,
		logger: logger.With("component", "render"),
	}
}

// Namespace returns the client runtime object the scripts address.
func (r *Renderer) Namespace() string {
	return r.config.Namespace
}

// View is the tree one client currently shows, with the ids it was sent.
type View struct {
	// Env describes the client.
	Env capability.Env

	tree *vdom.VNode
	ids  *vdom.IDGenerator
}

// NewView creates an empty view for a client.
func (r *Renderer) NewView(env capability.Env) *View {
	return &View{Env: env, ids: vdom.NewIDGenerator(r.config.IDPrefix)}
}

// Tree returns the tree the client shows, or nil before the first render.
func (v *View) Tree() *vdom.VNode {
	return v.tree
}

// newPass starts a pass for view. Identities the pass generates come from
// the view's generator, so they stay unique across the view's passes.
func (r *Renderer) newPass(view *View) *dom.Pass {
	return dom.NewPass(dom.Config{
		Env:         view.Env,
		NewID:       view.ids.Next,
		Namespace:   r.config.Namespace,
		RootID:      r.config.RootID,
		BulkReplace: r.config.BulkReplace,
	})
}

// run executes build as one traced, measured pass. A panic inside build
// fails only this pass.
func (r *Renderer) run(ctx context.Context, mode string, view *View, build func(*dom.Pass) (dom.Result, error)) (res dom.Result, err error) {
	_, span := r.tracer.Start(ctx, "domsync.render."+mode,
		trace.WithAttributes(
			attribute.String("domsync.mode", mode),
			attribute.String("domsync.runtime", view.Env.Runtime.String()),
			attribute.Bool("domsync.scripting", view.Env.Scripting),
		),
		trace.WithTimestamp(time.Now()),
	)
	defer span.End()

	start := time.Now()
	p := r.newPass(view)
	defer p.Release()

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = errors.New("D020").Wrap(panicError(rec))
			}
		}()
		res, err = build(p)
	}()

	stats := p.Stats()
	r.config.Metrics.observe(mode, time.Since(start), res, stats, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("render pass failed", "mode", mode, "error", err)
		return dom.Result{}, err
	}
	span.SetAttributes(
		attribute.Int("domsync.nodes", res.Nodes),
		attribute.Int("domsync.markup_bytes", len(res.Markup)),
		attribute.Int("domsync.script_bytes", len(res.Script)),
		attribute.Int("domsync.fast_path", stats.FastPath),
		attribute.Int("domsync.bulk_replace", stats.BulkReplace),
	)
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}

// Render lowers tree to markup and makes it the view's tree. Timers and
// script that markup cannot carry are returned alongside; see Deferred.
func (r *Renderer) Render(ctx context.Context, view *View, tree *vdom.VNode) (dom.Result, error) {
	return r.run(ctx, ModePage, view, func(p *dom.Pass) (dom.Result, error) {
		tree := vdom.Normalize(tree)
		if tree == nil {
			return dom.Result{}, errors.New("D022")
		}
		if tree.ID == "" {
			tree.ID = r.config.RootID
		}
		vdom.AssignIDs(tree, view.ids)
		res := p.Markup(vdom.Lower(p, tree))
		view.tree = tree
		return res, nil
	})
}

// RenderUpdate diffs next against the view's tree and returns the script
// that patches the client. On success next becomes the view's tree; on
// failure the view is unchanged.
func (r *Renderer) RenderUpdate(ctx context.Context, view *View, next *vdom.VNode) (dom.Result, error) {
	if view.tree == nil {
		return dom.Result{}, ErrNotRendered
	}
	return r.run(ctx, ModeUpdate, view, func(p *dom.Pass) (dom.Result, error) {
		next := vdom.Normalize(next)
		if next == nil {
			return dom.Result{}, errors.New("D022")
		}
		if next.ID == "" {
			next.ID = view.tree.ID
		}
		res := p.Script(vdom.Diff(p, view.tree, next, view.ids)...)
		view.tree = next
		return res, nil
	})
}

// Deferred returns the script that must run once the markup of res is in
// place: its leftover script followed by its timer registrations.
func (r *Renderer) Deferred(res dom.Result) string {
	var b strings.Builder
	b.WriteString(res.Script)
	for _, t := range res.Timers {
		b.WriteString(r.config.Namespace)
		b.WriteString(".addTimer('")
		b.WriteString(escape.String(t.ID, escape.JSStringSingle))
		b.WriteString("',")
		b.WriteString(strconv.Itoa(t.Millis()))
		b.WriteString(",")
		b.WriteString(strconv.FormatBool(t.Repeat))
		b.WriteString(");\n")
	}
	return b.String()
}
