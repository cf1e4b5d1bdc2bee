package resolve

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/abbrev/pkg/abbr"
	"github.com/vango-dev/abbrev/pkg/snippet"
)

// Default tracer name for resolution spans.
const defaultTracerName = "abbrev"

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics sets the Prometheus metrics to record into.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTracer sets the tracer. If nil, the global provider's tracer is used.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = tracer
	}
}

// Resolver expands snippet references in abbreviation trees. It holds no
// per-call state and may be shared by goroutines resolving distinct trees.
type Resolver struct {
	registry snippet.Registry
	parse    abbr.ParseFunc
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// New creates a Resolver that looks snippets up in reg and parses
// template snippets with parse.
func New(reg snippet.Registry, parse abbr.ParseFunc, opts ...Option) *Resolver {
	r := &Resolver{
		registry: reg,
		parse:    parse,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(defaultTracerName)
	}
	return r
}

// Resolve resolves every node of t in place, including nodes inserted by
// earlier expansions. On error the walk stops; nodes resolved before the
// failing one stay resolved, the failing node is left untouched.
func (r *Resolver) Resolve(ctx context.Context, t *abbr.Tree) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "abbrev.resolve")
	defer span.End()

	s := r.newSession(ctx)
	err := s.walk(t, t.Root())

	r.metrics.observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("abbrev.nodes", t.Len()),
		attribute.Int("abbrev.expansions", s.expansions),
	)
	if err != nil {
		r.metrics.failed(errorType(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// ResolveNode resolves the single node id with a fresh cycle guard. When a
// template replaces id, the children id carried are resolved as well;
// otherwise descendants are left alone.
func (r *Resolver) ResolveNode(ctx context.Context, t *abbr.Tree, id abbr.NodeID) error {
	err := r.newSession(ctx).resolve(t, id)
	if err != nil {
		r.metrics.failed(errorType(err))
	}
	return err
}

func (r *Resolver) newSession(ctx context.Context) *session {
	return &session{
		r:     r,
		ctx:   ctx,
		stack: make(map[*snippet.Snippet]struct{}),
	}
}

// session is the state of one top-level call.
type session struct {
	r   *Resolver
	ctx context.Context

	// stack holds the snippets being expanded on the current chain.
	stack map[*snippet.Snippet]struct{}

	expansions int
}

// enter marks snip active and returns the function that clears it.
func (s *session) enter(snip *snippet.Snippet) func() {
	s.stack[snip] = struct{}{}
	return func() { delete(s.stack, snip) }
}

func (s *session) walk(t *abbr.Tree, id abbr.NodeID) error {
	return t.Walk(id, func(n abbr.NodeID, _ int) error {
		return s.resolve(t, n)
	})
}

func (s *session) resolve(t *abbr.Tree, id abbr.NodeID) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	name := t.Element(id).Name
	if name == "" {
		return nil
	}
	snip := s.r.registry.Resolve(name)
	if snip == nil {
		s.r.metrics.skip("missing")
		return nil
	}
	if _, active := s.stack[snip]; active {
		s.r.metrics.skip("cycle")
		s.r.logger.Debug("snippet already expanding, left as-is", "name", name)
		return nil
	}

	if snip.Kind() == snippet.KindHandler {
		return s.handle(t, id, snip)
	}
	return s.expand(t, id, name, snip)
}

func (s *session) handle(t *abbr.Tree, id abbr.NodeID, snip *snippet.Snippet) error {
	s.record(snip)
	defer s.enter(snip)()

	return snip.Handler()(&snippet.Call{
		Tree:     t,
		Node:     id,
		Registry: s.r.registry,
		Parse:    s.r.parse,
		Resolve:  s.resolve,
	})
}

func (s *session) expand(t *abbr.Tree, id abbr.NodeID, name string, snip *snippet.Snippet) error {
	if t.Parent(id) == abbr.None {
		return ErrDetached
	}

	sub, err := s.r.parse(snip.Body())
	if err != nil {
		return &TemplateError{Name: name, Template: snip.Body(), Err: err}
	}
	if sub == nil {
		sub = abbr.New()
	}

	s.record(snip)
	if err := s.expandSubtree(sub, snip); err != nil {
		return err
	}
	// Authored children move under the expansion untouched by the walk
	// that replaced their parent; resolve them here, outside snip's chain.
	if err := s.walk(t, id); err != nil {
		return err
	}

	splice(t, id, sub)
	s.r.logger.Debug("snippet expanded", "name", name, "nodes", sub.Len())
	return nil
}

func (s *session) expandSubtree(sub *abbr.Tree, snip *snippet.Snippet) error {
	defer s.enter(snip)()
	return s.walk(sub, sub.Root())
}

func (s *session) record(snip *snippet.Snippet) {
	s.expansions++
	s.r.metrics.expanded(snip.Kind(), len(s.stack))
}

// splice replaces id with the top-level nodes of sub. The data and
// children of id move to the deepest node of sub. An empty sub leaves the
// children of id in its place.
func splice(t *abbr.Tree, id abbr.NodeID, sub *abbr.Tree) {
	target := deepest(sub, sub.Root())
	if target == sub.Root() {
		for c := t.FirstChild(id); c != abbr.None; c = t.FirstChild(id) {
			t.InsertBefore(id, c)
		}
		t.Detach(id)
		return
	}

	merge(sub.Element(target), t.Element(id))
	remap := t.Graft(sub, id)
	t.MoveChildren(id, remap[target])
	t.Detach(id)
}

func errorType(err error) string {
	var tplErr *TemplateError
	switch {
	case errors.As(err, &tplErr):
		return "template"
	case errors.Is(err, ErrDetached):
		return "detached"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "handler"
	}
}
