// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/OMTS/Hop/hop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

	defaultTracerName = "hop"
)

var _ hop.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler creating one span per closure
// invocation, children of the span found in parentContext.
func NewOpenTelemetryAnnotator(s *hop.Session, parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		profiler: profiler{
			session: s,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	p.session.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = defaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(fn *hop.Closure) func() {
	if p.skipTrace(fn) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, funName := p.prettyFunName(fn)
	p.currentContext, p.currentSpan = contextTracer(p.currentContext).Start(p.currentContext, prettyLabel)
	p.addCodeAttributes(fn, funName)
	return func() {
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = trace.SpanFromContext(p.currentContext)
	}
}

func (p *otelAnnotator) addCodeAttributes(fn *hop.Closure, funName string) {
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace(namespace(fn)),
		semconv.CodeFunction(funName),
	}
	if loc := getSourceLoc(fn); loc != nil {
		attrs = append(attrs,
			semconv.CodeColumn(loc.Col),
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
		)
	}
	p.currentSpan.SetAttributes(attrs...)
}
