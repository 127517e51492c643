// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/OMTS/Hop/hop"
	"go.opencensus.io/trace"
)

var _ hop.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

// NewOpenCensusAnnotator returns a profiler creating one OpenCensus span per
// closure invocation.
func NewOpenCensusAnnotator(s *hop.Session, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			session: s,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables p with spans attached to ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	p.session.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fn *hop.Closure) func() {
	if p.skipTrace(fn) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fn)
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, namespace(fn)+":"+prettyLabel)
	return func() {
		file, line := "no-source", 0
		if loc := getSourceLoc(fn); loc != nil {
			file, line = loc.File, loc.Line
		}
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("file", file),
			trace.Int64Attribute("line", int64(line)),
		}, "source")
		p.currentSpan.End()
		// And pop the current context back
		n := len(p.contexts) - 1
		p.currentContext = p.contexts[n]
		p.contexts = p.contexts[:n]
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
