// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/OMTS/Hop/hop"
)

// This profiler type appends tags to pprof output if pprof is enabled.  It
// does not start pprof itself.  pprof samples at a fixed 100Hz so only long
// running scripts produce meaningful profiles.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ hop.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler labeling the goroutine running a
// script with the function being executed.
func NewPprofAnnotator(s *hop.Session, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			session: s,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.session.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

// Labels returns the pprof labels currently applied by p.
func (p *pprofAnnotator) Labels() map[string]string {
	labels := make(map[string]string)
	if p.currentContext == nil {
		return labels
	}
	pprof.ForLabels(p.currentContext, func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}

func (p *pprofAnnotator) Start(fn *hop.Closure) func() {
	if p.skipTrace(fn) {
		return func() {}
	}
	// The context is kept on a stack rather than using pprof.Do, which would
	// need the evaluator to run every invocation inside a callback.
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fn)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	// labels propagate to goroutines started down the call
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
