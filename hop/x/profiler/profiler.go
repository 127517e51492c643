// Copyright © 2018 The ELPS authors

// Package profiler contains hop.Profiler implementations that report closure
// invocations to tracing systems, pprof labels or callgrind files.
package profiler

import (
	"fmt"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser/token"
)

// profiler is a minimal hop.Profiler
type profiler struct {
	session    *hop.Session
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ hop.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(fn *hop.Closure) func() {
	return func() {}
}

// prettyFunName returns a pretty name and original name for fn. If there is
// no pretty name, then the pretty name is the original name. The original
// name is the signature of fn qualified by its class or module.
func (p *profiler) prettyFunName(fn *hop.Closure) (string, string) {
	origLabel := fn.QualifiedName()
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(fn)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(fn *hop.Closure) bool {
	return !p.enabled || fn == nil || p.skipFilter != nil && p.skipFilter(fn)
}

// namespace returns the class or module owning fn, "main" for top level
// script functions.
func namespace(fn *hop.Closure) string {
	switch {
	case fn.Class != nil:
		return fn.Class.Name
	case fn.Owner != "":
		return fn.Owner
	default:
		return "main"
	}
}

// getSourceLoc returns the declaration of fn, nil for native closures and
// closures parsed without debug information.
func getSourceLoc(fn *hop.Closure) *token.Location {
	return fn.Source
}
