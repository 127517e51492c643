// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/OMTS/Hop/hop"
)

type SkipFilter func(fn *hop.Closure) bool

// WithDocFilter filters to only include spans for functions with doc
// comments that denote tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithoutNatives skips closures implemented by the host.
func WithoutNatives() Option {
	return WithSkipFilter(func(fn *hop.Closure) bool {
		return fn.IsNative()
	})
}

// DocTrace is a magic string used to enable tracing in a profiler configured
// WithDocFilter. All functions with a doc comment that contains this string
// will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(fn *hop.Closure) bool {
	if fn.Doc == "" {
		return true
	}
	// do not skip docs that include trace constant
	return !docTraceRegExp.MatchString(fn.Doc)
}
