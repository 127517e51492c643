// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"
	"strings"

	"github.com/OMTS/Hop/hop"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(fn *hop.Closure) string

// WithDocLabeler labels spans using doc comment magic strings.
func WithDocLabeler() Option {
	return WithFunLabeler(docFunLabeler)
}

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// DocLabel is a magic string used to extract function labels.
const DocLabel = `@trace\s*{([^}]+)}`

var (
	docLabelRegExp   = regexp.MustCompile(DocLabel)
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}

func extractLabel(docStr string) string {
	if docStr == "" {
		return ""
	}
	match := docLabelRegExp.FindStringSubmatch(docStr)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func cleanLabel(docStr string) string {
	return sanitizeLabel(extractLabel(docStr))
}

func docFunLabeler(fn *hop.Closure) string {
	return cleanLabel(fn.Doc)
}
