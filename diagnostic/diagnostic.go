// Copyright © 2018 The ELPS authors

// Package diagnostic renders annotated error reports for the hop command
// line tools.
package diagnostic

import (
	"errors"

	"github.com/OMTS/Hop/hop"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines (stack trace frames, etc.)
}

// FromError converts err to a Diagnostic.  A *hop.Error contributes its
// source location as a span labeled with the failing stage and its call
// stack as notes, innermost call first.
func FromError(err error) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
	}
	var herr *hop.Error
	if !errors.As(err, &herr) {
		return d
	}
	d.Message = herr.Message()
	if loc := herr.Source; loc != nil && loc.Pos >= 0 {
		span := Span{
			File:  loc.File,
			Line:  loc.Line,
			Col:   loc.Col,
			Label: herr.Kind.Family().String() + " error",
		}
		// Prefer physical path for reading source
		if loc.Path != "" {
			span.File = loc.Path
		}
		d.Spans = append(d.Spans, span)
	}
	if herr.Stack != nil {
		for i := len(herr.Stack.Frames) - 1; i >= 0; i-- {
			frame := &herr.Stack.Frames[i]
			loc := "unknown"
			if frame.Source != nil {
				loc = frame.Source.String()
			}
			d.Notes = append(d.Notes, "in "+frame.QualifiedName()+" called at "+loc)
		}
	}
	return d
}
