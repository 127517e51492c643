// Copyright © 2018 The ELPS authors

// Package lint provides static analysis for hop source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives a parsed program and reports diagnostics. The framework
// handles parsing, running analyzers, collecting results, and formatting
// output.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser"
	"github.com/OMTS/Hop/parser/lexer"
	"github.com/OMTS/Hop/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "unused-import").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Program is the parsed source.  Nodes carry source locations.
	Program *hop.Program

	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic at a position.
func (p *Pass) Reportf(source *token.Location, format string, args ...interface{}) {
	p.Report(Diagnostic{
		Pos:     positionOf(source),
		Message: fmt.Sprintf(format, args...),
	})
}

func positionOf(source *token.Location) Position {
	if source == nil {
		return Position{}
	}
	return Position{File: source.File, Line: source.Line, Col: source.Col}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer
}

// LintFile analyzes a single source file and returns all diagnostics.
// Source that does not parse fails with the syntax error.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	prog, err := parser.NewReader().Read(filename, strings.NewReader(string(source)), true)
	if err != nil {
		return nil, err
	}

	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Program:  prog,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		// Set file on diagnostics that don't have one
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
		}
		all = append(all, pass.diagnostics...)
	}

	all = filterSuppressed(all, nolintLines(source, filename))

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.File != all[j].Pos.File {
			return all[i].Pos.File < all[j].Pos.File
		}
		if all[i].Pos.Line != all[j].Pos.Line {
			return all[i].Pos.Line < all[j].Pos.Line
		}
		return all[i].Pos.Col < all[j].Pos.Col
	})

	return all, nil
}

// filterSuppressed removes diagnostics on lines with nolint comments.
func filterSuppressed(diags []Diagnostic, nolint map[int]string) []Diagnostic {
	var filtered []Diagnostic
	for _, d := range diags {
		directive, ok := nolint[d.Pos.Line]
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		// Empty directive = suppress all
		if directive == "" {
			continue
		}
		suppressed := false
		for _, name := range strings.Split(directive, ",") {
			if strings.TrimSpace(name) == d.Analyzer {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// nolintLines maps the line of every nolint comment in source to its
// directive: "" suppresses all checks, otherwise a comma separated list of
// analyzer names.
func nolintLines(source []byte, filename string) map[int]string {
	lines := make(map[int]string)
	lex := lexer.NewFormatting(token.NewScanner(filename, string(source)))
	for {
		tok, err := lex.ReadToken()
		if err != nil || tok.Type == token.EOF {
			return lines
		}
		if tok.Type == token.COMMENT {
			checkNolintToken(tok, lines)
		}
	}
}

func checkNolintToken(tok *token.Token, lines map[int]string) {
	text := strings.TrimPrefix(tok.Text, "//")
	if strings.HasPrefix(tok.Text, "/*") {
		text = strings.TrimSuffix(strings.TrimPrefix(tok.Text, "/*"), "*/")
	}
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, "nolint")
	if !ok {
		return
	}
	if rest == "" {
		lines[tok.Source.Line] = ""
		return
	}
	if directive, ok := strings.CutPrefix(rest, ":"); ok {
		lines[tok.Source.Line] = directive
	}
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerUnreachableCode,
		AnalyzerSelfAssignment,
		AnalyzerSelfComparison,
		AnalyzerConstantCondition,
		AnalyzerZeroDivision,
		AnalyzerDuplicateImport,
		AnalyzerUnusedImport,
		AnalyzerUnusedVariable,
		AnalyzerEmptyBlock,
	}
}
