// Copyright © 2018 The ELPS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

// noteIndent is the width of the "   = note: " prefix.
const noteIndent = 11

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// Width wraps notes at the given column.  When zero, notes wrap at the
	// terminal width if the output is a terminal and are not wrapped
	// otherwise.
	Width int

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	f := fileFromWriter(w)
	p := choosePalette(r.Color, f)
	width := r.Width
	if width == 0 && isTerminal(f) {
		width, _, _ = term.GetSize(int(f.Fd()))
	}
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)

	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}

	for _, note := range d.Notes {
		if width > noteIndent+10 {
			note = wordwrap.String(note, width-noteIndent)
			note = strings.TrimPrefix(indent.String(note, noteIndent), strings.Repeat(" ", noteIndent))
		}
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// RenderError writes err to w as a Diagnostic.
func (r *Renderer) RenderError(w io.Writer, err error, notes ...string) error {
	d := FromError(err)
	d.Notes = append(d.Notes, notes...)
	return r.Render(w, d)
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	var sevColor string
	switch d.Severity {
	case SeverityError:
		sevColor = p.boldRed
	case SeverityWarning:
		sevColor = p.yellow
	case SeverityNote:
		sevColor = p.boldCyan
	}
	ew.printf("%s%s%s%s:%s %s%s%s\n",
		sevColor, p.bold, d.Severity, p.reset,
		p.reset,
		p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	name := span.File
	if name == "" {
		name = "<input>"
	}
	loc := name
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", name, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", name, span.Line, span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source := r.readSourceLine(span.File, span.Line)
	if source == "" {
		// No source available, just show the location line with a gutter
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)

	// Replace tabs with spaces for consistent alignment
	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, displaySource)

	col := span.Col
	endCol := span.EndCol
	if col <= 0 {
		col = 1
	}
	if endCol <= 0 {
		endCol = r.detectEndCol(source, col)
	}
	if endCol < col {
		endCol = col
	}

	prefix, marked := "", source
	if col > 1 && col-1 <= len(source) {
		prefix, marked = source[:col-1], source[col-1:]
	}
	if n := endCol - col + 1; n <= len(marked) {
		marked = marked[:n]
	}
	underLen := displayWidth(marked)
	if underLen == 0 {
		underLen = 1
	}

	underPad := strings.Repeat(" ", displayWidth(prefix))
	underline := strings.Repeat("^", underLen)

	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset, underPad, p.boldRed, underline, p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.print("\n")

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		if file == "" {
			return ""
		}
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text()
		}
	}
	return ""
}

// detectEndCol scans from col to find the end of the current token.
func (r *Renderer) detectEndCol(source string, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	end := col - 1 // 0-based
	for end < len(source) {
		ch, size := utf8.DecodeRuneInString(source[end:])
		if ch == ' ' || ch == '\t' || ch == ')' || ch == ']' || ch == '(' || ch == '[' || ch == '.' || ch == ',' {
			break
		}
		end += size
	}
	if end == col-1 {
		return col // single character
	}
	return end // convert back to 1-based end column
}

// displayWidth returns the terminal width of s, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w += runewidth.RuneWidth(ch)
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
