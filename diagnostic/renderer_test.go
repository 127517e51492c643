// Copyright © 2018 The ELPS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.hop": "const answer = 42\nanswer = 1",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "forbidden assignment: answer",
		Spans: []Span{
			{File: "test.hop", Line: 2, Col: 1, EndCol: 6, Label: "answer is a constant"},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()

	assertContains(t, got, "error: forbidden assignment: answer")
	assertContains(t, got, "--> test.hop:2:1")
	assertContains(t, got, " 2 |  answer = 1")
	assertContains(t, got, "^^^^^^ answer is a constant")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.hop": "var x = 1\nx = x",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "self assignment: x",
		Spans: []Span{
			{File: "test.hop", Line: 2, Col: 1, EndCol: 5},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "warning: self assignment: x")
	assertContains(t, got, "--> test.hop:2:1")
	assertContains(t, got, "x = x")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: "", Line: 5, Col: 3},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: some error")
	assertContains(t, got, "--> <input>:5:3")
	// Should have a gutter but no source line
	assertContains(t, got, "|")
	assertNotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.hop": "inner()",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "zero division attempt",
		Spans: []Span{
			{File: "test.hop", Line: 1, Col: 1, EndCol: 5},
		},
		Notes: []string{
			"in inner() called at test.hop:1:1",
			"in outer() called at main.hop:10:5",
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "= note: in inner() called at test.hop:1:1")
	assertContains(t, got, "= note: in outer() called at main.hop:10:5")
}

func TestRenderWrapsNotes(t *testing.T) {
	r := testRenderer(nil)
	r.Width = 30

	d := Diagnostic{
		Severity: SeverityNote,
		Message:  "wrapped",
		Notes:    []string{"one two three four five six seven"},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "note: wrapped")
	assertContains(t, got, "= note: one two three four\n")
	assertContains(t, got, "\n           five six seven\n")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.hop": "var p = Point.origin",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "undefined type: Point",
		Spans: []Span{
			{File: "test.hop", Line: 1, Col: 9}, // EndCol=0 → auto-detect
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// "Point" starts at col 9 and is 5 chars
	assertContains(t, got, "         ^^^^^\n")
}

func TestRenderWideRunes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.hop": `var s = "日本" + 1`,
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "binary operator type mismatch",
		Spans: []Span{
			{File: "test.hop", Line: 1, Col: 9, EndCol: 16},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	// the two wide runes take four columns
	assertContains(t, buf.String(), "  "+strings.Repeat(" ", 8)+"^^^^^^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.hop": "var x = 1\nvar x = 2\nx()",
	})

	diags := []Diagnostic{
		{
			Severity: SeverityError,
			Message:  "invalid redeclaration: x",
			Spans:    []Span{{File: "test.hop", Line: 2, Col: 1, EndCol: 9}},
		},
		{
			Severity: SeverityError,
			Message:  "unresolved identifier: x()",
			Spans:    []Span{{File: "test.hop", Line: 3, Col: 1}},
		},
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// Should have both diagnostics separated by blank line
	parts := strings.Split(got, "\n\n")
	if len(parts) < 2 {
		t.Errorf("expected diagnostics separated by blank line, got:\n%s", got)
	}
	assertContains(t, got, "invalid redeclaration: x")
	assertContains(t, got, "unresolved identifier: x()")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "module not found: Geo",
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: module not found: Geo")
	// Should be just the header, no arrows or source
	assertNotContains(t, got, "-->")
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways

	var buf bytes.Buffer
	if err := r.Render(&buf, Diagnostic{Message: "colored"}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "\033[1;31m")

	for in, want := range map[string]ColorMode{"always": ColorAlways, "never": ColorNever, "auto": ColorAuto, "": ColorAuto} {
		if got := ParseColorMode(in); got != want {
			t.Errorf("ParseColorMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("output unexpectedly contains %q:\n%s", unwanted, got)
	}
}
