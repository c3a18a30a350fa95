// Package diag renders the spanned diagnostics produced by the lexer,
// parser and verifier: a message plus one or more labeled source spans,
// printed with colored underlines the way a compiler front-end would.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/olympusrpc/olympus/internal/ast"
)

// Color selects the label underline/caret color. Verifier duplicate
// diagnostics report the original occurrence in Yellow and the offending
// one in Red; everything else defaults to Red.
type Color int

const (
	Red Color = iota
	Yellow
)

func (c Color) attr() *color.Color {
	switch c {
	case Yellow:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// Source is one named input buffer a span can be rendered against.
type Source struct {
	Name string
	Text string
}

// Label attaches a message and a color to one span within a Source.
type Label struct {
	Source  *Source
	Message string
	Span    ast.Span
	Color   Color
}

// Diagnostic is one compiler error: a subject line plus zero or more
// labeled spans. A Diagnostic with no labels still carries a subject and
// is rendered as a bare message (used for errors with no useful span,
// such as an I/O failure reading the input file).
type Diagnostic struct {
	Subject string
	Labels  []Label
}

// New creates a label-less diagnostic.
func New(subject string) *Diagnostic {
	return &Diagnostic{Subject: subject}
}

// Error creates a diagnostic with a single Red label at span, reusing the
// subject text as the label message. This is the common case: "lex error
// at this exact span".
func Error(source *Source, subject string, span ast.Span) *Diagnostic {
	return New(subject).WithLabel(source, subject, span, Red)
}

// WithLabel appends a label and returns the receiver, so diagnostics can
// be built fluently: diag.Error(src, "duplicate struct", dupSpan).
// WithLabel(src, "first declared here", origSpan, diag.Yellow).
func (d *Diagnostic) WithLabel(source *Source, message string, span ast.Span, color Color) *Diagnostic {
	d.Labels = append(d.Labels, Label{Source: source, Message: message, Span: span, Color: color})
	return d
}

// Error implements the error interface so a Diagnostic can be returned
// and propagated like any other Go error; Render should be preferred for
// the user-facing pretty-printed form.
func (d *Diagnostic) Error() string {
	return d.Subject
}

// Render writes the diagnostic as colored, source-excerpted text to w:
// the subject line, then for every label the source line(s) it falls on
// with a colored caret underline beneath the span.
func Render(w io.Writer, d *Diagnostic) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("error:"), d.Subject)
	for _, label := range d.Labels {
		renderLabel(w, label)
	}
}

func renderLabel(w io.Writer, label Label) {
	if label.Source == nil {
		return
	}
	line, col, lineText := locate(label.Source.Text, label.Span.Start)
	width := label.Span.End - label.Span.Start
	if width < 1 {
		width = 1
	}

	fmt.Fprintf(w, "  --> %s:%d:%d\n", label.Source.Name, line, col)
	fmt.Fprintf(w, "   | %s\n", lineText)

	caret := label.Color.attr().Sprint(strings.Repeat("^", width))
	fmt.Fprintf(w, "   | %s%s %s\n", strings.Repeat(" ", col-1), caret, label.Color.attr().Sprint(label.Message))
}

// locate converts a byte offset into a 1-indexed (line, column) pair plus
// the full text of that line, for excerpt rendering.
func locate(src string, offset int) (line, col int, lineText string) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = offset - lineStart + 1

	lineEnd := strings.IndexByte(src[lineStart:], '\n')
	if lineEnd == -1 {
		lineText = src[lineStart:]
	} else {
		lineText = src[lineStart : lineStart+lineEnd]
	}
	return line, col, lineText
}
