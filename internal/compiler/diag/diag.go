// Package diag implements the compiler's fatal-error taxonomy: user
// errors, source errors with a caret-underlined excerpt, and internal
// errors. Every stage of the pipeline returns one of these error types
// instead of terminating directly; an error-return chain with a single
// top-level terminator behaves the same as immediate termination, since
// no stage continues past the first error. Only Fatal, called from
// cmd/curlc, actually stops the process.
package diag

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mbirchal/curlc/internal/compiler/source"
	"github.com/mbirchal/curlc/internal/compiler/token"
)

// SourceError is a diagnostic located at a span in the input program
// (lexer, parser, or analyser failure).
type SourceError struct {
	File    *source.File
	Span    token.Span
	Message string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File.Path, e.Span.Line+1, e.Span.First+1, e.Message)
}

// Sourcef builds a SourceError with a formatted message.
func Sourcef(file *source.File, span token.Span, format string, args ...any) *SourceError {
	return &SourceError{File: file, Span: span, Message: fmt.Sprintf(format, args...)}
}

// InternalError reports that the compiler itself reached an inconsistent
// state: a failed allocation, a violated invariant, or an unreachable
// branch such as an unclassified literal width.
type InternalError struct {
	File    string
	Line    int
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("curlc (internal %s:%d): %s", e.File, e.Line, e.Message)
}

// Internalf builds an InternalError tagged with its own call site, the
// way _err_internal in the original tags itself with __FILE__/__LINE__.
func Internalf(format string, args ...any) *InternalError {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	return &InternalError{File: file, Line: line, Message: fmt.Sprintf(format, args...)}
}

// excerpt renders the source-line-plus-caret block from err_source: the
// numbered line, then an aligned offset of spaces/tabs, a caret at the
// first column, and tildes to the span's last column (exclusive).
func excerpt(e *SourceError) string {
	lineNum := e.Span.Line + 1
	src := e.File.Line(e.Span.Line)

	offset := make([]byte, 0, e.Span.First)
	for i := 0; i < e.Span.First && i < len(src); i++ {
		if src[i] == '\t' {
			offset = append(offset, '\t')
		} else {
			offset = append(offset, ' ')
		}
	}

	underlineLen := e.Span.Last - e.Span.First - 1
	tildes := ""
	if underlineLen > 0 {
		b := make([]byte, underlineLen)
		for i := range b {
			b[i] = '~'
		}
		tildes = string(b)
	}

	gutter := fmt.Sprintf("%d", lineNum)
	pad := make([]byte, len(gutter))
	for i := range pad {
		pad[i] = ' '
	}

	return fmt.Sprintf("%s | %s\n%s | %s^%s\n", gutter, src, string(pad), offset, tildes)
}

func colorEnabled() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("NO_COLOR") == ""
}

// Fatal renders err to stderr in the style of the three taxonomies and
// terminates the process with exit code 1. It is the pipeline's single
// terminator and must only be called from a driver's main, never from a
// compiler package.
func Fatal(err error) {
	bold := color.New(color.FgRed, color.Bold)
	plain := fmt.Sprintf
	if colorEnabled() {
		plain = bold.Sprintf
	}

	switch e := err.(type) {
	case *SourceError:
		fmt.Fprint(os.Stderr, plain("%s", e.Error())+"\n"+excerpt(e))
	case *InternalError:
		fmt.Fprintln(os.Stderr, plain("%s", e.Error()))
	case *source.UserError:
		fmt.Fprintln(os.Stderr, plain("curlc: %s", e.Error()))
	default:
		fmt.Fprintln(os.Stderr, plain("curlc: %s", err.Error()))
	}
	os.Exit(1)
}
