package diag

import (
	"strings"
	"testing"

	"github.com/mbirchal/curlc/internal/compiler/source"
	"github.com/mbirchal/curlc/internal/compiler/token"
)

func TestSourceErrorMessage(t *testing.T) {
	file := &source.File{Path: "a.curl", Lines: []string{"fun f() u8 { return 300; }"}}
	span := token.Span{Line: 0, First: 20, Last: 23}
	err := Sourcef(file, span, "size mismatch; expected %d bits but got %d bits", 8, 16)

	want := "a.curl:1:21: size mismatch; expected 8 bits but got 16 bits"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestExcerptUnderline(t *testing.T) {
	file := &source.File{Path: "a.curl", Lines: []string{"return 300;"}}
	span := token.Span{Line: 0, First: 7, Last: 10}
	err := Sourcef(file, span, "oops")

	out := excerpt(err)
	if !strings.Contains(out, "return 300;") {
		t.Errorf("excerpt missing source line: %q", out)
	}
	if !strings.Contains(out, "^~~") {
		t.Errorf("excerpt missing caret-tilde underline: %q", out)
	}
}

func TestInternalErrorTagsCallSite(t *testing.T) {
	err := Internalf("unreachable: literal width %d", 128)
	if !strings.Contains(err.Error(), "diag_test.go") {
		t.Errorf("internal error should tag its call site, got %q", err.Error())
	}
}
