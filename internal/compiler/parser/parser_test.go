package parser

import (
	"testing"

	"github.com/mbirchal/curlc/internal/compiler/lexer"
	"github.com/mbirchal/curlc/internal/compiler/source"
)

func mustParse(t *testing.T, src string) *source.File {
	t.Helper()
	return &source.File{Path: "test", Lines: []string{src}}
}

func TestParseMinimalFunction(t *testing.T) {
	file := mustParse(t, "fun main() { }")
	toks, err := lexer.Lex(file)
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	f, err := Parse(file, toks)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Funs) != 1 {
		t.Fatalf("got %d funs, want 1", len(f.Funs))
	}
	fn := f.Funs[0]
	if fn.Ident.Literal != "main" {
		t.Errorf("fun name = %q, want main", fn.Ident.Literal)
	}
	if fn.HasReturnType {
		t.Errorf("expected no return type")
	}
	if len(fn.Params) != 0 {
		t.Errorf("expected no params, got %d", len(fn.Params))
	}
	if len(fn.Body.Statements) != 0 {
		t.Errorf("expected empty body, got %d statements", len(fn.Body.Statements))
	}
}

func TestParseMultipleTopLevelFunctions(t *testing.T) {
	file := mustParse(t, "fun a() { } fun b() { }")
	toks, _ := lexer.Lex(file)
	f, err := Parse(file, toks)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Funs) != 2 {
		t.Fatalf("got %d funs, want 2", len(f.Funs))
	}
}

func TestParseParamsAndReturnType(t *testing.T) {
	file := mustParse(t, "fun add(a u32, b u32) u32 { return 1; }")
	toks, _ := lexer.Lex(file)
	f, err := Parse(file, toks)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	fn := f.Funs[0]
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	if fn.Params[0].Ident.Literal != "a" || fn.Params[0].Type.Ident.Literal != "u32" {
		t.Errorf("param 0 = %+v", fn.Params[0])
	}
	if !fn.HasReturnType || fn.ReturnType.Ident.Literal != "u32" {
		t.Errorf("return type = %+v", fn.ReturnType)
	}
}

func TestParseBareReturn(t *testing.T) {
	file := mustParse(t, "fun f() { return; }")
	toks, _ := lexer.Lex(file)
	f, err := Parse(file, toks)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	stmt := f.Funs[0].Body.Statements[0]
	if stmt.HasExpr {
		t.Errorf("expected return-no-value variant")
	}
}

func TestTrailingCommaRejected(t *testing.T) {
	file := mustParse(t, "fun f(a u32,) { }")
	toks, _ := lexer.Lex(file)
	if _, err := Parse(file, toks); err == nil {
		t.Fatal("expected an error for a trailing comma in the parameter list")
	}
}

func TestMissingSemicolonRejected(t *testing.T) {
	file := mustParse(t, "fun f() { return 1 }")
	toks, _ := lexer.Lex(file)
	if _, err := Parse(file, toks); err == nil {
		t.Fatal("expected an error for a missing ';'")
	}
}

func TestUnterminatedBlockRejected(t *testing.T) {
	file := mustParse(t, "fun f() { return 1;")
	toks, _ := lexer.Lex(file)
	if _, err := Parse(file, toks); err == nil {
		t.Fatal("expected an error for an unterminated block")
	}
}

func TestFloatLiteralRejected(t *testing.T) {
	file := mustParse(t, "fun f() { return 1.5; }")
	toks, _ := lexer.Lex(file)
	if _, err := Parse(file, toks); err == nil {
		t.Fatal("expected an error for a floating-point literal")
	}
}
