// Package parser implements a recursive-descent parser: a
// single-token-lookahead walk over the lexer's token list that produces
// the parse tree in package ast. Every production consumes exactly the
// tokens it recognises and fails with a source error on the first
// mismatch.
package parser

import (
	"github.com/mbirchal/curlc/internal/compiler/ast"
	"github.com/mbirchal/curlc/internal/compiler/diag"
	"github.com/mbirchal/curlc/internal/compiler/source"
	"github.com/mbirchal/curlc/internal/compiler/token"
)

// Parser walks a token list with a cursor and one token of lookahead.
type Parser struct {
	file *source.File
	toks []token.Token
	pos  int // index of the current token
}

// New creates a Parser over toks, the output of lexer.Lex(file).
func New(file *source.File, toks []token.Token) *Parser {
	return &Parser{file: file, toks: toks}
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos+1 < len(p.toks) {
		p.pos++
	}
	return t
}

// expect consumes the current token if it has kind k, else raises a
// source error naming what was expected.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, diag.Sourcef(p.file, p.cur().Span, "expected %s but got %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

// Parse parses the entire token list as a file: zero or more top-level
// function declarations.
func Parse(file *source.File, toks []token.Token) (*ast.File, error) {
	p := New(file, toks)
	var f ast.File
	for p.cur().Kind != token.EOF {
		fun, err := p.parseFun()
		if err != nil {
			return nil, err
		}
		f.Funs = append(f.Funs, *fun)
	}
	return &f, nil
}

func (p *Parser) parseFun() (*ast.Fun, error) {
	if _, err := p.expect(token.FUN); err != nil {
		return nil, err
	}
	ident, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	var fun ast.Fun
	fun.Ident = ident
	fun.Params = params

	// Optional return type: anything other than "{" here must be the
	// named primitive type.
	if p.cur().Kind != token.LBRACE {
		rt, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fun.HasReturnType = true
		fun.ReturnType = *rt
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fun.Body = *block
	return &fun, nil
}

// parseParams parses "(" [ variable { "," variable } ] ")" using a
// two-state machine: expecting-name (start of list, or right after a
// comma) and have-name (after a variable is parsed). A comma followed
// immediately by ")" means an empty slot was expected, surfaced as the
// same "expected IDENT" error expecting-name would raise anywhere else.
func (p *Parser) parseParams() ([]ast.Variable, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if p.cur().Kind == token.RPAREN {
		p.advance()
		return nil, nil
	}

	var params []ast.Variable
	for {
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		params = append(params, *v)

		switch p.cur().Kind {
		case token.COMMA:
			p.advance() // back to expecting-name
			continue
		case token.RPAREN:
			p.advance()
			return params, nil
		default:
			return nil, diag.Sourcef(p.file, p.cur().Span, "expected ',' or ')' but got %s", p.cur().Kind)
		}
	}
}

func (p *Parser) parseVariable() (*ast.Variable, error) {
	ident, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.Variable{Ident: ident, Type: *typ}, nil
}

func (p *Parser) parseType() (*ast.Type, error) {
	ident, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Type{Ident: ident}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var block ast.Block
	for p.cur().Kind != token.RBRACE {
		if p.cur().Kind == token.EOF {
			return nil, diag.Sourcef(p.file, p.cur().Span, "unterminated block; expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, *stmt)
	}
	p.advance()
	return &block, nil
}

// parseStatement implements "return" [ expression ] ";". A ";"
// immediately after "return" yields the return-no-value variant.
func (p *Parser) parseStatement() (*ast.Statement, error) {
	start, err := p.expect(token.RETURN)
	if err != nil {
		return nil, err
	}

	stmt := ast.Statement{Span: start.Span}
	if p.cur().Kind != token.SEMI {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.HasExpr = true
		stmt.Expr = *expr
	}

	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &stmt, nil
}

// parseExpression implements INT_LITERAL | FLOAT_LITERAL. Floating-point
// literals are syntactically recognised but rejected as not yet
// implemented.
func (p *Parser) parseExpression() (*ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.INT_LITERAL:
		p.advance()
		return &ast.Expression{NumberLit: ast.NewNumber(tok.Span, parseUint(tok.Literal))}, nil
	case token.FLOAT_LITERAL:
		return nil, diag.Sourcef(p.file, tok.Span, "floating-point literals are not yet implemented")
	default:
		return nil, diag.Sourcef(p.file, tok.Span, "expected an expression but got %s", tok.Kind)
	}
}

func parseUint(lexeme string) uint64 {
	var v uint64
	for i := 0; i < len(lexeme); i++ {
		v = v*10 + uint64(lexeme[i]-'0')
	}
	return v
}
