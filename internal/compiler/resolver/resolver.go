// Package resolver implements the semantic analyser: it walks the parse
// tree and builds the typed tree, resolving names through nested scopes
// and checking numeric-literal width against declared types. It keeps
// its tables as arenas addressed by stable integer index, so that
// cross-references (a variable's type, a scope's parent) survive
// further appends without invalidation.
package resolver

import (
	"github.com/mbirchal/curlc/internal/compiler/ast"
	"github.com/mbirchal/curlc/internal/compiler/diag"
	"github.com/mbirchal/curlc/internal/compiler/source"
)

// NONE marks the absence of an index (no parent scope, no return type).
const NONE = -1

// Type is a primitive type entry: a name, its byte size, and whether it
// is signed.
type Type struct {
	Name     string
	ByteSize int
	Signed   bool
}

// Scope is one lexical context in the scope arena: its parent, the
// variable and function indices it declares directly, and its child
// scopes.
type Scope struct {
	Parent   int
	Vars     []int
	Funs     []int
	Children []int
}

// Variable is a resolved parameter or local: its name and the index of
// its declared type in Types.
type Variable struct {
	Ident string
	Type  int
}

// Statement mirrors ast.Statement but, once the grammar grows past
// numeric literals, would carry resolved references instead of names.
// Today it carries the same Number payload.
type Statement struct {
	HasExpr bool
	Number  ast.Number
}

// Block carries its own scope index and ordered statements.
type Block struct {
	Scope      int
	Statements []Statement
}

// Fun is a resolved function: its scope, name, return type index, and
// body.
type Fun struct {
	Scope      int
	Ident      string
	ReturnType int
	Body       Block
}

// File is the analyser's output aggregate: the four arena tables that
// together form the typed tree.
type File struct {
	Types     []Type
	Scopes    []Scope
	Variables []Variable
	Funs      []Fun
}

var primitiveSizes = []struct {
	name   string
	size   int
	signed bool
}{
	{"u0", 0, false},
	{"u8", 1, false},
	{"u16", 2, false},
	{"u32", 4, false},
	{"u64", 8, false},
	{"s8", 1, true},
	{"s16", 2, true},
	{"s32", 4, true},
	{"s64", 8, true},
	{"bool", 1, false},
}

// newFile creates a File pre-loaded with the primitive types and a root
// scope at index 0 with no parent.
func newFile() *File {
	tf := &File{}
	for _, p := range primitiveSizes {
		tf.Types = append(tf.Types, Type{Name: p.name, ByteSize: p.size, Signed: p.signed})
	}
	tf.Scopes = append(tf.Scopes, Scope{Parent: NONE})
	return tf
}

func (tf *File) findType(name string) int {
	for i, t := range tf.Types {
		if t.Name == name {
			return i
		}
	}
	return NONE
}

// findVariable walks the scope chain from scopeIdx up to the root,
// looking for a variable named name.
func (tf *File) findVariable(scopeIdx int, name string) int {
	for s := scopeIdx; s != NONE; s = tf.Scopes[s].Parent {
		for _, vi := range tf.Scopes[s].Vars {
			if tf.Variables[vi].Ident == name {
				return vi
			}
		}
	}
	return NONE
}

// addScope appends a new child scope of parent and links it in.
func (tf *File) addScope(parent int) int {
	idx := len(tf.Scopes)
	tf.Scopes = append(tf.Scopes, Scope{Parent: parent})
	tf.Scopes[parent].Children = append(tf.Scopes[parent].Children, idx)
	return idx
}

// Analyse walks pfile and produces its typed tree, or the first source
// error encountered.
func Analyse(file *source.File, pfile *ast.File) (*File, error) {
	tf := newFile()
	const root = 0

	for _, pfun := range pfile.Funs {
		if err := checkFunRedefinition(tf, file, root, pfun); err != nil {
			return nil, err
		}

		fnScope := tf.addScope(root)
		tf.Scopes[root].Funs = append(tf.Scopes[root].Funs, len(tf.Funs))

		for _, pparam := range pfun.Params {
			if dup := scopeHasVar(tf, fnScope, pparam.Ident.Literal); dup {
				return nil, diag.Sourcef(file, pparam.Ident.Span, "redefinition of variable '%s'", pparam.Ident.Literal)
			}
			typeIdx := tf.findType(pparam.Type.Ident.Literal)
			if typeIdx == NONE {
				return nil, diag.Sourcef(file, pparam.Type.Ident.Span, "unknown typename '%s'", pparam.Type.Ident.Literal)
			}
			vi := len(tf.Variables)
			tf.Variables = append(tf.Variables, Variable{Ident: pparam.Ident.Literal, Type: typeIdx})
			tf.Scopes[fnScope].Vars = append(tf.Scopes[fnScope].Vars, vi)
		}

		returnType := tf.findType("u0")
		if pfun.HasReturnType {
			returnType = tf.findType(pfun.ReturnType.Ident.Literal)
			if returnType == NONE {
				return nil, diag.Sourcef(file, pfun.ReturnType.Ident.Span, "unknown typename '%s'", pfun.ReturnType.Ident.Literal)
			}
		}

		body, err := checkBlock(tf, file, fnScope, &pfun.Body, returnType)
		if err != nil {
			return nil, err
		}

		tf.Funs = append(tf.Funs, Fun{Scope: fnScope, Ident: pfun.Ident.Literal, ReturnType: returnType, Body: *body})
	}

	return tf, nil
}

func checkFunRedefinition(tf *File, file *source.File, root int, pfun ast.Fun) error {
	for _, fi := range tf.Scopes[root].Funs {
		if tf.Funs[fi].Ident == pfun.Ident.Literal {
			return diag.Sourcef(file, pfun.Ident.Span, "redefinition of function '%s'", pfun.Ident.Literal)
		}
	}
	return nil
}

func scopeHasVar(tf *File, scope int, name string) bool {
	for _, vi := range tf.Scopes[scope].Vars {
		if tf.Variables[vi].Ident == name {
			return true
		}
	}
	return false
}

// checkBlock introduces a child scope of parentScope and checks each
// statement in order against the enclosing function's return type,
// threaded through explicitly rather than stored on the scope.
func checkBlock(tf *File, file *source.File, parentScope int, pblock *ast.Block, returnType int) (*Block, error) {
	blockScope := tf.addScope(parentScope)
	block := &Block{Scope: blockScope}

	for _, pstmt := range pblock.Statements {
		stmt, err := checkStatement(tf, file, &pstmt, returnType)
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, *stmt)
	}
	return block, nil
}

func checkStatement(tf *File, file *source.File, pstmt *ast.Statement, returnType int) (*Statement, error) {
	if !pstmt.HasExpr {
		return &Statement{HasExpr: false}, nil
	}
	number, err := checkExpression(tf, file, &pstmt.Expr, returnType)
	if err != nil {
		return nil, err
	}
	return &Statement{HasExpr: true, Number: *number}, nil
}

// checkExpression enforces numeric compatibility: the literal's bit
// width must not exceed 8 * byte_size(expected type). Sign
// reconciliation is deliberately not performed here.
func checkExpression(tf *File, file *source.File, pexpr *ast.Expression, expectedType int) (*ast.Number, error) {
	n := pexpr.NumberLit
	maxBits := 8 * tf.Types[expectedType].ByteSize
	if n.Width > maxBits {
		return nil, diag.Sourcef(file, n.Span, "size mismatch; expected %d bits but got %d bits", maxBits, n.Width)
	}
	return &n, nil
}
