// Package generator implements the x86-64 System V code generator: for
// each function in the typed tree it emits machine code bytes into the
// ELF writer's .text section. Organised as one Generator with
// per-concern emission methods, with the parameter stack-slot store
// added alongside the literal-return path the original generator
// lacked.
package generator

import (
	"github.com/mbirchal/curlc/internal/compiler/objfile"
	"github.com/mbirchal/curlc/internal/compiler/resolver"
)

// System V argument-passing registers, in order, by their 3-bit x86-64
// register number (rax=0, rcx=1, rdx=2, rbx=3, rsp=4, rbp=5, rsi=6,
// rdi=7).
var argRegs = []byte{7, 6, 2, 1} // rdi, rsi, rdx, rcx

const maxStoredParams = 4

// Generator emits a typed tree's functions into an objfile.Writer.
type Generator struct {
	obj  *objfile.Writer
	text int
}

// New creates a Generator that emits into section textSection of obj;
// each function selects that section as current before emitting.
func New(obj *objfile.Writer, textSection int) *Generator {
	return &Generator{obj: obj, text: textSection}
}

// Generate creates the .text section, generates every function in tf in
// declaration order, and returns the populated writer ready for
// objfile.Writer.Finish.
func Generate(tf *resolver.File) *objfile.Writer {
	obj := objfile.New()
	text := obj.AddSection(".text", objfile.SHT_PROGBITS, objfile.SHF_ALLOC|objfile.SHF_EXECINSTR)
	obj.SetCurrent(text)

	g := New(obj, text)
	for _, fn := range tf.Funs {
		g.genFun(tf, &fn)
	}
	return obj
}

// genFun emits one function: its global symbol, prologue, parameter
// stores, statement bodies, and epilogue.
func (g *Generator) genFun(tf *resolver.File, fn *resolver.Fun) {
	g.obj.SetCurrent(g.text)
	value := g.obj.CurrentSize()
	g.obj.AddSymbol(g.text, fn.Ident, objfile.STB_GLOBAL, objfile.STT_FUNC, value)

	g.emitPrologue()

	offset := 4
	scope := tf.Scopes[fn.Scope]
	for i, varIdx := range scope.Vars {
		if i >= maxStoredParams {
			break
		}
		v := tf.Variables[varIdx]
		typ := tf.Types[v.Type]
		g.emitParamStore(argRegs[i], offset)
		offset += typ.ByteSize
	}

	for _, stmt := range fn.Body.Statements {
		g.genStatement(&stmt)
	}

	g.emitEpilogue()
}

// emitPrologue appends "push %rbp; mov %rsp, %rbp".
func (g *Generator) emitPrologue() {
	g.obj.Append([]byte{0x55, 0x48, 0x89, 0xE5})
}

// emitEpilogue appends "pop %rbp; ret".
func (g *Generator) emitEpilogue() {
	g.obj.Append([]byte{0x5D, 0xC3})
}

// emitParamStore appends a store of argument register reg into the
// frame slot at -offset(%rbp): REX.W 89 /r with mod=01 (disp8),
// reg=reg, r/m=RBP(5).
func (g *Generator) emitParamStore(reg byte, offset int) {
	modrm := byte(0b01<<6) | (reg << 3) | 5
	disp8 := byte(-int8(offset))
	g.obj.Append([]byte{0x48, 0x89, modrm, disp8})
}

func (g *Generator) genStatement(stmt *resolver.Statement) {
	if !stmt.HasExpr {
		return
	}
	g.emitReturnLiteral(stmt.Number.Width, stmt.Number.Value)
}

// emitReturnLiteral materialises a numeric literal in %rax using the
// shortest mov-immediate encoding for its width: B8 ib ib ib ib (imm32,
// zero-extended) for widths <= 32, or REX.W B8 iq (ten bytes) for
// 64-bit literals.
func (g *Generator) emitReturnLiteral(width int, value uint64) {
	if width <= 32 {
		g.obj.Append([]byte{
			0xB8,
			byte(value),
			byte(value >> 8),
			byte(value >> 16),
			byte(value >> 24),
		})
		return
	}
	g.obj.Append([]byte{
		0x48, 0xB8,
		byte(value),
		byte(value >> 8),
		byte(value >> 16),
		byte(value >> 24),
		byte(value >> 32),
		byte(value >> 40),
		byte(value >> 48),
		byte(value >> 56),
	})
}
