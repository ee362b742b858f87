package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/nihei9/sysyc/ast"
)

type Option func(g *Generator)

// ModuleName sets the source file name recorded in the module.
func ModuleName(name string) Option {
	return func(g *Generator) {
		g.mod.SourceFilename = name
	}
}

// Generator lowers an AST into an LLVM IR module. A Generator is for a single compilation unit.
type Generator struct {
	mod    *ir.Module
	scopes *scopeStack
	diags  Diagnostics

	// fn is the function being generated, and retType is its return type.
	fn      *ir.Func
	retType types.Type

	// entry is the entry block of fn. Allocas are placed at its head; allocaCount of them so far.
	entry       *ir.Block
	allocaCount int

	// block is the block where instructions are appended.
	block *ir.Block

	// localNames counts the uses of each local name in fn.
	localNames map[string]int
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		mod:    ir.NewModule(),
		scopes: newScopeStack(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.declareRuntime()
	return g
}

// Generate lowers `cu` into the module. Global declarations are lowered before the functions.
// When semantic errors are found, Generate still returns the whole module together with
// a Diagnostics error.
func (g *Generator) Generate(cu *ast.CompUnit) (*ir.Module, error) {
	if cu == nil {
		return nil, fmt.Errorf("a compilation unit is nil")
	}

	for _, d := range cu.Decls {
		g.genGlobalDecl(d)
	}
	for _, f := range cu.FuncDefs {
		g.genFuncDef(f)
	}

	if len(g.diags) > 0 {
		return g.mod, g.diags
	}
	return g.mod, nil
}

func (g *Generator) Module() *ir.Module {
	return g.mod
}

func (g *Generator) Diagnostics() Diagnostics {
	return g.diags
}

func llType(t ast.BType) types.Type {
	switch t {
	case ast.BTypeFloat:
		return types.Float
	case ast.BTypeVoid:
		return types.Void
	}
	return types.I32
}

// localName makes `name` unique among the locals of the current function. The first use keeps the
// name as is, and later ones get a suffix `.n`, which no identifier can have.
func (g *Generator) localName(name string) string {
	n := g.localNames[name]
	g.localNames[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%v.%v", name, n)
}

func (g *Generator) newBlock(name string) *ir.Block {
	return g.fn.NewBlock(g.localName(name))
}

// newSlot allocates a stack slot at the head of the entry block, after the slots made so far.
func (g *Generator) newSlot(typ types.Type, name string) *ir.InstAlloca {
	slot := g.entry.NewAlloca(typ)
	slot.SetName(g.localName(name))

	insts := g.entry.Insts
	copy(insts[g.allocaCount+1:], insts[g.allocaCount:len(insts)-1])
	insts[g.allocaCount] = slot
	g.allocaCount++

	return slot
}

// ensureOpenBlock moves to a fresh block when the current one has already been terminated, as after
// a return statement. The fresh block has no predecessor.
func (g *Generator) ensureOpenBlock() {
	if g.block.Term != nil {
		g.block = g.newBlock("dead")
	}
}
