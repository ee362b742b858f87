package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/nihei9/sysyc/ast"
)

func (g *Generator) genBlockItems(items []*ast.BlockItem) {
	for _, item := range items {
		g.ensureOpenBlock()
		if item.Decl != nil {
			g.genLocalDecl(item.Decl)
			continue
		}
		g.genStmt(item.Stmt)
	}
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		g.genAssignStmt(s)
	case *ast.ExpStmt:
		if s.Exp == nil {
			return
		}
		if call, ok := bareCall(s.Exp); ok {
			g.genCall(call, true)
			return
		}
		g.genAdd(s.Exp)
	case *ast.BlockStmt:
		g.scopes.push()
		g.genBlockItems(s.Block.Items)
		g.scopes.pop()
	case *ast.IfStmt:
		g.genIfStmt(s)
	case *ast.ReturnStmt:
		g.genReturnStmt(s)
	}
}

func (g *Generator) genAssignStmt(s *ast.AssignStmt) {
	v := g.genAdd(s.Exp)

	sym, ok := g.scopes.lookup(s.LVal.Ident)
	if !ok {
		g.report(s.LVal.Pos, "undeclared identifier %v", s.LVal.Ident)
		return
	}
	if sym.kind != symbolKindVar || !sym.inMemory() {
		g.report(s.LVal.Pos, "%v is not assignable", s.LVal.Ident)
		return
	}
	if sym.isConst {
		g.report(s.LVal.Pos, "cannot assign to a constant %v", s.LVal.Ident)
		return
	}
	g.block.NewStore(g.convert(v, sym.typ), sym.value)
}

// genIfStmt lowers an if statement into if_then, if_else (only when the else arm exists) and
// if_merge blocks. An arm falling through branches to if_merge.
func (g *Generator) genIfStmt(s *ast.IfStmt) {
	cond := g.ensureInt1(g.genLOr(s.Cond))

	thenBlock := g.newBlock("if_then")
	var elseBlock *ir.Block
	if s.Else != nil {
		elseBlock = g.newBlock("if_else")
	}
	mergeBlock := g.newBlock("if_merge")

	if elseBlock != nil {
		g.block.NewCondBr(cond, thenBlock, elseBlock)
	} else {
		g.block.NewCondBr(cond, thenBlock, mergeBlock)
	}

	g.block = thenBlock
	g.genStmt(s.Then)
	if g.block.Term == nil {
		g.block.NewBr(mergeBlock)
	}

	if elseBlock != nil {
		g.block = elseBlock
		g.genStmt(s.Else)
		if g.block.Term == nil {
			g.block.NewBr(mergeBlock)
		}
	}

	g.block = mergeBlock
}

func (g *Generator) genReturnStmt(s *ast.ReturnStmt) {
	if s.Exp == nil {
		if !g.retType.Equal(types.Void) {
			g.report(s.Pos, "a non-void function must return a value")
			g.block.NewRet(zeroOf(g.retType))
			return
		}
		g.block.NewRet(nil)
		return
	}

	v := g.genAdd(s.Exp)
	if g.retType.Equal(types.Void) {
		g.report(s.Pos, "a void function must not return a value")
		g.block.NewRet(nil)
		return
	}
	g.block.NewRet(g.convert(v, g.retType))
}
