package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/nihei9/sysyc/ast"
)

func zeroOf(typ types.Type) constant.Constant {
	if typ.Equal(types.Float) {
		return constant.NewFloat(types.Float, 0)
	}
	return constant.NewInt(types.I32, 0)
}

func (g *Generator) genGlobalDecl(d *ast.Decl) {
	typ := llType(d.Type)
	for _, def := range d.Defs {
		if _, ok := g.scopes.lookup(def.Ident); ok {
			g.report(def.Pos, "redeclaration of %v", def.Ident)
			continue
		}

		sym := &symbol{
			name:    def.Ident,
			kind:    symbolKindVar,
			typ:     typ,
			isConst: d.Const,
		}
		init := zeroOf(typ)
		if def.Init != nil {
			v := g.evalAdd(def.Init)
			init = v.llvm(typ)
			if d.Const {
				folded := v
				if typ.Equal(types.Float) {
					folded = floatConst(v.toFloat())
				} else {
					folded = intConst(v.toInt())
				}
				sym.folded = &folded
			}
		}

		glob := g.mod.NewGlobalDef(def.Ident, init)
		glob.Immutable = d.Const
		sym.value = glob
		g.scopes.declare(sym)
	}
}

func (g *Generator) genLocalDecl(d *ast.Decl) {
	typ := llType(d.Type)
	for _, def := range d.Defs {
		if _, ok := g.scopes.lookupInnermost(def.Ident); ok {
			g.report(def.Pos, "redeclaration of %v", def.Ident)
			continue
		}

		slot := g.newSlot(typ, def.Ident)
		if def.Init != nil {
			v := g.genAdd(def.Init)
			g.block.NewStore(g.convert(v, typ), slot)
		}
		g.scopes.declare(&symbol{
			name:    def.Ident,
			kind:    symbolKindVar,
			typ:     typ,
			value:   slot,
			isConst: d.Const,
		})
	}
}

func (g *Generator) genFuncDef(f *ast.FuncDef) {
	if _, ok := g.scopes.lookup(f.Ident); ok {
		g.report(f.Pos, "redeclaration of %v", f.Ident)
		return
	}

	retType := llType(f.RetType)
	params := make([]*ir.Param, len(f.Params))
	g.localNames = map[string]int{}
	for i, p := range f.Params {
		params[i] = ir.NewParam(g.localName(p.Ident), llType(p.Type))
	}
	fn := g.mod.NewFunc(f.Ident, retType, params...)

	// The function is visible in its own body.
	g.scopes.declare(&symbol{
		name:  f.Ident,
		kind:  symbolKindFunc,
		typ:   retType,
		value: fn,
	})

	g.fn = fn
	g.retType = retType
	g.entry = fn.NewBlock(g.localName("entry"))
	g.allocaCount = 0
	g.block = g.entry

	// The parameters and the top-level items of the body share a scope.
	g.scopes.push()
	for i, p := range f.Params {
		slot := g.newSlot(params[i].Typ, p.Ident+".addr")
		g.block.NewStore(params[i], slot)
		ok := g.scopes.declare(&symbol{
			name:  p.Ident,
			kind:  symbolKindVar,
			typ:   params[i].Typ,
			value: slot,
		})
		if !ok {
			g.report(p.Pos, "redeclaration of %v", p.Ident)
		}
	}
	g.genBlockItems(f.Body.Items)
	g.scopes.pop()

	if g.block.Term == nil {
		if retType.Equal(types.Void) {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(zeroOf(retType))
		}
	}

	g.fn = nil
	g.entry = nil
	g.block = nil
}
