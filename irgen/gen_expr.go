package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/nihei9/sysyc/ast"
)

// An expression yields an i1 for a comparison or a logical operator, and an i32 or a float otherwise.

func (g *Generator) genLOr(e *ast.LOrExp) value.Value {
	if e.Left == nil {
		return g.genLAnd(e.Right)
	}

	lhs := g.ensureInt1(g.genLOr(e.Left))
	lhsBlock := g.block
	rhsBlock := g.newBlock("lor_rhs")
	endBlock := g.newBlock("lor_end")
	g.block.NewCondBr(lhs, endBlock, rhsBlock)

	g.block = rhsBlock
	rhs := g.ensureInt1(g.genLAnd(e.Right))
	rhsEndBlock := g.block
	g.block.NewBr(endBlock)

	g.block = endBlock
	return g.block.NewPhi(
		ir.NewIncoming(constant.True, lhsBlock),
		ir.NewIncoming(rhs, rhsEndBlock),
	)
}

func (g *Generator) genLAnd(e *ast.LAndExp) value.Value {
	if e.Left == nil {
		return g.genEq(e.Right)
	}

	lhs := g.ensureInt1(g.genLAnd(e.Left))
	lhsBlock := g.block
	rhsBlock := g.newBlock("land_rhs")
	endBlock := g.newBlock("land_end")
	g.block.NewCondBr(lhs, rhsBlock, endBlock)

	g.block = rhsBlock
	rhs := g.ensureInt1(g.genEq(e.Right))
	rhsEndBlock := g.block
	g.block.NewBr(endBlock)

	g.block = endBlock
	return g.block.NewPhi(
		ir.NewIncoming(constant.False, lhsBlock),
		ir.NewIncoming(rhs, rhsEndBlock),
	)
}

func (g *Generator) genEq(e *ast.EqExp) value.Value {
	if e.Left == nil {
		return g.genRel(e.Right)
	}
	return g.compare(e.Op, g.genEq(e.Left), g.genRel(e.Right))
}

func (g *Generator) genRel(e *ast.RelExp) value.Value {
	if e.Left == nil {
		return g.genAdd(e.Right)
	}
	return g.compare(e.Op, g.genRel(e.Left), g.genAdd(e.Right))
}

func (g *Generator) genAdd(e *ast.AddExp) value.Value {
	if e.Left == nil {
		return g.genMul(e.Right)
	}
	return g.arith(e.Op, g.genAdd(e.Left), g.genMul(e.Right))
}

func (g *Generator) genMul(e *ast.MulExp) value.Value {
	if e.Left == nil {
		return g.genUnary(e.Right)
	}
	return g.arith(e.Op, g.genMul(e.Left), g.genUnary(e.Right))
}

func (g *Generator) genUnary(e ast.UnaryExp) value.Value {
	switch e := e.(type) {
	case *ast.PrimaryUnary:
		return g.genPrimary(e.Primary)
	case *ast.CallExp:
		return g.genCall(e, false)
	case *ast.UnaryOpExp:
		v := g.genUnary(e.Operand)
		switch e.Op {
		case ast.UnaryMinus:
			return g.arith(ast.OpSub, constant.NewInt(types.I32, 0), v)
		case ast.UnaryNot:
			return g.compare(ast.OpEq, v, constant.NewInt(types.I32, 0))
		}
		return g.ensureInt32(v)
	}
	return constant.NewInt(types.I32, 0)
}

func (g *Generator) genPrimary(e ast.PrimaryExp) value.Value {
	switch e := e.(type) {
	case *ast.ParenExp:
		return g.genLOr(e.Exp)
	case *ast.Number:
		if e.IsFloat {
			return constant.NewFloat(types.Float, float64(e.Float))
		}
		return constant.NewInt(types.I32, int64(e.Int))
	case *ast.LVal:
		return g.genLVal(e)
	}
	return constant.NewInt(types.I32, 0)
}

func (g *Generator) genLVal(e *ast.LVal) value.Value {
	sym, ok := g.scopes.lookup(e.Ident)
	if !ok {
		g.report(e.Pos, "undeclared identifier %v", e.Ident)
		return constant.NewInt(types.I32, 0)
	}
	if sym.kind != symbolKindVar {
		g.report(e.Pos, "%v is not a variable", e.Ident)
		return constant.NewInt(types.I32, 0)
	}
	if !sym.inMemory() {
		return sym.value
	}
	return g.block.NewLoad(sym.typ, sym.value)
}

// genCall emits a call. Unless `discard` is true, a call of a void function is reported and yields 0.
func (g *Generator) genCall(e *ast.CallExp, discard bool) value.Value {
	sym, ok := g.scopes.lookup(e.Ident)
	if !ok {
		g.report(e.Pos, "undeclared function %v", e.Ident)
		return constant.NewInt(types.I32, 0)
	}
	fn, ok := sym.value.(*ir.Func)
	if !ok {
		g.report(e.Pos, "%v is not a function", e.Ident)
		return constant.NewInt(types.I32, 0)
	}
	if len(e.Args) != len(fn.Params) {
		g.report(e.Pos, "%v takes %v arguments but %v were given", e.Ident, len(fn.Params), len(e.Args))
		return constant.NewInt(types.I32, 0)
	}

	args := make([]value.Value, len(e.Args))
	for i, arg := range e.Args {
		v := g.genAdd(arg)
		want := fn.Params[i].Typ
		if !isScalar(want) {
			g.report(e.Pos, "the argument #%v of %v must be a pointer", i+1, e.Ident)
			v = constant.NewNull(want.(*types.PointerType))
		} else {
			v = g.convert(v, want)
		}
		args[i] = v
	}

	call := g.block.NewCall(fn, args...)
	if sym.typ.Equal(types.Void) && !discard {
		g.report(e.Pos, "a void function %v is used as a value", e.Ident)
		return constant.NewInt(types.I32, 0)
	}
	return call
}

// bareCall reports whether `e` consists of a call only.
func bareCall(e *ast.AddExp) (*ast.CallExp, bool) {
	if paren, ok := ast.UnwrapAdd(e); ok {
		lor := paren.Exp
		if lor.Left != nil || lor.Right.Left != nil || lor.Right.Right.Left != nil || lor.Right.Right.Right.Left != nil {
			return nil, false
		}
		e = lor.Right.Right.Right.Right
	}
	if e.Left != nil || e.Right.Left != nil {
		return nil, false
	}
	call, ok := e.Right.Right.(*ast.CallExp)
	return call, ok
}

func isScalar(t types.Type) bool {
	return t.Equal(types.I1) || t.Equal(types.I32) || t.Equal(types.Float)
}

func isFloat(v value.Value) bool {
	return v.Type().Equal(types.Float)
}

// ensureInt32 widens an i1 to an i32. Other values are returned as is.
func (g *Generator) ensureInt32(v value.Value) value.Value {
	if v.Type().Equal(types.I1) {
		return g.block.NewZExt(v, types.I32)
	}
	return v
}

// ensureInt1 narrows a value to an i1 by comparing it with 0.
func (g *Generator) ensureInt1(v value.Value) value.Value {
	switch {
	case v.Type().Equal(types.I1):
		return v
	case isFloat(v):
		return g.block.NewFCmp(enum.FPredUNE, v, constant.NewFloat(types.Float, 0))
	}
	return g.block.NewICmp(enum.IPredNE, v, constant.NewInt(types.I32, 0))
}

// convert converts `v` to `to` as an assignment does. A constant is converted without an instruction.
func (g *Generator) convert(v value.Value, to types.Type) value.Value {
	from := v.Type()
	if from.Equal(to) {
		return v
	}
	switch {
	case to.Equal(types.I1):
		return g.ensureInt1(v)
	case to.Equal(types.Float):
		if c, ok := v.(*constant.Int); ok && from.Equal(types.I32) {
			return constant.NewFloat(types.Float, float64(float32(c.X.Int64())))
		}
		return g.block.NewSIToFP(g.ensureInt32(v), types.Float)
	case to.Equal(types.I32):
		if from.Equal(types.I1) {
			return g.ensureInt32(v)
		}
		if c, ok := v.(*constant.Float); ok {
			f, _ := c.X.Float64()
			return constant.NewInt(types.I32, int64(int32(f)))
		}
		return g.block.NewFPToSI(v, types.I32)
	}
	return v
}

// unify widens i1 operands to i32 and, when either operand is a float, promotes both to float.
func (g *Generator) unify(l, r value.Value) (value.Value, value.Value) {
	l = g.ensureInt32(l)
	r = g.ensureInt32(r)
	if isFloat(l) || isFloat(r) {
		return g.convert(l, types.Float), g.convert(r, types.Float)
	}
	return l, r
}

func (g *Generator) arith(op ast.BinOp, l, r value.Value) value.Value {
	l, r = g.unify(l, r)
	if isFloat(l) {
		switch op {
		case ast.OpAdd:
			return g.block.NewFAdd(l, r)
		case ast.OpSub:
			return g.block.NewFSub(l, r)
		case ast.OpMul:
			return g.block.NewFMul(l, r)
		case ast.OpDiv:
			return g.block.NewFDiv(l, r)
		case ast.OpMod:
			return g.block.NewFRem(l, r)
		}
		return l
	}
	switch op {
	case ast.OpAdd:
		return g.block.NewAdd(l, r)
	case ast.OpSub:
		return g.block.NewSub(l, r)
	case ast.OpMul:
		return g.block.NewMul(l, r)
	case ast.OpDiv:
		return g.block.NewSDiv(l, r)
	case ast.OpMod:
		return g.block.NewSRem(l, r)
	}
	return l
}

var (
	intPreds = map[ast.BinOp]enum.IPred{
		ast.OpEq: enum.IPredEQ,
		ast.OpNe: enum.IPredNE,
		ast.OpLt: enum.IPredSLT,
		ast.OpGt: enum.IPredSGT,
		ast.OpLe: enum.IPredSLE,
		ast.OpGe: enum.IPredSGE,
	}
	floatPreds = map[ast.BinOp]enum.FPred{
		ast.OpEq: enum.FPredOEQ,
		ast.OpNe: enum.FPredUNE,
		ast.OpLt: enum.FPredOLT,
		ast.OpGt: enum.FPredOGT,
		ast.OpLe: enum.FPredOLE,
		ast.OpGe: enum.FPredOGE,
	}
)

func (g *Generator) compare(op ast.BinOp, l, r value.Value) value.Value {
	l, r = g.unify(l, r)
	if isFloat(l) {
		return g.block.NewFCmp(floatPreds[op], l, r)
	}
	return g.block.NewICmp(intPreds[op], l, r)
}
