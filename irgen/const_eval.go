package irgen

import (
	"math"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/nihei9/sysyc/ast"
)

// constValue is a value computed at compile time. i is valid when isFloat is false, and f otherwise.
type constValue struct {
	isFloat bool
	i       int32
	f       float32
}

func intConst(i int32) constValue {
	return constValue{i: i}
}

func floatConst(f float32) constValue {
	return constValue{isFloat: true, f: f}
}

func boolConst(b bool) constValue {
	if b {
		return intConst(1)
	}
	return intConst(0)
}

func (c constValue) toFloat() float32 {
	if c.isFloat {
		return c.f
	}
	return float32(c.i)
}

func (c constValue) toInt() int32 {
	if c.isFloat {
		return int32(c.f)
	}
	return c.i
}

func (c constValue) isZero() bool {
	if c.isFloat {
		return c.f == 0
	}
	return c.i == 0
}

// llvm returns `c` as a constant of `typ`, converting it as an assignment does.
func (c constValue) llvm(typ types.Type) constant.Constant {
	if typ.Equal(types.Float) {
		return constant.NewFloat(types.Float, float64(c.toFloat()))
	}
	return constant.NewInt(types.I32, int64(c.toInt()))
}

// The evaluator folds a global initializer. Identifiers other than global constants and calls are
// reported and fold to 0.

func (g *Generator) evalAdd(e *ast.AddExp) constValue {
	if e.Left == nil {
		return g.evalMul(e.Right)
	}
	return foldArith(e.Op, g.evalAdd(e.Left), g.evalMul(e.Right))
}

func (g *Generator) evalMul(e *ast.MulExp) constValue {
	if e.Left == nil {
		return g.evalUnary(e.Right)
	}
	l := g.evalMul(e.Left)
	r := g.evalUnary(e.Right)
	if (e.Op == ast.OpDiv || e.Op == ast.OpMod) && r.isZero() {
		g.report(firstPos(e.Right), "division by zero in a constant expression")
		return intConst(0)
	}
	return foldArith(e.Op, l, r)
}

func (g *Generator) evalUnary(e ast.UnaryExp) constValue {
	switch e := e.(type) {
	case *ast.PrimaryUnary:
		return g.evalPrimary(e.Primary)
	case *ast.CallExp:
		g.report(e.Pos, "a function call %v is not allowed in a constant expression", e.Ident)
		return intConst(0)
	case *ast.UnaryOpExp:
		v := g.evalUnary(e.Operand)
		switch e.Op {
		case ast.UnaryMinus:
			if v.isFloat {
				return floatConst(-v.f)
			}
			return intConst(-v.i)
		case ast.UnaryNot:
			return boolConst(v.isZero())
		}
		return v
	}
	return intConst(0)
}

func (g *Generator) evalPrimary(e ast.PrimaryExp) constValue {
	switch e := e.(type) {
	case *ast.Number:
		if e.IsFloat {
			return floatConst(e.Float)
		}
		return intConst(e.Int)
	case *ast.ParenExp:
		return g.evalLOr(e.Exp)
	case *ast.LVal:
		sym, ok := g.scopes.lookup(e.Ident)
		if !ok {
			g.report(e.Pos, "undeclared identifier %v", e.Ident)
			return intConst(0)
		}
		if sym.folded == nil {
			g.report(e.Pos, "%v is not a constant", e.Ident)
			return intConst(0)
		}
		return *sym.folded
	}
	return intConst(0)
}

func (g *Generator) evalLOr(e *ast.LOrExp) constValue {
	if e.Left == nil {
		return g.evalLAnd(e.Right)
	}
	l := g.evalLOr(e.Left)
	r := g.evalLAnd(e.Right)
	return boolConst(!l.isZero() || !r.isZero())
}

func (g *Generator) evalLAnd(e *ast.LAndExp) constValue {
	if e.Left == nil {
		return g.evalEq(e.Right)
	}
	l := g.evalLAnd(e.Left)
	r := g.evalEq(e.Right)
	return boolConst(!l.isZero() && !r.isZero())
}

func (g *Generator) evalEq(e *ast.EqExp) constValue {
	if e.Left == nil {
		return g.evalRel(e.Right)
	}
	return foldCompare(e.Op, g.evalEq(e.Left), g.evalRel(e.Right))
}

func (g *Generator) evalRel(e *ast.RelExp) constValue {
	if e.Left == nil {
		return g.evalAdd(e.Right)
	}
	return foldCompare(e.Op, g.evalRel(e.Left), g.evalAdd(e.Right))
}

func foldArith(op ast.BinOp, l, r constValue) constValue {
	if l.isFloat || r.isFloat {
		x, y := l.toFloat(), r.toFloat()
		switch op {
		case ast.OpAdd:
			return floatConst(x + y)
		case ast.OpSub:
			return floatConst(x - y)
		case ast.OpMul:
			return floatConst(x * y)
		case ast.OpDiv:
			return floatConst(x / y)
		case ast.OpMod:
			return floatConst(float32(math.Mod(float64(x), float64(y))))
		}
		return floatConst(0)
	}
	x, y := l.i, r.i
	switch op {
	case ast.OpAdd:
		return intConst(x + y)
	case ast.OpSub:
		return intConst(x - y)
	case ast.OpMul:
		return intConst(x * y)
	case ast.OpDiv:
		return intConst(x / y)
	case ast.OpMod:
		return intConst(x % y)
	}
	return intConst(0)
}

func foldCompare(op ast.BinOp, l, r constValue) constValue {
	if l.isFloat || r.isFloat {
		x, y := l.toFloat(), r.toFloat()
		switch op {
		case ast.OpEq:
			return boolConst(x == y)
		case ast.OpNe:
			return boolConst(x != y)
		case ast.OpLt:
			return boolConst(x < y)
		case ast.OpGt:
			return boolConst(x > y)
		case ast.OpLe:
			return boolConst(x <= y)
		case ast.OpGe:
			return boolConst(x >= y)
		}
		return intConst(0)
	}
	x, y := l.i, r.i
	switch op {
	case ast.OpEq:
		return boolConst(x == y)
	case ast.OpNe:
		return boolConst(x != y)
	case ast.OpLt:
		return boolConst(x < y)
	case ast.OpGt:
		return boolConst(x > y)
	case ast.OpLe:
		return boolConst(x <= y)
	case ast.OpGe:
		return boolConst(x >= y)
	}
	return intConst(0)
}

// firstPos returns the position of the leftmost token of `e` that has one.
func firstPos(e ast.UnaryExp) ast.Position {
	switch e := e.(type) {
	case *ast.PrimaryUnary:
		switch p := e.Primary.(type) {
		case *ast.Number:
			return p.Pos
		case *ast.LVal:
			return p.Pos
		case *ast.ParenExp:
			return firstPosOfLOr(p.Exp)
		}
	case *ast.CallExp:
		return e.Pos
	case *ast.UnaryOpExp:
		return firstPos(e.Operand)
	}
	return ast.Position{}
}

func firstPosOfLOr(e *ast.LOrExp) ast.Position {
	for e.Left != nil {
		e = e.Left
	}
	land := e.Right
	for land.Left != nil {
		land = land.Left
	}
	eq := land.Right
	for eq.Left != nil {
		eq = eq.Left
	}
	rel := eq.Right
	for rel.Left != nil {
		rel = rel.Left
	}
	add := rel.Right
	for add.Left != nil {
		add = add.Left
	}
	mul := add.Right
	for mul.Left != nil {
		mul = mul.Left
	}
	return firstPos(mul.Right)
}
