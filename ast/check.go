package ast

import "fmt"

// Check verifies the structural invariants of a tree: every spine node is either a pass-through
// node or a complete operator node, and no required child is missing.
func Check(cu *CompUnit) error {
	if cu == nil {
		return fmt.Errorf("a compilation unit is nil")
	}
	c := &checker{}
	for _, d := range cu.Decls {
		c.decl(d)
	}
	for _, f := range cu.FuncDefs {
		if f == nil || f.Body == nil {
			c.fail("a function definition has no body")
			continue
		}
		c.block(f.Body)
	}
	return c.err
}

type checker struct {
	err error
}

func (c *checker) fail(format string, a ...interface{}) {
	if c.err == nil {
		c.err = fmt.Errorf(format, a...)
	}
}

func (c *checker) spine(level string, hasLeft bool, op BinOp, hasRight bool) bool {
	if !hasRight {
		c.fail("%v has no right operand", level)
		return false
	}
	if hasLeft != (op != OpNone) {
		c.fail("%v has an inconsistent operator; left: %v, operator: %#v", level, hasLeft, op)
		return false
	}
	return true
}

func (c *checker) decl(d *Decl) {
	if d == nil || len(d.Defs) == 0 {
		c.fail("a declaration has no definitions")
		return
	}
	for _, def := range d.Defs {
		if d.Const && def.Init == nil {
			c.fail("a constant %v has no initializer", def.Ident)
		}
		if def.Init != nil {
			c.add(def.Init)
		}
	}
}

func (c *checker) block(b *Block) {
	for _, item := range b.Items {
		if (item.Decl == nil) == (item.Stmt == nil) {
			c.fail("a block item must hold either a declaration or a statement")
			continue
		}
		if item.Decl != nil {
			c.decl(item.Decl)
			continue
		}
		c.stmt(item.Stmt)
	}
}

func (c *checker) stmt(s Stmt) {
	switch s := s.(type) {
	case *AssignStmt:
		if s.LVal == nil || s.Exp == nil {
			c.fail("an assignment lacks an operand")
			return
		}
		c.add(s.Exp)
	case *ExpStmt:
		if s.Exp != nil {
			c.add(s.Exp)
		}
	case *BlockStmt:
		if s.Block == nil {
			c.fail("a block statement has no block")
			return
		}
		c.block(s.Block)
	case *IfStmt:
		if s.Cond == nil || s.Then == nil {
			c.fail("an if statement lacks a condition or a then arm")
			return
		}
		c.lOr(s.Cond)
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}
	case *ReturnStmt:
		if s.Exp != nil {
			c.add(s.Exp)
		}
	default:
		c.fail("unknown statement: %T", s)
	}
}

func (c *checker) lOr(e *LOrExp) {
	if !c.spine("LOrExp", e.Left != nil, e.Op, e.Right != nil) {
		return
	}
	if e.Left != nil {
		c.lOr(e.Left)
	}
	c.lAnd(e.Right)
}

func (c *checker) lAnd(e *LAndExp) {
	if !c.spine("LAndExp", e.Left != nil, e.Op, e.Right != nil) {
		return
	}
	if e.Left != nil {
		c.lAnd(e.Left)
	}
	c.eq(e.Right)
}

func (c *checker) eq(e *EqExp) {
	if !c.spine("EqExp", e.Left != nil, e.Op, e.Right != nil) {
		return
	}
	if e.Left != nil {
		c.eq(e.Left)
	}
	c.rel(e.Right)
}

func (c *checker) rel(e *RelExp) {
	if !c.spine("RelExp", e.Left != nil, e.Op, e.Right != nil) {
		return
	}
	if e.Left != nil {
		c.rel(e.Left)
	}
	c.add(e.Right)
}

func (c *checker) add(e *AddExp) {
	if !c.spine("AddExp", e.Left != nil, e.Op, e.Right != nil) {
		return
	}
	if e.Left != nil {
		c.add(e.Left)
	}
	c.mul(e.Right)
}

func (c *checker) mul(e *MulExp) {
	if !c.spine("MulExp", e.Left != nil, e.Op, e.Right != nil) {
		return
	}
	if e.Left != nil {
		c.mul(e.Left)
	}
	c.unary(e.Right)
}

func (c *checker) unary(e UnaryExp) {
	switch e := e.(type) {
	case *PrimaryUnary:
		switch p := e.Primary.(type) {
		case *ParenExp:
			if p.Exp == nil {
				c.fail("a parenthesized expression is empty")
				return
			}
			c.lOr(p.Exp)
		case *LVal, *Number:
		default:
			c.fail("unknown primary expression: %T", p)
		}
	case *CallExp:
		for _, arg := range e.Args {
			c.add(arg)
		}
	case *UnaryOpExp:
		if e.Operand == nil {
			c.fail("a unary operator has no operand")
			return
		}
		c.unary(e.Operand)
	default:
		c.fail("unknown unary expression: %T", e)
	}
}
