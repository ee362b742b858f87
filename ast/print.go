package ast

import (
	"fmt"
	"io"
)

type treeNode struct {
	kind     string
	text     string
	children []*treeNode
}

func (n *treeNode) add(c ...*treeNode) *treeNode {
	for _, child := range c {
		if child != nil {
			n.children = append(n.children, child)
		}
	}
	return n
}

func leaf(kind, text string) *treeNode {
	return &treeNode{
		kind: kind,
		text: text,
	}
}

// PrintTree writes `cu` as a tree with ruled lines.
func PrintTree(w io.Writer, cu *CompUnit) {
	printTree(w, toTree(cu), "", "")
}

func printTree(w io.Writer, node *treeNode, ruledLine string, childRuledLinePrefix string) {
	if node.text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.kind, node.text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.kind)
	}

	num := len(node.children)
	for i, child := range node.children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

func toTree(cu *CompUnit) *treeNode {
	n := leaf("CompUnit", "")
	for _, d := range cu.Decls {
		n.add(declTree(d))
	}
	for _, f := range cu.FuncDefs {
		n.add(funcDefTree(f))
	}
	return n
}

func declTree(d *Decl) *treeNode {
	kind := "VarDecl"
	if d.Const {
		kind = "ConstDecl"
	}
	n := leaf(kind, d.Type.String())
	for _, def := range d.Defs {
		dn := leaf("Def", def.Ident)
		if def.Init != nil {
			dn.add(addTree(def.Init))
		}
		n.add(dn)
	}
	return n
}

func funcDefTree(f *FuncDef) *treeNode {
	n := leaf("FuncDef", fmt.Sprintf("%v %v", f.RetType, f.Ident))
	for _, p := range f.Params {
		n.add(leaf("FuncFParam", fmt.Sprintf("%v %v", p.Type, p.Ident)))
	}
	return n.add(blockTree(f.Body))
}

func blockTree(b *Block) *treeNode {
	n := leaf("Block", "")
	for _, item := range b.Items {
		if item.Decl != nil {
			n.add(declTree(item.Decl))
			continue
		}
		n.add(stmtTree(item.Stmt))
	}
	return n
}

func stmtTree(s Stmt) *treeNode {
	switch s := s.(type) {
	case *AssignStmt:
		return leaf("AssignStmt", s.LVal.Ident).add(addTree(s.Exp))
	case *ExpStmt:
		n := leaf("ExpStmt", "")
		if s.Exp != nil {
			n.add(addTree(s.Exp))
		}
		return n
	case *BlockStmt:
		return blockTree(s.Block)
	case *IfStmt:
		n := leaf("IfStmt", "").add(lOrTree(s.Cond), stmtTree(s.Then))
		if s.Else != nil {
			n.add(leaf("Else", "").add(stmtTree(s.Else)))
		}
		return n
	case *ReturnStmt:
		n := leaf("ReturnStmt", "")
		if s.Exp != nil {
			n.add(addTree(s.Exp))
		}
		return n
	}
	return leaf("<unknown statement>", "")
}

// The pass-through levels of the spine are elided from the tree.

func lOrTree(e *LOrExp) *treeNode {
	if e.Left == nil {
		return lAndTree(e.Right)
	}
	return leaf("LOrExp", string(e.Op)).add(lOrTree(e.Left), lAndTree(e.Right))
}

func lAndTree(e *LAndExp) *treeNode {
	if e.Left == nil {
		return eqTree(e.Right)
	}
	return leaf("LAndExp", string(e.Op)).add(lAndTree(e.Left), eqTree(e.Right))
}

func eqTree(e *EqExp) *treeNode {
	if e.Left == nil {
		return relTree(e.Right)
	}
	return leaf("EqExp", string(e.Op)).add(eqTree(e.Left), relTree(e.Right))
}

func relTree(e *RelExp) *treeNode {
	if e.Left == nil {
		return addTree(e.Right)
	}
	return leaf("RelExp", string(e.Op)).add(relTree(e.Left), addTree(e.Right))
}

func addTree(e *AddExp) *treeNode {
	if e.Left == nil {
		return mulTree(e.Right)
	}
	return leaf("AddExp", string(e.Op)).add(addTree(e.Left), mulTree(e.Right))
}

func mulTree(e *MulExp) *treeNode {
	if e.Left == nil {
		return unaryTree(e.Right)
	}
	return leaf("MulExp", string(e.Op)).add(mulTree(e.Left), unaryTree(e.Right))
}

func unaryTree(e UnaryExp) *treeNode {
	switch e := e.(type) {
	case *PrimaryUnary:
		return primaryTree(e.Primary)
	case *CallExp:
		n := leaf("CallExp", e.Ident)
		for _, arg := range e.Args {
			n.add(addTree(arg))
		}
		return n
	case *UnaryOpExp:
		return leaf("UnaryExp", string(e.Op)).add(unaryTree(e.Operand))
	}
	return leaf("<unknown expression>", "")
}

func primaryTree(e PrimaryExp) *treeNode {
	switch e := e.(type) {
	case *ParenExp:
		return leaf("ParenExp", "").add(lOrTree(e.Exp))
	case *LVal:
		return leaf("LVal", e.Ident)
	case *Number:
		if e.IsFloat {
			return leaf("Float", e.Text)
		}
		return leaf("Int", e.Text)
	}
	return leaf("<unknown expression>", "")
}
