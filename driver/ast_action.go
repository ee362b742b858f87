package driver

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nihei9/sysyc/ast"
)

type reduceFunc func(args []*Value) (*Value, error)

var _ SemanticActionSet = &ASTActionSet{}

// ASTActionSet builds an *ast.CompUnit. It has one rule per production, looked up by the production
// text such as `stmt → return exp ;`.
type ASTActionSet struct {
	gram     Grammar
	rules    []reduceFunc
	semStack *semanticStack
	root     *ast.CompUnit
}

// NewASTActionSet fails when `gram` contains a production that has no rule.
func NewASTActionSet(gram Grammar) (*ASTActionSet, error) {
	rules := make([]reduceFunc, gram.ProductionCount()+1)
	for prod := 1; prod <= gram.ProductionCount(); prod++ {
		if prod == gram.StartProduction() {
			continue
		}
		text := gram.Production(prod)
		r, ok := astRules[text]
		if !ok {
			return nil, fmt.Errorf("no AST rule for the production: %v", text)
		}
		rules[prod] = r
	}

	return &ASTActionSet{
		gram:     gram,
		rules:    rules,
		semStack: newSemanticStack(),
	}, nil
}

func (a *ASTActionSet) Shift(tok VToken) error {
	row, col := tok.Position()
	a.semStack.push(terminalValue(&Terminal{
		Name: a.gram.Terminal(tok.TerminalID()),
		Text: string(tok.Lexeme()),
		Pos: ast.Position{
			Row: row,
			Col: col,
		},
	}))
	return nil
}

func (a *ASTActionSet) Reduce(prodNum int) error {
	if prodNum <= 0 || prodNum >= len(a.rules) || a.rules[prodNum] == nil {
		return &InternalError{
			Message: fmt.Sprintf("no AST rule for the production #%v", prodNum),
		}
	}
	args, err := a.semStack.pop(a.gram.AlternativeSymbolCount(prodNum))
	if err != nil {
		return &InternalError{
			Message: err.Error(),
		}
	}
	v, err := a.rules[prodNum](args)
	if err != nil {
		// A rule reports a malformed literal as a syntax error located at the literal.
		var synErr *SyntaxError
		if errors.As(err, &synErr) {
			return synErr
		}
		return &InternalError{
			Message: fmt.Sprintf("%v: %v", a.gram.Production(prodNum), err),
		}
	}
	a.semStack.push(v)
	return nil
}

func (a *ASTActionSet) Accept() error {
	top, err := a.semStack.pop(1)
	if err != nil {
		return &InternalError{
			Message: err.Error(),
		}
	}
	cu, err := nodeOf[*ast.CompUnit](top, 0)
	if err != nil {
		return &InternalError{
			Message: fmt.Sprintf("the accepted value: %v", err),
		}
	}
	a.root = cu
	return nil
}

// AST returns the tree built by the last accepted input.
func (a *ASTActionSet) AST() *ast.CompUnit {
	return a.root
}

func posOf(t *Terminal) ast.Position {
	return t.Pos
}

// passThrough returns the single node of an RHS as is.
func passThrough(args []*Value) (*Value, error) {
	v, err := argAt(args, 0, valueKindNode)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func constant(n interface{}) reduceFunc {
	return func(args []*Value) (*Value, error) {
		return nodeValue(n), nil
	}
}

// singleton makes a list of one element from the node at `i`.
func singleton(i int) reduceFunc {
	return func(args []*Value) (*Value, error) {
		v, err := argAt(args, i, valueKindNode)
		if err != nil {
			return nil, err
		}
		return listValue([]interface{}{v.node}), nil
	}
}

// appendTo appends the node at `elem` to the list at 0.
func appendTo(elem int) reduceFunc {
	return func(args []*Value) (*Value, error) {
		l, err := argAt(args, 0, valueKindList)
		if err != nil {
			return nil, err
		}
		v, err := argAt(args, elem, valueKindNode)
		if err != nil {
			return nil, err
		}
		return listValue(append(l.list, v.node)), nil
	}
}

func funcDef(hasParams bool) reduceFunc {
	return func(args []*Value) (*Value, error) {
		retType, err := nodeOf[ast.BType](args, 0)
		if err != nil {
			return nil, err
		}
		id, err := terminalOf(args, 1)
		if err != nil {
			return nil, err
		}
		var params []*ast.FuncFParam
		bodyPos := 4
		if hasParams {
			params, err = listOf[*ast.FuncFParam](args, 3)
			if err != nil {
				return nil, err
			}
			bodyPos = 5
		}
		body, err := nodeOf[*ast.Block](args, bodyPos)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.FuncDef{
			RetType: retType,
			Ident:   id.Text,
			Params:  params,
			Body:    body,
			Pos:     posOf(id),
		}), nil
	}
}

func def(hasInit bool) reduceFunc {
	return func(args []*Value) (*Value, error) {
		id, err := terminalOf(args, 0)
		if err != nil {
			return nil, err
		}
		d := &ast.Def{
			Ident: id.Text,
			Pos:   posOf(id),
		}
		if hasInit {
			d.Init, err = nodeOf[*ast.AddExp](args, 2)
			if err != nil {
				return nil, err
			}
		}
		return nodeValue(d), nil
	}
}

func decl(isConst bool) reduceFunc {
	return func(args []*Value) (*Value, error) {
		offset := 0
		if isConst {
			offset = 1
		}
		ty, err := nodeOf[ast.BType](args, offset)
		if err != nil {
			return nil, err
		}
		defs, err := listOf[*ast.Def](args, offset+1)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.Decl{
			Const: isConst,
			Type:  ty,
			Defs:  defs,
		}), nil
	}
}

func call(hasArgs bool) reduceFunc {
	return func(args []*Value) (*Value, error) {
		id, err := terminalOf(args, 0)
		if err != nil {
			return nil, err
		}
		var rargs []*ast.AddExp
		if hasArgs {
			rargs, err = listOf[*ast.AddExp](args, 2)
			if err != nil {
				return nil, err
			}
		}
		return nodeValue(&ast.CallExp{
			Ident: id.Text,
			Args:  rargs,
			Pos:   posOf(id),
		}), nil
	}
}

func operatorOf(args []*Value, i int) (ast.BinOp, error) {
	t, err := terminalOf(args, i)
	if err != nil {
		return ast.OpNone, err
	}
	return ast.BinOp(t.Text), nil
}

// The spine rules. A promote rule makes a pass-through node, and an extend rule makes an operator node.

func lOrPromote(args []*Value) (*Value, error) {
	r, err := nodeOf[*ast.LAndExp](args, 0)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.LOrExp{Right: r}), nil
}

func lOrExtend(args []*Value) (*Value, error) {
	l, err := nodeOf[*ast.LOrExp](args, 0)
	if err != nil {
		return nil, err
	}
	op, err := operatorOf(args, 1)
	if err != nil {
		return nil, err
	}
	r, err := nodeOf[*ast.LAndExp](args, 2)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.LOrExp{Left: l, Op: op, Right: r}), nil
}

func lAndPromote(args []*Value) (*Value, error) {
	r, err := nodeOf[*ast.EqExp](args, 0)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.LAndExp{Right: r}), nil
}

func lAndExtend(args []*Value) (*Value, error) {
	l, err := nodeOf[*ast.LAndExp](args, 0)
	if err != nil {
		return nil, err
	}
	op, err := operatorOf(args, 1)
	if err != nil {
		return nil, err
	}
	r, err := nodeOf[*ast.EqExp](args, 2)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.LAndExp{Left: l, Op: op, Right: r}), nil
}

func eqPromote(args []*Value) (*Value, error) {
	r, err := nodeOf[*ast.RelExp](args, 0)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.EqExp{Right: r}), nil
}

func eqExtend(args []*Value) (*Value, error) {
	l, err := nodeOf[*ast.EqExp](args, 0)
	if err != nil {
		return nil, err
	}
	op, err := operatorOf(args, 1)
	if err != nil {
		return nil, err
	}
	r, err := nodeOf[*ast.RelExp](args, 2)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.EqExp{Left: l, Op: op, Right: r}), nil
}

func relPromote(args []*Value) (*Value, error) {
	r, err := nodeOf[*ast.AddExp](args, 0)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.RelExp{Right: r}), nil
}

func relExtend(args []*Value) (*Value, error) {
	l, err := nodeOf[*ast.RelExp](args, 0)
	if err != nil {
		return nil, err
	}
	op, err := operatorOf(args, 1)
	if err != nil {
		return nil, err
	}
	r, err := nodeOf[*ast.AddExp](args, 2)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.RelExp{Left: l, Op: op, Right: r}), nil
}

func addPromote(args []*Value) (*Value, error) {
	r, err := nodeOf[*ast.MulExp](args, 0)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.AddExp{Right: r}), nil
}

func addExtend(args []*Value) (*Value, error) {
	l, err := nodeOf[*ast.AddExp](args, 0)
	if err != nil {
		return nil, err
	}
	op, err := operatorOf(args, 1)
	if err != nil {
		return nil, err
	}
	r, err := nodeOf[*ast.MulExp](args, 2)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.AddExp{Left: l, Op: op, Right: r}), nil
}

func mulPromote(args []*Value) (*Value, error) {
	r, err := nodeOf[ast.UnaryExp](args, 0)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.MulExp{Right: r}), nil
}

func mulExtend(args []*Value) (*Value, error) {
	l, err := nodeOf[*ast.MulExp](args, 0)
	if err != nil {
		return nil, err
	}
	op, err := operatorOf(args, 1)
	if err != nil {
		return nil, err
	}
	r, err := nodeOf[ast.UnaryExp](args, 2)
	if err != nil {
		return nil, err
	}
	return nodeValue(&ast.MulExp{Left: l, Op: op, Right: r}), nil
}

func intNumber(args []*Value) (*Value, error) {
	t, err := terminalOf(args, 0)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(t.Text, 10, 32)
	if err != nil {
		return nil, literalError(t, "integer")
	}
	return nodeValue(&ast.Number{
		Int:  int32(n),
		Text: t.Text,
		Pos:  t.Pos,
	}), nil
}

func literalError(t *Terminal, kind string) *SyntaxError {
	return &SyntaxError{
		Row:     t.Pos.Row,
		Col:     t.Pos.Col,
		Message: fmt.Sprintf("%v literal %v is out of range", kind, t.Text),
	}
}

func floatNumber(args []*Value) (*Value, error) {
	t, err := terminalOf(args, 0)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(t.Text, 32)
	if err != nil {
		return nil, literalError(t, "float")
	}
	return nodeValue(&ast.Number{
		IsFloat: true,
		Float:   float32(f),
		Text:    t.Text,
		Pos:     t.Pos,
	}), nil
}

var astRules = map[string]reduceFunc{
	"Program → compUnit": func(args []*Value) (*Value, error) {
		elems, err := listOf[interface{}](args, 0)
		if err != nil {
			return nil, err
		}
		cu := &ast.CompUnit{}
		for _, e := range elems {
			switch e := e.(type) {
			case *ast.Decl:
				cu.Decls = append(cu.Decls, e)
			case *ast.FuncDef:
				cu.FuncDefs = append(cu.FuncDefs, e)
			default:
				return nil, fmt.Errorf("an element must be a declaration or a function definition; got: %T", e)
			}
		}
		return nodeValue(cu), nil
	},
	"compUnit → compUnit element": appendTo(1),
	"compUnit → element":          singleton(0),
	"element → decl":              passThrough,
	"element → funcDef":           passThrough,

	"decl → constDecl": passThrough,
	"decl → varDecl":   passThrough,

	"constDecl → const bType constDefList ;": decl(true),
	"constDefList → constDefList , constDef": appendTo(2),
	"constDefList → constDef":                singleton(0),

	"bType → int":   constant(ast.BTypeInt),
	"bType → float": constant(ast.BTypeFloat),

	"constDef → Ident = constInitVal": def(true),
	"constInitVal → constExp":         passThrough,

	"varDecl → bType varDefList ;":     decl(false),
	"varDefList → varDefList , varDef": appendTo(2),
	"varDefList → varDef":              singleton(0),
	"varDef → Ident":                   def(false),
	"varDef → Ident = initVal":         def(true),
	"initVal → exp":                    passThrough,

	"funcDef → funcType Ident ( ) block":             funcDef(false),
	"funcDef → bType Ident ( ) block":                funcDef(false),
	"funcDef → funcType Ident ( funcFParams ) block": funcDef(true),
	"funcDef → bType Ident ( funcFParams ) block":    funcDef(true),

	"funcType → void":                        constant(ast.BTypeVoid),
	"funcFParams → funcFParams , funcFParam": appendTo(2),
	"funcFParams → funcFParam":               singleton(0),
	"funcFParam → bType Ident": func(args []*Value) (*Value, error) {
		ty, err := nodeOf[ast.BType](args, 0)
		if err != nil {
			return nil, err
		}
		id, err := terminalOf(args, 1)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.FuncFParam{
			Type:  ty,
			Ident: id.Text,
			Pos:   posOf(id),
		}), nil
	},

	"block → { blockItemList }": func(args []*Value) (*Value, error) {
		items, err := listOf[*ast.BlockItem](args, 1)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.Block{Items: items}), nil
	},
	"block → { }": func(args []*Value) (*Value, error) {
		return nodeValue(&ast.Block{}), nil
	},
	"blockItemList → blockItemList blockItem": appendTo(1),
	"blockItemList → blockItem":               singleton(0),
	"blockItem → decl": func(args []*Value) (*Value, error) {
		d, err := nodeOf[*ast.Decl](args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.BlockItem{Decl: d}), nil
	},
	"blockItem → stmt": func(args []*Value) (*Value, error) {
		s, err := nodeOf[ast.Stmt](args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.BlockItem{Stmt: s}), nil
	},

	"stmt → lVal = exp ;": func(args []*Value) (*Value, error) {
		lv, err := nodeOf[*ast.LVal](args, 0)
		if err != nil {
			return nil, err
		}
		e, err := nodeOf[*ast.AddExp](args, 2)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.AssignStmt{LVal: lv, Exp: e}), nil
	},
	"stmt → exp ;": func(args []*Value) (*Value, error) {
		e, err := nodeOf[*ast.AddExp](args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.ExpStmt{Exp: e}), nil
	},
	"stmt → ;": func(args []*Value) (*Value, error) {
		return nodeValue(&ast.ExpStmt{}), nil
	},
	"stmt → block": func(args []*Value) (*Value, error) {
		b, err := nodeOf[*ast.Block](args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.BlockStmt{Block: b}), nil
	},
	"stmt → if ( cond ) stmt ElsePart": func(args []*Value) (*Value, error) {
		cond, err := nodeOf[*ast.LOrExp](args, 2)
		if err != nil {
			return nil, err
		}
		then, err := nodeOf[ast.Stmt](args, 4)
		if err != nil {
			return nil, err
		}
		elsePart, err := argAt(args, 5, valueKindNode)
		if err != nil {
			return nil, err
		}
		s := &ast.IfStmt{
			Cond: cond,
			Then: then,
		}
		if elsePart.node != nil {
			s.Else, err = nodeOf[ast.Stmt](args, 5)
			if err != nil {
				return nil, err
			}
		}
		return nodeValue(s), nil
	},
	"stmt → return exp ;": func(args []*Value) (*Value, error) {
		ret, err := terminalOf(args, 0)
		if err != nil {
			return nil, err
		}
		e, err := nodeOf[*ast.AddExp](args, 1)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.ReturnStmt{Exp: e, Pos: posOf(ret)}), nil
	},
	"stmt → return ;": func(args []*Value) (*Value, error) {
		ret, err := terminalOf(args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.ReturnStmt{Pos: posOf(ret)}), nil
	},

	"ElsePart → else stmt": func(args []*Value) (*Value, error) {
		s, err := nodeOf[ast.Stmt](args, 1)
		if err != nil {
			return nil, err
		}
		return nodeValue(s), nil
	},
	"ElsePart → epsilon": constant(nil),

	"lVal → Ident": func(args []*Value) (*Value, error) {
		id, err := terminalOf(args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.LVal{Ident: id.Text, Pos: posOf(id)}), nil
	},
	"exp → lOrExp": func(args []*Value) (*Value, error) {
		e, err := nodeOf[*ast.LOrExp](args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(ast.WrapAdd(e)), nil
	},

	"lOrExp → lAndExp":           lOrPromote,
	"lOrExp → lOrExp || lAndExp": lOrExtend,
	"lAndExp → eqExp":            lAndPromote,
	"lAndExp → lAndExp && eqExp": lAndExtend,
	"eqExp → relExp":             eqPromote,
	"eqExp → eqExp == relExp":    eqExtend,
	"eqExp → eqExp != relExp":    eqExtend,
	"relExp → addExp":            relPromote,
	"relExp → relExp < addExp":   relExtend,
	"relExp → relExp > addExp":   relExtend,
	"relExp → relExp <= addExp":  relExtend,
	"relExp → relExp >= addExp":  relExtend,
	"addExp → mulExp":            addPromote,
	"addExp → addExp + mulExp":   addExtend,
	"addExp → addExp - mulExp":   addExtend,
	"mulExp → unaryExp":          mulPromote,
	"mulExp → mulExp * unaryExp": mulExtend,
	"mulExp → mulExp / unaryExp": mulExtend,
	"mulExp → mulExp % unaryExp": mulExtend,

	"unaryExp → primaryExp": func(args []*Value) (*Value, error) {
		p, err := nodeOf[ast.PrimaryExp](args, 0)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.PrimaryUnary{Primary: p}), nil
	},
	"unaryExp → unaryOp unaryExp": func(args []*Value) (*Value, error) {
		op, err := nodeOf[ast.UnaryOp](args, 0)
		if err != nil {
			return nil, err
		}
		e, err := nodeOf[ast.UnaryExp](args, 1)
		if err != nil {
			return nil, err
		}
		return nodeValue(&ast.UnaryOpExp{Op: op, Operand: e}), nil
	},
	"unaryExp → Ident ( )":             call(false),
	"unaryExp → Ident ( funcRParams )": call(true),

	"primaryExp → ( exp )": func(args []*Value) (*Value, error) {
		e, err := nodeOf[*ast.AddExp](args, 1)
		if err != nil {
			return nil, err
		}
		paren, ok := ast.UnwrapAdd(e)
		if !ok {
			return nil, fmt.Errorf("a parenthesized expression must come from `exp → lOrExp`")
		}
		return nodeValue(paren), nil
	},
	"primaryExp → lVal":   passThrough,
	"primaryExp → number": passThrough,

	"number → IntConst":   intNumber,
	"number → floatConst": floatNumber,

	"unaryOp → +": constant(ast.UnaryPlus),
	"unaryOp → -": constant(ast.UnaryMinus),
	"unaryOp → !": constant(ast.UnaryNot),

	"funcRParams → exp , funcRParams": func(args []*Value) (*Value, error) {
		e, err := nodeOf[*ast.AddExp](args, 0)
		if err != nil {
			return nil, err
		}
		rest, err := argAt(args, 2, valueKindList)
		if err != nil {
			return nil, err
		}
		return listValue(append([]interface{}{e}, rest.list...)), nil
	},
	"funcRParams → exp": singleton(0),

	"constExp → addExp": passThrough,
	"cond → lOrExp":     passThrough,
}
