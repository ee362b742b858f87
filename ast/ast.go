package ast

// Position is a 1-based location in a source.
type Position struct {
	Row int
	Col int
}

type BType int

const (
	BTypeInt BType = iota
	BTypeFloat
	BTypeVoid
)

func (t BType) String() string {
	switch t {
	case BTypeInt:
		return "int"
	case BTypeFloat:
		return "float"
	case BTypeVoid:
		return "void"
	}
	return "<unknown type>"
}

// CompUnit is the root of a program. The order within Decls and within FuncDefs follows the source.
type CompUnit struct {
	Decls    []*Decl
	FuncDefs []*FuncDef
}

type Decl struct {
	Const bool
	Type  BType
	Defs  []*Def
}

type Def struct {
	Ident string

	// Init is nil when the definition has no initializer.
	Init *AddExp
	Pos  Position
}

type FuncDef struct {
	RetType BType
	Ident   string
	Params  []*FuncFParam
	Body    *Block
	Pos     Position
}

type FuncFParam struct {
	Type  BType
	Ident string
	Pos   Position
}

type Block struct {
	Items []*BlockItem
}

// BlockItem holds either Decl or Stmt.
type BlockItem struct {
	Decl *Decl
	Stmt Stmt
}

type Stmt interface {
	stmt()
}

type AssignStmt struct {
	LVal *LVal
	Exp  *AddExp
}

// ExpStmt is an expression statement. Exp is nil for the empty statement `;`.
type ExpStmt struct {
	Exp *AddExp
}

type BlockStmt struct {
	Block *Block
}

// IfStmt is an if statement. Else is nil when the statement has no else arm.
type IfStmt struct {
	Cond *LOrExp
	Then Stmt
	Else Stmt
}

// ReturnStmt is a return statement. Exp is nil for `return;`.
type ReturnStmt struct {
	Exp *AddExp
	Pos Position
}

func (*AssignStmt) stmt() {}
func (*ExpStmt) stmt()    {}
func (*BlockStmt) stmt()  {}
func (*IfStmt) stmt()     {}
func (*ReturnStmt) stmt() {}

type BinOp string

const (
	OpNone = BinOp("")
	OpOr   = BinOp("||")
	OpAnd  = BinOp("&&")
	OpEq   = BinOp("==")
	OpNe   = BinOp("!=")
	OpLt   = BinOp("<")
	OpGt   = BinOp(">")
	OpLe   = BinOp("<=")
	OpGe   = BinOp(">=")
	OpAdd  = BinOp("+")
	OpSub  = BinOp("-")
	OpMul  = BinOp("*")
	OpDiv  = BinOp("/")
	OpMod  = BinOp("%")
)

// The binary expressions form a spine of six levels. A node of each level is either a pass-through
// node having only Right (Left is nil and Op is OpNone), or an operator node having Left of the
// same level, Op, and Right of the next level.

type LOrExp struct {
	Left  *LOrExp
	Op    BinOp
	Right *LAndExp
}

type LAndExp struct {
	Left  *LAndExp
	Op    BinOp
	Right *EqExp
}

type EqExp struct {
	Left  *EqExp
	Op    BinOp
	Right *RelExp
}

type RelExp struct {
	Left  *RelExp
	Op    BinOp
	Right *AddExp
}

type AddExp struct {
	Left  *AddExp
	Op    BinOp
	Right *MulExp
}

type MulExp struct {
	Left  *MulExp
	Op    BinOp
	Right UnaryExp
}

type UnaryExp interface {
	unaryExp()
}

type PrimaryUnary struct {
	Primary PrimaryExp
}

type CallExp struct {
	Ident string
	Args  []*AddExp
	Pos   Position
}

type UnaryOp string

const (
	UnaryPlus  = UnaryOp("+")
	UnaryMinus = UnaryOp("-")
	UnaryNot   = UnaryOp("!")
)

type UnaryOpExp struct {
	Op      UnaryOp
	Operand UnaryExp
}

func (*PrimaryUnary) unaryExp() {}
func (*CallExp) unaryExp()      {}
func (*UnaryOpExp) unaryExp()   {}

type PrimaryExp interface {
	primaryExp()
}

type ParenExp struct {
	Exp *LOrExp
}

type LVal struct {
	Ident string
	Pos   Position
}

// Number is a literal. Int is valid when IsFloat is false, and Float otherwise.
type Number struct {
	IsFloat bool
	Int     int32
	Float   float32
	Text    string
	Pos     Position
}

func (*ParenExp) primaryExp() {}
func (*LVal) primaryExp()     {}
func (*Number) primaryExp()   {}

// WrapLOr lifts an additive expression to the top of the spine through pass-through nodes.
func WrapLOr(e *AddExp) *LOrExp {
	return &LOrExp{
		Right: &LAndExp{
			Right: &EqExp{
				Right: &RelExp{
					Right: e,
				},
			},
		},
	}
}

// WrapAdd puts a logical expression at the bottom of the spine as a parenthesized primary
// expression, so that it can be used where an additive expression is expected.
func WrapAdd(e *LOrExp) *AddExp {
	return &AddExp{
		Right: &MulExp{
			Right: &PrimaryUnary{
				Primary: &ParenExp{
					Exp: e,
				},
			},
		},
	}
}

// UnwrapAdd is the inverse of WrapAdd. It reports false when `e` was not made by WrapAdd.
func UnwrapAdd(e *AddExp) (*ParenExp, bool) {
	if e == nil || e.Left != nil || e.Right == nil || e.Right.Left != nil {
		return nil, false
	}
	pu, ok := e.Right.Right.(*PrimaryUnary)
	if !ok {
		return nil, false
	}
	paren, ok := pu.Primary.(*ParenExp)
	return paren, ok
}
