package grammar

func def(lhs string, rhs ...string) *ProductionDef {
	return &ProductionDef{
		LHS: lhs,
		RHS: rhs,
	}
}

// SysYProductions returns the productions of the SysY subset in the order they are numbered.
// The first one is the augmented start production.
func SysYProductions() []*ProductionDef {
	return []*ProductionDef{
		def(SymbolNameStart, "Program"),
		def("Program", "compUnit"),
		def("compUnit", "compUnit", "element"),
		def("compUnit", "element"),
		def("element", "decl"),
		def("element", "funcDef"),

		def("decl", "constDecl"),
		def("decl", "varDecl"),

		def("constDecl", "const", "bType", "constDefList", ";"),
		def("constDefList", "constDefList", ",", "constDef"),
		def("constDefList", "constDef"),

		def("bType", "int"),
		def("bType", "float"),

		def("constDef", "Ident", "=", "constInitVal"),
		def("constInitVal", "constExp"),

		def("varDecl", "bType", "varDefList", ";"),
		def("varDefList", "varDefList", ",", "varDef"),
		def("varDefList", "varDef"),

		def("varDef", "Ident"),
		def("varDef", "Ident", "=", "initVal"),
		def("initVal", "exp"),

		def("funcDef", "funcType", "Ident", "(", ")", "block"),
		def("funcDef", "bType", "Ident", "(", ")", "block"),
		def("funcDef", "funcType", "Ident", "(", "funcFParams", ")", "block"),
		def("funcDef", "bType", "Ident", "(", "funcFParams", ")", "block"),

		def("funcType", "void"),
		def("funcFParams", "funcFParams", ",", "funcFParam"),
		def("funcFParams", "funcFParam"),
		def("funcFParam", "bType", "Ident"),

		def("block", "{", "blockItemList", "}"),
		def("block", "{", "}"),
		def("blockItemList", "blockItemList", "blockItem"),
		def("blockItemList", "blockItem"),
		def("blockItem", "decl"),
		def("blockItem", "stmt"),

		def("stmt", "lVal", "=", "exp", ";"),
		def("stmt", "exp", ";"),
		def("stmt", ";"),
		def("stmt", "block"),
		def("stmt", "if", "(", "cond", ")", "stmt", "ElsePart"),
		def("stmt", "return", "exp", ";"),
		def("stmt", "return", ";"),

		def("ElsePart", "else", "stmt"),
		def("ElsePart", SymbolNameEpsilon),

		def("lVal", "Ident"),
		def("exp", "lOrExp"),
		def("lOrExp", "lAndExp"),
		def("lOrExp", "lOrExp", "||", "lAndExp"),
		def("lAndExp", "eqExp"),
		def("lAndExp", "lAndExp", "&&", "eqExp"),
		def("eqExp", "relExp"),
		def("eqExp", "eqExp", "==", "relExp"),
		def("eqExp", "eqExp", "!=", "relExp"),
		def("relExp", "addExp"),
		def("relExp", "relExp", "<", "addExp"),
		def("relExp", "relExp", ">", "addExp"),
		def("relExp", "relExp", "<=", "addExp"),
		def("relExp", "relExp", ">=", "addExp"),
		def("addExp", "mulExp"),
		def("addExp", "addExp", "+", "mulExp"),
		def("addExp", "addExp", "-", "mulExp"),
		def("mulExp", "unaryExp"),
		def("mulExp", "mulExp", "*", "unaryExp"),
		def("mulExp", "mulExp", "/", "unaryExp"),
		def("mulExp", "mulExp", "%", "unaryExp"),
		def("unaryExp", "primaryExp"),
		def("unaryExp", "unaryOp", "unaryExp"),
		def("unaryExp", "Ident", "(", ")"),
		def("unaryExp", "Ident", "(", "funcRParams", ")"),
		def("primaryExp", "(", "exp", ")"),
		def("primaryExp", "lVal"),
		def("primaryExp", "number"),
		def("number", "IntConst"),
		def("number", "floatConst"),
		def("unaryOp", "+"),
		def("unaryOp", "-"),
		def("unaryOp", "!"),
		def("funcRParams", "exp", ",", "funcRParams"),
		def("funcRParams", "exp"),
		def("constExp", "addExp"),
		def("cond", "lOrExp"),
	}
}

func NewSysYGrammar() (*Grammar, error) {
	return NewGrammar(SysYProductions())
}
