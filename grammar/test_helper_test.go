package grammar

import (
	"testing"
)

func exprGrammarDefs() []*ProductionDef {
	return []*ProductionDef{
		def(SymbolNameStart, "expr"),
		def("expr", "expr", "+", "term"),
		def("expr", "term"),
		def("term", "term", "*", "factor"),
		def("term", "factor"),
		def("factor", "(", "expr", ")"),
		def("factor", "id"),
	}
}

func mustNewGrammar(t *testing.T, defs []*ProductionDef) *Grammar {
	t.Helper()

	gram, err := NewGrammar(defs)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbolTable) testSymbolGenerator {
	return func(text string) symbol {
		t.Helper()

		sym, ok := symTab.toSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator, prods *productionSet) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}
		registered, ok := prods.findByID(prod.id)
		if !ok {
			t.Fatalf("production was not found: %v → %v", lhs, rhs)
		}

		return registered
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR0Item(prod, dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}

		return item
	}
}

func genTestTable(t *testing.T, defs []*ProductionDef) (*Grammar, *lrTableBuilder, *ParsingTable) {
	t.Helper()

	gram := mustNewGrammar(t, defs)
	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	follow, err := genFollowSet(gram.productionSet, first)
	if err != nil {
		t.Fatal(err)
	}
	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatal(err)
	}
	slr1, err := genSLR1Automaton(lr0, gram.productionSet, follow)
	if err != nil {
		t.Fatal(err)
	}
	b := &lrTableBuilder{
		automaton:    slr1.lr0Automaton,
		prods:        gram.productionSet,
		termCount:    len(gram.symbolTable.terminalTexts()),
		nonTermCount: len(gram.symbolTable.nonTerminalTexts()),
		symTab:       gram.symbolTable,
	}
	ptab, err := b.build()
	if err != nil {
		t.Fatal(err)
	}
	return gram, b, ptab
}

func danglingElseDefs() []*ProductionDef {
	return []*ProductionDef{
		def(SymbolNameStart, "stmt"),
		def("stmt", "if", "cond", "stmt", "else_part"),
		def("stmt", "other"),
		def("else_part", "else", "stmt"),
		def("else_part", SymbolNameEpsilon),
	}
}
