package driver

import (
	"strings"
	"testing"

	"github.com/nihei9/sysyc/ast"
	"github.com/nihei9/sysyc/grammar"
	"github.com/nihei9/sysyc/lexer"
	"github.com/nihei9/sysyc/spec"
)

func compileSysY(t *testing.T, opts ...grammar.CompileOption) *spec.ParsingTable {
	t.Helper()

	gram, err := grammar.NewSysYGrammar()
	if err != nil {
		t.Fatal(err)
	}
	tab, _, err := grammar.Compile(gram, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

type parseResult struct {
	cu    *ast.CompUnit
	trace []*TraceEntry
	err   error
}

func parse(t *testing.T, tab *spec.ParsingTable, src string, traceW *strings.Builder) *parseResult {
	t.Helper()

	lexSpec, err := lexer.DefaultSpec()
	if err != nil {
		t.Fatal(err)
	}
	gram := NewGrammar(tab)
	toks, err := NewTokenStream(gram, lexSpec, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	semAct, err := NewASTActionSet(gram)
	if err != nil {
		t.Fatal(err)
	}
	opts := []ParserOption{
		SemanticAction(semAct),
	}
	if traceW != nil {
		opts = append(opts, Trace(traceW))
	}
	p, err := NewParser(toks, gram, opts...)
	if err != nil {
		t.Fatal(err)
	}
	err = p.Parse()
	return &parseResult{
		cu:    semAct.AST(),
		trace: p.TraceEntries(),
		err:   err,
	}
}

func findProduction(t *testing.T, gram Grammar, text string) int {
	t.Helper()

	for prod := 1; prod <= gram.ProductionCount(); prod++ {
		if gram.Production(prod) == text {
			return prod
		}
	}
	t.Fatalf("a production was not found: %v", text)
	return 0
}
