package irgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/nihei9/sysyc/ast"
	"github.com/nihei9/sysyc/driver"
	"github.com/nihei9/sysyc/grammar"
	"github.com/nihei9/sysyc/lexer"
)

func parseSource(t *testing.T, src string) *ast.CompUnit {
	t.Helper()

	g, err := grammar.NewSysYGrammar()
	if err != nil {
		t.Fatal(err)
	}
	tab, _, err := grammar.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	lexSpec, err := lexer.DefaultSpec()
	if err != nil {
		t.Fatal(err)
	}
	gram := driver.NewGrammar(tab)
	toks, err := driver.NewTokenStream(gram, lexSpec, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	semAct, err := driver.NewASTActionSet(gram)
	if err != nil {
		t.Fatal(err)
	}
	p, err := driver.NewParser(toks, gram, driver.SemanticAction(semAct))
	if err != nil {
		t.Fatal(err)
	}
	err = p.Parse()
	if err != nil {
		t.Fatalf("failed to parse a source: %v", err)
	}
	return semAct.AST()
}

// generate lowers `src` and returns the module and the diagnostics.
func generate(t *testing.T, src string) (*ir.Module, Diagnostics) {
	t.Helper()

	mod, err := NewGenerator().Generate(parseSource(t, src))
	if err == nil {
		return mod, nil
	}
	var diags Diagnostics
	if !errors.As(err, &diags) {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod == nil {
		t.Fatalf("a module must be returned even when diagnostics are reported")
	}
	return mod, diags
}

func mustGenerate(t *testing.T, src string) *ir.Module {
	t.Helper()

	mod, diags := generate(t, src)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics:\n%v", diags)
	}
	return mod
}

func findFunc(t *testing.T, mod *ir.Module, name string) *ir.Func {
	t.Helper()

	for _, f := range mod.Funcs {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("a function was not found: %v", name)
	return nil
}

func findGlobal(t *testing.T, mod *ir.Module, name string) *ir.Global {
	t.Helper()

	for _, g := range mod.Globals {
		if g.Name() == name {
			return g
		}
	}
	t.Fatalf("a global was not found: %v", name)
	return nil
}

func findBlock(t *testing.T, f *ir.Func, name string) *ir.Block {
	t.Helper()

	for _, b := range f.Blocks {
		if b.LocalName == name {
			return b
		}
	}
	t.Fatalf("a block was not found: %v", name)
	return nil
}

func blockNames(f *ir.Func) []string {
	names := make([]string, len(f.Blocks))
	for i, b := range f.Blocks {
		names[i] = b.LocalName
	}
	return names
}

func countInsts[T ir.Instruction](b *ir.Block) int {
	n := 0
	for _, inst := range b.Insts {
		if _, ok := inst.(T); ok {
			n++
		}
	}
	return n
}
