package compiler

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/llir/llvm/ir"
	"github.com/nihei9/sysyc/ast"
	"github.com/nihei9/sysyc/driver"
	"github.com/nihei9/sysyc/grammar"
	"github.com/nihei9/sysyc/irgen"
	"github.com/nihei9/sysyc/lexer"
	"github.com/nihei9/sysyc/spec"
)

var (
	tabOnce sync.Once
	tab     *spec.ParsingTable
	tabErr  error
)

// Table returns the parsing table of SysY. It is built once per process.
func Table() (*spec.ParsingTable, error) {
	tabOnce.Do(func() {
		var gram *grammar.Grammar
		gram, tabErr = grammar.NewSysYGrammar()
		if tabErr != nil {
			return
		}
		tab, _, tabErr = grammar.Compile(gram)
	})
	return tab, tabErr
}

type config struct {
	tab        *spec.ParsingTable
	traceW     io.Writer
	moduleName string
}

type Option func(c *config)

// WithTable makes a compiler use `tab` instead of the built-in table. A compressed table is allowed.
func WithTable(tab *spec.ParsingTable) Option {
	return func(c *config) {
		c.tab = tab
	}
}

func Trace(w io.Writer) Option {
	return func(c *config) {
		c.traceW = w
	}
}

func ModuleName(name string) Option {
	return func(c *config) {
		c.moduleName = name
	}
}

// Result holds what the stages produced. A stage that failed leaves its output and the later ones nil.
type Result struct {
	AST    *ast.CompUnit
	Trace  []*driver.TraceEntry
	Module *ir.Module

	// Diagnostics is non-empty when IR generation reported semantic errors. Module is still set.
	Diagnostics irgen.Diagnostics
}

// Parse lexes and parses `src` into an AST.
func Parse(src io.Reader, opts ...Option) (*Result, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	if c.tab == nil {
		t, err := Table()
		if err != nil {
			return nil, fmt.Errorf("failed to build the parsing table: %w", err)
		}
		c.tab = t
	}
	lexSpec, err := lexer.DefaultSpec()
	if err != nil {
		return nil, err
	}

	gram := driver.NewGrammar(c.tab)
	toks, err := driver.NewTokenStream(gram, lexSpec, src)
	if err != nil {
		return nil, err
	}
	semAct, err := driver.NewASTActionSet(gram)
	if err != nil {
		return nil, err
	}
	popts := []driver.ParserOption{
		driver.SemanticAction(semAct),
	}
	if c.traceW != nil {
		popts = append(popts, driver.Trace(c.traceW))
	}
	p, err := driver.NewParser(toks, gram, popts...)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = p.Parse()
	res.Trace = p.TraceEntries()
	if err != nil {
		return res, err
	}
	res.AST = semAct.AST()

	return res, nil
}

// Compile parses `src` and lowers it into LLVM IR. Semantic errors don't make Compile fail; they
// are returned in Result.Diagnostics.
func Compile(src io.Reader, opts ...Option) (*Result, error) {
	res, err := Parse(src, opts...)
	if err != nil {
		return res, err
	}

	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	var gopts []irgen.Option
	if c.moduleName != "" {
		gopts = append(gopts, irgen.ModuleName(c.moduleName))
	}
	mod, err := irgen.NewGenerator(gopts...).Generate(res.AST)
	res.Module = mod
	if err != nil {
		var diags irgen.Diagnostics
		if !errors.As(err, &diags) {
			return res, err
		}
		res.Diagnostics = diags
	}

	return res, nil
}
