package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/sysyc/compressor"
	"github.com/nihei9/sysyc/spec"
)

// ProductionDef is a production written with symbol names. An RHS that is empty or consists of
// SymbolNameEpsilon alone derives the empty string.
type ProductionDef struct {
	LHS string
	RHS []string
}

func (d *ProductionDef) isEmpty() bool {
	return len(d.RHS) == 0 || (len(d.RHS) == 1 && d.RHS[0] == SymbolNameEpsilon)
}

func (d *ProductionDef) String() string {
	if d.isEmpty() {
		return productionText(d.LHS, nil)
	}
	return productionText(d.LHS, d.RHS)
}

func productionText(lhs string, rhs []string) string {
	if len(rhs) == 0 {
		return fmt.Sprintf("%v → %v", lhs, SymbolNameEpsilon)
	}
	return fmt.Sprintf("%v → %v", lhs, strings.Join(rhs, " "))
}

type Grammar struct {
	productionSet        *productionSet
	augmentedStartSymbol symbol
	symbolTable          *symbolTable
}

// NewGrammar builds a grammar from `defs`. The first production must be the augmented start
// production `S' → X`. Every LHS name is a non-terminal and every other RHS name is a terminal.
// Productions are numbered in the order of `defs` starting from 1.
func NewGrammar(defs []*ProductionDef) (*Grammar, error) {
	if len(defs) == 0 {
		return nil, semErrNoProduction
	}
	if defs[0].LHS != SymbolNameStart || len(defs[0].RHS) != 1 {
		return nil, fmt.Errorf("%w: %v", semErrInvalidStartProduction, defs[0])
	}

	symTab := newSymbolTable()
	for _, def := range defs {
		if def.LHS == SymbolNameEOF || def.LHS == SymbolNameEpsilon {
			return nil, fmt.Errorf("%w: %v", semErrReservedName, def.LHS)
		}
		if def.LHS == SymbolNameStart && def != defs[0] {
			return nil, fmt.Errorf("%w: %v", semErrInvalidStartProduction, def)
		}
		_, err := symTab.registerNonTerminalSymbol(def.LHS)
		if err != nil {
			return nil, err
		}
	}

	prods := newProductionSet()
	for _, def := range defs {
		lhs, _ := symTab.toSymbol(def.LHS)

		var rhs []symbol
		if !def.isEmpty() {
			rhs = make([]symbol, 0, len(def.RHS))
			for _, name := range def.RHS {
				switch name {
				case SymbolNameEpsilon:
					return nil, fmt.Errorf("%w: %v", semErrMisplacedEpsilon, def)
				case SymbolNameEOF, SymbolNameStart:
					return nil, fmt.Errorf("%w: %v", semErrReservedName, name)
				}

				sym, ok := symTab.toSymbol(name)
				if !ok || !sym.isNonTerminal() {
					var err error
					sym, err = symTab.registerTerminalSymbol(name)
					if err != nil {
						return nil, err
					}
				}
				rhs = append(rhs, sym)
			}
		}

		p, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if !prods.append(p) {
			return nil, fmt.Errorf("%w: %v", semErrDuplicateProduction, def)
		}
	}

	err := checkReachability(prods, symTab)
	if err != nil {
		return nil, err
	}

	return &Grammar{
		productionSet:        prods,
		augmentedStartSymbol: symbolStart,
		symbolTable:          symTab,
	}, nil
}

func checkReachability(prods *productionSet, symTab *symbolTable) error {
	reached := map[symbol]struct{}{
		symbolStart: {},
	}
	unchecked := []symbol{symbolStart}
	for len(unchecked) > 0 {
		var next []symbol
		for _, sym := range unchecked {
			ps, _ := prods.findByLHS(sym)
			for _, p := range ps {
				for _, s := range p.rhs {
					if !s.isNonTerminal() {
						continue
					}
					if _, ok := reached[s]; ok {
						continue
					}
					reached[s] = struct{}{}
					next = append(next, s)
				}
			}
		}
		unchecked = next
	}

	for _, sym := range symTab.nonTerminalSymbols() {
		if _, ok := reached[sym]; ok {
			continue
		}
		text, _ := symTab.toText(sym)
		return fmt.Errorf("%w: %v", semErrUnusedProduction, text)
	}
	return nil
}

func (g *Grammar) productionText(p *production) string {
	lhs, _ := g.symbolTable.toText(p.lhs)
	rhs := make([]string, len(p.rhs))
	for i, sym := range p.rhs {
		rhs[i], _ = g.symbolTable.toText(sym)
	}
	return productionText(lhs, rhs)
}

type compileConfig struct {
	isReportingEnabled bool
	compress           bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compress makes Compile store ACTION and GOTO in the compressed form.
func Compress() CompileOption {
	return func(config *compileConfig) {
		config.compress = true
	}
}

func Compile(gram *Grammar, opts ...CompileOption) (*spec.ParsingTable, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	terms := gram.symbolTable.terminalTexts()
	nonTerms := gram.symbolTable.nonTerminalTexts()

	firstSet, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}

	followSet, err := genFollowSet(gram.productionSet, firstSet)
	if err != nil {
		return nil, nil, err
	}

	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		return nil, nil, err
	}

	var tab *ParsingTable
	var report *spec.Report
	{
		slr1, err := genSLR1Automaton(lr0, gram.productionSet, followSet)
		if err != nil {
			return nil, nil, err
		}

		b := &lrTableBuilder{
			automaton:    slr1.lr0Automaton,
			prods:        gram.productionSet,
			termCount:    len(terms),
			nonTermCount: len(nonTerms),
			symTab:       gram.symbolTable,
		}
		tab, err = b.build()
		if err != nil {
			return nil, nil, err
		}

		if config.isReportingEnabled {
			report, err = b.genReport(tab, gram)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	action := make([]int, len(tab.actionTable))
	for i, e := range tab.actionTable {
		action[i] = int(e)
	}
	goTo := make([]int, len(tab.goToTable))
	for i, e := range tab.goToTable {
		goTo[i] = int(e)
	}

	allProds := gram.productionSet.getAllProductions()
	lhsSyms := make([]int, len(allProds)+1)
	altSymCounts := make([]int, len(allProds)+1)
	prodTexts := make([]string, len(allProds)+1)
	for _, p := range allProds {
		lhsSyms[p.num] = p.lhs.num().Int()
		altSymCounts[p.num] = p.rhsLen
		prodTexts[p.num] = gram.productionText(p)
	}

	ptab := &spec.ParsingTable{
		StateCount:              tab.stateCount,
		InitialState:            tab.InitialState.Int(),
		StartProduction:         productionNumStart.Int(),
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Productions:             prodTexts,
		Terminals:               terms,
		TerminalCount:           tab.terminalCount,
		NonTerminals:            nonTerms,
		NonTerminalCount:        tab.nonTerminalCount,
		EOFSymbol:               symbolEOF.num().Int(),
	}
	if config.compress {
		ptab.CompressedAction, err = compressTable(action, tab.terminalCount)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compress the action table: %w", err)
		}
		ptab.CompressedGoTo, err = compressTable(goTo, tab.nonTerminalCount)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compress the goto table: %w", err)
		}
	} else {
		ptab.Action = action
		ptab.GoTo = goTo
	}

	return ptab, report, nil
}

func compressTable(entries []int, colCount int) (*compressor.LayeredTable, error) {
	orig, err := compressor.NewOriginalTable(entries, colCount)
	if err != nil {
		return nil, err
	}
	tab := compressor.NewLayeredTable(0)
	err = tab.Compress(orig)
	if err != nil {
		return nil, err
	}
	return tab, nil
}
