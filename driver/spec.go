package driver

import "github.com/nihei9/sysyc/spec"

type Grammar interface {
	InitialState() int
	StartProduction() int

	// ProductionCount returns the number of productions. Productions are numbered from 1.
	ProductionCount() int

	// Action returns an ACTION entry: negative for a shift, positive for a reduction, and 0 for an error.
	Action(state int, terminal int) int

	// GoTo returns the next state, or 0 when no transition exists.
	GoTo(state int, lhs int) int

	AlternativeSymbolCount(prod int) int
	LHS(prod int) int
	TerminalCount() int
	EOF() int
	Terminal(terminal int) string
	NonTerminal(nonTerminal int) string
	Production(prod int) string
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	tab *spec.ParsingTable
}

// NewGrammar makes a Grammar over a compiled table. A compressed table is read transparently.
func NewGrammar(tab *spec.ParsingTable) *grammarImpl {
	return &grammarImpl{
		tab: tab,
	}
}

func (g *grammarImpl) InitialState() int {
	return g.tab.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.tab.StartProduction
}

func (g *grammarImpl) ProductionCount() int {
	return len(g.tab.Productions) - 1
}

func (g *grammarImpl) Action(state int, terminal int) int {
	if g.tab.IsCompressed() {
		act, err := g.tab.CompressedAction.Lookup(state, terminal)
		if err != nil {
			return 0
		}
		return act
	}
	if terminal < 0 || terminal >= g.tab.TerminalCount {
		return 0
	}
	return g.tab.Action[state*g.tab.TerminalCount+terminal]
}

func (g *grammarImpl) GoTo(state int, lhs int) int {
	if g.tab.IsCompressed() {
		next, err := g.tab.CompressedGoTo.Lookup(state, lhs)
		if err != nil {
			return 0
		}
		return next
	}
	if lhs < 0 || lhs >= g.tab.NonTerminalCount {
		return 0
	}
	return g.tab.GoTo[state*g.tab.NonTerminalCount+lhs]
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.tab.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.tab.LHSSymbols[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.tab.TerminalCount
}

func (g *grammarImpl) EOF() int {
	return g.tab.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.tab.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.tab.NonTerminals[nonTerminal]
}

func (g *grammarImpl) Production(prod int) string {
	return g.tab.Productions[prod]
}
