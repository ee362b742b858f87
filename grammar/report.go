package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/sysyc/spec"
)

func (b *lrTableBuilder) genReport(tab *ParsingTable, gram *Grammar) (*spec.Report, error) {
	var terms []*spec.Terminal
	{
		termSyms := b.symTab.terminalSymbols()
		terms = make([]*spec.Terminal, len(termSyms)+1)
		for _, sym := range termSyms {
			name, ok := b.symTab.toText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate terminals: symbol not found: %v", sym)
			}
			terms[sym.num()] = &spec.Terminal{
				Number: sym.num().Int(),
				Name:   name,
			}
		}
	}

	var nonTerms []*spec.NonTerminal
	{
		nonTermSyms := b.symTab.nonTerminalSymbols()
		nonTerms = make([]*spec.NonTerminal, len(nonTermSyms)+1)
		for _, sym := range nonTermSyms {
			name, ok := b.symTab.toText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate non-terminals: symbol not found: %v", sym)
			}
			nonTerms[sym.num()] = &spec.NonTerminal{
				Number: sym.num().Int(),
				Name:   name,
			}
		}
	}

	var prods []*spec.Production
	{
		ps := gram.productionSet.getAllProductions()
		prods = make([]*spec.Production, len(ps)+1)
		for _, p := range ps {
			rhs := make([]int, len(p.rhs))
			for i, e := range p.rhs {
				if e.isTerminal() {
					rhs[i] = e.num().Int()
				} else {
					rhs[i] = e.num().Int() * -1
				}
			}
			prods[p.num.Int()] = &spec.Production{
				Number: p.num.Int(),
				LHS:    p.lhs.num().Int(),
				RHS:    rhs,
				Text:   gram.productionText(p),
			}
		}
	}

	srConflicts := map[stateNum][]*shiftReduceConflict{}
	rrConflicts := map[stateNum][]*reduceReduceConflict{}
	for _, con := range b.conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			srConflicts[c.state] = append(srConflicts[c.state], c)
		case *reduceReduceConflict:
			rrConflicts[c.state] = append(rrConflicts[c.state], c)
		}
	}

	states := make([]*spec.State, len(b.automaton.order))
	for _, s := range b.automaton.order {
		kernel := make([]*spec.Item, len(s.items))
		for i, item := range s.items {
			kernel[i] = &spec.Item{
				Production: item.prodNum.Int(),
				Dot:        item.dot,
			}
		}

		state := &spec.State{
			Number:     s.num.Int(),
			Kernel:     kernel,
			SRConflict: []*spec.SRConflict{},
			RRConflict: []*spec.RRConflict{},
		}

	TERMINALS_LOOP:
		for _, t := range b.symTab.terminalSymbols() {
			act, next, prod := tab.getAction(s.num, t.num())
			switch act {
			case ActionTypeShift:
				state.Shift = append(state.Shift, &spec.Transition{
					Symbol: t.num().Int(),
					State:  next.Int(),
				})
			case ActionTypeAccept:
				state.Accept = true
			case ActionTypeReduce:
				for _, r := range state.Reduce {
					if r.Production == prod.Int() {
						r.LookAhead = append(r.LookAhead, t.num().Int())
						continue TERMINALS_LOOP
					}
				}
				state.Reduce = append(state.Reduce, &spec.Reduce{
					LookAhead:  []int{t.num().Int()},
					Production: prod.Int(),
				})
			}
		}
		for _, n := range b.symTab.nonTerminalSymbols() {
			ty, next := tab.getGoTo(s.num, n.num())
			if ty == GoToTypeRegistered {
				state.GoTo = append(state.GoTo, &spec.Transition{
					Symbol: n.num().Int(),
					State:  next.Int(),
				})
			}
		}
		sort.Slice(state.Shift, func(i, j int) bool {
			return state.Shift[i].State < state.Shift[j].State
		})
		sort.Slice(state.Reduce, func(i, j int) bool {
			return state.Reduce[i].Production < state.Reduce[j].Production
		})
		sort.Slice(state.GoTo, func(i, j int) bool {
			return state.GoTo[i].State < state.GoTo[j].State
		})

		for _, c := range srConflicts[s.num] {
			conflict := &spec.SRConflict{
				Symbol:     c.sym.num().Int(),
				State:      c.nextState.Int(),
				Production: c.prodNum.Int(),
				ResolvedBy: c.resolvedBy.Int(),
			}
			ty, next, p := tab.getAction(s.num, c.sym.num())
			switch ty {
			case ActionTypeShift:
				n := next.Int()
				conflict.AdoptedState = &n
			case ActionTypeReduce, ActionTypeAccept:
				n := p.Int()
				conflict.AdoptedProduction = &n
			}
			state.SRConflict = append(state.SRConflict, conflict)
		}
		sort.SliceStable(state.SRConflict, func(i, j int) bool {
			return state.SRConflict[i].Symbol < state.SRConflict[j].Symbol
		})

		for _, c := range rrConflicts[s.num] {
			_, _, p := tab.getAction(s.num, c.sym.num())
			state.RRConflict = append(state.RRConflict, &spec.RRConflict{
				Symbol:            c.sym.num().Int(),
				Production1:       c.prodNum1.Int(),
				Production2:       c.prodNum2.Int(),
				AdoptedProduction: p.Int(),
				ResolvedBy:        c.resolvedBy.Int(),
			})
		}
		sort.SliceStable(state.RRConflict, func(i, j int) bool {
			return state.RRConflict[i].Symbol < state.RRConflict[j].Symbol
		})

		states[s.num.Int()] = state
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}
