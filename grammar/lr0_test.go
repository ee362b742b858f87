package grammar

import (
	"fmt"
	"testing"
)

type expectedLRState struct {
	kernelItems    []*lrItem
	nextStates     map[symbol][]*lrItem
	reducibleProds []*production
}

func TestGenLR0Automaton(t *testing.T) {
	gram := mustNewGrammar(t, exprGrammarDefs())

	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatalf("failed to create a LR0 automaton: %v", err)
	}
	if automaton == nil {
		t.Fatalf("genLR0Automaton returns nil without any error")
	}

	initialState := automaton.states[automaton.initialState]
	if initialState == nil {
		t.Fatalf("failed to get an initial status: %v", automaton.initialState)
	}
	if initialState.num != stateNumInitial {
		t.Fatalf("the initial state must have the number %v; got: %v", stateNumInitial, initialState.num)
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym, gram.productionSet)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	expectedKernels := map[int][]*lrItem{
		0: {
			genLR0Item(SymbolNameStart, 0, "expr"),
		},
		1: {
			genLR0Item(SymbolNameStart, 1, "expr"),
			genLR0Item("expr", 1, "expr", "+", "term"),
		},
		2: {
			genLR0Item("expr", 1, "term"),
			genLR0Item("term", 1, "term", "*", "factor"),
		},
		3: {
			genLR0Item("term", 1, "factor"),
		},
		4: {
			genLR0Item("factor", 1, "(", "expr", ")"),
		},
		5: {
			genLR0Item("factor", 1, "id"),
		},
		6: {
			genLR0Item("expr", 2, "expr", "+", "term"),
		},
		7: {
			genLR0Item("term", 2, "term", "*", "factor"),
		},
		8: {
			genLR0Item("expr", 1, "expr", "+", "term"),
			genLR0Item("factor", 2, "(", "expr", ")"),
		},
		9: {
			genLR0Item("expr", 3, "expr", "+", "term"),
			genLR0Item("term", 1, "term", "*", "factor"),
		},
		10: {
			genLR0Item("term", 3, "term", "*", "factor"),
		},
		11: {
			genLR0Item("factor", 3, "(", "expr", ")"),
		},
	}

	expectedStates := []*expectedLRState{
		{
			kernelItems: expectedKernels[0],
			nextStates: map[symbol][]*lrItem{
				genSym("expr"):   expectedKernels[1],
				genSym("term"):   expectedKernels[2],
				genSym("factor"): expectedKernels[3],
				genSym("("):      expectedKernels[4],
				genSym("id"):     expectedKernels[5],
			},
		},
		{
			kernelItems: expectedKernels[1],
			nextStates: map[symbol][]*lrItem{
				genSym("+"): expectedKernels[6],
			},
			reducibleProds: []*production{
				genProd(SymbolNameStart, "expr"),
			},
		},
		{
			kernelItems: expectedKernels[2],
			nextStates: map[symbol][]*lrItem{
				genSym("*"): expectedKernels[7],
			},
			reducibleProds: []*production{
				genProd("expr", "term"),
			},
		},
		{
			kernelItems: expectedKernels[3],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("term", "factor"),
			},
		},
		{
			kernelItems: expectedKernels[4],
			nextStates: map[symbol][]*lrItem{
				genSym("expr"):   expectedKernels[8],
				genSym("term"):   expectedKernels[2],
				genSym("factor"): expectedKernels[3],
				genSym("("):      expectedKernels[4],
				genSym("id"):     expectedKernels[5],
			},
		},
		{
			kernelItems: expectedKernels[5],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("factor", "id"),
			},
		},
		{
			kernelItems: expectedKernels[6],
			nextStates: map[symbol][]*lrItem{
				genSym("term"):   expectedKernels[9],
				genSym("factor"): expectedKernels[3],
				genSym("("):      expectedKernels[4],
				genSym("id"):     expectedKernels[5],
			},
		},
		{
			kernelItems: expectedKernels[7],
			nextStates: map[symbol][]*lrItem{
				genSym("factor"): expectedKernels[10],
				genSym("("):      expectedKernels[4],
				genSym("id"):     expectedKernels[5],
			},
		},
		{
			kernelItems: expectedKernels[8],
			nextStates: map[symbol][]*lrItem{
				genSym("+"): expectedKernels[6],
				genSym(")"): expectedKernels[11],
			},
		},
		{
			kernelItems: expectedKernels[9],
			nextStates: map[symbol][]*lrItem{
				genSym("*"): expectedKernels[7],
			},
			reducibleProds: []*production{
				genProd("expr", "expr", "+", "term"),
			},
		},
		{
			kernelItems: expectedKernels[10],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("term", "term", "*", "factor"),
			},
		},
		{
			kernelItems: expectedKernels[11],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("factor", "(", "expr", ")"),
			},
		},
	}

	testLRAutomaton(t, expectedStates, automaton)
}

func TestGenLR0AutomatonWithEmptyProductions(t *testing.T) {
	gram := mustNewGrammar(t, []*ProductionDef{
		def(SymbolNameStart, "s"),
		def("s", "foo", "bar"),
		def("foo", "x"),
		def("foo"),
		def("bar", "y"),
		def("bar"),
	})

	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatalf("failed to create a LR0 automaton: %v", err)
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym, gram.productionSet)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	expectedKernels := map[int][]*lrItem{
		0: {
			genLR0Item(SymbolNameStart, 0, "s"),
		},
		1: {
			genLR0Item(SymbolNameStart, 1, "s"),
		},
		2: {
			genLR0Item("s", 1, "foo", "bar"),
		},
		3: {
			genLR0Item("foo", 1, "x"),
		},
		4: {
			genLR0Item("s", 2, "foo", "bar"),
		},
		5: {
			genLR0Item("bar", 1, "y"),
		},
	}

	expectedStates := []*expectedLRState{
		{
			kernelItems: expectedKernels[0],
			nextStates: map[symbol][]*lrItem{
				genSym("s"):   expectedKernels[1],
				genSym("foo"): expectedKernels[2],
				genSym("x"):   expectedKernels[3],
			},
			reducibleProds: []*production{
				genProd("foo"),
			},
		},
		{
			kernelItems: expectedKernels[1],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd(SymbolNameStart, "s"),
			},
		},
		{
			kernelItems: expectedKernels[2],
			nextStates: map[symbol][]*lrItem{
				genSym("bar"): expectedKernels[4],
				genSym("y"):   expectedKernels[5],
			},
			reducibleProds: []*production{
				genProd("bar"),
			},
		},
		{
			kernelItems: expectedKernels[3],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("foo", "x"),
			},
		},
		{
			kernelItems: expectedKernels[4],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("s", "foo", "bar"),
			},
		},
		{
			kernelItems: expectedKernels[5],
			nextStates:  map[symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("bar", "y"),
			},
		},
	}

	testLRAutomaton(t, expectedStates, automaton)
}

func testLRAutomaton(t *testing.T, expected []*expectedLRState, automaton *lr0Automaton) {
	if len(automaton.states) != len(expected) {
		t.Errorf("state count is mismatched; want: %v, got: %v", len(expected), len(automaton.states))
	}
	if len(automaton.order) != len(automaton.states) {
		t.Errorf("ordered states are mismatched; want: %v, got: %v", len(automaton.states), len(automaton.order))
	}

	for i, eState := range expected {
		t.Run(fmt.Sprintf("state #%v", i), func(t *testing.T) {
			k, err := newKernel(eState.kernelItems)
			if err != nil {
				t.Fatalf("failed to create a kernel item: %v", err)
			}

			state, ok := automaton.states[k.id]
			if !ok {
				t.Fatalf("a kernel was not found: %v", k.id)
			}
			if state.num.Int() != i {
				t.Errorf("unexpected state number; want: %v, got: %v", i, state.num)
			}
			if automaton.order[i] != state {
				t.Errorf("the state is placed at an unexpected position of the order")
			}

			// test look-ahead symbols
			for _, kItem := range state.items {
				if len(kItem.lookAhead.symbols) > 0 {
					t.Errorf("LR0 items cannot have look-ahead symbols: %+v", kItem)
				}
			}

			// test next states
			if len(state.next) != len(eState.nextStates) {
				t.Errorf("next state count is mismatched; want: %v, got: %v", len(eState.nextStates), len(state.next))
			}
			for eSym, eKItems := range eState.nextStates {
				nextStateKernel, err := newKernel(eKItems)
				if err != nil {
					t.Fatalf("failed to create a kernel item: %v", err)
				}
				nextState, ok := state.next[eSym]
				if !ok {
					t.Fatalf("next state was not found; state: %v, symbol: %v", state.num, eSym)
				}
				if nextState != nextStateKernel.id {
					t.Fatalf("a kernel ID of the next state is mismatched; want: %v, got: %v", nextStateKernel.id, nextState)
				}
			}

			// test reducible productions
			if len(state.reducible) != len(eState.reducibleProds) {
				t.Errorf("reducible production count is mismatched; want: %v, got: %v", len(eState.reducibleProds), len(state.reducible))
			}
			for _, eProd := range eState.reducibleProds {
				found := false
				for _, item := range state.reducible {
					if item.prod == eProd.id {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("reducible production was not found: %v", eProd.id)
				}
			}
		})
	}
}
