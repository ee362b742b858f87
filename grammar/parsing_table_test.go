package grammar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
)

type expectedAction struct {
	ty    ActionType
	state stateNum
	prod  productionNum
}

type expectedState struct {
	acts  map[string]expectedAction
	goTos map[string]stateNum
}

func shift(s stateNum) expectedAction {
	return expectedAction{ty: ActionTypeShift, state: s}
}

func reduce(p productionNum) expectedAction {
	return expectedAction{ty: ActionTypeReduce, prod: p}
}

func accept() expectedAction {
	return expectedAction{ty: ActionTypeAccept, prod: productionNumStart}
}

func TestGenSLRParsingTable(t *testing.T) {
	gram, b, ptab := genTestTable(t, exprGrammarDefs())

	if len(b.conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", len(b.conflicts))
	}

	// Productions:
	//   1: S' → expr
	//   2: expr → expr + term
	//   3: expr → term
	//   4: term → term * factor
	//   5: term → factor
	//   6: factor → ( expr )
	//   7: factor → id
	expectedStates := []*expectedState{
		{
			acts: map[string]expectedAction{
				"(":  shift(4),
				"id": shift(5),
			},
			goTos: map[string]stateNum{
				"expr":   1,
				"term":   2,
				"factor": 3,
			},
		},
		{
			acts: map[string]expectedAction{
				SymbolNameEOF: accept(),
				"+":           shift(6),
			},
		},
		{
			acts: map[string]expectedAction{
				SymbolNameEOF: reduce(3),
				"+":           reduce(3),
				"*":           shift(7),
				")":           reduce(3),
			},
		},
		{
			acts: map[string]expectedAction{
				SymbolNameEOF: reduce(5),
				"+":           reduce(5),
				"*":           reduce(5),
				")":           reduce(5),
			},
		},
		{
			acts: map[string]expectedAction{
				"(":  shift(4),
				"id": shift(5),
			},
			goTos: map[string]stateNum{
				"expr":   8,
				"term":   2,
				"factor": 3,
			},
		},
		{
			acts: map[string]expectedAction{
				SymbolNameEOF: reduce(7),
				"+":           reduce(7),
				"*":           reduce(7),
				")":           reduce(7),
			},
		},
		{
			acts: map[string]expectedAction{
				"(":  shift(4),
				"id": shift(5),
			},
			goTos: map[string]stateNum{
				"term":   9,
				"factor": 3,
			},
		},
		{
			acts: map[string]expectedAction{
				"(":  shift(4),
				"id": shift(5),
			},
			goTos: map[string]stateNum{
				"factor": 10,
			},
		},
		{
			acts: map[string]expectedAction{
				"+": shift(6),
				")": shift(11),
			},
		},
		{
			acts: map[string]expectedAction{
				SymbolNameEOF: reduce(2),
				"+":           reduce(2),
				"*":           shift(7),
				")":           reduce(2),
			},
		},
		{
			acts: map[string]expectedAction{
				SymbolNameEOF: reduce(4),
				"+":           reduce(4),
				"*":           reduce(4),
				")":           reduce(4),
			},
		},
		{
			acts: map[string]expectedAction{
				SymbolNameEOF: reduce(6),
				"+":           reduce(6),
				"*":           reduce(6),
				")":           reduce(6),
			},
		},
	}

	if ptab.stateCount != len(expectedStates) {
		t.Fatalf("state count is mismatched; want: %v, got: %v", len(expectedStates), ptab.stateCount)
	}
	for i, eState := range expectedStates {
		t.Run(fmt.Sprintf("state #%v", i), func(t *testing.T) {
			testAction(t, gram, ptab, stateNum(i), eState)
			testGoTo(t, gram, ptab, stateNum(i), eState)
		})
	}
}

func testAction(t *testing.T, gram *Grammar, ptab *ParsingTable, state stateNum, eState *expectedState) {
	t.Helper()

	for _, term := range gram.symbolTable.terminalSymbols() {
		text, _ := gram.symbolTable.toText(term)
		ty, next, prod := ptab.getAction(state, term.num())
		eAct, ok := eState.acts[text]
		if !ok {
			if ty != ActionTypeError {
				t.Errorf("unexpected action on %v; want: %v, got: %v", text, ActionTypeError, ty)
			}
			continue
		}
		if ty != eAct.ty {
			t.Errorf("action type on %v is mismatched; want: %v, got: %v", text, eAct.ty, ty)
			continue
		}
		switch ty {
		case ActionTypeShift:
			if next != eAct.state {
				t.Errorf("next state on %v is mismatched; want: %v, got: %v", text, eAct.state, next)
			}
		case ActionTypeReduce, ActionTypeAccept:
			if prod != eAct.prod {
				t.Errorf("production on %v is mismatched; want: %v, got: %v", text, eAct.prod, prod)
			}
		}
	}
}

func testGoTo(t *testing.T, gram *Grammar, ptab *ParsingTable, state stateNum, eState *expectedState) {
	t.Helper()

	for _, nonTerm := range gram.symbolTable.nonTerminalSymbols() {
		text, _ := gram.symbolTable.toText(nonTerm)
		ty, next := ptab.getGoTo(state, nonTerm.num())
		eNext, ok := eState.goTos[text]
		if !ok {
			if ty != GoToTypeError {
				t.Errorf("unexpected goto on %v; got: %v", text, next)
			}
			continue
		}
		if ty != GoToTypeRegistered || next != eNext {
			t.Errorf("goto on %v is mismatched; want: %v, got: %v (%v)", text, eNext, next, ty)
		}
	}
}

func TestConflictResolution(t *testing.T) {
	t.Run("a shift/reduce conflict is resolved by the shift", func(t *testing.T) {
		gram, b, ptab := genTestTable(t, danglingElseDefs())

		if len(b.conflicts) != 1 {
			t.Fatalf("unexpected conflict count; want: 1, got: %v", len(b.conflicts))
		}
		c, ok := b.conflicts[0].(*shiftReduceConflict)
		if !ok {
			t.Fatalf("unexpected conflict: %T", b.conflicts[0])
		}
		elseSym, _ := gram.symbolTable.toSymbol("else")
		if c.sym != elseSym {
			t.Fatalf("unexpected conflicting symbol; want: %v, got: %v", elseSym, c.sym)
		}
		if c.resolvedBy != ResolvedByShift {
			t.Fatalf("unexpected resolution; want: %v, got: %v", ResolvedByShift, c.resolvedBy)
		}
		// else_part → ε
		if c.prodNum != 5 {
			t.Fatalf("unexpected production; want: 5, got: %v", c.prodNum)
		}
		ty, next, _ := ptab.getAction(c.state, elseSym.num())
		if ty != ActionTypeShift || next != c.nextState {
			t.Fatalf("the shift must be adopted; got: %v %v", ty, next)
		}
	})

	t.Run("a reduce/reduce conflict keeps the production registered first", func(t *testing.T) {
		gram, b, ptab := genTestTable(t, []*ProductionDef{
			def(SymbolNameStart, "s"),
			def("s", "a"),
			def("s", "b"),
			def("a", "x"),
			def("b", "x"),
		})

		if len(b.conflicts) != 1 {
			t.Fatalf("unexpected conflict count; want: 1, got: %v", len(b.conflicts))
		}
		c, ok := b.conflicts[0].(*reduceReduceConflict)
		if !ok {
			t.Fatalf("unexpected conflict: %T", b.conflicts[0])
		}
		if c.prodNum1 != 4 || c.prodNum2 != 5 {
			t.Fatalf("unexpected productions; want: 4 and 5, got: %v and %v", c.prodNum1, c.prodNum2)
		}
		if c.resolvedBy != ResolvedByProdOrder {
			t.Fatalf("unexpected resolution; want: %v, got: %v", ResolvedByProdOrder, c.resolvedBy)
		}
		eofSym, _ := gram.symbolTable.toSymbol(SymbolNameEOF)
		ty, _, prod := ptab.getAction(c.state, eofSym.num())
		if ty != ActionTypeReduce || prod != 4 {
			t.Fatalf("the reduction by the production 4 must be adopted; got: %v %v", ty, prod)
		}
	})
}

func TestCompile_SysY(t *testing.T) {
	gram, err := NewSysYGrammar()
	if err != nil {
		t.Fatal(err)
	}

	tab1, report, err := Compile(gram, EnableReporting())
	if err != nil {
		t.Fatal(err)
	}
	tab2, _, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("a table is deterministic", func(t *testing.T) {
		j1, err := json.Marshal(tab1)
		if err != nil {
			t.Fatal(err)
		}
		j2, err := json.Marshal(tab2)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(j1, j2) {
			t.Fatal("two builds of the same grammar must yield the identical table")
		}

		regram, err := NewSysYGrammar()
		if err != nil {
			t.Fatal(err)
		}
		tab3, _, err := Compile(regram)
		if err != nil {
			t.Fatal(err)
		}
		j3, err := json.Marshal(tab3)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(j1, j3) {
			t.Fatal("two grammars built from the same productions must yield the identical table")
		}
	})

	t.Run("productions are numbered in order", func(t *testing.T) {
		if len(tab1.Productions) != 82 {
			t.Fatalf("unexpected production count; want: 81, got: %v", len(tab1.Productions)-1)
		}
		expected := map[int]string{
			1:  "S' → Program",
			2:  "Program → compUnit",
			40: "stmt → if ( cond ) stmt ElsePart",
			44: "ElsePart → epsilon",
			79: "funcRParams → exp",
			81: "cond → lOrExp",
		}
		for num, text := range expected {
			if tab1.Productions[num] != text {
				t.Errorf("unexpected production #%v; want: %v, got: %v", num, text, tab1.Productions[num])
			}
		}
		if tab1.AlternativeSymbolCounts[44] != 0 {
			t.Errorf("an empty production must have no RHS symbols; got: %v", tab1.AlternativeSymbolCounts[44])
		}
	})

	t.Run("the dangling else is the only conflict", func(t *testing.T) {
		sr, rr := report.ConflictCount()
		if sr != 1 || rr != 0 {
			t.Fatalf("unexpected conflicts; want: 1 s/r and 0 r/r, got: %v s/r and %v r/r", sr, rr)
		}
		for _, s := range report.States {
			for _, c := range s.SRConflict {
				if report.Terminals[c.Symbol].Name != "else" {
					t.Fatalf("unexpected conflicting symbol: %v", report.Terminals[c.Symbol].Name)
				}
				if c.AdoptedState == nil || *c.AdoptedState != c.State {
					t.Fatalf("the shift must be adopted: %+v", c)
				}
				if report.Productions[c.Production].Text != "ElsePart → epsilon" {
					t.Fatalf("unexpected production: %v", report.Productions[c.Production].Text)
				}
			}
		}
	})

	t.Run("the initial state accepts nothing", func(t *testing.T) {
		s := report.States[tab1.InitialState]
		if s.Accept {
			t.Fatal("the initial state must not accept")
		}
		accepting := 0
		for _, s := range report.States {
			if s.Accept {
				accepting++
			}
		}
		if accepting != 1 {
			t.Fatalf("exactly one state must accept; got: %v", accepting)
		}
	})

	t.Run("a compressed table holds the same entries", func(t *testing.T) {
		ctab, _, err := Compile(gram, Compress())
		if err != nil {
			t.Fatal(err)
		}
		if !ctab.IsCompressed() || ctab.Action != nil || ctab.GoTo != nil {
			t.Fatal("a compressed table must hold only the compressed entries")
		}
		for s := 0; s < tab1.StateCount; s++ {
			for a := 0; a < tab1.TerminalCount; a++ {
				v, err := ctab.CompressedAction.Lookup(s, a)
				if err != nil {
					t.Fatal(err)
				}
				if v != tab1.Action[s*tab1.TerminalCount+a] {
					t.Fatalf("unexpected action entry [%v, %v]; want: %v, got: %v", s, a, tab1.Action[s*tab1.TerminalCount+a], v)
				}
			}
			for n := 0; n < tab1.NonTerminalCount; n++ {
				v, err := ctab.CompressedGoTo.Lookup(s, n)
				if err != nil {
					t.Fatal(err)
				}
				if v != tab1.GoTo[s*tab1.NonTerminalCount+n] {
					t.Fatalf("unexpected goto entry [%v, %v]; want: %v, got: %v", s, n, tab1.GoTo[s*tab1.NonTerminalCount+n], v)
				}
			}
		}
	})
}
