package driver

import (
	"fmt"
	"io"
	"strings"
)

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v: syntax error: %v", e.Row, e.Col, e.Message)
	if e.Token != nil && !e.Token.EOF() {
		fmt.Fprintf(&b, " %#v", string(e.Token.Lexeme()))
	}
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}

// InternalError reports a defect of a parsing table or a semantic action set, not of an input.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Message)
}

type TraceAction string

const (
	TraceActionMove      = TraceAction("move")
	TraceActionReduction = TraceAction("reduction")
	TraceActionAccept    = TraceAction("accept")
	TraceActionError     = TraceAction("error")
)

// TraceEntry is a step of a parse. For a move, Symbol is the shifted terminal and Lookahead is its
// lexeme. For a reduction, Symbol is the LHS of the production and Lookahead is the terminal to be read.
type TraceEntry struct {
	Step      int
	Symbol    string
	Lookahead string
	Action    TraceAction
	Message   string
}

func (e *TraceEntry) String() string {
	act := string(e.Action)
	if e.Action == TraceActionError {
		act = fmt.Sprintf("%v: %v", e.Action, e.Message)
	}
	return fmt.Sprintf("%v\t%v#%v\t%v", e.Step, e.Symbol, e.Lookahead, act)
}

type ParserOption func(p *Parser) error

func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// Trace makes a parser write a line per step to `w`.
func Trace(w io.Writer) ParserOption {
	return func(p *Parser) error {
		p.traceW = w
		return nil
	}
}

type Parser struct {
	toks       TokenStream
	gram       Grammar
	stateStack []int

	// symStack runs in parallel with stateStack. The initial state has an empty symbol.
	symStack []string

	semAct SemanticActionSet
	traceW io.Writer
	trace  []*TraceEntry
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks: toks,
		gram: gram,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse returns a *SyntaxError when the input is ill-formed and an *InternalError when the table
// or the semantic action set is inconsistent. The parser doesn't recover from any error.
func (p *Parser) Parse() error {
	p.stateStack = p.stateStack[:0]
	p.symStack = p.symStack[:0]
	p.trace = nil
	p.push(p.gram.InitialState(), "")
	tok, err := p.nextToken()
	if err != nil {
		return err
	}

	for {
		if tok.Invalid() {
			return p.syntaxError(tok, "invalid token", nil)
		}

		act := p.gram.Action(p.top(), tok.TerminalID())
		switch {
		case act < 0: // Shift
			nextState := act * -1
			term := p.gram.Terminal(tok.TerminalID())
			p.push(nextState, term)
			err := p.record(term, string(tok.Lexeme()), TraceActionMove, "")
			if err != nil {
				return err
			}
			if p.semAct != nil {
				err := p.semAct.Shift(tok)
				if err != nil {
					return err
				}
			}

			tok, err = p.nextToken()
			if err != nil {
				return err
			}
		case act > 0: // Reduce
			prodNum := act
			if prodNum == p.gram.StartProduction() {
				if !tok.EOF() {
					return &InternalError{
						Message: fmt.Sprintf("the start production was reduced before the end of input; state: %v", p.top()),
					}
				}
				err := p.record(p.topSymbol(), p.gram.Terminal(tok.TerminalID()), TraceActionAccept, "")
				if err != nil {
					return err
				}
				if p.semAct != nil {
					return p.semAct.Accept()
				}
				return nil
			}

			err := p.reduce(prodNum)
			if err != nil {
				return err
			}
			lhs := p.gram.NonTerminal(p.gram.LHS(prodNum))
			err = p.record(lhs, p.gram.Terminal(tok.TerminalID()), TraceActionReduction, "")
			if err != nil {
				return err
			}
			if p.semAct != nil {
				err := p.semAct.Reduce(prodNum)
				if err != nil {
					return err
				}
			}
		default: // Error
			return p.syntaxError(tok, "unexpected token", p.searchLookahead(p.top()))
		}
	}
}

func (p *Parser) nextToken() (VToken, error) {
	return p.toks.Next()
}

func (p *Parser) reduce(prodNum int) error {
	n := p.gram.AlternativeSymbolCount(prodNum)
	if n >= len(p.stateStack) {
		return &InternalError{
			Message: fmt.Sprintf("the state stack is too short to reduce the production #%v", prodNum),
		}
	}
	p.pop(n)
	lhs := p.gram.LHS(prodNum)
	nextState := p.gram.GoTo(p.top(), lhs)
	if nextState == 0 {
		return &InternalError{
			Message: fmt.Sprintf("no GOTO entry; state: %v, non-terminal: %v", p.top(), p.gram.NonTerminal(lhs)),
		}
	}
	p.push(nextState, p.gram.NonTerminal(lhs))
	return nil
}

func (p *Parser) syntaxError(tok VToken, msg string, expected []string) error {
	row, col := tok.Position()
	lookahead := string(tok.Lexeme())
	if tok.EOF() {
		lookahead = p.gram.Terminal(p.gram.EOF())
	}
	synErr := &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           msg,
		Token:             tok,
		ExpectedTerminals: expected,
	}
	err := p.record(p.topSymbol(), lookahead, TraceActionError, synErr.Error())
	if err != nil {
		return err
	}
	return synErr
}

func (p *Parser) record(sym, lookahead string, act TraceAction, msg string) error {
	e := &TraceEntry{
		Step:      len(p.trace) + 1,
		Symbol:    sym,
		Lookahead: lookahead,
		Action:    act,
		Message:   msg,
	}
	p.trace = append(p.trace, e)
	if p.traceW == nil {
		return nil
	}
	_, err := fmt.Fprintln(p.traceW, e)
	return err
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) topSymbol() string {
	return p.symStack[len(p.symStack)-1]
}

func (p *Parser) push(state int, sym string) {
	p.stateStack = append(p.stateStack, state)
	p.symStack = append(p.symStack, sym)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
	p.symStack = p.symStack[:len(p.symStack)-n]
}

// TraceEntries returns the steps of the last parse.
func (p *Parser) TraceEntries() []*TraceEntry {
	return p.trace
}

func (p *Parser) searchLookahead(state int) []string {
	terms := []string{}
	for term := 1; term < p.gram.TerminalCount(); term++ {
		if p.gram.Action(state, term) == 0 {
			continue
		}
		terms = append(terms, p.gram.Terminal(term))
	}

	return terms
}
