package driver

import (
	"fmt"

	"github.com/nihei9/sysyc/ast"
)

type SemanticActionSet interface {
	// Shift runs when the driver shifts a symbol onto the state stack. `tok` is a token corresponding to
	// the symbol.
	Shift(tok VToken) error

	// Reduce runs when the driver reduces an RHS of a production to its LHS. `prodNum` is a number of
	// the production.
	Reduce(prodNum int) error

	// Accept runs when the driver accepts an input.
	Accept() error
}

type valueKind int

const (
	valueKindTerminal valueKind = iota
	valueKindNode
	valueKindList
)

func (k valueKind) String() string {
	switch k {
	case valueKindTerminal:
		return "terminal"
	case valueKindNode:
		return "node"
	case valueKindList:
		return "list"
	}
	return "<unknown value>"
}

// Terminal is the semantic value of a shifted token.
type Terminal struct {
	Name string
	Text string
	Pos  ast.Position
}

// Value is an element of the semantic stack. Exactly one of a terminal, a node, and a list is held.
// A node may be nil; `ElsePart → epsilon` yields such a value.
type Value struct {
	kind valueKind
	term *Terminal
	node interface{}
	list []interface{}
}

func terminalValue(t *Terminal) *Value {
	return &Value{
		kind: valueKindTerminal,
		term: t,
	}
}

func nodeValue(n interface{}) *Value {
	return &Value{
		kind: valueKindNode,
		node: n,
	}
}

func listValue(l []interface{}) *Value {
	return &Value{
		kind: valueKindList,
		list: l,
	}
}

func (v *Value) String() string {
	switch v.kind {
	case valueKindTerminal:
		return fmt.Sprintf("terminal %v %#v", v.term.Name, v.term.Text)
	case valueKindNode:
		return fmt.Sprintf("node %T", v.node)
	}
	return fmt.Sprintf("list of %v", len(v.list))
}

func argAt(args []*Value, i int, kind valueKind) (*Value, error) {
	if i >= len(args) || args[i] == nil {
		return nil, fmt.Errorf("the value #%v is missing", i+1)
	}
	if args[i].kind != kind {
		return nil, fmt.Errorf("the value #%v must be a %v; got: %v", i+1, kind, args[i])
	}
	return args[i], nil
}

func terminalOf(args []*Value, i int) (*Terminal, error) {
	v, err := argAt(args, i, valueKindTerminal)
	if err != nil {
		return nil, err
	}
	return v.term, nil
}

func nodeOf[T any](args []*Value, i int) (T, error) {
	var zero T
	v, err := argAt(args, i, valueKindNode)
	if err != nil {
		return zero, err
	}
	n, ok := v.node.(T)
	if !ok {
		return zero, fmt.Errorf("the value #%v must be a %T; got: %v", i+1, zero, v)
	}
	return n, nil
}

func listOf[T any](args []*Value, i int) ([]T, error) {
	v, err := argAt(args, i, valueKindList)
	if err != nil {
		return nil, err
	}
	l := make([]T, len(v.list))
	for j, e := range v.list {
		n, ok := e.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("the element #%v of the value #%v must be a %T; got: %T", j+1, i+1, zero, e)
		}
		l[j] = n
	}
	return l, nil
}

type semanticStack struct {
	frames []*Value
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(v *Value) {
	s.frames = append(s.frames, v)
}

func (s *semanticStack) pop(n int) ([]*Value, error) {
	if n > len(s.frames) {
		return nil, fmt.Errorf("the semantic stack has only %v values; required: %v", len(s.frames), n)
	}
	vs := make([]*Value, n)
	copy(vs, s.frames[len(s.frames)-n:])
	s.frames = s.frames[:len(s.frames)-n]

	return vs, nil
}
