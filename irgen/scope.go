package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

type symbolKind int

const (
	symbolKindVar symbolKind = iota
	symbolKindFunc
)

type symbol struct {
	name string
	kind symbolKind

	// typ is the type of a variable, or the return type of a function.
	typ types.Type

	// value is an alloca or a global for a variable held in memory, an *ir.Param for a parameter
	// read directly, and an *ir.Func for a function.
	value value.Value

	isConst  bool
	isGlobal bool

	// folded is the compile-time value of a global constant. It is nil otherwise.
	folded *constValue
}

func (s *symbol) inMemory() bool {
	switch s.value.(type) {
	case *ir.InstAlloca, *ir.Global:
		return true
	}
	return false
}

type scope map[string]*symbol

// scopeStack holds the global scope at the bottom. The global scope is never popped.
type scopeStack struct {
	scopes []scope
}

func newScopeStack() *scopeStack {
	return &scopeStack{
		scopes: []scope{{}},
	}
}

func (s *scopeStack) push() {
	s.scopes = append(s.scopes, scope{})
}

func (s *scopeStack) pop() {
	if len(s.scopes) <= 1 {
		return
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *scopeStack) isGlobal() bool {
	return len(s.scopes) == 1
}

// declare adds `sym` to the innermost scope. It returns false when the scope already has the name.
func (s *scopeStack) declare(sym *symbol) bool {
	top := s.scopes[len(s.scopes)-1]
	if _, ok := top[sym.name]; ok {
		return false
	}
	sym.isGlobal = s.isGlobal()
	top[sym.name] = sym
	return true
}

// lookup searches the scopes from the innermost to the outermost.
func (s *scopeStack) lookup(name string) (*symbol, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if sym, ok := s.scopes[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (s *scopeStack) lookupInnermost(name string) (*symbol, bool) {
	sym, ok := s.scopes[len(s.scopes)-1][name]
	return sym, ok
}
