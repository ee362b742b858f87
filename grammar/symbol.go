package grammar

import (
	"fmt"
	"sort"
)

const (
	// SymbolNameStart is the name of the augmented start symbol.
	SymbolNameStart = "S'"

	// SymbolNameEOF is the name of the end-marker terminal.
	SymbolNameEOF = "$"

	// SymbolNameEpsilon marks an empty RHS. It is never registered as a symbol.
	SymbolNameEpsilon = "epsilon"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

type symbolNum uint16

func (n symbolNum) Int() int {
	return int(n)
}

type symbol uint16

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000
	maskNumberPart  = uint16(0x7fff) // 0111 1111 1111 1111

	symbolNil   = symbol(0)                        // 0000 0000 0000 0000
	symbolStart = symbol(maskNonTerminal | 0x0001) // 0000 0000 0000 0001
	symbolEOF   = symbol(maskTerminal | 0x0001)    // 1000 0000 0000 0001

	nonTerminalNumMin = symbolNum(2) // The number 1 is used by the start symbol.
	terminalNumMin    = symbolNum(2) // The number 1 is used by the EOF symbol.
	symbolNumMax      = symbolNum(maskNumberPart)
)

func newSymbol(kind symbolKind, num symbolNum) (symbol, error) {
	if num == 0 || num > symbolNumMax {
		return symbolNil, fmt.Errorf("a symbol number is out of range; limit: %v, passed: %v", symbolNumMax, num)
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	return symbol(kindMask | uint16(num)), nil
}

func (s symbol) num() symbolNum {
	return symbolNum(uint16(s) & maskNumberPart)
}

func (s symbol) byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s symbol) isNil() bool {
	return s == symbolNil
}

func (s symbol) isStart() bool {
	return s == symbolStart
}

func (s symbol) isEOF() bool {
	return s == symbolEOF
}

func (s symbol) isTerminal() bool {
	if s.isNil() {
		return false
	}
	return uint16(s)&maskKindPart == maskTerminal
}

func (s symbol) isNonTerminal() bool {
	if s.isNil() {
		return false
	}
	return uint16(s)&maskKindPart == maskNonTerminal
}

func (s symbol) String() string {
	var prefix string
	switch {
	case s.isNil():
		return "nil"
	case s.isStart():
		prefix = "s"
	case s.isEOF():
		prefix = "e"
	case s.isTerminal():
		prefix = "t"
	default:
		prefix = "n"
	}
	return fmt.Sprintf("%v%v", prefix, s.num())
}

type symbolTable struct {
	text2Sym     map[string]symbol
	sym2Text     map[symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   symbolNum
	termNum      symbolNum
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		text2Sym: map[string]symbol{
			SymbolNameStart: symbolStart,
			SymbolNameEOF:   symbolEOF,
		},
		sym2Text: map[symbol]string{
			symbolStart: SymbolNameStart,
			symbolEOF:   SymbolNameEOF,
		},
		nonTermTexts: []string{
			"",              // Nil
			SymbolNameStart, // Start symbol
		},
		termTexts: []string{
			"",            // Nil
			SymbolNameEOF, // EOF
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *symbolTable) registerNonTerminalSymbol(text string) (symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if !sym.isNonTerminal() {
			return symbolNil, fmt.Errorf("%v is already registered as a terminal symbol", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, t.nonTermNum)
	if err != nil {
		return symbolNil, err
	}
	t.nonTermNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	t.nonTermTexts = append(t.nonTermTexts, text)
	return sym, nil
}

func (t *symbolTable) registerTerminalSymbol(text string) (symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if !sym.isTerminal() {
			return symbolNil, fmt.Errorf("%v is already registered as a non-terminal symbol", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, t.termNum)
	if err != nil {
		return symbolNil, err
	}
	t.termNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	t.termTexts = append(t.termTexts, text)
	return sym, nil
}

func (t *symbolTable) toSymbol(text string) (symbol, bool) {
	sym, ok := t.text2Sym[text]
	return sym, ok
}

func (t *symbolTable) toText(sym symbol) (string, bool) {
	text, ok := t.sym2Text[sym]
	return text, ok
}

func (t *symbolTable) terminalSymbols() []symbol {
	syms := make([]symbol, 0, t.termNum.Int()-terminalNumMin.Int()+1)
	for sym := range t.sym2Text {
		if !sym.isTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (t *symbolTable) nonTerminalSymbols() []symbol {
	syms := make([]symbol, 0, t.nonTermNum.Int()-nonTerminalNumMin.Int()+1)
	for sym := range t.sym2Text {
		if !sym.isNonTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// terminalTexts returns terminal names indexed by symbol number. The element at index 0 is empty.
func (t *symbolTable) terminalTexts() []string {
	return append([]string{}, t.termTexts...)
}

// nonTerminalTexts returns non-terminal names indexed by symbol number. The element at index 0 is empty.
func (t *symbolTable) nonTerminalTexts() []string {
	return append([]string{}, t.nonTermTexts...)
}
