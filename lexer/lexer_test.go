package lexer

import (
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	s, err := Compile()
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("a compiled specification must be returned")
	}
}

func TestLexer_Next(t *testing.T) {
	s, err := DefaultSpec()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*Token
	}{
		{
			caption: "keywords and an identifier",
			src:     "int main",
			tokens: []*Token{
				{Category: CategoryKeyword, Code: 1, Terminal: "int", Text: "int", Row: 1, Col: 1},
				{Category: CategoryKeyword, Code: 5, Terminal: TerminalIdent, Text: "main", Row: 1, Col: 5},
			},
		},
		{
			caption: "a keyword prefix is an identifier",
			src:     "integer if_ else",
			tokens: []*Token{
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "integer", Row: 1, Col: 1},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "if_", Row: 1, Col: 9},
				{Category: CategoryKeyword, Code: 8, Terminal: "else", Text: "else", Row: 1, Col: 13},
			},
		},
		{
			caption: "numbers",
			src:     "10 3.14 007",
			tokens: []*Token{
				{Category: CategoryInt, Code: 101, Terminal: TerminalIntConst, Text: "10", Row: 1, Col: 1},
				{Category: CategoryFloat, Code: 102, Terminal: TerminalFloat, Text: "3.14", Row: 1, Col: 4},
				{Category: CategoryInt, Code: 101, Terminal: TerminalIntConst, Text: "007", Row: 1, Col: 9},
			},
		},
		{
			caption: "the longest operator wins",
			src:     "a<=b==c!=!d&&e||f",
			tokens: []*Token{
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "a", Row: 1, Col: 1},
				{Category: CategoryOperator, Code: 39, Terminal: "<=", Text: "<=", Row: 1, Col: 2},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "b", Row: 1, Col: 4},
				{Category: CategoryOperator, Code: 38, Terminal: "==", Text: "==", Row: 1, Col: 5},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "c", Row: 1, Col: 7},
				{Category: CategoryOperator, Code: 41, Terminal: "!=", Text: "!=", Row: 1, Col: 8},
				{Category: CategoryOperator, Code: 44, Terminal: "!", Text: "!", Row: 1, Col: 10},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "d", Row: 1, Col: 11},
				{Category: CategoryOperator, Code: 42, Terminal: "&&", Text: "&&", Row: 1, Col: 12},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "e", Row: 1, Col: 14},
				{Category: CategoryOperator, Code: 43, Terminal: "||", Text: "||", Row: 1, Col: 15},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "f", Row: 1, Col: 17},
			},
		},
		{
			caption: "separators",
			src:     "(){};,",
			tokens: []*Token{
				{Category: CategorySeparator, Code: 50, Terminal: "(", Text: "(", Row: 1, Col: 1},
				{Category: CategorySeparator, Code: 51, Terminal: ")", Text: ")", Row: 1, Col: 2},
				{Category: CategorySeparator, Code: 52, Terminal: "{", Text: "{", Row: 1, Col: 3},
				{Category: CategorySeparator, Code: 53, Terminal: "}", Text: "}", Row: 1, Col: 4},
				{Category: CategorySeparator, Code: 54, Terminal: ";", Text: ";", Row: 1, Col: 5},
				{Category: CategorySeparator, Code: 55, Terminal: ",", Text: ",", Row: 1, Col: 6},
			},
		},
		{
			caption: "comments and white spaces are skipped",
			src:     "a // line comment\n\t/* block\n * comment */ b /**/ c",
			tokens: []*Token{
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "a", Row: 1, Col: 1},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "b", Row: 3, Col: 15},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "c", Row: 3, Col: 22},
			},
		},
		{
			caption: "an unknown character is an invalid token",
			src:     "a @ b",
			tokens: []*Token{
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "a", Row: 1, Col: 1},
				{Category: CategoryError, Text: "@", Row: 1, Col: 3, Invalid: true},
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "b", Row: 1, Col: 5},
			},
		},
		{
			caption: "an unclosed block comment is an invalid token",
			src:     "a /* b",
			tokens: []*Token{
				{Category: CategoryIdent, Code: 100, Terminal: TerminalIdent, Text: "a", Row: 1, Col: 1},
				{Category: CategoryError, Text: "/* b", Row: 1, Col: 3, Invalid: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := Tokenize(s, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("unexpected token count; want: %v, got: %v", len(tt.tokens), len(toks))
			}
			for i, expected := range tt.tokens {
				testToken(t, toks[i], expected)
			}
		})
	}
}

func TestLexer_EOF(t *testing.T) {
	s, err := DefaultSpec()
	if err != nil {
		t.Fatal(err)
	}
	l, err := NewLexer(s, strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.EOF {
		t.Fatal("the first token must not be EOF")
	}
	for i := 0; i < 2; i++ {
		tok, err = l.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !tok.EOF || tok.Terminal != EOFTerminal {
			t.Fatalf("an EOF token is expected: %+v", tok)
		}
	}
}

func TestWriteTokens(t *testing.T) {
	s, err := DefaultSpec()
	if err != nil {
		t.Fatal(err)
	}
	toks, err := Tokenize(s, strings.NewReader("int a = 1.5;\n$"))
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	err = WriteTokens(&b, toks)
	if err != nil {
		t.Fatal(err)
	}
	expected := `int	<KW,1>
a	<IDN,a>
=	<OP,35>
1.5	<FLOAT,1.5>
;	<SE,54>
$	<ERROR,2,1>
`
	if b.String() != expected {
		t.Fatalf("unexpected listing;\nwant:\n%v\ngot:\n%v", expected, b.String())
	}
}

func TestSpec_Terminals(t *testing.T) {
	s, err := DefaultSpec()
	if err != nil {
		t.Fatal(err)
	}
	terms := s.Terminals()
	known := map[string]int{}
	for _, term := range terms {
		known[term]++
	}
	for _, term := range []string{TerminalIdent, TerminalIntConst, TerminalFloat, "int", "else", "&&", ","} {
		if known[term] != 1 {
			t.Errorf("a terminal must appear exactly once: %v (%v)", term, known[term])
		}
	}
	if _, ok := known["main"]; ok {
		t.Error("main must be mapped to the identifier terminal")
	}
}

func testToken(t *testing.T, actual, expected *Token) {
	t.Helper()

	if actual.Category != expected.Category || actual.Code != expected.Code || actual.Terminal != expected.Terminal || actual.Text != expected.Text {
		t.Fatalf("unexpected token;\nwant: %+v\ngot: %+v", expected, actual)
	}
	if actual.Row != expected.Row || actual.Col != expected.Col {
		t.Fatalf("unexpected position of %v; want: %v:%v, got: %v:%v", actual.Text, expected.Row, expected.Col, actual.Row, actual.Col)
	}
	if actual.Invalid != expected.Invalid || actual.EOF != expected.EOF {
		t.Fatalf("unexpected token flags;\nwant: %+v\ngot: %+v", expected, actual)
	}
}
