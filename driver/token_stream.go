package driver

import (
	"io"

	"github.com/nihei9/sysyc/lexer"
)

type VToken interface {
	// TerminalID returns 0 when the token matches no terminal of a grammar.
	TerminalID() int
	Lexeme() []byte
	EOF() bool
	Invalid() bool

	// Position returns 1-based row and column.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	tok        *lexer.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return []byte(t.tok.Text)
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type tokenStream struct {
	lex        *lexer.Lexer
	terminalID map[string]int
}

// NewTokenStream makes a token stream reading `src` with the lexical specification `s` and mapping
// tokens to the terminals of `gram`.
func NewTokenStream(gram Grammar, s *lexer.Spec, src io.Reader) (TokenStream, error) {
	lex, err := lexer.NewLexer(s, src)
	if err != nil {
		return nil, err
	}

	terminalID := map[string]int{}
	for t := 0; t < gram.TerminalCount(); t++ {
		name := gram.Terminal(t)
		if name == "" {
			continue
		}
		terminalID[name] = t
	}

	return &tokenStream{
		lex:        lex,
		terminalID: terminalID,
	}, nil
}

func (s *tokenStream) Next() (VToken, error) {
	tok, err := s.lex.Next()
	if err != nil {
		return nil, err
	}
	id := 0
	if !tok.Invalid {
		id = s.terminalID[tok.Terminal]
	}
	return &vToken{
		terminalID: id,
		tok:        tok,
	}, nil
}
