package lexer

import (
	"fmt"
	"io"

	mldriver "github.com/nihei9/maleeni/driver"
)

type Token struct {
	Category Category
	Code     int

	// Terminal is the grammar terminal of the token. It is empty for an invalid token and
	// is the end-marker `$` for the EOF token.
	Terminal string

	Text string

	// Row and Col are 1-based.
	Row int
	Col int

	EOF     bool
	Invalid bool
}

// String returns the token in the listing format: `int\t<KW,1>`, `x\t<IDN,x>`, or `@\t<ERROR,1,5>`
// for an invalid token.
func (t *Token) String() string {
	switch {
	case t.EOF:
		return "<EOF>"
	case t.Invalid:
		return fmt.Sprintf("%v\t<%v,%v,%v>", t.Text, CategoryError, t.Row, t.Col)
	}
	switch t.Category {
	case CategoryIdent, CategoryInt, CategoryFloat:
		return fmt.Sprintf("%v\t<%v,%v>", t.Text, t.Category, t.Text)
	}
	return fmt.Sprintf("%v\t<%v,%v>", t.Text, t.Category, t.Code)
}

const EOFTerminal = "$"

type Lexer struct {
	spec *Spec
	lex  *mldriver.Lexer
}

func NewLexer(s *Spec, src io.Reader) (*Lexer, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(s.clspec), src)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		spec: s,
		lex:  lex,
	}, nil
}

// Next returns the next token skipping white spaces and comments. After the input is exhausted,
// it keeps returning the EOF token.
func (l *Lexer) Next() (*Token, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return &Token{
				Terminal: EOFTerminal,
				Row:      tok.Row + 1,
				Col:      tok.Col + 1,
				EOF:      true,
			}, nil
		}
		if tok.Invalid {
			return &Token{
				Category: CategoryError,
				Text:     string(tok.Lexeme),
				Row:      tok.Row + 1,
				Col:      tok.Col + 1,
				Invalid:  true,
			}, nil
		}

		k := l.spec.kinds[tok.KindID]
		if k.skip {
			continue
		}
		return &Token{
			Category: k.category,
			Code:     k.code,
			Terminal: k.terminal,
			Text:     string(tok.Lexeme),
			Row:      tok.Row + 1,
			Col:      tok.Col + 1,
			Invalid:  k.invalid,
		}, nil
	}
}

// Tokenize reads all tokens of `src`. The EOF token is not included.
func Tokenize(s *Spec, src io.Reader) ([]*Token, error) {
	l, err := NewLexer(s, src)
	if err != nil {
		return nil, err
	}
	var toks []*Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func WriteTokens(w io.Writer, toks []*Token) error {
	for _, tok := range toks {
		_, err := fmt.Fprintln(w, tok)
		if err != nil {
			return err
		}
	}
	return nil
}
