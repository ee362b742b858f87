package lexer

import (
	"fmt"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

// Category classifies a token for the token listing.
type Category string

const (
	CategoryKeyword   = Category("KW")
	CategoryOperator  = Category("OP")
	CategorySeparator = Category("SE")
	CategoryIdent     = Category("IDN")
	CategoryInt       = Category("INT")
	CategoryFloat     = Category("FLOAT")
	CategoryError     = Category("ERROR")
)

func (c Category) String() string {
	return string(c)
}

const (
	TerminalIdent    = "Ident"
	TerminalIntConst = "IntConst"
	TerminalFloat    = "floatConst"
)

type kind struct {
	name     mlspec.LexKindName
	pattern  string
	category Category
	code     int
	terminal string
	skip     bool
	invalid  bool
}

func keyword(name, word string, code int, terminal string) *kind {
	return &kind{
		name:     mlspec.LexKindName(name),
		pattern:  word,
		category: CategoryKeyword,
		code:     code,
		terminal: terminal,
	}
}

func operator(name, op string, code int) *kind {
	return &kind{
		name:     mlspec.LexKindName(name),
		pattern:  mlspec.EscapePattern(op),
		category: CategoryOperator,
		code:     code,
		terminal: op,
	}
}

func separator(name, sep string, code int) *kind {
	return &kind{
		name:     mlspec.LexKindName(name),
		pattern:  mlspec.EscapePattern(sep),
		category: CategorySeparator,
		code:     code,
		terminal: sep,
	}
}

// kinds lists the lexical kinds. When two kinds match the same longest lexeme, the former wins,
// so keywords precede identifiers.
var kinds = []*kind{
	keyword("kw_int", "int", 1, "int"),
	keyword("kw_void", "void", 2, "void"),
	keyword("kw_return", "return", 3, "return"),
	keyword("kw_const", "const", 4, "const"),
	keyword("kw_main", "main", 5, TerminalIdent),
	keyword("kw_float", "float", 6, "float"),
	keyword("kw_if", "if", 7, "if"),
	keyword("kw_else", "else", 8, "else"),

	operator("op_plus", "+", 30),
	operator("op_minus", "-", 31),
	operator("op_mul", "*", 32),
	operator("op_div", "/", 33),
	operator("op_mod", "%", 34),
	operator("op_assign", "=", 35),
	operator("op_gt", ">", 36),
	operator("op_lt", "<", 37),
	operator("op_eq", "==", 38),
	operator("op_le", "<=", 39),
	operator("op_ge", ">=", 40),
	operator("op_ne", "!=", 41),
	operator("op_and", "&&", 42),
	operator("op_or", "||", 43),
	operator("op_not", "!", 44),

	separator("se_lparen", "(", 50),
	separator("se_rparen", ")", 51),
	separator("se_lbrace", "{", 52),
	separator("se_rbrace", "}", 53),
	separator("se_semicolon", ";", 54),
	separator("se_comma", ",", 55),

	{
		name:     "ident",
		pattern:  `[A-Za-z_][0-9A-Za-z_]*`,
		category: CategoryIdent,
		code:     100,
		terminal: TerminalIdent,
	},
	{
		name:     "int_const",
		pattern:  `[0-9]+`,
		category: CategoryInt,
		code:     101,
		terminal: TerminalIntConst,
	},
	{
		name:     "float_const",
		pattern:  `[0-9]+\.[0-9]+`,
		category: CategoryFloat,
		code:     102,
		terminal: TerminalFloat,
	},

	{
		name:    "white_space",
		pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`,
		skip:    true,
	},
	{
		name:    "line_comment",
		pattern: `//[^\u{000A}]*`,
		skip:    true,
	},
	{
		name:    "block_comment",
		pattern: `/\*([^*]|\*+[^*/])*\*+/`,
		skip:    true,
	},
	{
		// A closed comment is always longer than this one, so this kind matches only a comment
		// reaching the end of the input.
		name:     "unclosed_block_comment",
		pattern:  `/\*([^*]|\*+[^*/])*\**`,
		category: CategoryError,
		invalid:  true,
	},
}

// Spec is the compiled lexical specification. It is read-only and can be shared by lexers.
type Spec struct {
	clspec *mlspec.CompiledLexSpec

	// kinds is indexed by a kind ID of maleeni. The element at index 0 is nil.
	kinds []*kind
}

var (
	compiledSpec    *Spec
	compiledSpecErr error
	compileOnce     sync.Once
)

// DefaultSpec returns the specification compiled at the first call.
func DefaultSpec() (*Spec, error) {
	compileOnce.Do(func() {
		compiledSpec, compiledSpecErr = Compile()
	})
	return compiledSpec, compiledSpecErr
}

// specName names the lexical specification. maleeni rejects an empty name.
const specName = "sysy"

func Compile() (*Spec, error) {
	entries := make([]*mlspec.LexEntry, len(kinds))
	name2Kind := map[mlspec.LexKindName]*kind{}
	for i, k := range kinds {
		entries[i] = &mlspec.LexEntry{
			Kind:    k.name,
			Pattern: mlspec.LexPattern(k.pattern),
		}
		name2Kind[k.name] = k
	}

	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    specName,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("failed to compile the lexical specification: %v", b.String())
		}
		return nil, fmt.Errorf("failed to compile the lexical specification: %w", err)
	}

	ks := make([]*kind, len(clspec.KindNames))
	for id, name := range clspec.KindNames {
		if name == mlspec.LexKindNameNil {
			continue
		}
		k, ok := name2Kind[name]
		if !ok {
			return nil, fmt.Errorf("an unknown kind was compiled: %v", name)
		}
		ks[id] = k
	}

	return &Spec{
		clspec: clspec,
		kinds:  ks,
	}, nil
}

func writeCompileError(b *strings.Builder, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(b, "fragment ")
	}
	fmt.Fprintf(b, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(b, ": %v", cErr.Detail)
	}
}

// Terminals returns the grammar terminals the lexer can produce.
func (s *Spec) Terminals() []string {
	var terms []string
	known := map[string]struct{}{}
	for _, k := range s.kinds {
		if k == nil || k.terminal == "" {
			continue
		}
		if _, ok := known[k.terminal]; ok {
			continue
		}
		known[k.terminal] = struct{}{}
		terms = append(terms, k.terminal)
	}
	return terms
}
