package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/sysyc/driver"
	"github.com/nihei9/sysyc/grammar"
)

func TestTable(t *testing.T) {
	tab1, err := Table()
	if err != nil {
		t.Fatal(err)
	}
	tab2, err := Table()
	if err != nil {
		t.Fatal(err)
	}
	if tab1 != tab2 {
		t.Fatalf("the table must be built only once")
	}
}

func TestParse(t *testing.T) {
	var trace strings.Builder
	res, err := Parse(strings.NewReader("int main() { return 0; }"), Trace(&trace))
	if err != nil {
		t.Fatal(err)
	}
	if res.AST == nil || len(res.AST.FuncDefs) != 1 {
		t.Fatalf("unexpected AST: %#v", res.AST)
	}
	if len(res.Trace) == 0 {
		t.Fatalf("trace entries must be recorded")
	}
	if last := res.Trace[len(res.Trace)-1]; last.Action != driver.TraceActionAccept {
		t.Fatalf("the last step must be accept; got: %v", last.Action)
	}
	if trace.Len() == 0 {
		t.Fatalf("trace must be written to the writer")
	}
}

func TestParse_SyntaxError(t *testing.T) {
	res, err := Parse(strings.NewReader("int main() { return 0 }"))
	var synErr *driver.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("a syntax error is expected; got: %v", err)
	}
	if res == nil || res.AST != nil {
		t.Fatalf("a failed parse must not yield an AST")
	}
	if synErr.Row != 1 || synErr.Col != 23 {
		t.Fatalf("unexpected position: %v:%v", synErr.Row, synErr.Col)
	}
}

func TestParse_CompressedTable(t *testing.T) {
	gram, err := grammar.NewSysYGrammar()
	if err != nil {
		t.Fatal(err)
	}
	tab, _, err := grammar.Compile(gram, grammar.Compress())
	if err != nil {
		t.Fatal(err)
	}
	res, err := Parse(strings.NewReader("int a = 1; int main() { return a; }"), WithTable(tab))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.AST.Decls) != 1 || len(res.AST.FuncDefs) != 1 {
		t.Fatalf("unexpected AST: %#v", res.AST)
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		caption   string
		src       string
		diagCount int
		contains  []string
	}{
		{
			caption: "a valid program",
			src:     "int main() { putint(1); return 0; }",
			contains: []string{
				`source_filename = "a.sy"`,
				"define i32 @main()",
				"call void @putint(i32 1)",
				"ret i32 0",
			},
		},
		{
			caption:   "semantic errors are returned as diagnostics with the module",
			src:       "int main() { return x + y; }",
			diagCount: 2,
			contains: []string{
				"define i32 @main()",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			res, err := Compile(strings.NewReader(tt.src), ModuleName("a.sy"))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Diagnostics) != tt.diagCount {
				t.Fatalf("unexpected diagnostics; want: %v, got: %v", tt.diagCount, res.Diagnostics)
			}
			if res.Module == nil {
				t.Fatalf("a module must be returned")
			}
			ll := res.Module.String()
			for _, s := range tt.contains {
				if !strings.Contains(ll, s) {
					t.Errorf("the module doesn't contain %q:\n%v", s, ll)
				}
			}
		})
	}
}

func TestSourceErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sy")
	src := "int main() {\n  return x;\n}\n"
	err := os.WriteFile(path, []byte(src), 0644)
	if err != nil {
		t.Fatal(err)
	}

	res, err := Compile(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	errs := SourceErrors(nil, res.Diagnostics, path, "a.sy")
	if len(errs) != 1 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := "a.sy:2:10: error: undeclared identifier x\n      return x;\n             ^"
	if errs[0].Error() != want {
		t.Fatalf("unexpected message; want: %q, got: %q", want, errs[0].Error())
	}

	_, err = Parse(strings.NewReader("int main() {\n  return 0\n}\n"))
	errs = SourceErrors(err, nil, "", "b.sy")
	if len(errs) != 1 || errs[0].Row != 3 || errs[0].Col != 1 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.HasPrefix(errs[0].Error(), `b.sy:3:1: error: syntax error: unexpected token "}"`) {
		t.Fatalf("unexpected message: %v", errs[0].Error())
	}

	if errs := SourceErrors(nil, nil, path, "a.sy"); errs != nil {
		t.Fatalf("no errors are expected; got: %v", errs)
	}
}
