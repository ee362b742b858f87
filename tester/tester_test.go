package tester

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/sysyc/compiler"
)

const validSrc = "int main() { putint(1); return 0; }\n"

func compileIR(t *testing.T, src, name string) string {
	t.Helper()
	res, err := compiler.Compile(strings.NewReader(src), compiler.ModuleName(name))
	if err != nil {
		t.Fatal(err)
	}
	return res.Module.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestTester_Run(t *testing.T) {
	ir := compileIR(t, validSrc, "a.sy")

	tests := []struct {
		caption string
		src     string
		ir      *string
		errs    *string
		error   bool
	}{
		{
			caption: "a source without expectations passes when it compiles",
			src:     validSrc,
		},
		{
			caption: "a source without expectations fails on a syntax error",
			src:     "int main() { return 0 }",
			error:   true,
		},
		{
			caption: "a source without expectations fails on a diagnostic",
			src:     "int main() { return x; }",
			error:   true,
		},
		{
			caption: "the generated IR matches",
			src:     validSrc,
			ir:      strptr(ir),
		},
		{
			caption: "trailing whitespace is ignored",
			src:     validSrc,
			ir:      strptr(strings.ReplaceAll(ir, "\n", "  \n") + "\n\n"),
		},
		{
			caption: "the generated IR differs",
			src:     validSrc,
			ir:      strptr(strings.Replace(ir, "ret i32 0", "ret i32 1", 1)),
			error:   true,
		},
		{
			caption: "expected errors are reported",
			src:     "int main() { return x; }",
			errs:    strptr("undeclared identifier x\n1:21\n"),
		},
		{
			caption: "an expected error is missing",
			src:     "int main() { return x; }",
			errs:    strptr("undeclared identifier y\n"),
			error:   true,
		},
		{
			caption: "errors are expected but the source compiles",
			src:     validSrc,
			errs:    strptr(""),
			error:   true,
		},
		{
			caption: "an expected syntax error is reported",
			src:     "int main() { return 0 }",
			errs:    strptr("syntax error: unexpected token"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "a.sy")
			writeFile(t, path, tt.src)
			if tt.ir != nil {
				writeFile(t, filepath.Join(dir, "a.ll"), *tt.ir)
			}
			if tt.errs != nil {
				writeFile(t, filepath.Join(dir, "a.err"), *tt.errs)
			}

			cs := ListTestCases(dir)
			if len(cs) != 1 {
				t.Fatalf("unexpected test cases: %v", len(cs))
			}
			tester := &Tester{
				Cases: cs,
			}
			rs := tester.Run()
			if len(rs) != 1 {
				t.Fatalf("unexpected results: %v", len(rs))
			}
			r := rs[0]
			if tt.error {
				if r.Error == nil {
					t.Fatal("this test must fail, but it passed")
				}
				if !strings.HasPrefix(r.String(), "Failed "+path+":\n    ") {
					t.Fatalf("unexpected result: %v", r)
				}
			} else {
				if r.Error != nil {
					t.Fatalf("unexpected error occurred: %v", r)
				}
				if r.String() != "Passed "+path {
					t.Fatalf("unexpected result: %v", r)
				}
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	err := os.Mkdir(sub, 0755)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a.sy"), validSrc)
	writeFile(t, filepath.Join(dir, "a.ll"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(sub, "b.sy"), validSrc)
	writeFile(t, filepath.Join(sub, "b.err"), "x\n\n  y  \n")

	cs := ListTestCases(dir)
	if len(cs) != 2 {
		t.Fatalf("unexpected test cases: %v", len(cs))
	}
	if cs[0].FilePath != filepath.Join(dir, "a.sy") || cs[1].FilePath != filepath.Join(sub, "b.sy") {
		t.Fatalf("unexpected paths: %v, %v", cs[0].FilePath, cs[1].FilePath)
	}
	if cs[0].TestCase.ExpectedIR == nil || cs[0].TestCase.ExpectedErrors != nil {
		t.Fatalf("unexpected expectations of a.sy: %#v", cs[0].TestCase)
	}
	errs := cs[1].TestCase.ExpectedErrors
	if len(errs) != 2 || errs[0] != "x" || errs[1] != "y" {
		t.Fatalf("unexpected expected errors of b.sy: %#v", errs)
	}

	cs = ListTestCases(filepath.Join(dir, "missing"))
	if len(cs) != 1 || cs[0].Error == nil {
		t.Fatalf("a missing path must yield an error case")
	}
	rs := (&Tester{Cases: cs}).Run()
	if rs[0].Error == nil {
		t.Fatalf("an error case must fail")
	}
}

func TestDiffIR(t *testing.T) {
	tests := []struct {
		caption  string
		expected string
		actual   string
		diff     *LineDiff
	}{
		{
			caption:  "equal",
			expected: "a\nb\n",
			actual:   "a\nb",
		},
		{
			caption:  "a differing line",
			expected: "a\nb\nc",
			actual:   "a\nx\nc",
			diff:     &LineDiff{Line: 2, Expected: "b", Actual: "x"},
		},
		{
			caption:  "an extra line",
			expected: "a",
			actual:   "a\n\nb",
			diff:     &LineDiff{Line: 2, Expected: "", Actual: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			diff := diffIR(tt.expected, tt.actual)
			if tt.diff == nil {
				if diff != nil {
					t.Fatalf("unexpected diff: %#v", diff)
				}
				return
			}
			if diff == nil || *diff != *tt.diff {
				t.Fatalf("unexpected diff; want: %#v, got: %#v", tt.diff, diff)
			}
		})
	}
}

func strptr(s string) *string {
	return &s
}
