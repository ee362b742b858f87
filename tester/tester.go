package tester

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/nihei9/sysyc/compiler"
	"github.com/nihei9/sysyc/irgen"
	"github.com/nihei9/sysyc/spec"
)

const (
	SourceExt = ".sy"
	IRExt     = ".ll"
	ErrorExt  = ".err"
)

// LineDiff is the first line where the generated IR differs from the expected one.
type LineDiff struct {
	Line     int
	Expected string
	Actual   string
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*LineDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, fmt.Sprintf("line %v:", diff.Line))
			diffLines = append(diffLines, fmt.Sprintf("%vexpected: %v", indent1, diff.Expected))
			diffLines = append(diffLines, fmt.Sprintf("%vactual:   %v", indent1, diff.Actual))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

// TestCase is a source file and its expectations. ExpectedIR is nil when the case has no IR file.
// ExpectedErrors is non-nil when the case has an error file, even an empty one.
type TestCase struct {
	Source         []byte
	ExpectedIR     []byte
	ExpectedErrors []string
}

func (c *TestCase) expectsFailure() bool {
	return c.ExpectedErrors != nil
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases collects the source files under `testPath`. A path to a file is a test case itself
// regardless of its extension.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if !e.IsDir() && filepath.Ext(e.Name()) != SourceExt {
			continue
		}
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	src, err := os.ReadFile(testCasePath)
	if err != nil {
		return nil, err
	}
	c := &TestCase{
		Source: src,
	}

	base := strings.TrimSuffix(testCasePath, filepath.Ext(testCasePath))
	ir, err := readSibling(base + IRExt)
	if err != nil {
		return nil, err
	}
	c.ExpectedIR = ir

	errSrc, err := readSibling(base + ErrorExt)
	if err != nil {
		return nil, err
	}
	if errSrc != nil {
		c.ExpectedErrors = []string{}
		for _, l := range strings.Split(string(errSrc), "\n") {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			c.ExpectedErrors = append(c.ExpectedErrors, l)
		}
	}

	return c, nil
}

// readSibling returns nil without an error when the file doesn't exist.
func readSibling(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

type Tester struct {
	// Table is the parsing table to use. A nil table means the built-in one.
	Table *spec.ParsingTable
	Cases []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runTest(c))
	}
	return rs
}

func (t *Tester) runTest(c *TestCaseWithMetadata) (result *TestResult) {
	defer func() {
		if v := recover(); v != nil {
			result = &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("the compiler panicked: %v\n%v", v, string(debug.Stack())),
			}
		}
	}()

	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	opts := []compiler.Option{
		compiler.ModuleName(filepath.Base(c.FilePath)),
	}
	if t.Table != nil {
		opts = append(opts, compiler.WithTable(t.Table))
	}
	res, err := compiler.Compile(bytes.NewReader(c.TestCase.Source), opts...)
	var diags irgen.Diagnostics
	if res != nil {
		diags = res.Diagnostics
	}
	errs := compiler.SourceErrors(err, diags, "", filepath.Base(c.FilePath))

	if c.TestCase.expectsFailure() {
		if len(errs) == 0 {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("errors are expected, but the source was compiled successfully"),
			}
		}
		msg := errs.Error()
		var missing []string
		for _, e := range c.TestCase.ExpectedErrors {
			if !strings.Contains(msg, e) {
				missing = append(missing, e)
			}
		}
		if len(missing) > 0 {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("expected errors were not reported: %q\nreported errors:\n%v", missing, msg),
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}

	if len(errs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        errs,
		}
	}

	if c.TestCase.ExpectedIR != nil {
		diff := diffIR(string(c.TestCase.ExpectedIR), res.Module.String())
		if diff != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("output mismatch"),
				Diffs:        []*LineDiff{diff},
			}
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

// diffIR compares two IR texts line by line ignoring trailing whitespace of each line and trailing
// empty lines. It returns nil when they are equal.
func diffIR(expected, actual string) *LineDiff {
	exp := normalizeLines(expected)
	act := normalizeLines(actual)
	n := len(exp)
	if len(act) > n {
		n = len(act)
	}
	for i := 0; i < n; i++ {
		var e, a string
		if i < len(exp) {
			e = exp[i]
		}
		if i < len(act) {
			a = act[i]
		}
		if e != a || i >= len(exp) || i >= len(act) {
			return &LineDiff{
				Line:     i + 1,
				Expected: e,
				Actual:   a,
			}
		}
	}
	return nil
}

func normalizeLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
