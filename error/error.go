package error

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SourceError is an error located in a source file. Row and Col are 1-based; 0 means unknown.
type SourceError struct {
	Cause      error
	FilePath   string
	SourceName string
	Row        int
	Col        int
}

func (e *SourceError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v:", e.SourceName)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v:", e.Row)
		if e.Col != 0 {
			fmt.Fprintf(&b, "%v:", e.Col)
		}
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
		if e.Col > 0 {
			fmt.Fprintf(&b, "\n    %v^", caretIndent(line, e.Col))
		}
	}

	return b.String()
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

type SourceErrors []*SourceError

func (es SourceErrors) Error() string {
	var b strings.Builder
	for i, e := range es {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// caretIndent keeps tabs of the source line so that the caret lines up with column `col`.
func caretIndent(line string, col int) string {
	var b strings.Builder
	for i, r := range []rune(line) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
