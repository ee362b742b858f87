package irgen

import (
	"fmt"
	"strings"

	"github.com/nihei9/sysyc/ast"
)

// Diagnostic is a semantic error. Generation continues after it, so a module with diagnostics is
// complete but must not be trusted.
type Diagnostic struct {
	Row     int
	Col     int
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%v:%v: %v", d.Row, d.Col, d.Message)
}

type Diagnostics []*Diagnostic

func (ds Diagnostics) Error() string {
	var b strings.Builder
	for i, d := range ds {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.Error())
	}
	return b.String()
}

func (g *Generator) report(pos ast.Position, format string, a ...interface{}) {
	g.diags = append(g.diags, &Diagnostic{
		Row:     pos.Row,
		Col:     pos.Col,
		Message: fmt.Sprintf(format, a...),
	})
}
