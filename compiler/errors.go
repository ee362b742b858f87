package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nihei9/sysyc/driver"
	verr "github.com/nihei9/sysyc/error"
	"github.com/nihei9/sysyc/irgen"
)

// SourceErrors locates a compile failure or diagnostics in the source file `filePath`. It returns nil
// when there is nothing to report. Errors without a source position are kept with row 0.
func SourceErrors(err error, diags irgen.Diagnostics, filePath, sourceName string) verr.SourceErrors {
	var errs verr.SourceErrors
	if err != nil {
		e := &verr.SourceError{
			Cause:      err,
			FilePath:   filePath,
			SourceName: sourceName,
		}
		var synErr *driver.SyntaxError
		if errors.As(err, &synErr) {
			e.Cause = syntaxErrorCause(synErr)
			e.Row = synErr.Row
			e.Col = synErr.Col
		}
		errs = append(errs, e)
	}
	for _, d := range diags {
		errs = append(errs, &verr.SourceError{
			Cause:      errors.New(d.Message),
			FilePath:   filePath,
			SourceName: sourceName,
			Row:        d.Row,
			Col:        d.Col,
		})
	}
	return errs
}

// syntaxErrorCause drops the position from a syntax error message because verr prints it.
func syntaxErrorCause(e *driver.SyntaxError) error {
	msg := fmt.Sprintf("syntax error: %v", e.Message)
	if e.Token != nil && !e.Token.EOF() {
		msg = fmt.Sprintf("%v %#v", msg, string(e.Token.Lexeme()))
	}
	if len(e.ExpectedTerminals) > 0 {
		msg = fmt.Sprintf("%v; expected: %v", msg, strings.Join(e.ExpectedTerminals, ", "))
	}
	return errors.New(msg)
}
