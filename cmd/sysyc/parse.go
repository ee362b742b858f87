package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/sysyc/ast"
	"github.com/nihei9/sysyc/compiler"
	"github.com/nihei9/sysyc/driver"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	trace *bool
	tree  *bool
	table *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse [source file path]",
		Short:   "Parse a SysY program",
		Example: `  sysyc parse main.sy --trace --tree`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.trace = cmd.Flags().Bool("trace", false, "print the steps of the parser")
	parseFlags.tree = cmd.Flags().Bool("tree", false, "print the AST")
	parseFlags.table = cmd.Flags().String("table", "", "compiled parsing table path (default the built-in table)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	trace := cfg.Output.Trace
	if cmd.Flags().Changed("trace") {
		trace = *parseFlags.trace
	}
	tree := cfg.Output.Tree
	if cmd.Flags().Changed("tree") {
		tree = *parseFlags.tree
	}

	opts, err := tableOption(*parseFlags.table)
	if err != nil {
		return err
	}

	src, err := openSource(args)
	if err != nil {
		return err
	}
	defer src.Close()

	res, err := compiler.Parse(src, opts...)
	if res != nil && trace {
		terr := writeTrace(os.Stdout, res.Trace)
		if terr != nil {
			return terr
		}
	}
	if err != nil {
		return compiler.SourceErrors(err, nil, src.path, src.name)
	}

	if tree {
		ast.PrintTree(os.Stdout, res.AST)
	}
	if !trace && !tree {
		pterm.Success.Println(fmt.Sprintf("%v: accepted", src.name))
	}
	return nil
}

func writeTrace(w io.Writer, entries []*driver.TraceEntry) error {
	data := pterm.TableData{
		{"step", "stack-top#lookahead", "action"},
	}
	for _, e := range entries {
		act := string(e.Action)
		if e.Message != "" {
			act = fmt.Sprintf("%v: %v", e.Action, e.Message)
		}
		data = append(data, []string{
			fmt.Sprint(e.Step),
			fmt.Sprintf("%v#%v", e.Symbol, e.Lookahead),
			act,
		})
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithSeparator("\t").WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
