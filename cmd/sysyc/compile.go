package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nihei9/sysyc/compiler"
	"github.com/nihei9/sysyc/grammar"
	"github.com/nihei9/sysyc/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output   *string
	compress *bool
	report   *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile the SysY grammar into a parsing table",
		Example: `  sysyc compile -o sysy.json --report sysy-report.json`,
		Args:    cobra.NoArgs,
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compress = cmd.Flags().Bool("compress", false, "compress the parsing table")
	compileFlags.report = cmd.Flags().String("report", "", "report file path (default no report)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	compress := cfg.Table.Compress
	if cmd.Flags().Changed("compress") {
		compress = *compileFlags.compress
	}
	reportPath := cfg.Table.Report
	if cmd.Flags().Changed("report") {
		reportPath = *compileFlags.report
	}

	gram, err := grammar.NewSysYGrammar()
	if err != nil {
		return err
	}
	var opts []grammar.CompileOption
	if compress {
		opts = append(opts, grammar.Compress())
	}
	if reportPath != "" {
		opts = append(opts, grammar.EnableReporting())
	}
	tab, report, err := grammar.Compile(gram, opts...)
	if err != nil {
		return err
	}
	pterm.Debug.Println(fmt.Sprintf("%v states, %v terminals, %v non-terminals", tab.StateCount, tab.TerminalCount, tab.NonTerminalCount))

	err = writeJSON(*compileFlags.output, tab)
	if err != nil {
		return fmt.Errorf("Cannot write the parsing table: %w", err)
	}

	if report != nil {
		err = writeJSON(reportPath, report)
		if err != nil {
			return fmt.Errorf("Cannot write the report: %w", err)
		}
		sr, rr := report.ConflictCount()
		if sr+rr > 0 {
			pterm.Warning.WithWriter(os.Stderr).Println(fmt.Sprintf("%v shift/reduce and %v reduce/reduce conflicts", sr, rr))
		}
	}

	return nil
}

func writeJSON(path string, v interface{}) error {
	w, err := openOutput(path)
	if err != nil {
		return err
	}
	defer w.Close()

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

// readTable returns nil for an empty path.
func readTable(path string) (*spec.ParsingTable, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the parsing table %s: %w", path, err)
	}
	tab := &spec.ParsingTable{}
	err = json.Unmarshal(data, tab)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the parsing table %s: %w", path, err)
	}
	return tab, nil
}

func tableOption(path string) ([]compiler.Option, error) {
	tab, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if tab == nil {
		return nil, nil
	}
	return []compiler.Option{compiler.WithTable(tab)}, nil
}
