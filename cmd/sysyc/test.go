package main

import (
	"fmt"
	"os"

	"github.com/nihei9/sysyc/tester"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	table *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <test file path>|<test directory path>",
		Short:   "Run test cases of SysY programs",
		Example: `  sysyc test testdata`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	testFlags.table = cmd.Flags().String("table", "", "compiled parsing table path (default the built-in table)")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	tab, err := readTable(*testFlags.table)
	if err != nil {
		return err
	}

	cs := tester.ListTestCases(args[0])
	pterm.Debug.Println(fmt.Sprintf("%v test cases found", len(cs)))

	t := &tester.Tester{
		Table: tab,
		Cases: cs,
	}
	rs := t.Run()
	failed := 0
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%v of %v tests failed", failed, len(rs))
	}
	pterm.Success.Println(fmt.Sprintf("%v tests passed", len(rs)))
	return nil
}
