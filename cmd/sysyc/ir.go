package main

import (
	"fmt"

	"github.com/nihei9/sysyc/compiler"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var irFlags = struct {
	output *string
	table  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "ir [source file path]",
		Short:   "Lower a SysY program into LLVM IR",
		Example: `  sysyc ir main.sy -o main.ll`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runIR,
	}
	irFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	irFlags.table = cmd.Flags().String("table", "", "compiled parsing table path (default the built-in table)")
	rootCmd.AddCommand(cmd)
}

func runIR(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	opts, err := tableOption(*irFlags.table)
	if err != nil {
		return err
	}

	src, err := openSource(args)
	if err != nil {
		return err
	}
	defer src.Close()

	opts = append(opts, compiler.ModuleName(src.moduleName()))
	res, err := compiler.Compile(src, opts...)
	if err != nil {
		return compiler.SourceErrors(err, nil, src.path, src.name)
	}

	w, err := openOutput(*irFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot open the output file %s: %w", *irFlags.output, err)
	}
	defer w.Close()
	_, err = fmt.Fprint(w, res.Module.String())
	if err != nil {
		return err
	}

	if len(res.Diagnostics) > 0 {
		return compiler.SourceErrors(nil, res.Diagnostics, src.path, src.name)
	}
	if *irFlags.output != "" {
		pterm.Success.Println(fmt.Sprintf("wrote %v", *irFlags.output))
	}
	return nil
}
