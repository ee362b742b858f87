package main

import (
	"os"

	"github.com/nihei9/sysyc/lexer"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "lex [source file path]",
		Short:   "Print the tokens of a SysY program",
		Example: `  sysyc lex main.sy`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runLex,
	}
	rootCmd.AddCommand(cmd)
}

func runLex(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	src, err := openSource(args)
	if err != nil {
		return err
	}
	defer src.Close()

	s, err := lexer.DefaultSpec()
	if err != nil {
		return err
	}
	toks, err := lexer.Tokenize(s, src)
	if err != nil {
		return err
	}
	return lexer.WriteTokens(os.Stdout, toks)
}
