package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/nihei9/sysyc/config"
	verr "github.com/nihei9/sysyc/error"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	config  *string
	noColor *bool
	verbose *bool
}{}

// cfg is loaded before any command runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "sysyc",
	Short: "Compile SysY programs into LLVM IR",
	Long: `sysyc provides the following features:
- Tokenizes and parses a SysY program with an SLR(1) parser.
- Lowers a SysY program into LLVM IR.
- Compiles the SysY grammar into a portable parsing table and reports on it.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().String("config", config.FileName, "configuration file path")
	rootFlags.noColor = rootCmd.PersistentFlags().Bool("no-color", false, "disable colors and styles")
	rootFlags.verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print debug messages")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
		return err
	}
	return nil
}

func setUp(cmd *cobra.Command, args []string) error {
	c, err := config.Load(*rootFlags.config)
	if err != nil {
		return fmt.Errorf("Cannot read the configuration file: %w", err)
	}
	cfg = c

	if *rootFlags.noColor || !cfg.Output.Color {
		pterm.DisableStyling()
	}
	if *rootFlags.verbose {
		pterm.EnableDebugMessages()
	}
	return nil
}

// recoverPanic converts a panic into an error returned from a command.
func recoverPanic(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	*retErr = fmt.Errorf("%w:\n%v", err, string(debug.Stack()))
}

func printError(err error) {
	p := pterm.Error.WithWriter(os.Stderr)
	var srcErrs verr.SourceErrors
	if errors.As(err, &srcErrs) {
		for _, e := range srcErrs {
			p.Println(e.Error())
		}
		return
	}
	p.Println(err.Error())
}

// source is an input program. When no path is given, it is read from stdin.
type source struct {
	io.ReadCloser
	path string
	name string
}

func openSource(args []string) (*source, error) {
	if len(args) == 0 || args[0] == "-" {
		return &source{
			ReadCloser: io.NopCloser(os.Stdin),
			name:       "stdin",
		}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("Cannot open the source file %s: %w", args[0], err)
	}
	return &source{
		ReadCloser: f,
		path:       args[0],
		name:       args[0],
	}, nil
}

// moduleName is the configured module name or the base name of the source file.
func (s *source) moduleName() string {
	if cfg.IR.ModuleName != "" {
		return cfg.IR.ModuleName
	}
	return filepath.Base(s.name)
}

// openOutput returns stdout for an empty path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
