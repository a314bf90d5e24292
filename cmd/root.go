// Package cmd implements the sidenote command line interface
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sidenote-lang/sidenote/pkg/interp"
)

// globalState carries all process-external state (filesystem, stdio,
// logger) so command behavior can be exercised end-to-end in tests
// against in-memory substitutes.
type globalState struct {
	fs     afero.Fs
	stdIn  io.Reader
	stdOut io.Writer
	stdErr io.Writer
	logger *logrus.Logger
}

func newGlobalState() *globalState {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	return &globalState{
		fs:     afero.NewOsFs(),
		stdIn:  os.Stdin,
		stdOut: os.Stdout,
		stdErr: os.Stderr,
		logger: logger,
	}
}

type rootFlags struct {
	repl    bool
	dump    bool
	verbose bool
}

func newRootCommand(gs *globalState) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "sidenote [flags] <source_file>",
		Short: "An interpreter for a language whose comments are first-class values",
		Long: `sidenote evaluates programs in which source comments name, disambiguate,
and are queried by running code.

<source_file> can also be '-' to read the program from standard input.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				gs.logger.SetLevel(logrus.DebugLevel)
			}
			if flags.repl {
				return runREPL(gs)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runFile(gs, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.repl, "repl", false, "start an interactive session")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "print the parsed AST instead of evaluating")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.SetOut(gs.stdOut)
	cmd.SetErr(gs.stdErr)
	return cmd
}

// runFile evaluates a source file in batch mode: the first lex or parse
// error is fatal.
func runFile(gs *globalState, flags *rootFlags, path string) error {
	var source []byte
	var err error
	if path == "-" {
		source, err = io.ReadAll(gs.stdIn)
	} else {
		source, err = afero.ReadFile(gs.fs, path)
	}
	if err != nil {
		gs.logger.WithError(err).Errorf("failed to open %s", path)
		return err
	}

	if flags.dump {
		tree, err := interp.DumpString(string(source))
		if err != nil {
			fmt.Fprintln(gs.stdErr, err.Error())
			return err
		}
		fmt.Fprint(gs.stdOut, tree)
		return nil
	}

	session := interp.New(gs.stdOut, gs.logger)
	if err := session.EvalString(string(source)); err != nil {
		fmt.Fprintln(gs.stdErr, err.Error())
		return err
	}
	return nil
}

// runREPL reads one top-level unit per line. Errors are reported and the
// failing unit is discarded; the session and its scope persist across
// lines.
func runREPL(gs *globalState) error {
	session := interp.New(gs.stdOut, gs.logger)

	prompt := false
	if f, ok := gs.stdIn.(*os.File); ok {
		prompt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	reportError := func(msg string) {
		fmt.Fprintln(gs.stdErr, msg)
	}
	if f, ok := gs.stdErr.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		red := color.New(color.FgRed)
		reportError = func(msg string) {
			red.Fprintln(gs.stdErr, msg)
		}
	}

	scanner := bufio.NewScanner(gs.stdIn)
	for {
		if prompt {
			fmt.Fprint(gs.stdOut, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if err := session.EvalString(scanner.Text()); err != nil {
			reportError(err.Error())
		}
	}
	return scanner.Err()
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	gs := newGlobalState()
	if err := newRootCommand(gs).Execute(); err != nil {
		os.Exit(1)
	}
}
