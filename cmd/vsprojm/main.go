package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/n2code/vsprojm"
	"github.com/n2code/vsprojm/cmd/vsprojm/flags"
	"github.com/n2code/vsprojm/internal/output"
	"github.com/spf13/viper"
)

// replaced in tests, no terminal there
var promptUser = PromptUser

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation: 0 on success or user cancellation, 1 if the operation failed, 2 on bad usage.
func run(args []string, stdout io.Writer, stderr io.Writer) (exitCode int) {
	c := &cli{
		config: viper.New(),
		stdout: stdout,
		stderr: stderr,
		prompt: promptUser,
		fancy:  isTerminal(stdout),
	}
	root := newRootCommand(c)
	root.SetArgs(args)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, vsprojm.ErrCancelled):
		return 0
	case !c.started:
		fmt.Fprintf(stderr, "%s\nUsage help: vsprojm --help\n", err)
		return 2
	}

	message := err.Error()
	if c.fancy {
		message = output.TerminalFormatAsError(message)
	}
	fmt.Fprintln(stderr, message)
	if !c.config.GetBool(flags.QuietKey) {
		note := "(project not modified because of errors)"
		if c.fancy {
			note = output.TerminalFormatAsDim(note)
		}
		fmt.Fprintln(stderr, note)
	}
	return 1
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()))
}
