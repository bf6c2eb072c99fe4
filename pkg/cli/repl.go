// Package cli implements Lumen's command-line front end: a REPL when run
// with no arguments (prompting only when stdin is a terminal), or a
// one-shot runner for a single script path. Each mode drives its own
// pkg/lumen.VM.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/lumen-lang/lumen/pkg/lumen"
)

// Exit codes follow the sysexits.h convention: misuse of the command, a
// failed compile, a failed run, and an I/O failure reading the script.
const (
	ExitUsage        = 64
	ExitCompileError = 65
	ExitRuntimeError = 70
	ExitIOError      = 74
)

// Main is the CLI entry point cmd/lumen/main.go calls. It returns the
// process exit code rather than calling os.Exit itself, so it stays
// testable.
func Main(args []string) int {
	switch len(args) {
	case 0:
		return repl(os.Stdin, os.Stdout)
	case 1:
		return runFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "Usage: lumen [path]")
		return ExitUsage
	}
}

// repl reads one line at a time and feeds each to the same VM, so
// declarations from earlier lines stay visible — until EOF. When stdin
// is piped rather than a terminal it still works, line by line, just
// without a prompt (go-isatty drives that distinction).
func repl(in io.Reader, out io.Writer) int {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	v := lumen.New()
	v.SetOutput(out)

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		v.Run(scanner.Text())
	}
	return 0
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file \"%s\".\n", path)
		return ExitIOError
	}

	v := lumen.New()
	v.SetOutput(os.Stdout)

	switch v.Run(string(source)) {
	case lumen.CompileError:
		return ExitCompileError
	case lumen.RuntimeError:
		return ExitRuntimeError
	default:
		return 0
	}
}
