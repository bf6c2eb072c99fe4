// Command lumen is the Lumen language's command-line interpreter: run
// with no arguments it starts a REPL, or with a single path argument it
// compiles and runs that script.
package main

import (
	"os"

	"github.com/lumen-lang/lumen/pkg/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
