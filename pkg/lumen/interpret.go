// Package lumen is the embeddable entry point: construct a VM, feed it
// source, get back a result. This is the surface other Go programs (and
// our own CLI) drive the interpreter through.
package lumen

import (
	"io"

	"github.com/lumen-lang/lumen/internal/vm"
)

// Result mirrors vm.InterpretResult under a name that doesn't leak the
// internal package's vocabulary to embedders.
type Result int

const (
	OK Result = iota
	CompileError
	RuntimeError
)

// VM wraps the interpreter package's VM, exposing only what an embedder
// needs: run source, redirect output, toggle GC stress mode for tests.
type VM struct {
	inner *vm.VM
}

// New returns a freshly initialized interpreter with its natives
// registered and output directed to os.Stdout until SetOutput is called.
func New() *VM {
	return &VM{inner: vm.New()}
}

// SetOutput redirects PRINT statement output.
func (v *VM) SetOutput(w io.Writer) { v.inner.SetOutput(w) }

// SetStressGC forces a garbage collection on every allocation, for tests
// that want to exercise the collector aggressively.
func (v *VM) SetStressGC(on bool) { v.inner.SetStressGC(on) }

// Run compiles and executes source against this VM's persistent global
// state (so successive Run calls share variables and functions, exactly
// like successive REPL lines).
func (v *VM) Run(source string) Result {
	switch v.inner.Interpret(source) {
	case vm.InterpretOK:
		return OK
	case vm.InterpretCompileError:
		return CompileError
	default:
		return RuntimeError
	}
}
