// Package vm implements the Lumen bytecode compiler, the stack-based
// virtual machine that executes its output, and the mark-and-sweep
// garbage collector that backs both.
package vm

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lumen-lang/lumen/internal/config"
)

// CallFrame is one call activation: the closure being executed, an
// instruction pointer into that closure's function's chunk, and a base
// index into the VM's value stack where the frame's locals begin. Slot 0
// is the callee itself for plain functions, or `this` for
// methods/initializers.
type CallFrame struct {
	closure *ObjClosure
	ip      int
	base    int
}

// VM is the stack-based interpreter. A VM is not safe for concurrent
// use: there is exactly one thread of control and no locking.
type VM struct {
	stack []Value
	sp    int

	frames     [config.FramesMax]CallFrame
	frameCount int

	globals *Table
	strings *Table

	objects      Obj
	openUpvalues *ObjUpvalue

	bytesAllocated int
	nextGC         int
	grayStack      []Obj
	stressGC       bool

	// compiler is the active compiler chain's innermost frame, mirrored
	// into the GC's root set. It is non-nil only while Compile is
	// running.
	compiler *Compiler

	out io.Writer

	// initString is the interned "init", looked up on every class call;
	// interning it once keeps constructor dispatch off the intern table's
	// hash path.
	initString *ObjString

	// startTime anchors the clock() native's elapsed-seconds result.
	startTime time.Time

	// yamlClass is the lazily-created, method-less "Map" class from_yaml()
	// uses to represent decoded YAML maps.
	yamlClass *ObjClass

	// db is the persistence native's open handle, if any (db_open/db_close).
	db *nativeDB
}

// New returns a freshly initialized VM with empty globals/intern tables
// and native functions registered.
func New() *VM {
	vm := &VM{
		stack:     make([]Value, config.InitialStackSize*config.FramesMax),
		globals:   NewTable(),
		strings:   NewTable(),
		nextGC:    config.GCInitialThreshold,
		out:       os.Stdout,
		startTime: time.Now(),
	}
	vm.initString = vm.internString("init")
	vm.defineNatives()
	return vm
}

// SetOutput redirects PRINT output (and native stdout); tests use this
// to capture printed program output.
func (vm *VM) SetOutput(w io.Writer) { vm.out = w }

// SetStressGC forces a collection on every allocation growth. Test-only.
func (vm *VM) SetStressGC(on bool) { vm.stressGC = on }

func (vm *VM) push(v Value) {
	if vm.sp >= len(vm.stack) {
		vm.stack = append(vm.stack, v)
		vm.sp++
		return
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

// InterpretResult is the outcome of one Interpret call.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// Interpret compiles source and, on success, runs it to completion. It is
// the single entry point external collaborators (REPL, file loader,
// embedder) drive.
func (vm *VM) Interpret(source string) InterpretResult {
	fn, err := vm.Compile(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return InterpretCompileError
	}

	closure := vm.newClosure(fn)
	vm.push(ObjVal(closure))
	vm.frames[0] = CallFrame{closure: closure, ip: 0, base: 0}
	vm.frameCount = 1

	if err := vm.run(); err != nil {
		vm.reportRuntimeError(err)
		vm.resetStack()
		return InterpretRuntimeError
	}
	return InterpretOK
}

func (vm *VM) reportRuntimeError(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := 0
		if frame.ip-1 >= 0 && frame.ip-1 < len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[frame.ip-1]
		}
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		fmt.Fprintf(os.Stderr, "[line %d] in %s\n", line, name)
	}
}
