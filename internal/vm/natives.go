package vm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// defineNatives registers every native (host-provided) global function
// before any user code runs.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", nativeClock)
	vm.defineNative("uuid", nativeUUID)
	vm.defineNative("to_yaml", nativeToYAML)
	vm.defineNative("from_yaml", nativeFromYAML)
	vm.defineNative("db_open", nativeDBOpen)
	vm.defineNative("db_set", nativeDBSet)
	vm.defineNative("db_get", nativeDBGet)
	vm.defineNative("db_close", nativeDBClose)
}

func (vm *VM) defineNative(name string, fn NativeFn) {
	native := vm.newNative(name, fn)
	vm.globals.Set(vm.internString(name), ObjVal(native))
}

// nativeClock returns seconds elapsed since the VM started, as a number.
func nativeClock(vm *VM, args []Value) (Value, error) {
	return NumberVal(time.Since(vm.startTime).Seconds()), nil
}

// nativeUUID returns a freshly generated random UUID as an interned
// string.
func nativeUUID(vm *VM, args []Value) (Value, error) {
	return ObjVal(vm.internString(uuid.NewString())), nil
}

func wrongArgCount(name string, want int) error {
	return fmt.Errorf("%s() expects %d argument(s).", name, want)
}
