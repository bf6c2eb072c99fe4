package vm

import "fmt"

// RuntimeError is the error type carried out of run() when execution
// aborts. The VM's caller is responsible for printing it plus the
// call-stack trace (done in reportRuntimeError).
type RuntimeError struct {
	msg string
}

func (e *RuntimeError) Error() string { return e.msg }

func (vm *VM) runtimeError(format string, args ...interface{}) error {
	return &RuntimeError{msg: fmt.Sprintf(format, args...)}
}

// callValue dispatches CALL based on the callee's concrete kind.
func (vm *VM) callValue(callee Value, argCount int) error {
	if !callee.IsObj() {
		return vm.runtimeError("Can only call functions and classes.")
	}
	switch fn := callee.AsObj().(type) {
	case *ObjClosure:
		return vm.call(fn, argCount)
	case *ObjNative:
		return vm.callNative(fn, argCount)
	case *ObjClass:
		return vm.callClass(fn, argCount)
	case *ObjBoundMethod:
		vm.stack[vm.sp-argCount-1] = fn.Receiver
		return vm.call(fn.Method, argCount)
	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

func (vm *VM) call(closure *ObjClosure, argCount int) error {
	fn := closure.Function
	if argCount != fn.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", fn.Arity, argCount)
	}
	if vm.frameCount == len(vm.frames) {
		return vm.runtimeError("Stack overflow.")
	}

	vm.frames[vm.frameCount] = CallFrame{
		closure: closure,
		ip:      0,
		base:    vm.sp - argCount - 1,
	}
	vm.frameCount++
	return nil
}

func (vm *VM) callNative(native *ObjNative, argCount int) error {
	args := make([]Value, argCount)
	copy(args, vm.stack[vm.sp-argCount:vm.sp])

	result, err := native.Fn(vm, args)
	if err != nil {
		return vm.runtimeError("%s", err.Error())
	}

	vm.sp -= argCount + 1
	vm.push(result)
	return nil
}

func (vm *VM) callClass(class *ObjClass, argCount int) error {
	instance := vm.newInstance(class)
	vm.stack[vm.sp-argCount-1] = ObjVal(instance)

	if initializer, ok := class.Methods.Get(vm.initString); ok {
		return vm.call(initializer.AsObj().(*ObjClosure), argCount)
	}
	if argCount != 0 {
		return vm.runtimeError("Expected 0 arguments but got %d.", argCount)
	}
	return nil
}

// invoke is the fused GET_PROPERTY+CALL that OP_INVOKE performs: if the
// receiver has a field with this name (e.g. it holds a closure stored as
// data), that field is called directly; otherwise the method is looked
// up on the class and invoked without allocating an intermediate bound
// method.
func (vm *VM) invoke(name *ObjString, argCount int) error {
	receiver := vm.peek(argCount)
	if !receiver.IsObj() {
		return vm.runtimeError("Only instances have methods.")
	}
	instance, ok := receiver.AsObj().(*ObjInstance)
	if !ok {
		return vm.runtimeError("Only instances have methods.")
	}

	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.sp-argCount-1] = field
		return vm.callValue(field, argCount)
	}

	return vm.invokeFromClass(instance.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *ObjClass, name *ObjString, argCount int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("Undefined property '%s'.", name.Chars)
	}
	return vm.call(method.AsObj().(*ObjClosure), argCount)
}

// bindMethod pops the receiver, looks up name on class, and pushes a
// bound method wrapping the two together.
func (vm *VM) bindMethod(class *ObjClass, name *ObjString) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("Undefined property '%s'.", name.Chars)
	}
	bound := vm.newBoundMethod(vm.peek(0), method.AsObj().(*ObjClosure))
	vm.pop()
	vm.push(ObjVal(bound))
	return nil
}
