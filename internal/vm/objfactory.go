package vm

// This file collects the constructors for every heap object kind, each
// going through registerObject so every allocation is visible to the
// collector.

func (vm *VM) newFunction() *ObjFunction {
	fn := &ObjFunction{Chunk: NewChunk()}
	fn.kind = TypeFunction
	vm.registerObject(fn)
	return fn
}

func (vm *VM) newClosure(fn *ObjFunction) *ObjClosure {
	c := &ObjClosure{
		Function: fn,
		Upvalues: make([]*ObjUpvalue, fn.UpvalueCount),
	}
	c.kind = TypeClosure
	vm.registerObject(c)
	return c
}

func (vm *VM) newUpvalue(location int) *ObjUpvalue {
	uv := &ObjUpvalue{Location: location, Closed: NilVal()}
	uv.kind = TypeUpvalue
	vm.registerObject(uv)
	return uv
}

func (vm *VM) newNative(name string, fn NativeFn) *ObjNative {
	n := &ObjNative{Name: name, Fn: fn}
	n.kind = TypeNative
	vm.registerObject(n)
	return n
}

func (vm *VM) newClass(name *ObjString) *ObjClass {
	c := &ObjClass{Name: name, Methods: NewTable()}
	c.kind = TypeClass
	vm.registerObject(c)
	return c
}

func (vm *VM) newInstance(class *ObjClass) *ObjInstance {
	inst := &ObjInstance{Class: class, Fields: NewTable()}
	inst.kind = TypeInstance
	vm.registerObject(inst)
	return inst
}

func (vm *VM) newBoundMethod(receiver Value, method *ObjClosure) *ObjBoundMethod {
	bm := &ObjBoundMethod{Receiver: receiver, Method: method}
	bm.kind = TypeBoundMethod
	vm.registerObject(bm)
	return bm
}
