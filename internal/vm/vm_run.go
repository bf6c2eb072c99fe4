package vm

import "fmt"

// run is the fetch-decode-execute loop: it drives the innermost call
// frame until either an OP_RETURN unwinds the last frame or a runtime
// error aborts execution.
func (vm *VM) run() error {
	frame := &vm.frames[vm.frameCount-1]

	readByte := func() byte {
		b := frame.closure.Function.Chunk.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() int {
		hi := readByte()
		lo := readByte()
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() Value {
		return frame.closure.Function.Chunk.Constants[readByte()]
	}
	readString := func() *ObjString {
		return readConstant().AsObj().(*ObjString)
	}

	for {
		op := OpCode(readByte())

		switch op {
		case OpConstant:
			vm.push(readConstant())

		case OpNil:
			vm.push(NilVal())
		case OpTrue:
			vm.push(BoolVal(true))
		case OpFalse:
			vm.push(BoolVal(false))
		case OpPop:
			vm.pop()

		case OpDefineGlobal:
			name := readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case OpGetGlobal:
			name := readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)

		case OpSetGlobal:
			name := readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case OpGetLocal:
			slot := int(readByte())
			vm.push(vm.stack[frame.base+slot])

		case OpSetLocal:
			slot := int(readByte())
			vm.stack[frame.base+slot] = vm.peek(0)

		case OpGetUpvalue:
			slot := int(readByte())
			uv := frame.closure.Upvalues[slot]
			if uv.Location >= 0 {
				vm.push(vm.stack[uv.Location])
			} else {
				vm.push(uv.Closed)
			}

		case OpSetUpvalue:
			slot := int(readByte())
			uv := frame.closure.Upvalues[slot]
			if uv.Location >= 0 {
				vm.stack[uv.Location] = vm.peek(0)
			} else {
				uv.Closed = vm.peek(0)
			}

		case OpGetProperty:
			receiver := vm.peek(0)
			instance, ok := asInstance(receiver)
			if !ok {
				return vm.runtimeError("Only instances have properties.")
			}
			name := readString()
			if v, ok := instance.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if err := vm.bindMethod(instance.Class, name); err != nil {
				return err
			}

		case OpSetProperty:
			instance, ok := asInstance(vm.peek(1))
			if !ok {
				return vm.runtimeError("Only instances have fields.")
			}
			name := readString()
			instance.Fields.Set(name, vm.peek(0))
			value := vm.pop()
			vm.pop()
			vm.push(value)

		case OpGetSuper:
			name := readString()
			superclass := vm.pop().AsObj().(*ObjClass)
			if err := vm.bindMethod(superclass, name); err != nil {
				return err
			}

		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(a.Equals(b)))

		case OpGreater:
			if err := vm.numericCompare(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case OpLess:
			if err := vm.numericCompare(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case OpSubtract:
			if err := vm.numericBinary(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case OpMultiply:
			if err := vm.numericBinary(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case OpDivide:
			if err := vm.numericBinary(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(NumberVal(-vm.pop().AsNumber()))

		case OpNot:
			vm.push(BoolVal(isFalseyValue(vm.pop())))

		case OpPrint:
			fmt.Fprintln(vm.out, vm.pop().String())

		case OpJump:
			offset := readShort()
			frame.ip += offset

		case OpJumpIfFalse:
			offset := readShort()
			if isFalseyValue(vm.peek(0)) {
				frame.ip += offset
			}

		case OpLoop:
			offset := readShort()
			frame.ip -= offset

		case OpCall:
			argCount := int(readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case OpInvoke:
			name := readString()
			argCount := int(readByte())
			if err := vm.invoke(name, argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case OpSuperInvoke:
			name := readString()
			argCount := int(readByte())
			superclass := vm.pop().AsObj().(*ObjClass)
			if err := vm.invokeFromClass(superclass, name, argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case OpClosure:
			fn := readConstant().AsObj().(*ObjFunction)
			closure := vm.newClosure(fn)
			vm.push(ObjVal(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := int(readByte())
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.base + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case OpCloseUpvalue:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.base)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.sp = frame.base
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case OpClass:
			name := readString()
			vm.push(ObjVal(vm.newClass(name)))

		case OpInherit:
			superVal := vm.peek(1)
			superclass, ok := superVal.AsObj().(*ObjClass)
			if !ok {
				return vm.runtimeError("Superclass must be a class.")
			}
			subclass := vm.peek(0).AsObj().(*ObjClass)
			subclass.Methods.AddAll(superclass.Methods)
			vm.pop() // pop subclass; superclass (the `super` local) stays

		case OpMethod:
			name := readString()
			method := vm.peek(0).AsObj().(*ObjClosure)
			class := vm.peek(1).AsObj().(*ObjClass)
			class.Methods.Set(name, ObjVal(method))
			vm.pop()

		default:
			return vm.runtimeError("Unknown opcode %d.", byte(op))
		}
	}
}

func asInstance(v Value) (*ObjInstance, bool) {
	if !v.IsObj() {
		return nil, false
	}
	inst, ok := v.AsObj().(*ObjInstance)
	return inst, ok
}

func (vm *VM) numericBinary(op func(a, b float64) float64) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(NumberVal(op(a, b)))
	return nil
}

func (vm *VM) numericCompare(op func(a, b float64) bool) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(BoolVal(op(a, b)))
	return nil
}

// add implements OP_ADD's two overloads: numeric addition, and string
// concatenation when both operands are strings. Any other combination is
// a runtime error.
func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)

	if a.IsNumber() && b.IsNumber() {
		bn := vm.pop().AsNumber()
		an := vm.pop().AsNumber()
		vm.push(NumberVal(an + bn))
		return nil
	}

	as, aok := asString(a)
	bs, bok := asString(b)
	if aok && bok {
		// Intern before popping: the operands stay stack-rooted across
		// the allocation the result may trigger.
		result := vm.internString(as.Chars + bs.Chars)
		vm.pop()
		vm.pop()
		vm.push(ObjVal(result))
		return nil
	}

	return vm.runtimeError("Operands must be two numbers or two strings.")
}

func asString(v Value) (*ObjString, bool) {
	if !v.IsObj() {
		return nil, false
	}
	s, ok := v.AsObj().(*ObjString)
	return s, ok
}
