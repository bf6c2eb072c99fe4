package vm

import "github.com/lumen-lang/lumen/internal/config"

// registerObject charges o's approximate size against bytesAllocated,
// triggers a collection if that growth crosses nextGC (or always, in
// stress mode), and only then links o into the VM's intrusive
// all-objects list. Every heap object the VM creates goes through here.
//
// The collection check MUST run before o is linked into the list: o is
// a brand new object, not yet reachable from any root (not on the value
// stack, not in a local/global slot, not in the intern table), so if it
// were already in the all-objects list a collection triggered by this
// very allocation would see it as garbage and sweep it away immediately.
//
// The accounted size is a rough figure (Go's own allocator does the real
// bookkeeping); what matters is that the counter only moves through this
// one function and sweep's matching credit, and that crossing the
// threshold reliably triggers collectGarbage.
func (vm *VM) registerObject(o Obj) {
	vm.bytesAllocated += objSize(o)
	if vm.bytesAllocated > vm.nextGC || vm.stressGC {
		vm.collectGarbage()
	}

	hdr := o.header()
	hdr.next = vm.objects
	vm.objects = o
}

// collectGarbage runs one full mark-sweep cycle to completion. It is
// atomic with respect to program observation: there is no way for VM
// bytecode execution to observe a partially-collected heap.
func (vm *VM) collectGarbage() {
	vm.markRoots()
	vm.traceReferences()
	vm.removeWhiteStrings()
	vm.sweep()
	vm.nextGC = vm.bytesAllocated * config.GCHeapGrowFactor
}

// markRoots walks every root: the value stack, every closure in an
// active frame, the open-upvalue list, globals, pinned VM singletons,
// and the active compiler chain.
func (vm *VM) markRoots() {
	for i := 0; i < vm.sp; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		vm.markObject(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		vm.markObject(uv)
	}
	vm.markTable(vm.globals)
	if vm.initString != nil {
		vm.markObject(vm.initString)
	}
	if vm.yamlClass != nil {
		vm.markObject(vm.yamlClass)
	}

	for c := vm.compiler; c != nil; c = c.enclosing {
		vm.markObject(c.function)
	}
}

func (vm *VM) markValue(v Value) {
	if v.IsObj() {
		vm.markObject(v.AsObj())
	}
}

// markObject marks o (idempotent) and pushes it onto the gray worklist
// for traceReferences to blacken. A nil interface is a no-op.
func (vm *VM) markObject(o Obj) {
	if o == nil {
		return
	}
	hdr := o.header()
	if hdr.marked {
		return
	}
	hdr.marked = true
	vm.grayStack = append(vm.grayStack, o)
}

func (vm *VM) markTable(t *Table) {
	t.Each(func(key *ObjString, value Value) {
		vm.markObject(key)
		vm.markValue(value)
	})
}

// traceReferences pops from the gray worklist and blackens each object's
// children by kind, until the worklist is empty.
func (vm *VM) traceReferences() {
	for len(vm.grayStack) > 0 {
		n := len(vm.grayStack) - 1
		o := vm.grayStack[n]
		vm.grayStack = vm.grayStack[:n]
		vm.blacken(o)
	}
}

func (vm *VM) blacken(o Obj) {
	switch obj := o.(type) {
	case *ObjString, *ObjNative:
		// No outgoing references.
	case *ObjFunction:
		if obj.Name != nil {
			vm.markObject(obj.Name)
		}
		for _, c := range obj.Chunk.Constants {
			vm.markValue(c)
		}
	case *ObjClosure:
		vm.markObject(obj.Function)
		for _, uv := range obj.Upvalues {
			vm.markObject(uv)
		}
	case *ObjUpvalue:
		vm.markValue(obj.Closed)
	case *ObjClass:
		vm.markObject(obj.Name)
		vm.markTable(obj.Methods)
	case *ObjInstance:
		vm.markObject(obj.Class)
		vm.markTable(obj.Fields)
	case *ObjBoundMethod:
		vm.markValue(obj.Receiver)
		vm.markObject(obj.Method)
	}
}

// removeWhiteStrings drops every intern-table entry whose key did not
// get marked this cycle. The intern table's references to its keys are
// weak: a string survives only if something else still reaches it.
func (vm *VM) removeWhiteStrings() {
	for _, e := range vm.strings.entries {
		if e.key != nil && !e.key.marked {
			vm.strings.Delete(e.key)
		}
	}
}

// sweep walks the intrusive all-objects list, unlinking and dropping any
// object whose mark bit is clear, and clears the bit on survivors. Go's
// own allocator reclaims memory once no strong reference remains; this
// function's job is to decide logical liveness, keep the list holding
// exactly the objects still reachable from the roots, and credit each
// freed object's size back to the allocation counter.
func (vm *VM) sweep() {
	var prev Obj
	cur := vm.objects
	for cur != nil {
		hdr := cur.header()
		if hdr.marked {
			hdr.marked = false
			prev = cur
			cur = hdr.next
			continue
		}
		unreached := cur
		cur = hdr.next
		if prev != nil {
			prev.header().next = cur
		} else {
			vm.objects = cur
		}
		vm.bytesAllocated -= objSize(unreached)
	}
}

// objSize is the rough per-object accounting figure registerObject
// charges and sweep credits back; the two must agree, which is why the
// estimate lives in one place.
func objSize(o Obj) int {
	switch obj := o.(type) {
	case *ObjString:
		return 32 + len(obj.Chars)
	case *ObjFunction:
		return 64
	case *ObjClosure:
		return 32 + 8*len(obj.Upvalues)
	case *ObjClass, *ObjInstance:
		return 48
	default: // upvalue, native, bound method
		return 32
	}
}
