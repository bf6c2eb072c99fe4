package vm

// captureUpvalue returns the existing open upvalue for stack slot
// location if one is already being shared, or allocates and links a new
// one. The open list is kept sorted by descending location so this
// search (and closeUpvalues below) can stop early.
func (vm *VM) captureUpvalue(location int) *ObjUpvalue {
	var prev *ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Location > location {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Location == location {
		return cur
	}

	created := vm.newUpvalue(location)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above stack index from:
// it copies the pointed-to stack value into the upvalue's own storage
// and unlinks it from the open list.
func (vm *VM) closeUpvalues(from int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Location >= from {
		uv := vm.openUpvalues
		uv.Closed = vm.stack[uv.Location]
		uv.Location = -1
		vm.openUpvalues = uv.Next
		uv.Next = nil
	}
}
