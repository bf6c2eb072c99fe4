package vm

import "fmt"

// DisassembleChunk prints every instruction in chunk to a string, labeled
// with name. This is a test/debugging aid: the package's tests assert on
// compiler output through it, and the CLI never calls it.
func DisassembleChunk(chunk *Chunk, name string) string {
	out := fmt.Sprintf("== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		var line string
		line, offset = DisassembleInstruction(chunk, offset)
		out += line
	}
	return out
}

// DisassembleInstruction renders the single instruction starting at
// offset and returns the offset of the next one.
func DisassembleInstruction(chunk *Chunk, offset int) (string, int) {
	prefix := fmt.Sprintf("%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		prefix += "   | "
	} else {
		prefix += fmt.Sprintf("%4d ", chunk.Lines[offset])
	}

	op := OpCode(chunk.Code[offset])
	switch op {
	case OpConstant, OpDefineGlobal, OpGetGlobal, OpSetGlobal,
		OpGetProperty, OpSetProperty, OpGetSuper, OpClass, OpMethod:
		idx := chunk.Code[offset+1]
		return fmt.Sprintf("%s%-16s %4d '%s'\n", prefix, op, idx, chunk.Constants[idx].String()), offset + 2

	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		operand := chunk.Code[offset+1]
		return fmt.Sprintf("%s%-16s %4d\n", prefix, op, operand), offset + 2

	case OpInvoke, OpSuperInvoke:
		idx := chunk.Code[offset+1]
		argCount := chunk.Code[offset+2]
		return fmt.Sprintf("%s%-16s (%d args) %4d '%s'\n", prefix, op, argCount, idx, chunk.Constants[idx].String()), offset + 3

	case OpJump, OpJumpIfFalse:
		jumpOffset := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
		return fmt.Sprintf("%s%-16s %4d -> %d\n", prefix, op, offset, offset+3+jumpOffset), offset + 3

	case OpLoop:
		jumpOffset := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
		return fmt.Sprintf("%s%-16s %4d -> %d\n", prefix, op, offset, offset+3-jumpOffset), offset + 3

	case OpClosure:
		idx := chunk.Code[offset+1]
		fn := chunk.Constants[idx].AsObj().(*ObjFunction)
		fnName := "<script>"
		if fn.Name != nil {
			fnName = fn.Name.Chars
		}
		line := fmt.Sprintf("%s%-16s %4d '%s'\n", prefix, op, idx, fnName)
		next := offset + 2
		for i := 0; i < fn.UpvalueCount; i++ {
			isLocal := chunk.Code[next]
			index := chunk.Code[next+1]
			kind := "upvalue"
			if isLocal != 0 {
				kind = "local"
			}
			line += fmt.Sprintf("%04d      |                     %s %d\n", next, kind, index)
			next += 2
		}
		return line, next

	default:
		return fmt.Sprintf("%s%s\n", prefix, op), offset + 1
	}
}
