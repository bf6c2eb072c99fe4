package vm

// OpCode is a single VM instruction. Operands are one byte throughout,
// except the 16-bit big-endian jump offsets used by
// JUMP/JUMP_IF_FALSE/LOOP.
type OpCode byte

const (
	OpConstant OpCode = iota // idx(1) -- push constants[idx]
	OpNil                    // -- push nil
	OpTrue                   // -- push true
	OpFalse                  // -- push false
	OpPop                    // -- pop one

	OpDefineGlobal // idx(1) -- name=constants[idx]; globals[name]=peek(0); pop
	OpGetGlobal    // idx(1) -- push globals[name] or raise undefined-variable error
	OpSetGlobal    // idx(1) -- assign if present, else raise undefined-variable error

	OpGetLocal // slot(1) -- push frame.slots[slot]
	OpSetLocal // slot(1) -- frame.slots[slot] = peek(0)

	OpGetUpvalue // slot(1) -- push *closure.upvalues[slot].location
	OpSetUpvalue // slot(1) -- *closure.upvalues[slot].location = peek(0)

	OpGetProperty // idx(1) -- receiver on top must be instance
	OpSetProperty // idx(1) -- value, instance on top; write field, leave value
	OpGetSuper    // idx(1) -- pop superclass, bind its method to `this` on top

	OpEqual
	OpLess
	OpGreater

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNegate

	OpNot

	OpPrint

	OpJump         // offset(2, big-endian) -- ip += offset
	OpJumpIfFalse  // offset(2, big-endian) -- if falsey(peek(0)) ip += offset; no pop
	OpLoop         // offset(2, big-endian) -- ip -= offset

	OpCall        // argc(1) -- invoke stack[top-argc-1] with argc args
	OpInvoke      // idx(1), argc(1) -- fused GET_PROPERTY + CALL for methods
	OpSuperInvoke // idx(1), argc(1) -- like INVOKE but looked up in popped superclass

	OpClosure      // idx(1), then upvalueCount (is_local, index) byte pairs
	OpCloseUpvalue // -- close any open upvalue at top-1; pop

	OpReturn

	OpClass     // idx(1) -- push new class with name
	OpInherit   // -- superclass, subclass on top; copy superclass methods
	OpMethod    // idx(1) -- top: method closure; below: class

	OpNumOpcodes
)

var opcodeNames = [...]string{
	OpConstant:     "CONSTANT",
	OpNil:          "NIL",
	OpTrue:         "TRUE",
	OpFalse:        "FALSE",
	OpPop:          "POP",
	OpDefineGlobal: "DEFINE_GLOBAL",
	OpGetGlobal:    "GET_GLOBAL",
	OpSetGlobal:    "SET_GLOBAL",
	OpGetLocal:     "GET_LOCAL",
	OpSetLocal:     "SET_LOCAL",
	OpGetUpvalue:   "GET_UPVALUE",
	OpSetUpvalue:   "SET_UPVALUE",
	OpGetProperty:  "GET_PROPERTY",
	OpSetProperty:  "SET_PROPERTY",
	OpGetSuper:     "GET_SUPER",
	OpEqual:        "EQUAL",
	OpLess:         "LESS",
	OpGreater:      "GREATER",
	OpAdd:          "ADD",
	OpSubtract:     "SUBTRACT",
	OpMultiply:     "MULTIPLY",
	OpDivide:       "DIVIDE",
	OpNegate:       "NEGATE",
	OpNot:          "NOT",
	OpPrint:        "PRINT",
	OpJump:         "JUMP",
	OpJumpIfFalse:  "JUMP_IF_FALSE",
	OpLoop:         "LOOP",
	OpCall:         "CALL",
	OpInvoke:       "INVOKE",
	OpSuperInvoke:  "SUPER_INVOKE",
	OpClosure:      "CLOSURE",
	OpCloseUpvalue: "CLOSE_UPVALUE",
	OpReturn:       "RETURN",
	OpClass:        "CLASS",
	OpInherit:      "INHERIT",
	OpMethod:       "METHOD",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}
