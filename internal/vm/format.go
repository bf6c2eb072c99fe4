package vm

import "fmt"

// objString renders the canonical textual form of a heap object, used by
// the PRINT opcode and by Value.String() for diagnostics.
func objString(o Obj) string {
	switch obj := o.(type) {
	case *ObjString:
		return obj.Chars
	case *ObjFunction:
		if obj.Name == nil {
			return "<script>"
		}
		return fmt.Sprintf("<fn %s>", obj.Name.Chars)
	case *ObjClosure:
		return objString(obj.Function)
	case *ObjNative:
		return "<native fn>"
	case *ObjClass:
		return obj.Name.Chars
	case *ObjInstance:
		return fmt.Sprintf("%s instance", obj.Class.Name.Chars)
	case *ObjBoundMethod:
		return objString(obj.Method)
	default:
		return "<obj>"
	}
}
