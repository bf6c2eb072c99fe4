package vm

// ObjType tags the concrete kind of a heap object. The set is closed:
// every runtime heap value is one of these eight kinds.
type ObjType uint8

const (
	TypeString ObjType = iota
	TypeFunction
	TypeUpvalue
	TypeClosure
	TypeNative
	TypeClass
	TypeInstance
	TypeBoundMethod
)

// Obj is implemented by every heap object. header exposes the common
// prefix (type tag, mark bit, intrusive list pointer) every heap object
// shares; concrete types get it for free by embedding Header.
type Obj interface {
	header() *Header
	Kind() ObjType
}

// Header is the common prefix every heap object embeds. marked is the GC
// mark bit; next chains every live object into the VM's intrusive
// all-objects list, the collector's only handle for sweeping.
type Header struct {
	kind   ObjType
	marked bool
	next   Obj
}

func (h *Header) header() *Header { return h }
func (h *Header) Kind() ObjType   { return h.kind }

// ObjString is the heap string object. Hash is precomputed at creation
// (FNV-1a) and never recomputed.
type ObjString struct {
	Header
	Chars string
	Hash  uint64
}

// ObjFunction is a compiled function body: arity, its owned chunk, and an
// optional name (nil for the implicit top-level script function).
type ObjFunction struct {
	Header
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *ObjString
}

// ObjUpvalue is a captured variable. While Location >= 0 it is open and
// aliases a VM stack slot; once closed, Location is -1 and Closed holds
// the value directly. Next chains the VM's open-upvalue list, sorted by
// descending stack location.
type ObjUpvalue struct {
	Header
	Location int
	Closed   Value
	Next     *ObjUpvalue
}

// ObjClosure pairs a function with the upvalues it captured at creation.
type ObjClosure struct {
	Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

// NativeFn is the signature every native (host-provided) function must
// implement: it receives the VM (so it can intern strings and allocate
// tracked heap objects through the same registerObject choke point as
// everything else) and its argument values, returning a result or an
// error for a runtime error.
type NativeFn func(vm *VM, args []Value) (Value, error)

// ObjNative wraps a Go function so it can be called like any other Lumen
// callable.
type ObjNative struct {
	Header
	Name string
	Fn   NativeFn
}

// ObjClass is a class: its name and its method table (interned name ->
// closure value). Single inheritance copies the superclass's table into
// the subclass's at INHERIT time; there is no live superclass pointer to
// walk at dispatch time.
type ObjClass struct {
	Header
	Name    *ObjString
	Methods *Table
}

// ObjInstance is an instance of a class: a class reference plus a field
// table keyed by interned field name.
type ObjInstance struct {
	Header
	Class  *ObjClass
	Fields *Table
}

// ObjBoundMethod pairs a receiver value with the method closure looked up
// for it; GET_PROPERTY/GET_SUPER push one when a class member turns out
// to be a method rather than a field.
type ObjBoundMethod struct {
	Header
	Receiver Value
	Method   *ObjClosure
}
