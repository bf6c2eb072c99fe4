package vm

// Value is Lumen's runtime value: nil, a bool, a 64-bit float, or a
// reference to a heap Obj. Two interchangeable encodings are provided
// behind this same file's API:
//
//   - value_tagged.go (default build): an explicit discriminant plus a
//     union of bool/float64/Obj fields.
//   - value_nanbox.go (`-tags nanbox`): a single 64-bit word, using the
//     IEEE-754 quiet-NaN space to tag nil/true/false and, with the
//     sign bit set, a boxed object pointer; any other bit pattern is an
//     ordinary float64.
//
// Both variants implement the constructors, predicates, and Equals below;
// no other file in this package may depend on which one is active.
//
// Construction: NilVal, BoolVal, NumberVal, ObjVal.
// Predicates: IsNil, IsBool, IsNumber, IsObj, IsFalsey.
// Accessors: AsBool, AsNumber, AsObj.
// Comparison: Equals (numbers by IEEE double equality even in the
// NaN-boxed encoding — the pattern compare must fall back to a numeric
// compare so NaN != NaN still holds).

// isFalseyValue reports whether v is "falsey": nil or false. Everything
// else is truthy.
func isFalseyValue(v Value) bool {
	if v.IsNil() {
		return true
	}
	if v.IsBool() {
		return !v.AsBool()
	}
	return false
}
