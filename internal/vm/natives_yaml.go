package vm

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// nativeToYAML serializes a value to a YAML document string. Instances
// serialize as maps of their fields; everything else maps onto YAML's
// native scalar types.
func nativeToYAML(vm *VM, args []Value) (Value, error) {
	if len(args) != 1 {
		return NilVal(), wrongArgCount("to_yaml", 1)
	}
	native, err := valueToNative(args[0])
	if err != nil {
		return NilVal(), err
	}
	out, err := yaml.Marshal(native)
	if err != nil {
		return NilVal(), err
	}
	return ObjVal(vm.internString(string(out))), nil
}

// nativeFromYAML parses a YAML document string back into a Lumen value.
func nativeFromYAML(vm *VM, args []Value) (Value, error) {
	if len(args) != 1 {
		return NilVal(), wrongArgCount("from_yaml", 1)
	}
	str, ok := asString(args[0])
	if !ok {
		return NilVal(), fmt.Errorf("from_yaml() expects a string argument.")
	}

	var decoded interface{}
	if err := yaml.Unmarshal([]byte(str.Chars), &decoded); err != nil {
		return NilVal(), err
	}
	return nativeToValue(vm, decoded), nil
}

func valueToNative(v Value) (interface{}, error) {
	switch {
	case v.IsNil():
		return nil, nil
	case v.IsBool():
		return v.AsBool(), nil
	case v.IsNumber():
		return v.AsNumber(), nil
	case v.IsObj():
		switch obj := v.AsObj().(type) {
		case *ObjString:
			return obj.Chars, nil
		case *ObjInstance:
			out := make(map[string]interface{}, obj.Fields.Count())
			var convErr error
			obj.Fields.Each(func(key *ObjString, fv Value) {
				if convErr != nil {
					return
				}
				native, err := valueToNative(fv)
				if err != nil {
					convErr = err
					return
				}
				out[key.Chars] = native
			})
			return out, convErr
		default:
			return nil, fmt.Errorf("to_yaml() cannot serialize this value.")
		}
	default:
		return nil, fmt.Errorf("to_yaml() cannot serialize this value.")
	}
}

// nativeToValue converts a decoded YAML node into a Lumen Value. Maps
// become instances of a bare Map class (no methods, just fields).
func nativeToValue(vm *VM, node interface{}) Value {
	switch n := node.(type) {
	case nil:
		return NilVal()
	case bool:
		return BoolVal(n)
	case int:
		return NumberVal(float64(n))
	case int64:
		return NumberVal(float64(n))
	case float64:
		return NumberVal(n)
	case string:
		return ObjVal(vm.internString(n))
	case map[string]interface{}:
		inst := vm.newInstance(vm.yamlMapClass())
		for k, val := range n {
			inst.Fields.Set(vm.internString(k), nativeToValue(vm, val))
		}
		return inst.asValue()
	case map[interface{}]interface{}:
		inst := vm.newInstance(vm.yamlMapClass())
		for k, val := range n {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			inst.Fields.Set(vm.internString(ks), nativeToValue(vm, val))
		}
		return inst.asValue()
	default:
		return NilVal()
	}
}

func (inst *ObjInstance) asValue() Value { return ObjVal(inst) }

// yamlMapClass lazily creates (and caches) the method-less class named
// "Map" used to represent YAML maps decoded by from_yaml.
func (vm *VM) yamlMapClass() *ObjClass {
	if vm.yamlClass == nil {
		vm.yamlClass = vm.newClass(vm.internString("Map"))
	}
	return vm.yamlClass
}
