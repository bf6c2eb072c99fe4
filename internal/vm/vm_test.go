package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lang/lumen/internal/vm"
)

func run(t *testing.T, source string) (string, vm.InterpretResult) {
	t.Helper()
	m := vm.New()
	var out bytes.Buffer
	m.SetOutput(&out)
	result := m.Interpret(source)
	return out.String(), result
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"arithmetic precedence", `print 1 + 2 * 3;`, "7\n"},
		{"string concatenation", `var a = "hi"; print a + " there";`, "hi there\n"},
		{"for loop accumulation", `var x = 0; for (var i = 0; i < 5; i = i + 1) { x = x + i; } print x;`, "10\n"},
		{"closures", `fun adder(n) { fun inner(m) { return n + m; } return inner; } var add2 = adder(2); print add2(40);`, "42\n"},
		{"method dispatch", `class Greeter { greet(name) { print "hi, " + name; } } Greeter().greet("world");`, "hi, world\n"},
		{"inheritance and super", `class A { init(x) { this.x = x; } } class B < A { init(x, y) { super.init(x); this.y = y; } } var b = B(1, 2); print b.x; print b.y;`, "1\n2\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, result := run(t, tc.source)
			require.Equal(t, vm.InterpretOK, result)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"adding number and string", `print 1 + "x";`},
		{"undefined global reference", `undefined_name;`},
		{"calling a non-callable", `var f = 3; f();`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, result := run(t, tc.source)
			assert.Equal(t, vm.InterpretRuntimeError, result)
		})
	}
}

func TestCompileErrorsDoNotPanic(t *testing.T) {
	_, result := run(t, `var = ;`)
	assert.Equal(t, vm.InterpretCompileError, result)
}

func TestClosuresCaptureTheirOwnParameter(t *testing.T) {
	// Each call to make() creates a closure over that call's own `i`
	// parameter, which is closed when make() returns, so the three
	// closures print distinct values rather than sharing one.
	source := `
	fun make(i) {
		fun inner() { print i; }
		return inner;
	}
	var a = make(1);
	var b = make(2);
	var c = make(3);
	a(); b(); c();
	`
	out, result := run(t, source)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestStringConcatenationInterns(t *testing.T) {
	source := `var a = "a" + "b"; var b = "a" + "b"; print a == b;`
	out, result := run(t, source)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "true\n", out)
}

func TestGCStressDoesNotCorruptState(t *testing.T) {
	m := vm.New()
	m.SetStressGC(true)
	var out bytes.Buffer
	m.SetOutput(&out)

	source := `
	class Node {
		init(value) {
			this.value = value;
			this.next = nil;
		}
	}
	var head = nil;
	for (var i = 0; i < 50; i = i + 1) {
		var n = Node(i);
		n.next = head;
		head = n;
	}
	var count = 0;
	var cur = head;
	while (cur != nil) {
		count = count + 1;
		cur = cur.next;
	}
	print count;
	`
	// The `while (cur != nil)` above uses `!=`, composed from EQUAL+NOT.
	result := m.Interpret(source)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "50\n", out.String())
}

func TestNativeClockAndUUID(t *testing.T) {
	source := `var t = clock(); var id = uuid(); print t > 0; print id != nil;`
	out, result := run(t, source)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "true\ntrue\n", out)
}

func TestYAMLRoundTrip(t *testing.T) {
	source := `
	class Point { init(x, y) { this.x = x; this.y = y; } }
	var p = Point(1, 2);
	var text = to_yaml(p);
	var decoded = from_yaml(text);
	print decoded.x;
	print decoded.y;
	`
	out, result := run(t, source)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "1\n2\n", out)
}
