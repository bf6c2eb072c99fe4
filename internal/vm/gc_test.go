package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countObjects walks the intrusive all-objects list.
func countObjects(vm *VM) int {
	n := 0
	for o := vm.objects; o != nil; o = o.header().next {
		n++
	}
	return n
}

func TestCollectGarbageFreesUnreachableObjects(t *testing.T) {
	m := New()
	var out bytes.Buffer
	m.SetOutput(&out)

	// Two strings: one assigned to a global (reachable), one a bare
	// expression statement whose value is immediately discarded.
	result := m.Interpret(`var kept = "kept-string"; "garbage-string";`)
	require.Equal(t, InterpretOK, result)

	before := countObjects(m)
	m.collectGarbage()
	after := countObjects(m)

	assert.Less(t, after, before)

	v, ok := m.globals.Get(m.internString("kept"))
	require.True(t, ok)
	assert.Equal(t, "kept-string", v.AsObj().(*ObjString).Chars)
}

func TestMarkRootsCoversStackAndGlobals(t *testing.T) {
	m := New()
	s := m.internString("root-value")
	m.push(ObjVal(s))
	defer m.pop()

	m.markRoots()
	assert.True(t, s.marked)

	clock, ok := m.globals.Get(m.internString("clock"))
	require.True(t, ok)
	assert.True(t, clock.AsObj().header().marked)
}

func TestSweepUnlinksUnmarkedObjects(t *testing.T) {
	m := New()
	live := m.internString("live")
	dead := m.internString("dead") // nothing keeps this one reachable

	m.markRoots() // marks globals and "init"; the intern table is weak, so neither test string is marked here
	m.markObject(live)
	m.traceReferences()
	m.removeWhiteStrings()
	m.sweep()

	found, deadFound := false, false
	for o := m.objects; o != nil; o = o.header().next {
		if o == Obj(live) {
			found = true
		}
		if o == Obj(dead) {
			deadFound = true
		}
	}
	assert.True(t, found, "explicitly marked object must survive sweep")
	assert.False(t, deadFound, "unmarked object must be unlinked by sweep")
}
