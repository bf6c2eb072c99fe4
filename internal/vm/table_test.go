package vm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func internTestString(chars string) *ObjString {
	s := &ObjString{Chars: chars, Hash: fnv1a64(chars)}
	s.kind = TypeString
	return s
}

func TestTableSetGetDelete(t *testing.T) {
	tbl := NewTable()
	k1 := internTestString("alpha")
	k2 := internTestString("beta")

	require.True(t, tbl.Set(k1, NumberVal(1)))
	require.True(t, tbl.Set(k2, NumberVal(2)))
	require.False(t, tbl.Set(k1, NumberVal(11))) // overwrite, not a new key

	v, ok := tbl.Get(k1)
	require.True(t, ok)
	assert.Equal(t, 11.0, v.AsNumber())

	require.True(t, tbl.Delete(k1))
	_, ok = tbl.Get(k1)
	assert.False(t, ok)

	// Deleting again reports no entry, without touching count.
	assert.False(t, tbl.Delete(k1))
}

func TestTableTombstonePreservesProbeChain(t *testing.T) {
	// Fill the table with 20 keys (enough that some share probe chains
	// under linear probing), delete one of them, and confirm every other
	// key is still found.
	tbl := NewTable()
	keys := make([]*ObjString, 0, 20)
	for i := 0; i < 20; i++ {
		k := internTestString(string(rune('a' + i)))
		keys = append(keys, k)
		tbl.Set(k, NumberVal(float64(i)))
	}

	require.True(t, tbl.Delete(keys[5]))
	for i, k := range keys {
		if i == 5 {
			continue
		}
		v, ok := tbl.Get(k)
		require.Truef(t, ok, "key %d missing after unrelated delete", i)
		assert.Equal(t, float64(i), v.AsNumber())
	}
}

func TestTableCapacityIsPowerOfTwoAfterGrowth(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < 100; i++ {
		tbl.Set(internTestString(fmt.Sprintf("key%d", i)), NilVal())
	}
	cap := tbl.capacity()
	assert.NotZero(t, cap)
	assert.Zero(t, cap&(cap-1), "capacity %d is not a power of two", cap)
}

func TestFindStringLooksUpByContent(t *testing.T) {
	tbl := NewTable()
	s := internTestString("shared")
	tbl.Set(s, NilVal())

	found := tbl.FindString("shared", fnv1a64("shared"))
	require.NotNil(t, found)
	assert.Same(t, s, found)

	assert.Nil(t, tbl.FindString("missing", fnv1a64("missing")))
}

func TestInternStringReturnsCanonicalPointer(t *testing.T) {
	vm := New()
	a := vm.internString("hello")
	b := vm.internString("hello")
	assert.Same(t, a, b)

	c := vm.internString("world")
	assert.NotSame(t, a, c)
}
