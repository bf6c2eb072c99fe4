package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleCompiledChunk(t *testing.T) {
	m := New()
	fn, err := m.Compile("print 1 + 2;")
	require.NoError(t, err)

	want := "== script ==\n" +
		"0000    1 CONSTANT            0 '1'\n" +
		"0002    | CONSTANT            1 '2'\n" +
		"0004    | ADD\n" +
		"0005    | PRINT\n" +
		"0006    | NIL\n" +
		"0007    | RETURN\n"
	assert.Equal(t, want, DisassembleChunk(fn.Chunk, "script"))
}

func TestDisassembleJumpTargets(t *testing.T) {
	m := New()
	fn, err := m.Compile("if (true) print 1; else print 2;")
	require.NoError(t, err)

	out := DisassembleChunk(fn.Chunk, "script")
	ifFalse := strings.Index(out, "JUMP_IF_FALSE")
	jump := strings.Index(out, "JUMP ")
	require.GreaterOrEqual(t, ifFalse, 0)
	require.GreaterOrEqual(t, jump, 0)
	assert.Less(t, ifFalse, jump, "the conditional jump is emitted before the else-skipping jump")
	assert.Contains(t, out, "->", "jump lines render their resolved target offset")
}

func TestDisassembleClosureUpvaluePairs(t *testing.T) {
	m := New()
	source := "fun outer(x) { fun inner() { print x; } return inner; }"
	fn, err := m.Compile(source)
	require.NoError(t, err)

	// outer's chunk holds the CLOSURE instruction for inner, followed by
	// one (is_local, index) operand pair for the captured parameter.
	var outer *ObjFunction
	for _, c := range fn.Chunk.Constants {
		if f, ok := c.AsObj().(*ObjFunction); ok {
			outer = f
			break
		}
	}
	require.NotNil(t, outer)

	out := DisassembleChunk(outer.Chunk, "outer")
	assert.Contains(t, out, "CLOSURE")
	assert.Contains(t, out, "'inner'")
	assert.Contains(t, out, "local 1", "inner captures outer's parameter slot directly")
}
