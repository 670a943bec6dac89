package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rebindStdout swaps *STANDARD-OUTPUT* for a stream over an in-memory
// buffer, so PRINT/PRINC/WRITE tests don't touch the real process stdout.
func rebindStdout(it *Interpreter) *bytes.Buffer {
	var buf bytes.Buffer
	it.symbolOf(it.stdoutSym).Value = it.heap.allocJref(wrapOutputStream("<test>", &buf))
	return &buf
}

func rebindStdin(it *Interpreter, src string) {
	it.symbolOf(it.stdinSym).Value = it.heap.allocJref(wrapInputStream("<test>", strings.NewReader(src)))
}

func Test_Princ_WritesUnquotedToStandardOutput(t *testing.T) {
	it := New()
	defer it.Close()
	buf := rebindStdout(it)

	_, err := evalSrc(t, it, `(princ "hi")`)
	require.NoError(t, err)
	assert.Equal(t, "hi", buf.String())
}

func Test_Write_WritesReadablyToStandardOutput(t *testing.T) {
	it := New()
	defer it.Close()
	buf := rebindStdout(it)

	_, err := evalSrc(t, it, `(write "hi")`)
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, buf.String())
}

func Test_Print_PrependsNewline(t *testing.T) {
	it := New()
	defer it.Close()
	buf := rebindStdout(it)

	_, err := evalSrc(t, it, `(print 42)`)
	require.NoError(t, err)
	assert.Equal(t, "\n42", buf.String())
}

func Test_Read_ParsesFromStandardInput(t *testing.T) {
	it := New()
	defer it.Close()
	rebindStdin(it, "(1 2 3)")

	v, err := evalSrc(t, it, `(read)`)
	require.NoError(t, err)
	require.True(t, v.IsCons())
	assert.Equal(t, []int64{1, 2, 3}, intsOf(it, v))
}

func Test_Close_IsIdempotentAndReturnsT(t *testing.T) {
	it := New()
	defer it.Close()

	var buf bytes.Buffer
	s := wrapOutputStream("<test>", &buf)
	v := it.heap.allocJref(s)
	r1, _, err := biClose(it, []Value{v})
	require.NoError(t, err)
	assert.True(t, r1.IsTrue())

	r2, _, err := biClose(it, []Value{v})
	require.NoError(t, err)
	assert.True(t, r2.IsTrue())
}
