package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_String_CoercesCharAndSymbol(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, `(string #\x)`)
	require.NoError(t, err)
	s, ok := it.heap.jref(v).(*LString)
	require.True(t, ok)
	assert.Equal(t, "x", s.String())

	v, err = evalSrc(t, it, `(string 'foo)`)
	require.NoError(t, err)
	s, ok = it.heap.jref(v).(*LString)
	require.True(t, ok)
	assert.Equal(t, "FOO", s.String())
}

func Test_Makej_JrefJSet_RoundTrip(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, `(let ((s (makej 3))) (jset s 0 #\a) (jref s 0))`)
	require.NoError(t, err)
	assert.Equal(t, 'a', v.Rune())
}

func Test_Jref_OutOfBoundsFails(t *testing.T) {
	it := New()
	defer it.Close()

	_, err := evalSrc(t, it, `(jref (makej 1) 5)`)
	require.Error(t, err)
	fail, ok := err.(*Failure)
	require.True(t, ok)
	assert.Equal(t, FailIndexOutOfBounds, fail.Kind)
}

func Test_StringLength(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.heap.allocJref(&LString{Bytes: []byte("hello")})
	n, _, err := biStringLength(it, []Value{v})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n.Int())
}

func Test_StringAppend(t *testing.T) {
	it := New()
	defer it.Close()

	a := it.heap.allocJref(&LString{Bytes: []byte("foo")})
	b := it.heap.allocJref(&LString{Bytes: []byte("bar")})
	v, _, err := biStringAppend(it, []Value{a, b})
	require.NoError(t, err)
	s, ok := it.heap.jref(v).(*LString)
	require.True(t, ok)
	assert.Equal(t, "foobar", s.String())
}

func Test_Intern_AndSymbolName(t *testing.T) {
	it := New()
	defer it.Close()

	name := it.heap.allocJref(&LString{Bytes: []byte("FRESH-SYM")})
	sym, _, err := biIntern(it, []Value{name})
	require.NoError(t, err)
	require.True(t, sym.IsIref())

	back, _, err := biSymbolName(it, []Value{sym})
	require.NoError(t, err)
	s, ok := it.heap.jref(back).(*LString)
	require.True(t, ok)
	assert.Equal(t, "FRESH-SYM", s.String())
}
