package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Cons_CarCdr covers spec §8's testable property `(car (cons a b)) = a`,
// `(cdr (cons a b)) = b`.
func Test_Cons_CarCdr(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.cons(Fixnum(1), Fixnum(2))
	require.True(t, v.IsCons())
	assert.Equal(t, int64(1), it.car(v).Int())
	assert.Equal(t, int64(2), it.cdr(v).Int())
}

func Test_Cons_CarCdrOfNonConsIsNil(t *testing.T) {
	it := New()
	defer it.Close()

	assert.True(t, it.car(Nil).IsNil())
	assert.True(t, it.cdr(Fixnum(3)).IsNil())
}

func Test_SetCarSetCdr_MutateInPlace(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.cons(Fixnum(1), Fixnum(2))
	it.setCar(v, Fixnum(10))
	it.setCdr(v, Fixnum(20))
	assert.Equal(t, int64(10), it.car(v).Int())
	assert.Equal(t, int64(20), it.cdr(v).Int())
}

func Test_ListElements_FlattensProperList(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.makeList([]Value{Fixnum(1), Fixnum(2), Fixnum(3)})
	elems := it.listElements(v)
	require.Len(t, elems, 3)
	assert.Equal(t, []int64{1, 2, 3}, intsOf(it, v))
}

func Test_ListElements_StopsAtDottedTail(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.makeDottedList([]Value{Fixnum(1), Fixnum(2)}, Fixnum(3))
	elems := it.listElements(v)
	require.Len(t, elems, 2)
	assert.Equal(t, int64(1), elems[0].Int())
	assert.Equal(t, int64(2), elems[1].Int())
}

func Test_ListLength_ProperAndDotted(t *testing.T) {
	it := New()
	defer it.Close()

	proper := it.makeList([]Value{Fixnum(1), Fixnum(2), Fixnum(3)})
	assert.Equal(t, 3, it.listLength(proper))

	dotted := it.makeDottedList([]Value{Fixnum(1)}, Fixnum(2))
	assert.Equal(t, -1, it.listLength(dotted))

	assert.Equal(t, 0, it.listLength(Nil))
}

func Test_MakeList_EmptyYieldsNil(t *testing.T) {
	it := New()
	defer it.Close()

	assert.True(t, it.makeList(nil).IsNil())
}

func Test_MakeDottedList_TailIsPreserved(t *testing.T) {
	it := New()
	defer it.Close()

	sym := it.intern(it.userPackage, "TAIL-SYM")
	v := it.makeDottedList([]Value{Fixnum(1)}, sym)
	assert.Equal(t, int64(1), it.car(v).Int())
	assert.True(t, Eq(it.cdr(v), sym))
}

func Test_IsSymbolNamed(t *testing.T) {
	it := New()
	defer it.Close()

	sym := it.intern(it.userPackage, "FOO")
	assert.True(t, isSymbolNamed(it, sym, "FOO"))
	assert.False(t, isSymbolNamed(it, sym, "BAR"))
	assert.False(t, isSymbolNamed(it, Fixnum(1), "FOO"))
}
