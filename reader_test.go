package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Reader_Integer(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, "42")
	require.True(t, v.IsFixnum())
	assert.Equal(t, int64(42), v.Int())

	v = readOneForm(t, it, "-7")
	assert.Equal(t, int64(-7), v.Int())
}

func Test_Reader_Float(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, "3.5")
	require.True(t, v.IsJref())
	d, ok := it.heap.jref(v).(*Double)
	require.True(t, ok)
	assert.Equal(t, 3.5, d.F)
}

func Test_Reader_FloatWithIntegralValueBoxesOnlyWhenNecessary(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, "4.0")
	require.True(t, v.IsFixnum(), "an integral-valued float in fixnum range collapses to Fixnum")
	assert.Equal(t, int64(4), v.Int())
}

func Test_Reader_StringWithEscapes(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, `"a\"b\\c"`)
	s, ok := it.heap.jref(v).(*LString)
	require.True(t, ok)
	assert.Equal(t, `a"b\c`, s.String())
}

func Test_Reader_CharacterLiterals(t *testing.T) {
	it := New()
	defer it.Close()

	assert.Equal(t, 'x', readOneForm(t, it, `#\x`).Rune())
	assert.Equal(t, ' ', readOneForm(t, it, `#\Space`).Rune())
	assert.Equal(t, '\n', readOneForm(t, it, `#\Newline`).Rune())
}

func Test_Reader_Keyword(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, ":FOO")
	sym, ok := it.heap.iref(v).(*Symbol)
	require.True(t, ok)
	assert.Equal(t, "FOO", sym.Name)
	assert.Equal(t, it.keywordPackage, sym.Package)
}

func Test_Reader_SymbolIsCaseFolded(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, "foo-bar")
	sym, ok := it.heap.iref(v).(*Symbol)
	require.True(t, ok)
	assert.Equal(t, "FOO-BAR", sym.Name)
}

func Test_Reader_QuoteShorthand(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, "'x")
	require.True(t, v.IsCons())
	assert.Equal(t, "QUOTE", it.symbolOf(it.car(v)).Name)
	assert.Equal(t, "X", it.symbolOf(it.car(it.cdr(v))).Name)
}

func Test_Reader_DottedPair(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, "(1 . 2)")
	require.True(t, v.IsCons())
	assert.Equal(t, int64(1), it.car(v).Int())
	assert.Equal(t, int64(2), it.cdr(v).Int())
}

func Test_Reader_NestedListsAndComments(t *testing.T) {
	it := New()
	defer it.Close()

	v := readOneForm(t, it, "(1 ; a comment\n (2 3) 4)")
	elems := it.listElements(v)
	require.Len(t, elems, 3)
	assert.Equal(t, int64(1), elems[0].Int())
	assert.Equal(t, int64(4), elems[2].Int())
	inner := it.listElements(elems[1])
	require.Len(t, inner, 2)
}

func Test_Reader_EOFOnEmptyInput(t *testing.T) {
	it := New()
	defer it.Close()

	rd := NewReader(strings.NewReader(""))
	_, err := it.ReadForm(rd)
	assert.ErrorIs(t, err, io.EOF)
}

func Test_Reader_Backquote_SimpleSubstitution(t *testing.T) {
	it := New()
	defer it.Close()
	env := newEnv(nil)
	env.bindValue("Y", Fixnum(9))

	rd := NewReader(strings.NewReader("`(a ,y c)"))
	form, err := it.ReadForm(rd)
	require.NoError(t, err)

	v, err := it.Eval(env, form)
	require.NoError(t, err)
	elems := it.listElements(v)
	require.Len(t, elems, 3)
	assert.Equal(t, "A", it.symbolOf(elems[0]).Name)
	assert.Equal(t, int64(9), elems[1].Int())
	assert.Equal(t, "C", it.symbolOf(elems[2]).Name)
}
