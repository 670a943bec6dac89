package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Printer_WriteString_Atoms(t *testing.T) {
	it := New()
	defer it.Close()

	assert.Equal(t, "42", it.WriteString(Fixnum(42)))
	assert.Equal(t, "NIL", it.WriteString(Nil))
	assert.Equal(t, `#\Space`, it.WriteString(Char(' ')))
	assert.Equal(t, `#\x`, it.WriteString(Char('x')))
}

func Test_Printer_WriteString_QuotesStringsPrincDoesNot(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.heap.allocJref(&LString{Bytes: []byte(`say "hi"`)})
	assert.Equal(t, `"say \"hi\""`, it.WriteString(v))
	assert.Equal(t, `say "hi"`, it.PrintString(v))
}

func Test_Printer_Keyword_HasColonOnlyWhenReadably(t *testing.T) {
	it := New()
	defer it.Close()

	kw := it.intern(it.keywordPackage, "FOO")
	assert.Equal(t, ":FOO", it.WriteString(kw))
	assert.Equal(t, "FOO", it.PrintString(kw))
}

func Test_Printer_QuoteShorthand(t *testing.T) {
	it := New()
	defer it.Close()

	quote := it.intern(it.userPackage, "QUOTE")
	x := it.intern(it.userPackage, "X")
	form := it.makeList([]Value{quote, x})
	assert.Equal(t, "'X", it.WriteString(form))
}

func Test_Printer_DottedPair(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.cons(Fixnum(1), Fixnum(2))
	assert.Equal(t, "(1 . 2)", it.WriteString(v))
}

// Test_Printer_ReadWriteRoundTrip covers spec §8's round-trip property:
// reading back what was printed reproduces an equal structure, for every
// type the reader accepts.
func Test_Printer_ReadWriteRoundTrip(t *testing.T) {
	it := New()
	defer it.Close()

	cases := []string{
		"42",
		"-7",
		"NIL",
		`"a string"`,
		"(1 2 3)",
		"(1 . 2)",
		":FOO",
		"FOO-BAR",
		`#\x`,
	}
	for _, src := range cases {
		orig := readOneForm(t, it, src)
		printed := it.WriteString(orig)
		roundTripped := readOneForm(t, it, printed)
		assert.True(t, structurallyEqual(it, orig, roundTripped), "round-trip mismatch for %q: printed %q", src, printed)
	}
}

func structurallyEqual(it *Interpreter, a, b Value) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch a.Tag() {
	case TagNil, TagUnbound:
		return true
	case TagFixnum, TagChar:
		return a.Int() == b.Int() || a.Rune() == b.Rune()
	case TagCons:
		return structurallyEqual(it, it.car(a), it.car(b)) && structurallyEqual(it, it.cdr(a), it.cdr(b))
	case TagIref:
		sa, aok := it.heap.iref(a).(*Symbol)
		sb, bok := it.heap.iref(b).(*Symbol)
		if aok && bok {
			return sa.Name == sb.Name && sa.Package == sb.Package
		}
		return Eq(a, b)
	case TagJref:
		sa, aok := it.heap.jref(a).(*LString)
		sb, bok := it.heap.jref(b).(*LString)
		if aok && bok {
			return sa.String() == sb.String()
		}
		return Eq(a, b)
	}
	return false
}

func Test_Printer_Vector(t *testing.T) {
	it := New()
	defer it.Close()

	v := it.heap.allocIref(&Vector{Elements: []Value{Fixnum(1), Fixnum(2)}})
	assert.Equal(t, "#(1 2)", it.WriteString(v))
}

func Test_Printer_Function(t *testing.T) {
	it := New()
	defer it.Close()

	carSym := it.intern(it.userPackage, "CAR")
	fn := it.symbolOf(carSym).Function
	require.True(t, fn.IsIref())
	assert.Contains(t, it.WriteString(fn), "BUILTIN-FUNCTION CAR")
}
