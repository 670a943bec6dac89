package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Heap_CollectClearsMarkBits covers spec §8's property that after any
// collection, the mark bit is zero on every header: a garbage cons should be
// swept, and a reachable one should survive with its mark bit cleared so
// that the next collection starts clean.
func Test_Heap_CollectClearsMarkBits(t *testing.T) {
	h := NewHeap()

	garbage := h.allocCons(Fixnum(1), Fixnum(2))
	kept := h.allocCons(Fixnum(3), Fixnum(4))

	_ = garbage

	h.Collect([]Value{kept})

	assert.False(t, h.consMark[kept.consIdx()], "mark bit must be clear after collection")
	assert.True(t, h.consFree[garbage.consIdx()], "unreached cons must be freed")
	assert.False(t, h.consFree[kept.consIdx()], "reached cons must survive")
}

func Test_Heap_ConsRoundTrip(t *testing.T) {
	h := NewHeap()
	v := h.allocCons(Fixnum(10), Fixnum(20))

	cell := h.cons(v)
	assert.Equal(t, int64(10), cell.Car.Int())
	assert.Equal(t, int64(20), cell.Cdr.Int())
}

func Test_Heap_FreeSlotsAreReused(t *testing.T) {
	h := NewHeap()
	a := h.allocCons(Fixnum(1), Nil)
	h.Collect(nil) // nothing rooted, a is garbage

	b := h.allocCons(Fixnum(2), Nil)
	require.Equal(t, a.consIdx(), b.consIdx(), "a freed slot should be recycled rather than growing the arena")
}

// Test_Heap_CyclicConsesAreCollected exercises the "Cyclic references"
// design note: a self-referential pair with no root must still be swept.
func Test_Heap_CyclicConsesAreCollected(t *testing.T) {
	h := NewHeap()
	a := h.allocCons(Nil, Nil)
	b := h.allocCons(a, Nil)
	h.cons(a).Cdr = b // a <-> b cycle, unreachable from any root

	conses, _, _ := h.LiveCounts()
	require.Equal(t, 2, conses)

	h.Collect(nil)

	conses, _, _ = h.LiveCounts()
	assert.Equal(t, 0, conses, "a cycle with no external root must be fully collected")
}

func Test_Heap_IrefMarkChildrenReachesSymbolCells(t *testing.T) {
	it := New()
	defer it.Close()

	sym := it.intern(it.userPackage, "CYCLE-TEST-VAR")
	it.symbolOf(sym).Value = it.cons(Fixnum(99), Nil)

	it.GC()

	s := it.symbolOf(sym)
	require.True(t, s.Value.IsCons())
	assert.Equal(t, int64(99), it.car(s.Value).Int(), "a symbol's value cell keeps its referent alive across GC")
}
