package main

import "fmt"

// Tag names the primary type of a Value.
//
// The original LISP 800 design packs this into the low two bits of a
// machine word, with nil reinterpreted as the zero inline value. Per the
// Design Notes, we trade that bit-packing for an explicit tagged union:
// heap-tagged values carry an arena index rather than a raw pointer, so the
// collector can be a plain mark-sweep over Go slices instead of pointer
// arithmetic over a byte-addressed region.
type Tag uint8

const (
	TagNil Tag = iota
	TagFixnum
	TagChar
	TagCons
	TagIref
	TagJref
	// TagUnbound is the sentinel distinguishing a never-set value/function/
	// macro cell from one explicitly holding nil (spec §3, "Symbol").
	TagUnbound
)

func (t Tag) String() string {
	switch t {
	case TagNil:
		return "nil"
	case TagFixnum:
		return "fixnum"
	case TagChar:
		return "char"
	case TagCons:
		return "cons"
	case TagIref:
		return "iref"
	case TagJref:
		return "jref"
	case TagUnbound:
		return "unbound"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Value is a tagged runtime value: the word that flows through the
// evaluator, gets pushed into frames, and gets stored in cons cars/cdrs and
// binding cells.
type Value struct {
	tag Tag
	num int64 // fixnum payload or char code
	idx int32 // arena index for TagCons / TagIref / TagJref
}

// Nil is the canonical empty-list/false value.
var Nil = Value{tag: TagNil}

// Unbound is the sentinel stored in a symbol's value/function/macro cell
// before it has ever been assigned.
var Unbound = Value{tag: TagUnbound}

// IsUnbound reports whether v is the unbound sentinel.
func (v Value) IsUnbound() bool { return v.tag == TagUnbound }

// Fixnum constructs a machine-integer value.
func Fixnum(n int64) Value { return Value{tag: TagFixnum, num: n} }

// Char constructs a character value from a rune.
func Char(r rune) Value { return Value{tag: TagChar, num: int64(r)} }

func (v Value) Tag() Tag   { return v.tag }
func (v Value) IsNil() bool { return v.tag == TagNil }
func (v Value) IsFixnum() bool { return v.tag == TagFixnum }
func (v Value) IsChar() bool   { return v.tag == TagChar }
func (v Value) IsCons() bool   { return v.tag == TagCons }
func (v Value) IsIref() bool   { return v.tag == TagIref }
func (v Value) IsJref() bool   { return v.tag == TagJref }

// Int returns the fixnum payload; callers must check IsFixnum first.
func (v Value) Int() int64 { return v.num }

// Rune returns the character payload; callers must check IsChar first.
func (v Value) Rune() rune { return rune(v.num) }

func (v Value) consIdx() int32 { return v.idx }
func (v Value) irefIdx() int32 { return v.idx }
func (v Value) jrefIdx() int32 { return v.idx }

func consVal(i int32) Value { return Value{tag: TagCons, idx: i} }
func irefVal(i int32) Value { return Value{tag: TagIref, idx: i} }
func jrefVal(i int32) Value { return Value{tag: TagJref, idx: i} }

// Eq implements the identity predicate `eq`: tag and payload equal, with
// heap-tagged values compared by arena slot rather than content.
func Eq(a, b Value) bool {
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagNil:
		return true
	case TagFixnum, TagChar:
		return a.num == b.num
	default:
		return a.idx == b.idx
	}
}

// IsTrue reports whether v counts as a "non-nil" boolean in a Lisp
// conditional context: everything but nil is true.
func (v Value) IsTrue() bool { return v.tag != TagNil }

// boolValue renders a Go bool back into the canonical nil/T pair used by
// predicates; the T symbol itself is installed at boot (see boot.go).
func (it *Interpreter) boolValue(b bool) Value {
	if b {
		return it.symT
	}
	return Nil
}
