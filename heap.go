package main

// heap.go implements the mark-sweep collector of spec §4.2 over three typed
// arenas (cons cells, iref objects, jref objects) instead of one raw
// word-addressed region. Each arena is a parallel set of slices: the data
// itself, a mark bit, and a free bit, exactly mirroring the "header word
// carries a mark bit, the free list threads unallocated runs" shape of the
// original design but expressed as Go slices rather than pointer splicing
// (teacher's memcore.go/internal/mem.PagedCore page the same way, by index
// rather than raw address).

type consCell struct{ Car, Cdr Value }

// irefObj is the common interface every iref (word-array heap object)
// satisfies: a subtype tag for dispatch and a hook the collector calls to
// mark every Value the object keeps alive.
type irefObj interface {
	irefSubtype() IrefSubtype
	markChildren(h *Heap)
}

// jrefObj is the jref (byte/bit-addressed blob) analog of irefObj.
type jrefObj interface {
	jrefSubtype() JrefSubtype
	markChildren(h *Heap)
}

// IrefSubtype enumerates the iref discriminators named in spec §3.
type IrefSubtype uint8

const (
	SubSymbol IrefSubtype = iota
	SubVector
	SubPackage
	SubFunction
	SubStructure
)

// JrefSubtype enumerates the jref discriminators named in spec §3.
type JrefSubtype uint8

const (
	SubString JrefSubtype = iota
	SubDouble
	SubBitVector
	SubStream
)

// Heap owns every cons/iref/jref ever allocated by an Interpreter.
type Heap struct {
	conses     []consCell
	consMark   []bool
	consFree   []bool
	consFreeID []int32

	irefs     []irefObj
	irefMark  []bool
	irefFree  []bool
	irefFreeID []int32

	jrefs     []jrefObj
	jrefMark  []bool
	jrefFree  []bool
	jrefFreeID []int32

	// Limit, if non-zero, bounds the total number of live objects any one
	// arena may hold; exceeding it is an out-of-memory fatal (spec §4.1).
	Limit uint

	// onLimitExceeded is invoked to try to free room (a GC cycle) once an
	// arena with an exhausted free list has reached Limit. onOutOfMemory is
	// invoked after three such attempts still leave the arena at capacity;
	// it is expected not to return (the owning Interpreter's halt panics).
	// Both are wired by Interpreter.boot; a bare *Heap with Limit 0 (as in
	// unit tests) never consults either.
	onLimitExceeded func()
	onOutOfMemory   func()

	collections uint
}

// NewHeap returns an empty heap with no object limit.
func NewHeap() *Heap { return &Heap{} }

// makeRoom enforces spec §4.1's "on failure it triggers collection and
// retries up to three times before aborting with an out-of-memory fatal"
// for one arena, called only once that arena's free list is exhausted. live
// reports the arena's current live count and is re-invoked after every
// collection attempt, since onLimitExceeded may free slots into the arena's
// free list without shrinking its backing slice.
func (h *Heap) makeRoom(live func() int) {
	if h.Limit == 0 || uint(live()) < h.Limit {
		return
	}
	for attempt := 0; attempt < 3; attempt++ {
		if h.onLimitExceeded == nil {
			return
		}
		h.onLimitExceeded()
		if uint(live()) < h.Limit {
			return
		}
	}
	if h.onOutOfMemory != nil {
		h.onOutOfMemory()
	}
}

func (h *Heap) allocCons(car, cdr Value) Value {
	if n := len(h.consFreeID); n > 0 {
		i := h.consFreeID[n-1]
		h.consFreeID = h.consFreeID[:n-1]
		h.consFree[i] = false
		h.conses[i] = consCell{car, cdr}
		return consVal(i)
	}
	h.makeRoom(func() int { return len(h.conses) - len(h.consFreeID) })
	if n := len(h.consFreeID); n > 0 {
		i := h.consFreeID[n-1]
		h.consFreeID = h.consFreeID[:n-1]
		h.consFree[i] = false
		h.conses[i] = consCell{car, cdr}
		return consVal(i)
	}
	h.conses = append(h.conses, consCell{car, cdr})
	h.consMark = append(h.consMark, false)
	h.consFree = append(h.consFree, false)
	return consVal(int32(len(h.conses) - 1))
}

func (h *Heap) cons(v Value) *consCell { return &h.conses[v.consIdx()] }

func (h *Heap) allocIref(obj irefObj) Value {
	if n := len(h.irefFreeID); n > 0 {
		i := h.irefFreeID[n-1]
		h.irefFreeID = h.irefFreeID[:n-1]
		h.irefFree[i] = false
		h.irefs[i] = obj
		return irefVal(i)
	}
	h.makeRoom(func() int { return len(h.irefs) - len(h.irefFreeID) })
	if n := len(h.irefFreeID); n > 0 {
		i := h.irefFreeID[n-1]
		h.irefFreeID = h.irefFreeID[:n-1]
		h.irefFree[i] = false
		h.irefs[i] = obj
		return irefVal(i)
	}
	h.irefs = append(h.irefs, obj)
	h.irefMark = append(h.irefMark, false)
	h.irefFree = append(h.irefFree, false)
	return irefVal(int32(len(h.irefs) - 1))
}

func (h *Heap) iref(v Value) irefObj { return h.irefs[v.irefIdx()] }

func (h *Heap) allocJref(obj jrefObj) Value {
	if n := len(h.jrefFreeID); n > 0 {
		i := h.jrefFreeID[n-1]
		h.jrefFreeID = h.jrefFreeID[:n-1]
		h.jrefFree[i] = false
		h.jrefs[i] = obj
		return jrefVal(i)
	}
	h.makeRoom(func() int { return len(h.jrefs) - len(h.jrefFreeID) })
	if n := len(h.jrefFreeID); n > 0 {
		i := h.jrefFreeID[n-1]
		h.jrefFreeID = h.jrefFreeID[:n-1]
		h.jrefFree[i] = false
		h.jrefs[i] = obj
		return jrefVal(i)
	}
	h.jrefs = append(h.jrefs, obj)
	h.jrefMark = append(h.jrefMark, false)
	h.jrefFree = append(h.jrefFree, false)
	return jrefVal(int32(len(h.jrefs) - 1))
}

func (h *Heap) jref(v Value) jrefObj { return h.jrefs[v.jrefIdx()] }

// mark walks v and everything reachable from it, setting mark bits. It is
// guarded by the mark bit itself so cycles terminate.
func (h *Heap) mark(v Value) {
	switch v.tag {
	case TagCons:
		i := v.idx
		if h.consMark[i] {
			return
		}
		h.consMark[i] = true
		cell := h.conses[i]
		h.mark(cell.Car)
		h.mark(cell.Cdr)
	case TagIref:
		i := v.idx
		if h.irefMark[i] {
			return
		}
		h.irefMark[i] = true
		h.irefs[i].markChildren(h)
	case TagJref:
		i := v.idx
		if h.jrefMark[i] {
			return
		}
		h.jrefMark[i] = true
		h.jrefs[i].markChildren(h)
	}
}

// Collect runs one full mark-sweep cycle over the given roots. Per spec
// §4.2 it must be safe to call at any time and must leave every mark bit
// clear afterward (spec §8's "After any top-level evaluation, the GC mark
// bit is zero on every header").
func (h *Heap) Collect(roots []Value) {
	h.collections++
	for _, r := range roots {
		h.mark(r)
	}

	for i := range h.conses {
		if h.consMark[i] {
			h.consMark[i] = false
		} else if !h.consFree[i] {
			h.consFree[i] = true
			h.consFreeID = append(h.consFreeID, int32(i))
			h.conses[i] = consCell{}
		}
	}
	for i := range h.irefs {
		if h.irefMark[i] {
			h.irefMark[i] = false
		} else if !h.irefFree[i] {
			h.irefFree[i] = true
			h.irefFreeID = append(h.irefFreeID, int32(i))
			h.irefs[i] = nil
		}
	}
	for i := range h.jrefs {
		if h.jrefMark[i] {
			h.jrefMark[i] = false
		} else if !h.jrefFree[i] {
			h.jrefFree[i] = true
			h.jrefFreeID = append(h.jrefFreeID, int32(i))
			h.jrefs[i] = nil
		}
	}
}

// LiveCounts reports the number of in-use slots in each arena, used by the
// `(gc)` built-in, the -dump diagnostics, and tests asserting GC behavior.
func (h *Heap) LiveCounts() (conses, irefs, jrefs int) {
	return len(h.conses) - len(h.consFreeID), len(h.irefs) - len(h.irefFreeID), len(h.jrefs) - len(h.jrefFreeID)
}
