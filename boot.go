package main

import (
	"errors"
	"os"
)

// boot.go performs the one-time setup spec §6 asks for: installing
// *STANDARD-INPUT*/*STANDARD-OUTPUT*/*ERROR-OUTPUT*/*PACKAGES* as special
// variables, creating the KEYWORD and user packages, interning T, and
// registering every built-in function (spec §4.8) under its symbol.

type builtinSpec struct {
	name string
	min  int
	max  int // -1 means unbounded
	fn   BuiltinFunc
}

var allBuiltins []builtinSpec

func registerBuiltin(name string, min, max int, fn BuiltinFunc) {
	allBuiltins = append(allBuiltins, builtinSpec{name, min, max, fn})
}

// errOutOfMemory is the out-of-memory fatal spec §4.1 names: an arena that
// is still at its configured Limit after three GC-and-retry attempts.
var errOutOfMemory = errors.New("out of memory")

func (it *Interpreter) boot() {
	it.heap = NewHeap()
	it.heap.Limit = it.memLimit
	it.heap.onLimitExceeded = it.GC
	it.heap.onOutOfMemory = func() { it.halt(errOutOfMemory) }

	it.keywordPackage = it.heap.allocIref(newPackage("KEYWORD"))
	it.userPackage = it.heap.allocIref(newPackage("COMMON-LISP-USER"))
	it.packages = []Value{it.keywordPackage, it.userPackage}

	it.symT = it.intern(it.userPackage, "T")
	it.symbolOf(it.symT).Value = it.symT
	it.symbolOf(it.symT).Constant = true

	it.breakHandlerSym = it.intern(it.userPackage, "*BREAK-HANDLER*")
	it.symbolOf(it.breakHandlerSym).Special = true

	it.stdinSym = it.declareSpecialStream("*STANDARD-INPUT*", wrapInputStream("<stdin>", os.Stdin))
	it.stdoutSym = it.declareSpecialStream("*STANDARD-OUTPUT*", wrapOutputStream("<stdout>", os.Stdout))
	it.errorOutSym = it.declareSpecialStream("*ERROR-OUTPUT*", wrapOutputStream("<stderr>", os.Stderr))

	it.packagesSym = it.intern(it.userPackage, "*PACKAGES*")
	it.symbolOf(it.packagesSym).Special = true
	it.symbolOf(it.packagesSym).Value = it.makeList(it.packages)

	it.registerBuiltins()
}

func (it *Interpreter) declareSpecialStream(name string, s *Stream) Value {
	sym := it.intern(it.userPackage, name)
	it.symbolOf(sym).Special = true
	it.symbolOf(sym).Value = it.heap.allocJref(s)
	return sym
}

func (it *Interpreter) registerBuiltins() {
	it.builtinTable = make([]*Function, len(allBuiltins))
	for i, spec := range allBuiltins {
		fn := &Function{Name: spec.name, Native: spec.fn, MinArgs: spec.min, MaxArgs: spec.max}
		it.builtinTable[i] = fn
		sym := it.intern(it.userPackage, spec.name)
		s := it.symbolOf(sym)
		s.BuiltinIndex = i
		s.Function = it.heap.allocIref(fn)
	}
}

// gcRoots gathers everything spec §4.2 names as a root: the values
// register, the package registry, every live frame on the call stack
// (which in turn reaches its lexical environment), and the tag of every
// active CATCH on the catch stack.
func (it *Interpreter) gcRoots() []Value {
	roots := make([]Value, 0, len(it.values)+len(it.packages)+4)
	roots = append(roots, it.values...)
	roots = append(roots, it.packages...)
	for i := range it.frames {
		it.frames[i].mark(it.heap)
	}
	for _, c := range it.catchStack {
		roots = append(roots, c.tag)
	}
	return roots
}

// GC runs one explicit collection cycle, used by the `(gc)` built-in and by
// the allocator's triple-retry-then-fatal discipline (spec §4.1/§4.2). Since
// Frame.mark already walks the live call stack directly into the heap's
// mark bits, gcRoots()'s return value only needs the remaining roots; the
// frame walk has already happened as a side effect by the time Collect
// marks the rest.
func (it *Interpreter) GC() {
	roots := it.gcRoots()
	it.heap.Collect(roots)
}
