package main

// lists.go gathers small cons-list helpers shared by the evaluator, the
// argument binder, the reader, and the printer.

// cons allocates a fresh cons cell; grounded directly on spec §8's testable
// property `(car (cons a b)) = a` / `(cdr (cons a b)) = b`.
func (it *Interpreter) cons(car, cdr Value) Value { return it.heap.allocCons(car, cdr) }

func (it *Interpreter) car(v Value) Value {
	if !v.IsCons() {
		return Nil
	}
	return it.heap.cons(v).Car
}

func (it *Interpreter) cdr(v Value) Value {
	if !v.IsCons() {
		return Nil
	}
	return it.heap.cons(v).Cdr
}

func (it *Interpreter) setCar(v, x Value) { it.heap.cons(v).Car = x }
func (it *Interpreter) setCdr(v, x Value) { it.heap.cons(v).Cdr = x }

// listElements flattens a proper list into a slice, stopping at the first
// non-cons cdr (silently dropping an improper tail, which callers that
// care about dotted lists should walk manually instead).
func (it *Interpreter) listElements(v Value) []Value {
	var out []Value
	for v.IsCons() {
		cell := it.heap.cons(v)
		out = append(out, cell.Car)
		v = cell.Cdr
	}
	return out
}

// listLength returns a proper list's length, or -1 if it is not a proper
// list (dotted or circular-looking beyond a generous bound).
func (it *Interpreter) listLength(v Value) int {
	n := 0
	for v.IsCons() {
		n++
		v = it.heap.cons(v).Cdr
		if n > 10_000_000 {
			return -1
		}
	}
	if !v.IsNil() {
		return -1
	}
	return n
}

// makeList conses up a fresh proper list from a slice, right to left.
func (it *Interpreter) makeList(vs []Value) Value {
	out := Nil
	for i := len(vs) - 1; i >= 0; i-- {
		out = it.cons(vs[i], out)
	}
	return out
}

// makeDottedList conses vs onto tail.
func (it *Interpreter) makeDottedList(vs []Value, tail Value) Value {
	out := tail
	for i := len(vs) - 1; i >= 0; i-- {
		out = it.cons(vs[i], out)
	}
	return out
}

func isSymbolNamed(it *Interpreter, v Value, name string) bool {
	if !v.IsIref() {
		return false
	}
	obj := it.heap.iref(v)
	sym, ok := obj.(*Symbol)
	return ok && sym.Name == name
}
