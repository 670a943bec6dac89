/*
Package main implements a small interpreter for a Lisp dialect in the
Common-Lisp family.

It reads textual forms, evaluates them against a global environment, and
prints results in a read/eval/print loop. The core of the design is the
evaluation engine: the tagged-value representation, the mark-sweep heap,
the call-frame discipline, the special-form evaluator, the symbol/package
interning model, and the non-local control transfers (tagbody/go,
block/return-from, catch/throw, unwind-protect, multiple values). These are
tightly coupled: every special form is mediated by the same frame layout,
the same lexical/dynamic environment chain, and the same panic/recover-based
unwinding.

Section 1: value.go, heap.go, objects.go, stream.go — the value
representation and the three-arena garbage-collected heap.

Section 2: symbols.go, env.go, frame.go — symbol/package interning and the
lexical/dynamic environment and call-frame model binding forms evaluate
against.

Section 3: eval.go, special_forms.go, control.go, argbind.go — the
evaluator: self-evaluation, special-form dispatch, macro expansion,
function application, lambda-list argument binding, and non-local control
transfer.

Section 4: builtins_*.go, reader.go, printer.go, break.go — the built-in
function table, the textual reader and printer, and the interactive break
loop a signaled failure drops into.
*/
package main
