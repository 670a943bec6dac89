package main

import (
	"fmt"
	"io"
)

// break.go implements spec §7's break loop: every signaled Failure either
// goes to a user-installed *BREAK-HANDLER* function, or — with none
// installed — drops into an interactive read-eval-print loop over the
// current (and, via a numeric command, any enclosing) frame, offering the
// :abort and :return restarts the spec calls for.

// signalFailure is the single entry point every unbound-variable,
// unbound-function, arity-mismatch, or control-transfer-gone-wrong error
// passes through, per spec §7's "routed to the break loop".
func (it *Interpreter) signalFailure(env *Env, kind FailureKind, offender Value) (Value, error) {
	fail := &Failure{Kind: kind, Offender: offender}

	if h := it.symbolOf(it.breakHandlerSym).Value; !h.IsUnbound() && h.IsTrue() {
		v, _, err := it.apply(env, h, []Value{Fixnum(int64(kind)), offender})
		if err != nil {
			return Nil, err
		}
		return v, nil
	}

	return it.runBreakLoop(env, fail)
}

// runBreakLoop prints the failure and reads commands from standard input
// until the user supplies a restart:
//
//	(return FORM)  evaluate FORM in the current frame's environment and
//	               resume signalFailure's caller with that value
//	(abort)        propagate fail as the error from signalFailure
//	N              re-scope to frame N back from the top (spec's numeric
//	               frame re-scoping, clamped to the root frame)
func (it *Interpreter) runBreakLoop(env *Env, fail *Failure) (Value, error) {
	depth := len(it.frames)
	frameUp := 0

	stdout := it.symbolOf(it.stdoutSym).Value
	stream, _ := it.heap.jref(stdout).(*Stream)

	reportf := func(format string, args ...interface{}) {
		if stream != nil {
			stream.WriteString(fmt.Sprintf(format, args...))
			stream.Flush()
		}
	}

	reportf("\n; break: %s (offender %s)\n", fail.Error(), it.WriteString(fail.Offender))
	reportf("; %d> ", depth)

	rd := NewReader(newRuneReaderScanner(&it.Input))

	for {
		form, err := it.ReadForm(rd)
		if err == io.EOF {
			return Nil, fail
		}
		if err != nil {
			reportf("; read error: %v\n; %d> ", err, depth)
			continue
		}

		if form.IsFixnum() {
			frameUp = int(form.Int())
			f := it.frameAt(frameUp)
			reportf("; frame %d: %s\n; %d> ", frameUp, it.describeFrame(f), depth)
			continue
		}

		if form.IsCons() && isSymbolNamed(it, it.car(form), "RETURN") {
			valForm := it.car(it.cdr(form))
			scopeEnv := env
			if f := it.frameAt(frameUp); f != nil && f.Env != nil {
				scopeEnv = f.Env
			}
			v, err := it.Eval(scopeEnv, valForm)
			if err != nil {
				reportf("; error evaluating return value: %v\n; %d> ", err, depth)
				continue
			}
			return v, nil
		}

		if form.IsCons() && isSymbolNamed(it, it.car(form), "ABORT") {
			return Nil, fail
		}

		scopeEnv := env
		if f := it.frameAt(frameUp); f != nil && f.Env != nil {
			scopeEnv = f.Env
		}
		v, err := it.Eval(scopeEnv, form)
		if err != nil {
			reportf("; error: %v\n; %d> ", err, depth)
			continue
		}
		reportf("%s\n; %d> ", it.WriteString(v), depth)
	}
}

func (it *Interpreter) describeFrame(f *Frame) string {
	if f == nil {
		return "<top level>"
	}
	name := "?"
	if isSymbolValue(it, f.Name) {
		name = it.symbolOf(f.Name).Name
	} else if f.Callee.IsIref() {
		if fn, ok := it.heap.iref(f.Callee).(*Function); ok {
			name = fn.Name
		}
	}
	return fmt.Sprintf("%s %v", name, f.Args)
}
