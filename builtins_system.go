package main

import (
	"bytes"
	"os/exec"
	"runtime"
)

// builtins_system.go implements spec §4.8's process/environment/dynamic-load
// built-ins: run-program, uname, exit, fasl (dynamic load, stubbed — this
// interpreter has no FFI loader, so `fasl` always fails with "function
// unbound" rather than silently pretending to load something), and
// makef/fref for stack-frame reflection.
//
// run-program is grounded on the teacher's own scripts/gen_vm_expects.go,
// which shells out via os/exec to regenerate test fixtures; uname/exit have
// no third-party analog anywhere in the retrieved pack (documented in
// DESIGN.md): uname reports runtime.GOOS, and exit returns an exitSignal
// error that Run and main turn into the process exit code.

func init() {
	registerBuiltin("RUN-PROGRAM", 1, -1, biRunProgram)
	registerBuiltin("UNAME", 0, 0, biUname)
	registerBuiltin("EXIT", 0, 1, biExit)
	registerBuiltin("FASL", 1, 1, biFasl)
	registerBuiltin("MAKEF", 0, 0, biMakef)
	registerBuiltin("FREF", 2, 2, biFref)
	registerBuiltin("GC", 0, 0, biGC)
}

// biGC runs one explicit collection cycle and returns the post-collection
// live counts as multiple values, for user-driven memory inspection.
func biGC(it *Interpreter, args []Value) (Value, []Value, error) {
	it.GC()
	conses, irefs, jrefs := it.heap.LiveCounts()
	c, i, j := Fixnum(int64(conses)), Fixnum(int64(irefs)), Fixnum(int64(jrefs))
	return c, []Value{c, i, j}, nil
}

// biRunProgram runs an external program and returns its stdout and stderr,
// combined into one simple-string, plus its exit status as a second value.
func biRunProgram(it *Interpreter, args []Value) (Value, []Value, error) {
	name, ok := it.heap.jref(args[0]).(*LString)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	var argv []string
	for _, a := range args[1:] {
		s, ok := it.heap.jref(a).(*LString)
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, a)
			return v, nil, err
		}
		argv = append(argv, s.String())
	}

	cmd := exec.Command(name.String(), argv...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	runErr := cmd.Run()

	status := int64(0)
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			status = int64(exitErr.ExitCode())
		} else {
			status = -1
		}
	}

	outStr := it.heap.allocJref(&LString{Bytes: out.Bytes()})
	return outStr, []Value{outStr, Fixnum(status)}, nil
}

func biUname(it *Interpreter, args []Value) (Value, []Value, error) {
	return it.heap.allocJref(&LString{Bytes: []byte(runtime.GOOS)}), nil, nil
}

func biExit(it *Interpreter, args []Value) (Value, []Value, error) {
	code := int64(0)
	if len(args) == 1 && args[0].IsFixnum() {
		code = args[0].Int()
	}
	return Nil, nil, exitSignal{code: int(code)}
}

// exitSignal is a sentinel error the top-level REPL/Run loop recognizes to
// terminate with a specific process exit code, keeping the (exit) built-in
// from calling os.Exit directly (which would skip deferred Close/Flush).
type exitSignal struct{ code int }

func (e exitSignal) Error() string { return "exit requested" }

func biFasl(it *Interpreter, args []Value) (Value, []Value, error) {
	v, err := it.signalFailure(nil, FailFunctionUnbound, args[0])
	return v, nil, err
}

// biMakef allocates a reified call-stack-frame reflection object: a
// simple-vector snapshot of the current frame's callee/args/name, so `fref`
// can index into it. TODO: expose enclosing frames too, once a concrete
// caller needs more than the innermost one.
func biMakef(it *Interpreter, args []Value) (Value, []Value, error) {
	f := it.currentFrame()
	if f == nil {
		return it.heap.allocIref(&Vector{}), nil, nil
	}
	elems := []Value{f.Callee, f.Name, it.makeList(f.Args)}
	return it.heap.allocIref(&Vector{Elements: elems}), nil, nil
}

func biFref(it *Interpreter, args []Value) (Value, []Value, error) {
	vec, i, offender, ok := vectorAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	return vec.Elements[i], nil, nil
}
