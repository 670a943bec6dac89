package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jcorbin/lgo/internal/panicerr"
)

// api.go mirrors the teacher's public entry points: New constructs an
// Interpreter from functional options, and Run drives it to completion,
// turning any panic (including a halt) into a returned error via
// internal/panicerr, exactly as the teacher's VM.Run does.

// New builds an Interpreter: it applies the default options and then the
// caller's options, and only then boots the heap, packages, and built-in
// table, so that boot sees settings such as WithMemLimit.
func New(opts ...InterpreterOption) *Interpreter {
	var it Interpreter
	defaultOptions.apply(&it)
	InterpreterOptions(opts...).apply(&it)
	it.boot()
	return &it
}

// Run drives the read-eval-print loop over it.Input until EOF or an (exit)
// built-in requests termination. It returns nil for a clean EOF or (exit 0),
// an exitSignal error carrying the code for a nonzero (exit N), and
// otherwise the error that stopped the loop.
func (it *Interpreter) Run(ctx context.Context) error {
	err := panicerr.Recover("interpreter", func() error {
		return it.repl(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var he haltError
	if errors.As(err, &he) {
		err = he.error
	}
	var ex exitSignal
	if errors.As(err, &ex) {
		if ex.code == 0 {
			return nil
		}
		return ex
	}
	var ct controlTransfer
	if errors.As(err, &ct) {
		return fmt.Errorf("uncaught non-local control transfer: %s", it.describeTransfer(ct))
	}
	return err
}

// repl is the top-level read-eval-print loop: read one form from it.Input,
// evaluate it in the global environment, print its value, and flush,
// repeating until EOF.
func (it *Interpreter) repl(ctx context.Context) error {
	rd := NewReader(newRuneReaderScanner(&it.Input))
	env := newEnv(nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		form, err := it.ReadForm(rd)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		v, err := it.Eval(env, form)
		if err != nil {
			var ex exitSignal
			if errors.As(err, &ex) {
				return ex
			}
			if stream, ok := it.heap.jref(it.symbolOf(it.errorOutSym).Value).(*Stream); ok {
				stream.WriteString("; " + err.Error() + "\n")
				stream.Flush()
			}
			continue
		}

		if stream, ok := it.heap.jref(it.symbolOf(it.stdoutSym).Value).(*Stream); ok {
			stream.WriteString(it.WriteString(v) + "\n")
			stream.Flush()
		}
	}
}

func WithInput(r io.Reader) InterpreterOption         { return withInput(r) }
func WithInputWriter(w io.WriterTo) InterpreterOption { return withInputWriter(w) }
func WithOutput(w io.Writer) InterpreterOption        { return withOutput(w) }
func WithTee(w io.Writer) InterpreterOption           { return withTee(w) }
func WithMemLimit(limit uint) InterpreterOption       { return withMemLimit(limit) }

func WithLogf(logfn func(mess string, args ...interface{})) InterpreterOption {
	return withLogfn(logfn)
}
