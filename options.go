package main

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/jcorbin/lgo/internal/flushio"
)

// options.go mirrors the teacher's functional-options construction
// pattern, generalized from VMOption/VM to InterpreterOption/Interpreter.

type InterpreterOption interface{ apply(it *Interpreter) }

var defaultOptions = InterpreterOptions(
	withInput(bytes.NewReader(nil)),
	withOutput(ioutil.Discard),
)

func InterpreterOptions(opts ...InterpreterOption) InterpreterOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(it *Interpreter) {}

type options []InterpreterOption

func (opts options) apply(it *Interpreter) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(it)
		}
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(it *Interpreter) { it.logfn = logfn }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type memLimitOption uint

func withInput(r io.Reader) inputOption      { return inputOption{r} }
func withOutput(w io.Writer) outputOption    { return outputOption{w} }
func withTee(w io.Writer) teeOption          { return teeOption{w} }
func withMemLimit(limit uint) memLimitOption { return memLimitOption(limit) }

func withInputWriter(wto io.WriterTo) pipeInput {
	r, w := io.Pipe()
	go func() {
		defer w.Close()
		wto.WriteTo(w)
	}()
	return pipeInput{r, nameOf(wto)}
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

func (i inputOption) apply(it *Interpreter) {
	it.Queue = append(it.Queue, i.Reader)
}

func (o outputOption) apply(it *Interpreter) {
	if it.out != nil {
		it.out.Flush()
	}
	it.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		it.closers = append(it.closers, cl)
	}
}

func (o teeOption) apply(it *Interpreter) {
	it.out = flushio.WriteFlushers(it.out, flushio.NewWriteFlusher(o.Writer))
	if cl, ok := o.Writer.(io.Closer); ok {
		it.closers = append(it.closers, cl)
	}
}

func (lim memLimitOption) apply(it *Interpreter) { it.memLimit = uint(lim) }

type pipeInput struct {
	*io.PipeReader
	name string
}

func (pi pipeInput) Name() string { return pi.name }

func (pi pipeInput) apply(it *Interpreter) {
	it.Queue = append(it.Queue, pi)
	it.closers = append(it.closers, pi)
}
