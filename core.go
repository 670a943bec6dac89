package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/lgo/internal/fileinput"
	"github.com/jcorbin/lgo/internal/flushio"
	"github.com/jcorbin/lgo/internal/runeio"
)

// Interpreter is the "one record passed to every operation" Design Notes §9
// asks for: it bundles the heap, the call stack, the dynamic environment,
// the package registry, and the ambient I/O the teacher's Core embeds, so
// multiple interpreters could coexist in one process.
type Interpreter struct {
	logging
	fileinput.Input
	out     flushio.WriteFlusher
	closers []io.Closer

	heap *Heap

	frames     []Frame
	catchStack []catchRecord

	values []Value // the process-wide multiple-values register (spec §4.7)

	packages       []Value
	userPackage    Value
	keywordPackage Value

	symT            Value
	breakHandlerSym Value
	stdinSym        Value
	stdoutSym       Value
	errorOutSym     Value
	packagesSym     Value

	gensymCounter int

	builtinTable []*Function

	memLimit uint
}

func (it *Interpreter) Close() (err error) {
	for i := len(it.closers) - 1; i >= 0; i-- {
		if cerr := it.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// halt reports an unrecoverable fatal: flush output, log, then panic so
// Run's panicerr.Recover turns it into a returned error (grounded directly
// on the teacher's core.go halt).
func (it *Interpreter) halt(err error) {
	func() {
		defer func() { recover() }()
		if it.out != nil {
			if ferr := it.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	func() {
		defer func() { recover() }()
		it.logf("#", "halt error: %v", err)
	}()

	panic(haltError{err})
}

func (it *Interpreter) writeRune(r rune) {
	if _, err := runeio.WriteANSIRune(it.out, r); err != nil {
		it.halt(err)
	}
}

func (it *Interpreter) readRune() rune {
	if err := it.out.Flush(); err != nil {
		it.halt(err)
	}

	r, _, err := it.Input.ReadRune()
	for r == 0 {
		if err != nil {
			it.halt(err)
		}
		r, _, err = it.Input.ReadRune()
	}
	return r
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
