package main

import "fmt"

// builtins_io.go implements spec §4.8's I/O built-ins: make-file-stream,
// read/write/close/finish/listen-file-stream, print, load.

func init() {
	registerBuiltin("MAKE-FILE-STREAM", 1, 3, biMakeFileStream)
	registerBuiltin("READ", 0, 1, biRead)
	registerBuiltin("WRITE", 1, 2, biWrite)
	registerBuiltin("CLOSE", 1, 1, biClose)
	registerBuiltin("FINISH-OUTPUT", 0, 1, biFinishOutput)
	registerBuiltin("LISTEN-FILE-STREAM", 1, 1, biListenFileStream)
	registerBuiltin("PRINT", 1, 2, biPrint)
	registerBuiltin("PRINC", 1, 2, biPrinc)
	registerBuiltin("LOAD", 1, 1, biLoad)
}

// streamArgOrDefault resolves the stream argument at idx (or def if absent),
// reporting the offending value on failure rather than erroring directly so
// callers can route it through signalFailure (spec §7).
func (it *Interpreter) streamArgOrDefault(args []Value, idx int, def Value) (s *Stream, offender Value, ok bool) {
	v := def
	if idx < len(args) {
		v = args[idx]
	}
	s, found := it.heap.jref(v).(*Stream)
	if !found {
		return nil, v, false
	}
	return s, Nil, true
}

func biMakeFileStream(it *Interpreter, args []Value) (Value, []Value, error) {
	name, ok := it.heap.jref(args[0]).(*LString)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	dir := DirInput
	appendMode := false
	if len(args) > 1 && isSymbolNamed(it, args[1], "OUTPUT") {
		dir = DirOutput
	}
	if len(args) > 2 && args[2].IsTrue() {
		appendMode = true
	}
	s, err := openFileStream(name.String(), dir, appendMode)
	if err != nil {
		return Nil, nil, err
	}
	it.closers = append(it.closers, s)
	return it.heap.allocJref(s), nil, nil
}

func biRead(it *Interpreter, args []Value) (Value, []Value, error) {
	s, offender, ok := it.streamArgOrDefault(args, 0, it.symbolOf(it.stdinSym).Value)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	rd := NewReader(newRuneReaderScanner(s))
	v, rerr := it.ReadForm(rd)
	if rerr != nil {
		return Nil, nil, nil
	}
	return v, nil, nil
}

func biWrite(it *Interpreter, args []Value) (Value, []Value, error) {
	s, offender, ok := it.streamArgOrDefault(args, 1, it.symbolOf(it.stdoutSym).Value)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	if werr := s.WriteString(it.WriteString(args[0])); werr != nil {
		return Nil, nil, werr
	}
	return args[0], nil, nil
}

func biPrint(it *Interpreter, args []Value) (Value, []Value, error) {
	s, offender, ok := it.streamArgOrDefault(args, 1, it.symbolOf(it.stdoutSym).Value)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	if werr := s.WriteString("\n" + it.WriteString(args[0])); werr != nil {
		return Nil, nil, werr
	}
	return args[0], nil, nil
}

func biPrinc(it *Interpreter, args []Value) (Value, []Value, error) {
	s, offender, ok := it.streamArgOrDefault(args, 1, it.symbolOf(it.stdoutSym).Value)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	if werr := s.WriteString(it.PrintString(args[0])); werr != nil {
		return Nil, nil, werr
	}
	return args[0], nil, nil
}

func biClose(it *Interpreter, args []Value) (Value, []Value, error) {
	s, ok := it.heap.jref(args[0]).(*Stream)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	if err := s.Close(); err != nil {
		return Nil, nil, err
	}
	return it.symT, nil, nil
}

func biFinishOutput(it *Interpreter, args []Value) (Value, []Value, error) {
	s, offender, ok := it.streamArgOrDefault(args, 0, it.symbolOf(it.stdoutSym).Value)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	if ferr := s.Flush(); ferr != nil {
		return Nil, nil, ferr
	}
	return Nil, nil, nil
}

func biListenFileStream(it *Interpreter, args []Value) (Value, []Value, error) {
	s, ok := it.heap.jref(args[0]).(*Stream)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	_ = s
	// No portable non-blocking peek over io.RuneReader without consuming a
	// rune; callers that need true readahead should use read and handle EOF.
	return it.symT, nil, nil
}

// biLoad reads and evaluates every top-level form in the named file through
// its own file stream and reader (not the top-level loop's input queue),
// in a fresh global environment, stopping at the first read error or EOF.
func biLoad(it *Interpreter, args []Value) (Value, []Value, error) {
	name, ok := it.heap.jref(args[0]).(*LString)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	s, err := openFileStream(name.String(), DirInput, false)
	if err != nil {
		return Nil, nil, err
	}
	defer s.Close()

	rd := NewReader(newRuneReaderScanner(s))
	env := newEnv(nil)
	for {
		form, rerr := it.ReadForm(rd)
		if rerr != nil {
			break
		}
		if _, eerr := it.Eval(env, form); eerr != nil {
			return Nil, nil, fmt.Errorf("load %s: %w", name.String(), eerr)
		}
	}
	return it.symT, nil, nil
}
