package main

// builtins_string.go implements spec §4.8's string built-ins: string, jref,
// makej (string allocation/access mirror makei/iref for the jref string
// family), plus a few string-manipulation built-ins needed by a realistic
// REPL session (concatenation, length, coercion to/from symbols).

func init() {
	registerBuiltin("STRING", 1, 1, biString)
	registerBuiltin("MAKEJ", 1, 1, biMakej)
	registerBuiltin("JREF", 2, 2, biJref)
	registerBuiltin("JSET", 3, 3, biJSet)
	registerBuiltin("STRING-LENGTH", 1, 1, biStringLength)
	registerBuiltin("STRING-APPEND", 0, -1, biStringAppend)
	registerBuiltin("INTERN", 1, 1, biIntern)
	registerBuiltin("SYMBOL-NAME", 1, 1, biSymbolName)
}

// biString coerces a symbol or character into a fresh simple-string, per
// spec's "string" built-in; applied to a string it returns it unchanged.
func biString(it *Interpreter, args []Value) (Value, []Value, error) {
	v := args[0]
	switch {
	case v.IsJref():
		if _, ok := it.heap.jref(v).(*LString); ok {
			return v, nil, nil
		}
	case v.IsChar():
		return it.heap.allocJref(&LString{Bytes: []byte(string(v.Rune()))}), nil, nil
	case v.IsIref():
		if sym, ok := it.heap.iref(v).(*Symbol); ok {
			return it.heap.allocJref(&LString{Bytes: []byte(sym.Name)}), nil, nil
		}
	}
	rv, err := it.signalFailure(nil, FailIndexOutOfBounds, v)
	return rv, nil, err
}

// biMakej implements `makej`: allocate a fresh simple-string of the given
// length, filled with NUL bytes.
func biMakej(it *Interpreter, args []Value) (Value, []Value, error) {
	n := int(args[0].Int())
	if n < 0 {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return it.heap.allocJref(&LString{Bytes: make([]byte, n)}), nil, nil
}

// stringAndIndex mirrors vectorAndIndex for simple-strings, reporting the
// offending argument on failure rather than erroring directly.
func stringAndIndex(it *Interpreter, strArg, idxArg Value) (s *LString, i int, offender Value, ok bool) {
	s, found := it.heap.jref(strArg).(*LString)
	if !found {
		return nil, 0, strArg, false
	}
	i = int(idxArg.Int())
	if i < 0 || i >= len(s.Bytes) {
		return nil, 0, idxArg, false
	}
	return s, i, Nil, true
}

func biJref(it *Interpreter, args []Value) (Value, []Value, error) {
	s, i, offender, ok := stringAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	return Char(rune(s.Bytes[i])), nil, nil
}

func biJSet(it *Interpreter, args []Value) (Value, []Value, error) {
	s, i, offender, ok := stringAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	if !args[2].IsChar() {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[2])
		return v, nil, err
	}
	s.Bytes[i] = byte(args[2].Rune())
	return args[2], nil, nil
}

func biStringLength(it *Interpreter, args []Value) (Value, []Value, error) {
	s, ok := it.heap.jref(args[0]).(*LString)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return Fixnum(int64(len(s.Bytes))), nil, nil
}

func biStringAppend(it *Interpreter, args []Value) (Value, []Value, error) {
	var out []byte
	for _, a := range args {
		s, ok := it.heap.jref(a).(*LString)
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, a)
			return v, nil, err
		}
		out = append(out, s.Bytes...)
	}
	return it.heap.allocJref(&LString{Bytes: out}), nil, nil
}

func biIntern(it *Interpreter, args []Value) (Value, []Value, error) {
	s, ok := it.heap.jref(args[0]).(*LString)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return it.intern(it.userPackage, s.String()), nil, nil
}

func biSymbolName(it *Interpreter, args []Value) (Value, []Value, error) {
	sym, ok := it.heap.iref(args[0]).(*Symbol)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return it.heap.allocJref(&LString{Bytes: []byte(sym.Name)}), nil, nil
}
