package main

// builtins_list.go implements spec §4.8's list and vector built-ins: cons,
// car, cdr, list, makei/iref/iboundp/imakunbound, gensym, plus a handful
// that backquote expansion and ordinary list code depend on (append, not,
// eq, atom) so that reader-generated APPEND/LIST calls and common idioms
// actually resolve.

func init() {
	registerBuiltin("CONS", 2, 2, biCons)
	registerBuiltin("CAR", 1, 1, biCar)
	registerBuiltin("CDR", 1, 1, biCdr)
	registerBuiltin("LIST", 0, -1, biList)
	registerBuiltin("APPEND", 0, -1, biAppend)
	registerBuiltin("NOT", 1, 1, biNot)
	registerBuiltin("EQ", 2, 2, biEq)
	registerBuiltin("ATOM", 1, 1, biAtom)
	registerBuiltin("CONSP", 1, 1, biConsp)

	registerBuiltin("MAKEI", 1, 1, biMakei)
	registerBuiltin("IREF", 2, 2, biIref)
	registerBuiltin("ISET", 3, 3, biISet)
	registerBuiltin("IBOUNDP", 2, 2, biIboundp)
	registerBuiltin("IMAKUNBOUND", 2, 2, biImakunbound)

	registerBuiltin("GENSYM", 0, 1, biGensym)
	registerBuiltin("GET", 2, 3, biGet)
	registerBuiltin("VALUES", 0, -1, biValues)

	registerBuiltin("MAKE-STRUCT", 2, 2, biMakeStruct)
	registerBuiltin("STRUCT-REF", 2, 2, biStructRef)
	registerBuiltin("STRUCT-SET", 3, 3, biStructSet)
	registerBuiltin("STRUCT-TYPE-NAME", 1, 1, biStructTypeName)

	registerBuiltin("MAKE-BIT-VECTOR", 1, 1, biMakeBitVector)
	registerBuiltin("BIT", 2, 2, biBit)
	registerBuiltin("SET-BIT", 3, 3, biSetBit)
}

func biCons(it *Interpreter, args []Value) (Value, []Value, error) {
	return it.cons(args[0], args[1]), nil, nil
}

func biCar(it *Interpreter, args []Value) (Value, []Value, error) {
	if args[0].IsNil() {
		return Nil, nil, nil
	}
	if !args[0].IsCons() {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return it.car(args[0]), nil, nil
}

func biCdr(it *Interpreter, args []Value) (Value, []Value, error) {
	if args[0].IsNil() {
		return Nil, nil, nil
	}
	if !args[0].IsCons() {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return it.cdr(args[0]), nil, nil
}

func biList(it *Interpreter, args []Value) (Value, []Value, error) {
	return it.makeList(args), nil, nil
}

func biAppend(it *Interpreter, args []Value) (Value, []Value, error) {
	if len(args) == 0 {
		return Nil, nil, nil
	}
	var all []Value
	for _, a := range args[:len(args)-1] {
		all = append(all, it.listElements(a)...)
	}
	return it.makeDottedList(all, args[len(args)-1]), nil, nil
}

func biNot(it *Interpreter, args []Value) (Value, []Value, error) {
	return it.boolValue(!args[0].IsTrue()), nil, nil
}

func biEq(it *Interpreter, args []Value) (Value, []Value, error) {
	return it.boolValue(Eq(args[0], args[1])), nil, nil
}

func biAtom(it *Interpreter, args []Value) (Value, []Value, error) {
	return it.boolValue(!args[0].IsCons()), nil, nil
}

func biConsp(it *Interpreter, args []Value) (Value, []Value, error) {
	return it.boolValue(args[0].IsCons()), nil, nil
}

// biMakei implements `makei`: allocate a fresh simple-vector of the given
// length with every element unbound (iboundp is false and iref signals until
// iset stores a value), used as the backing store for iref/iset.
func biMakei(it *Interpreter, args []Value) (Value, []Value, error) {
	n := int(args[0].Int())
	if n < 0 {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = Unbound
	}
	return it.heap.allocIref(&Vector{Elements: elems}), nil, nil
}

// vectorAndIndex bounds-checks a simple-vector access; the ok=false case
// reports which of the two arguments offended so the caller can route the
// failure through signalFailure (spec §7) rather than erroring directly.
func vectorAndIndex(it *Interpreter, vecArg, idxArg Value) (vec *Vector, i int, offender Value, ok bool) {
	vec, found := it.heap.iref(vecArg).(*Vector)
	if !found {
		return nil, 0, vecArg, false
	}
	i = int(idxArg.Int())
	if i < 0 || i >= len(vec.Elements) {
		return nil, 0, idxArg, false
	}
	return vec, i, Nil, true
}

func biIref(it *Interpreter, args []Value) (Value, []Value, error) {
	vec, i, offender, ok := vectorAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	if vec.Elements[i].IsUnbound() {
		v, err := it.signalFailure(nil, FailVariableUnbound, args[1])
		return v, nil, err
	}
	return vec.Elements[i], nil, nil
}

func biISet(it *Interpreter, args []Value) (Value, []Value, error) {
	vec, i, offender, ok := vectorAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	vec.Elements[i] = args[2]
	return args[2], nil, nil
}

func biIboundp(it *Interpreter, args []Value) (Value, []Value, error) {
	vec, i, offender, ok := vectorAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	return it.boolValue(!vec.Elements[i].IsUnbound()), nil, nil
}

func biImakunbound(it *Interpreter, args []Value) (Value, []Value, error) {
	vec, i, offender, ok := vectorAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	vec.Elements[i] = Unbound
	return Nil, nil, nil
}

func biGensym(it *Interpreter, args []Value) (Value, []Value, error) {
	prefix := "G"
	if len(args) == 1 {
		if s, ok := it.heap.jref(args[0]).(*LString); ok {
			prefix = s.String()
		}
	}
	return it.gensym(prefix), nil, nil
}

func biGet(it *Interpreter, args []Value) (Value, []Value, error) {
	sym, ok := it.heap.iref(args[0]).(*Symbol)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	elems := it.listElements(sym.Plist)
	for i := 0; i+1 < len(elems); i += 2 {
		if Eq(elems[i], args[1]) {
			return elems[i+1], nil, nil
		}
	}
	if len(args) == 3 {
		return args[2], nil, nil
	}
	return Nil, nil, nil
}

func biValues(it *Interpreter, args []Value) (Value, []Value, error) {
	return first(args), args, nil
}

// biMakeStruct implements the user-defined-structure half of spec §3's iref
// family (the other half, simple-vector, is MAKEI): allocate a fixed-shape
// record under a type name, slots initialized to nil.
func biMakeStruct(it *Interpreter, args []Value) (Value, []Value, error) {
	name, ok := it.heap.jref(args[0]).(*LString)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	n := int(args[1].Int())
	if n < 0 {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[1])
		return v, nil, err
	}
	return it.heap.allocIref(&Struct{TypeName: name.String(), Slots: make([]Value, n)}), nil, nil
}

// structAndIndex mirrors vectorAndIndex for MAKE-STRUCT's fixed-shape
// records, reporting the offending argument on failure rather than erroring
// directly.
func structAndIndex(it *Interpreter, structArg, idxArg Value) (s *Struct, i int, offender Value, ok bool) {
	s, found := it.heap.iref(structArg).(*Struct)
	if !found {
		return nil, 0, structArg, false
	}
	i = int(idxArg.Int())
	if i < 0 || i >= len(s.Slots) {
		return nil, 0, idxArg, false
	}
	return s, i, Nil, true
}

func biStructRef(it *Interpreter, args []Value) (Value, []Value, error) {
	s, i, offender, ok := structAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	return s.Slots[i], nil, nil
}

func biStructSet(it *Interpreter, args []Value) (Value, []Value, error) {
	s, i, offender, ok := structAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	s.Slots[i] = args[2]
	return args[2], nil, nil
}

func biStructTypeName(it *Interpreter, args []Value) (Value, []Value, error) {
	s, ok := it.heap.iref(args[0]).(*Struct)
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return it.heap.allocJref(&LString{Bytes: []byte(s.TypeName)}), nil, nil
}

// biMakeBitVector implements the bit-vector half of spec §3's jref family
// (the other half, simple-string, is MAKEJ): allocate a fresh bit-vector of
// the given length, all bits clear.
func biMakeBitVector(it *Interpreter, args []Value) (Value, []Value, error) {
	n := int(args[0].Int())
	if n < 0 {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	return it.heap.allocJref(&BitVector{Bits: make([]bool, n)}), nil, nil
}

// bitVectorAndIndex mirrors vectorAndIndex for bit-vectors, reporting the
// offending argument on failure rather than erroring directly.
func bitVectorAndIndex(it *Interpreter, bvArg, idxArg Value) (bv *BitVector, i int, offender Value, ok bool) {
	bv, found := it.heap.jref(bvArg).(*BitVector)
	if !found {
		return nil, 0, bvArg, false
	}
	i = int(idxArg.Int())
	if i < 0 || i >= len(bv.Bits) {
		return nil, 0, idxArg, false
	}
	return bv, i, Nil, true
}

func biBit(it *Interpreter, args []Value) (Value, []Value, error) {
	bv, i, offender, ok := bitVectorAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	if bv.Bits[i] {
		return Fixnum(1), nil, nil
	}
	return Fixnum(0), nil, nil
}

func biSetBit(it *Interpreter, args []Value) (Value, []Value, error) {
	bv, i, offender, ok := bitVectorAndIndex(it, args[0], args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, offender)
		return v, nil, err
	}
	bv.Bits[i] = args[2].IsTrue() && !(args[2].IsFixnum() && args[2].Int() == 0)
	return args[2], nil, nil
}
