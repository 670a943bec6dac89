package main

import "math"

// builtins_numeric.go implements spec §4.8's numeric built-ins: +, -, *, /,
// =, <, floor, dpb, ldb. Small integral values stay Fixnum; only floats
// with a fractional part or magnitude outside the fixnum range are boxed as
// a Double jref (spec §3 invariant (e)).

const fixnumMax = 1<<62 - 1
const fixnumMin = -(1 << 62)

func init() {
	registerBuiltin("+", 0, -1, biAdd)
	registerBuiltin("-", 1, -1, biSub)
	registerBuiltin("*", 0, -1, biMul)
	registerBuiltin("/", 1, -1, biDiv)
	registerBuiltin("=", 1, -1, biNumEq)
	registerBuiltin("<", 1, -1, biLess)
	registerBuiltin("FLOOR", 1, 2, biFloor)
	registerBuiltin("DPB", 3, 3, biDpb)
	registerBuiltin("LDB", 2, 2, biLdb)
}

// numberFromFloat implements the fixnum/double boxing rule: an
// integral-valued float that fits the fixnum range becomes a Fixnum;
// otherwise it is boxed.
func (it *Interpreter) numberFromFloat(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		i := int64(f)
		if float64(i) == f && i >= fixnumMin && i <= fixnumMax {
			return Fixnum(i)
		}
	}
	return it.heap.allocJref(&Double{F: f})
}

func (it *Interpreter) floatOf(v Value) (float64, bool) {
	if v.IsFixnum() {
		return float64(v.Int()), true
	}
	if v.IsJref() {
		if d, ok := it.heap.jref(v).(*Double); ok {
			return d.F, true
		}
	}
	return 0, false
}

func (it *Interpreter) isNumber(v Value) bool {
	_, ok := it.floatOf(v)
	return ok
}

func biAdd(it *Interpreter, args []Value) (Value, []Value, error) {
	allInt := true
	var isum int64
	var fsum float64
	for _, a := range args {
		f, ok := it.floatOf(a)
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, a)
			return v, nil, err
		}
		fsum += f
		if a.IsFixnum() {
			isum += a.Int()
		} else {
			allInt = false
		}
	}
	if allInt {
		return Fixnum(isum), nil, nil
	}
	return it.numberFromFloat(fsum), nil, nil
}

func biSub(it *Interpreter, args []Value) (Value, []Value, error) {
	first, ok := it.floatOf(args[0])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	if len(args) == 1 {
		return it.numberFromFloat(-first), nil, nil
	}
	allInt := args[0].IsFixnum()
	isum := args[0].Int()
	fsum := first
	for _, a := range args[1:] {
		f, ok := it.floatOf(a)
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, a)
			return v, nil, err
		}
		fsum -= f
		if a.IsFixnum() && allInt {
			isum -= a.Int()
		} else {
			allInt = false
		}
	}
	if allInt {
		return Fixnum(isum), nil, nil
	}
	return it.numberFromFloat(fsum), nil, nil
}

func biMul(it *Interpreter, args []Value) (Value, []Value, error) {
	allInt := true
	iprod := int64(1)
	fprod := 1.0
	for _, a := range args {
		f, ok := it.floatOf(a)
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, a)
			return v, nil, err
		}
		fprod *= f
		if a.IsFixnum() {
			iprod *= a.Int()
		} else {
			allInt = false
		}
	}
	if allInt {
		return Fixnum(iprod), nil, nil
	}
	return it.numberFromFloat(fprod), nil, nil
}

func biDiv(it *Interpreter, args []Value) (Value, []Value, error) {
	first, ok := it.floatOf(args[0])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	if len(args) == 1 {
		return it.numberFromFloat(1 / first), nil, nil
	}
	result := first
	for _, a := range args[1:] {
		f, ok := it.floatOf(a)
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, a)
			return v, nil, err
		}
		result /= f
	}
	return it.numberFromFloat(result), nil, nil
}

// biNumEq implements IEEE-754 numeric equality: any comparison involving a
// NaN payload is false, per the Design Notes resolution.
func biNumEq(it *Interpreter, args []Value) (Value, []Value, error) {
	base, ok := it.floatOf(args[0])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	if math.IsNaN(base) {
		return Nil, nil, nil
	}
	for _, a := range args[1:] {
		f, ok := it.floatOf(a)
		if !ok || math.IsNaN(f) || f != base {
			return Nil, nil, nil
		}
	}
	return it.symT, nil, nil
}

func biLess(it *Interpreter, args []Value) (Value, []Value, error) {
	prev, ok := it.floatOf(args[0])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	for _, a := range args[1:] {
		f, ok := it.floatOf(a)
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, a)
			return v, nil, err
		}
		if !(prev < f) {
			return Nil, nil, nil
		}
		prev = f
	}
	return it.symT, nil, nil
}

func biFloor(it *Interpreter, args []Value) (Value, []Value, error) {
	f, ok := it.floatOf(args[0])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	divisor := 1.0
	if len(args) == 2 {
		d, ok := it.floatOf(args[1])
		if !ok {
			v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[1])
			return v, nil, err
		}
		divisor = d
	}
	q := math.Floor(f / divisor)
	r := f - q*divisor
	quot := it.numberFromFloat(q)
	rem := it.numberFromFloat(r)
	return quot, []Value{quot, rem}, nil
}

// biDpb implements "deposit byte": (dpb newbyte bytespec integer), where
// bytespec is (size . position) encoded as a cons.
func biDpb(it *Interpreter, args []Value) (Value, []Value, error) {
	newbyte := args[0].Int()
	size, pos, ok := byteSpec(it, args[1])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[1])
		return v, nil, err
	}
	into := args[2].Int()
	mask := int64((uint64(1)<<uint(size))-1) << uint(pos)
	result := (into &^ mask) | ((newbyte << uint(pos)) & mask)
	return Fixnum(result), nil, nil
}

// biLdb implements "load byte": (ldb bytespec integer).
func biLdb(it *Interpreter, args []Value) (Value, []Value, error) {
	size, pos, ok := byteSpec(it, args[0])
	if !ok {
		v, err := it.signalFailure(nil, FailIndexOutOfBounds, args[0])
		return v, nil, err
	}
	from := args[1].Int()
	mask := int64(1)<<uint(size) - 1
	return Fixnum((from >> uint(pos)) & mask), nil, nil
}

func byteSpec(it *Interpreter, v Value) (size, pos int64, ok bool) {
	if !v.IsCons() {
		return 0, 0, false
	}
	return it.car(v).Int(), it.cdr(v).Int(), true
}
