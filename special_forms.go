package main

// special_forms.go implements the 23 special operators listed in
// specialFormIndex below (spec §4.7's table, with LET/LET*, FLET/LABELS and
// the other paired rows counted separately),
// dispatched from evalCompound by name before ordinary function application
// or macro expansion is considered.

const (
	sfQuote = iota
	sfIf
	sfProgn
	sfLet
	sfLetStar
	sfFlet
	sfLabels
	sfMacrolet
	sfSymbolMacrolet
	sfSetq
	sfFunction
	sfTagbody
	sfGo
	sfBlock
	sfReturnFrom
	sfCatch
	sfThrow
	sfUnwindProtect
	sfMultipleValueCall
	sfMultipleValueProg1
	sfProgv
	sfDeclare
	sfSetf
)

var specialFormIndex = map[string]int{
	"QUOTE":                 sfQuote,
	"IF":                    sfIf,
	"PROGN":                 sfProgn,
	"LET":                   sfLet,
	"LET*":                  sfLetStar,
	"FLET":                  sfFlet,
	"LABELS":                sfLabels,
	"MACROLET":              sfMacrolet,
	"SYMBOL-MACROLET":       sfSymbolMacrolet,
	"SETQ":                  sfSetq,
	"FUNCTION":              sfFunction,
	"TAGBODY":               sfTagbody,
	"GO":                    sfGo,
	"BLOCK":                 sfBlock,
	"RETURN-FROM":           sfReturnFrom,
	"CATCH":                 sfCatch,
	"THROW":                 sfThrow,
	"UNWIND-PROTECT":        sfUnwindProtect,
	"MULTIPLE-VALUE-CALL":   sfMultipleValueCall,
	"MULTIPLE-VALUE-PROG1":  sfMultipleValueProg1,
	"PROGV":                 sfProgv,
	"DECLARE":               sfDeclare,
	"SETF":                  sfSetf,
}

func (it *Interpreter) evalSpecialForm(env *Env, idx int, head, tail Value) (Value, error) {
	switch idx {
	case sfQuote:
		it.values = nil
		return it.car(tail), nil

	case sfIf:
		return it.evalIf(env, tail)
	case sfProgn:
		return it.evalProgn(env, it.listElements(tail))
	case sfLet:
		return it.evalLet(env, tail, false)
	case sfLetStar:
		return it.evalLet(env, tail, true)
	case sfFlet:
		return it.evalFletLabels(env, tail, false)
	case sfLabels:
		return it.evalFletLabels(env, tail, true)
	case sfMacrolet:
		return it.evalMacrolet(env, tail)
	case sfSymbolMacrolet:
		return it.evalSymbolMacrolet(env, tail)
	case sfSetq:
		return it.evalSetq(env, tail)
	case sfFunction:
		return it.resolveCallee(env, it.car(tail))
	case sfTagbody:
		return it.evalTagbody(env, tail)
	case sfGo:
		name := it.symbolOf(it.car(tail)).Name
		return Nil, it.goTo(env, name)
	case sfBlock:
		return it.evalBlock(env, tail)
	case sfReturnFrom:
		return it.evalReturnFrom(env, tail)
	case sfCatch:
		return it.evalCatch(env, tail)
	case sfThrow:
		return it.evalThrow(env, tail)
	case sfUnwindProtect:
		return it.evalUnwindProtect(env, tail)
	case sfMultipleValueCall:
		return it.evalMultipleValueCall(env, tail)
	case sfMultipleValueProg1:
		return it.evalMultipleValueProg1(env, tail)
	case sfProgv:
		return it.evalProgv(env, tail)
	case sfDeclare:
		it.values = nil
		return Nil, nil
	case sfSetf:
		return it.evalSetf(env, tail)
	}
	return it.signalFailure(env, FailFunctionUnbound, head)
}

func (it *Interpreter) evalIf(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	if len(parts) < 2 {
		return it.signalFailure(env, FailTooFewArguments, tail)
	}
	test, err := it.Eval(env, parts[0])
	if err != nil {
		return Nil, err
	}
	if test.IsTrue() {
		return it.Eval(env, parts[1])
	}
	if len(parts) >= 3 {
		return it.Eval(env, parts[2])
	}
	it.values = nil
	return Nil, nil
}

func (it *Interpreter) evalProgn(env *Env, forms []Value) (Value, error) {
	result := Nil
	it.values = nil
	for _, f := range forms {
		v, err := it.Eval(env, f)
		if err != nil {
			return Nil, err
		}
		result = v
	}
	return result, nil
}

// evalLet implements LET/LET*: star sequentially extends env as each
// binding is processed so later initializers and bodies see earlier
// bindings; plain LET evaluates every initializer against the outer env
// before installing any of them (spec's "evaluates all initializers in the
// surrounding environment before installing any").
func (it *Interpreter) evalLet(env *Env, tail Value, star bool) (Value, error) {
	bindings := it.listElements(it.car(tail))
	body := it.listElements(it.cdr(tail))

	newEnvScope := newEnv(env)

	var restores []func()
	defer func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}()

	if star {
		for _, b := range bindings {
			name, initForm := splitLetBinding(it, b)
			v, err := it.Eval(newEnvScope, initForm)
			if err != nil {
				return Nil, err
			}
			if r := it.installLetBinding(newEnvScope, name, v); r != nil {
				restores = append(restores, r)
			}
		}
	} else {
		names := make([]Value, len(bindings))
		vals := make([]Value, len(bindings))
		for i, b := range bindings {
			name, initForm := splitLetBinding(it, b)
			v, err := it.Eval(env, initForm)
			if err != nil {
				return Nil, err
			}
			names[i], vals[i] = name, v
		}
		for i := range bindings {
			if r := it.installLetBinding(newEnvScope, names[i], vals[i]); r != nil {
				restores = append(restores, r)
			}
		}
	}

	return it.evalProgn(newEnvScope, body)
}

func splitLetBinding(it *Interpreter, b Value) (name, initForm Value) {
	if b.IsCons() {
		parts := it.listElements(b)
		name = parts[0]
		if len(parts) > 1 {
			initForm = parts[1]
		} else {
			initForm = Nil
		}
		return name, initForm
	}
	return b, Nil
}

// installLetBinding binds name to v, honoring a declared special variable
// (spec §4.5) by dynamically rebinding its global value cell instead of
// shadowing lexically; the caller defers the returned restore function so
// the prior global value comes back regardless of how the body exits. A
// non-special name gets an ordinary lexical binding and a nil restore.
func (it *Interpreter) installLetBinding(env *Env, name, v Value) func() {
	if name.IsNil() || !name.IsIref() {
		return nil
	}
	if it.isSpecial(name) {
		return it.bindSpecial(name, v)
	}
	env.bindValue(it.symbolOf(name).Name, v)
	return nil
}

func (it *Interpreter) evalFletLabels(env *Env, tail Value, recursive bool) (Value, error) {
	defs := it.listElements(it.car(tail))
	body := it.listElements(it.cdr(tail))

	newScope := newEnv(env)
	closureEnv := env
	if recursive {
		closureEnv = newScope
	}

	for _, d := range defs {
		parts := it.listElements(d)
		if len(parts) < 1 {
			continue
		}
		name := it.symbolOf(parts[0]).Name
		lambdaList := Nil
		var fnBody []Value
		if len(parts) > 1 {
			lambdaList = parts[1]
			fnBody = parts[2:]
		}
		fn := &Function{Name: name, LambdaList: lambdaList, Body: it.makeList(fnBody), Env: closureEnv, MinArgs: 0, MaxArgs: -1}
		fv := it.heap.allocIref(fn)
		newScope.bindFunction(name, fv)
	}

	return it.evalProgn(newScope, body)
}

func (it *Interpreter) evalMacrolet(env *Env, tail Value) (Value, error) {
	defs := it.listElements(it.car(tail))
	body := it.listElements(it.cdr(tail))

	newScope := newEnv(env)
	for _, d := range defs {
		parts := it.listElements(d)
		if len(parts) < 1 {
			continue
		}
		name := it.symbolOf(parts[0]).Name
		lambdaList := Nil
		var fnBody []Value
		if len(parts) > 1 {
			lambdaList = parts[1]
			fnBody = parts[2:]
		}
		fn := &Function{Name: name, LambdaList: lambdaList, Body: it.makeList(fnBody), Env: env, MinArgs: 0, MaxArgs: -1}
		newScope.bindMacrolet(name, it.heap.allocIref(fn))
	}
	return it.evalProgn(newScope, body)
}

func (it *Interpreter) evalSymbolMacrolet(env *Env, tail Value) (Value, error) {
	defs := it.listElements(it.car(tail))
	body := it.listElements(it.cdr(tail))

	newScope := newEnv(env)
	for _, d := range defs {
		parts := it.listElements(d)
		if len(parts) < 2 {
			continue
		}
		name := it.symbolOf(parts[0]).Name
		newScope.bindSymbolMacro(name, parts[1])
	}
	return it.evalProgn(newScope, body)
}

// evalSetq implements pairwise assignment through binding(), per spec's
// table entry; a symbol with a lexical symbol-macro expands to assigning
// through that expansion's place when it is itself a plain symbol.
func (it *Interpreter) evalSetq(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	var result Value
	it.values = nil
	for i := 0; i+1 < len(parts); i += 2 {
		sym := parts[i]
		v, err := it.Eval(env, parts[i+1])
		if err != nil {
			return Nil, err
		}
		if en := env.find(KindSymbolMacro, it.symbolOf(sym).Name); en != nil {
			if isSymbolValue(it, *en.cell) {
				sym = *en.cell
			}
		}
		cell, err := it.binding(env, sym, KindValue)
		if err != nil {
			return Nil, err
		}
		*cell = v
		result = v
	}
	return result, nil
}

// evalTagbody implements TAGBODY/GO: the body is a mix of tag atoms and
// forms. Every tag is bound to a goTarget pointing at its index before any
// form runs, so forward and backward GOs both resolve. A GO aimed at this
// tagbody panics with a controlTransfer naming the established marker; the
// per-step recover below catches it, sets the next index to run, and loops
// instead of treating it as a returned value (unlike BLOCK/CATCH, a
// TAGBODY's own result is always nil — the transfer payload is a resume
// point, not a value to deliver).
func (it *Interpreter) evalTagbody(env *Env, tail Value) (Value, error) {
	forms := it.listElements(tail)
	marker := &blockMarker{active: true}
	defer func() { marker.active = false }()

	tbEnv := newEnv(env)
	for i, f := range forms {
		if isSymbolValue(it, f) || f.IsFixnum() {
			tag := tagKey(it, f)
			tbEnv.bindGoTag(tag, &goTarget{tb: marker, index: i})
		}
	}

	i := 0
	for i < len(forms) {
		f := forms[i]
		if isSymbolValue(it, f) || f.IsFixnum() {
			i++
			continue
		}

		next, err := it.tagbodyStep(tbEnv, f, marker, i)
		if err != nil {
			return Nil, err
		}
		i = next
	}

	it.values = nil
	return Nil, nil
}

// tagbodyStep evaluates one tagbody form, recovering a GO aimed at marker
// and translating it into the next index to resume at; any other panic or
// control transfer propagates unchanged.
func (it *Interpreter) tagbodyStep(env *Env, form Value, marker *blockMarker, current int) (next int, err error) {
	next = current + 1
	defer func() {
		if r := recover(); r != nil {
			ct, ok := r.(controlTransfer)
			if !ok || ct.target != marker || ct.goto_ == nil {
				panic(r)
			}
			next = ct.goto_.index
			err = nil
		}
	}()
	_, err = it.Eval(env, form)
	return next, err
}

func tagKey(it *Interpreter, f Value) string {
	if isSymbolValue(it, f) {
		return it.symbolOf(f).Name
	}
	return fmtTagInt(f.Int())
}

func fmtTagInt(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [24]byte
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return "#tag" + string(buf[i:])
}

func (it *Interpreter) evalBlock(env *Env, tail Value) (Value, error) {
	name := it.symbolOf(it.car(tail)).Name
	body := it.listElements(it.cdr(tail))
	v, extra, err := it.runBlock(env, name, func(blockEnv *Env) (Value, []Value, error) {
		v, err := it.evalProgn(blockEnv, body)
		return v, it.values, err
	})
	it.values = extra
	return v, err
}

func (it *Interpreter) evalReturnFrom(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	name := it.symbolOf(parts[0]).Name
	val := Nil
	if len(parts) > 1 {
		v, err := it.Eval(env, parts[1])
		if err != nil {
			return Nil, err
		}
		val = v
	}
	return Nil, it.returnFrom(env, name, it.theValues(val))
}

func (it *Interpreter) evalCatch(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	tag, err := it.Eval(env, parts[0])
	if err != nil {
		return Nil, err
	}
	body := parts[1:]
	v, extra, err := it.runCatch(tag, func() (Value, []Value, error) {
		v, err := it.evalProgn(env, body)
		return v, it.values, err
	})
	it.values = extra
	return v, err
}

func (it *Interpreter) evalThrow(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	tag, err := it.Eval(env, parts[0])
	if err != nil {
		return Nil, err
	}
	val := Nil
	if len(parts) > 1 {
		v, err := it.Eval(env, parts[1])
		if err != nil {
			return Nil, err
		}
		val = v
	}
	return Nil, it.throwTag(tag, it.theValues(val))
}

func (it *Interpreter) evalUnwindProtect(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	if len(parts) == 0 {
		return Nil, nil
	}
	protected := parts[0]
	cleanupForms := parts[1:]

	v, _, err := it.runUnwindProtect(
		func() (Value, []Value, error) {
			r, e := it.Eval(env, protected)
			return r, it.values, e
		},
		func() {
			for _, f := range cleanupForms {
				if _, e := it.Eval(env, f); e != nil {
					it.logf("!", "unwind-protect cleanup error: %v", e)
					return
				}
			}
		},
	)
	return v, err
}

// evalMultipleValueCall gathers every argument form's full multiple-values
// list (not just its primary value) before applying the function, per
// spec's "gather all values across forms; call".
func (it *Interpreter) evalMultipleValueCall(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	if len(parts) == 0 {
		return it.signalFailure(env, FailTooFewArguments, tail)
	}
	callee, err := it.Eval(env, parts[0])
	if err != nil {
		return Nil, err
	}
	var actuals []Value
	for _, af := range parts[1:] {
		v, err := it.Eval(env, af)
		if err != nil {
			return Nil, err
		}
		actuals = append(actuals, it.theValues(v)...)
	}
	v, extra, err := it.apply(env, callee, actuals)
	it.values = extra
	return v, err
}

// evalMultipleValueProg1 preserves the first form's full values across the
// side-effecting forms that follow, per spec's table entry.
func (it *Interpreter) evalMultipleValueProg1(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	if len(parts) == 0 {
		return Nil, nil
	}
	v, err := it.Eval(env, parts[0])
	if err != nil {
		return Nil, err
	}
	saved := it.theValues(v)
	for _, f := range parts[1:] {
		if _, err := it.Eval(env, f); err != nil {
			return Nil, err
		}
	}
	it.values = saved
	return first(saved), nil
}

// evalProgv dynamically binds a parallel list of symbols to values for the
// body's extent, restoring each symbol's prior global value on the way out
// regardless of how the body exits.
func (it *Interpreter) evalProgv(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	if len(parts) < 2 {
		return it.signalFailure(env, FailTooFewArguments, tail)
	}
	varsVal, err := it.Eval(env, parts[0])
	if err != nil {
		return Nil, err
	}
	valsVal, err := it.Eval(env, parts[1])
	if err != nil {
		return Nil, err
	}
	vars := it.listElements(varsVal)
	vals := it.listElements(valsVal)

	var restores []func()
	defer func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}()
	for i, sym := range vars {
		v := Unbound
		if i < len(vals) {
			v = vals[i]
		}
		restores = append(restores, it.bindSpecial(sym, v))
	}

	return it.evalProgn(env, parts[2:])
}

// evalSetf implements generalized assignment for the common places spec
// §4.7 exercises (a bare symbol, CAR/CDR, SVREF/AREF, SYMBOL-VALUE,
// SYMBOL-FUNCTION, and property lists via GET); this is a fixed set of
// built-in expanders rather than the original's fully general per-built-in
// setter-function table (see DESIGN.md).
func (it *Interpreter) evalSetf(env *Env, tail Value) (Value, error) {
	parts := it.listElements(tail)
	var result Value
	it.values = nil
	for i := 0; i+1 < len(parts); i += 2 {
		place := parts[i]
		v, err := it.Eval(env, parts[i+1])
		if err != nil {
			return Nil, err
		}
		if err := it.setPlace(env, place, v); err != nil {
			return Nil, err
		}
		result = v
	}
	return result, nil
}

func (it *Interpreter) setPlace(env *Env, place, v Value) error {
	if isSymbolValue(it, place) {
		cell, err := it.binding(env, place, KindValue)
		if err != nil {
			return err
		}
		*cell = v
		return nil
	}
	if !place.IsCons() {
		_, err := it.signalFailure(env, FailVariableUnbound, place)
		return err
	}

	op := it.symbolOf(it.car(place)).Name
	args := it.listElements(it.cdr(place))
	evaled := make([]Value, len(args))
	for i, a := range args {
		ev, err := it.Eval(env, a)
		if err != nil {
			return err
		}
		evaled[i] = ev
	}

	switch op {
	case "CAR":
		it.setCar(evaled[0], v)
	case "CDR":
		it.setCdr(evaled[0], v)
	case "SVREF", "AREF":
		vec, ok := it.heap.iref(evaled[0]).(*Vector)
		if !ok {
			_, err := it.signalFailure(env, FailIndexOutOfBounds, evaled[0])
			return err
		}
		idx := int(evaled[1].Int())
		if idx < 0 || idx >= len(vec.Elements) {
			_, err := it.signalFailure(env, FailIndexOutOfBounds, evaled[1])
			return err
		}
		vec.Elements[idx] = v
	case "SYMBOL-VALUE":
		it.symbolOf(evaled[0]).Value = v
	case "SYMBOL-FUNCTION":
		it.symbolOf(evaled[0]).Function = v
	case "GET":
		sym := it.symbolOf(evaled[0])
		sym.Plist = it.plistPut(sym.Plist, evaled[1], v)
	default:
		_, err := it.signalFailure(env, FailFunctionUnbound, it.car(place))
		return err
	}
	return nil
}

// plistPut updates (or prepends) an indicator/value pair in a property
// list, used by SETF of GET.
func (it *Interpreter) plistPut(plist, indicator, v Value) Value {
	elems := it.listElements(plist)
	for i := 0; i+1 < len(elems); i += 2 {
		if Eq(elems[i], indicator) {
			elems[i+1] = v
			return it.makeList(elems)
		}
	}
	return it.cons(indicator, it.cons(v, plist))
}
