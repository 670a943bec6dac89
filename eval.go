package main

// eval.go implements spec §4.7's top-level dispatch: self-evaluation,
// symbol resolution (with symbol-macro expansion), special-operator
// dispatch, macro expansion, and ordinary function call.

// Eval evaluates form in env, returning its primary value. Multiple values,
// when the form produced them, are left in it.values (spec's "values"
// register) for MULTIPLE-VALUE-CALL/MULTIPLE-VALUE-PROG1 to consume via
// theValues.
func (it *Interpreter) Eval(env *Env, form Value) (Value, error) {
	if form.IsCons() {
		return it.evalCompound(env, form)
	}
	if isSymbolValue(it, form) {
		return it.evalSymbol(env, form)
	}
	// Self-evaluating: fixnum, char, string/double/bit-vector/stream jrefs,
	// vectors, structures, functions, nil.
	it.values = nil
	return form, nil
}

func isSymbolValue(it *Interpreter, v Value) bool {
	if !v.IsIref() {
		return false
	}
	_, ok := it.heap.iref(v).(*Symbol)
	return ok
}

func (it *Interpreter) evalSymbol(env *Env, sym Value) (Value, error) {
	name := it.symbolOf(sym).Name
	if en := env.find(KindSymbolMacro, name); en != nil {
		it.values = nil
		return it.Eval(env, *en.cell)
	}

	cell, err := it.binding(env, sym, KindValue)
	if err != nil {
		return Nil, err
	}
	if cell.IsUnbound() {
		return it.signalFailure(env, FailVariableUnbound, sym)
	}
	it.values = nil
	return *cell, nil
}

func (it *Interpreter) evalCompound(env *Env, form Value) (Value, error) {
	head := it.car(form)
	tail := it.cdr(form)

	if isSymbolValue(it, head) {
		name := it.symbolOf(head).Name

		if idx, ok := specialFormIndex[name]; ok {
			return it.evalSpecialForm(env, idx, head, tail)
		}

		if en := env.find(KindMacrolet, name); en != nil {
			expansion, err := it.applyMacro(env, *en.cell, tail)
			if err != nil {
				return Nil, err
			}
			return it.Eval(env, expansion)
		}
		if s := it.symbolOf(head); !s.Macro.IsUnbound() && !s.Macro.IsNil() {
			expansion, err := it.applyMacro(env, s.Macro, tail)
			if err != nil {
				return Nil, err
			}
			return it.Eval(env, expansion)
		}
	}

	callee, err := it.resolveCallee(env, head)
	if err != nil {
		return Nil, err
	}

	argForms := it.listElements(tail)
	actuals := make([]Value, len(argForms))
	for i, af := range argForms {
		v, err := it.Eval(env, af)
		if err != nil {
			return Nil, err
		}
		actuals[i] = v
	}

	v, _, err := it.apply(env, callee, actuals)
	return v, err
}

// resolveCallee implements the FUNCTION special operator's non-#' sibling:
// resolving an operator position, either a symbol's function cell or an
// inline (LAMBDA ...) form.
func (it *Interpreter) resolveCallee(env *Env, head Value) (Value, error) {
	if isSymbolValue(it, head) {
		cell, err := it.binding(env, head, KindFunction)
		if err != nil {
			return Nil, err
		}
		if cell.IsUnbound() {
			return it.signalFailure(env, FailFunctionUnbound, head)
		}
		return *cell, nil
	}
	if head.IsCons() && isSymbolNamed(it, it.car(head), "LAMBDA") {
		return it.makeClosure(env, it.cdr(head), Nil)
	}
	return it.signalFailure(env, FailFunctionUnbound, head)
}

// makeClosure builds an interpreted Function from (lambda-list . body),
// capturing env.
func (it *Interpreter) makeClosure(env *Env, lambdaForm Value, name Value) (Value, error) {
	lambdaList := it.car(lambdaForm)
	body := it.cdr(lambdaForm)
	fnName := "LAMBDA"
	if !name.IsNil() && isSymbolValue(it, name) {
		fnName = it.symbolOf(name).Name
	}
	fn := &Function{Name: fnName, LambdaList: lambdaList, Body: body, Env: env, MinArgs: 0, MaxArgs: -1}
	return it.heap.allocIref(fn), nil
}

// apply invokes callee (built-in or interpreted) on already-evaluated
// actuals, using the frame discipline of spec §4.3.
func (it *Interpreter) apply(env *Env, callee Value, actuals []Value) (Value, []Value, error) {
	if !callee.IsIref() {
		v, err := it.signalFailure(env, FailFunctionUnbound, callee)
		return v, nil, err
	}
	fn, ok := it.heap.iref(callee).(*Function)
	if !ok {
		v, err := it.signalFailure(env, FailFunctionUnbound, callee)
		return v, nil, err
	}

	depth := it.pushFrame(callee, actuals, env, Nil)
	defer it.popFrame(depth)

	if fn.IsBuiltin() {
		if kind, bad := checkArity(fn, len(actuals)); bad {
			v, err := it.signalFailure(env, kind, callee)
			return v, nil, err
		}
		v, extra, err := fn.Native(it, actuals)
		it.values = extra
		return v, extra, err
	}

	callEnv := newEnv(fn.Env)
	if err := it.bindLambdaList(callEnv, fn.LambdaList, actuals); err != nil {
		return Nil, nil, err
	}

	bodyForms := it.listElements(fn.Body)
	var result Value
	for _, f := range bodyForms {
		v, err := it.Eval(callEnv, f)
		if err != nil {
			return Nil, nil, err
		}
		result = v
	}
	return result, it.values, nil
}

// checkArity reports whether n actuals satisfy fn's declared arity and, if
// not, which of the two arity failures applies; the caller routes that
// through signalFailure (spec §7) rather than erroring directly.
func checkArity(fn *Function, n int) (kind FailureKind, bad bool) {
	if n < fn.MinArgs {
		return FailTooFewArguments, true
	}
	if fn.MaxArgs >= 0 && n > fn.MaxArgs {
		return FailTooManyArguments, true
	}
	return 0, false
}

// applyMacro calls a macro function on its unevaluated argument tail,
// returning the expansion form (spec §4.7: "call it on the unevaluated
// tail... re-evaluate"). Unlike the original, we do not mutate the source
// form in place to memoize the expansion (see DESIGN.md).
func (it *Interpreter) applyMacro(env *Env, macroFn, tail Value) (Value, error) {
	actuals := it.listElements(tail)
	v, _, err := it.apply(env, macroFn, actuals)
	return v, err
}
