package main

// argbind.go implements spec §4.6: lambda-list driven argument matching.

type lambdaSection int

const (
	secRequired lambdaSection = iota
	secOptional
	secRest
	secKey
	secAux
)

// bindLambdaList walks lambdaList and actuals together, installing bindings
// into env. Default-value forms are evaluated in env itself (the callee's
// own environment, so earlier parameters in the same list are visible to
// later defaults, matching Common Lisp's sequential-parameter-visibility
// rule); an &environment parameter is bound to nil.
func (it *Interpreter) bindLambdaList(env *Env, lambdaList Value, actuals []Value) error {
	elems := it.listElements(lambdaList)
	section := secRequired
	allowOtherKeys := false
	j := 0 // index into actuals

	consumeDefault := func(form Value) (Value, error) {
		if form.IsNil() {
			return Nil, nil
		}
		return it.Eval(env, form)
	}

	for i := 0; i < len(elems); i++ {
		elem := elems[i]

		if isSymbolNamed(it, elem, "&OPTIONAL") {
			section = secOptional
			continue
		}
		if isSymbolNamed(it, elem, "&REST") || isSymbolNamed(it, elem, "&BODY") {
			section = secRest
			continue
		}
		if isSymbolNamed(it, elem, "&KEY") {
			section = secKey
			continue
		}
		if isSymbolNamed(it, elem, "&AUX") {
			section = secAux
			continue
		}
		if isSymbolNamed(it, elem, "&ALLOW-OTHER-KEYS") {
			allowOtherKeys = true
			continue
		}
		if isSymbolNamed(it, elem, "&WHOLE") {
			i++
			if i < len(elems) {
				it.bindParamName(env, elems[i], it.makeList(actuals))
			}
			continue
		}
		if isSymbolNamed(it, elem, "&ENVIRONMENT") {
			i++
			if i < len(elems) {
				// Environment objects are not reified as Lisp values in
				// this implementation; the bound variable holds nil. No
				// built-in or special form introspects it.
				it.bindParamName(env, elems[i], Nil)
			}
			continue
		}

		switch section {
		case secRequired:
			if j >= len(actuals) {
				_, err := it.signalFailure(env, FailTooFewArguments, lambdaList)
				return err
			}
			if err := it.bindParam(env, elem, actuals[j]); err != nil {
				return err
			}
			j++

		case secOptional:
			name, defaultForm, supplied := splitOptKey(it, elem)
			if j < len(actuals) {
				it.bindParamName(env, name, actuals[j])
				j++
				it.bindSuppliedP(env, supplied, true)
			} else {
				dv, err := consumeDefault(defaultForm)
				if err != nil {
					return err
				}
				it.bindParamName(env, name, dv)
				it.bindSuppliedP(env, supplied, false)
			}

		case secRest:
			it.bindParamName(env, elem, it.makeList(actuals[min(j, len(actuals)):]))
			j = len(actuals)

		case secKey:
			name, defaultForm, supplied := splitOptKey(it, elem)
			keyword := it.keywordNameFor(name)
			val, found := findKeyArg(it, actuals[min(j, len(actuals)):], keyword)
			if found {
				it.bindParamName(env, name, val)
				it.bindSuppliedP(env, supplied, true)
			} else {
				dv, err := consumeDefault(defaultForm)
				if err != nil {
					return err
				}
				it.bindParamName(env, name, dv)
				it.bindSuppliedP(env, supplied, false)
			}

		case secAux:
			name, defaultForm, _ := splitOptKey(it, elem)
			dv, err := consumeDefault(defaultForm)
			if err != nil {
				return err
			}
			it.bindParamName(env, name, dv)
		}
	}

	_ = allowOtherKeys // unmatched keys are tolerated either way

	if section == secRequired || section == secOptional {
		if j < len(actuals) {
			_, err := it.signalFailure(env, FailTooManyArguments, lambdaList)
			return err
		}
	}
	return nil
}

// bindParam binds a single required parameter, recursing into a nested
// lambda list for destructuring when elem is itself a list.
func (it *Interpreter) bindParam(env *Env, elem, actual Value) error {
	if elem.IsCons() {
		return it.bindLambdaList(env, elem, it.listElements(actual))
	}
	it.bindParamName(env, elem, actual)
	return nil
}

func (it *Interpreter) bindParamName(env *Env, nameSym Value, v Value) {
	if nameSym.IsNil() || !nameSym.IsIref() {
		return
	}
	env.bindValue(it.symbolOf(nameSym).Name, v)
}

func (it *Interpreter) bindSuppliedP(env *Env, sym Value, supplied bool) {
	if sym.IsNil() {
		return
	}
	env.bindValue(it.symbolOf(sym).Name, it.boolValue(supplied))
}

// splitOptKey unpacks an &optional/&key/&aux parameter spec, which is
// either a bare symbol or a (var [default [supplied-p]]) list.
func splitOptKey(it *Interpreter, elem Value) (name, defaultForm, suppliedP Value) {
	if !elem.IsCons() {
		return elem, Nil, Nil
	}
	parts := it.listElements(elem)
	name = Nil
	if len(parts) > 0 {
		name = parts[0]
	}
	if len(parts) > 1 {
		defaultForm = parts[1]
	}
	if len(parts) > 2 {
		suppliedP = parts[2]
	}
	return name, defaultForm, suppliedP
}

// keywordNameFor returns the name a &key parameter matches against: the
// variable's own symbol name. findKeyArg compares by name only, so a
// keyword argument's package is not checked.
func (it *Interpreter) keywordNameFor(nameSym Value) string {
	return it.symbolOf(nameSym).Name
}

// findKeyArg scans actuals two at a time (keyword, value) looking for a
// keyword argument whose symbol name matches keyword.
func findKeyArg(it *Interpreter, actuals []Value, keyword string) (Value, bool) {
	for i := 0; i+1 < len(actuals); i += 2 {
		if actuals[i].IsIref() {
			if sym, ok := it.heap.iref(actuals[i]).(*Symbol); ok && sym.Name == keyword {
				return actuals[i+1], true
			}
		}
	}
	return Nil, false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
