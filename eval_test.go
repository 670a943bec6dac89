package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalSrc parses and evaluates a single top-level form against a fresh
// global environment, for tests that only care about the evaluator and not
// the REPL/ambient I/O wiring.
func evalSrc(t *testing.T, it *Interpreter, src string) (Value, error) {
	t.Helper()
	rd := NewReader(strings.NewReader(src))
	form, err := it.ReadForm(rd)
	require.NoError(t, err)
	return it.Eval(newEnv(nil), form)
}

func Test_Eval_SelfEvaluatingForms(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int())

	v, err = evalSrc(t, it, `"hello"`)
	require.NoError(t, err)
	s, ok := it.heap.jref(v).(*LString)
	require.True(t, ok)
	assert.Equal(t, "hello", s.String())
}

func Test_Eval_Quote(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, "'(a b c)")
	require.NoError(t, err)
	require.True(t, v.IsCons())
	assert.Equal(t, "A", it.symbolOf(it.car(v)).Name)
}

func Test_Eval_If(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, "(if nil 1 2)")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int())

	v, err = evalSrc(t, it, "(if 7 1 2)")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int())

	v, err = evalSrc(t, it, "(if nil 1)")
	require.NoError(t, err)
	assert.True(t, v.IsNil(), "a false IF with no else branch yields nil")
}

// Test_Eval_LetSetqMultiply is one of the worked scenarios: `(let ((x 10))
// (setq x (* x x)) x)` must evaluate to 100.
func Test_Eval_LetSetqMultiply(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, "(let ((x 10)) (setq x (* x x)) x)")
	require.NoError(t, err)
	assert.Equal(t, int64(100), v.Int())
}

func Test_Eval_LetStarSeesEarlierBindings(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, "(let* ((x 3) (y (* x x))) y)")
	require.NoError(t, err)
	assert.Equal(t, int64(9), v.Int())
}

func Test_Eval_LetDoesNotSeeItsOwnBindingsDuringInit(t *testing.T) {
	it := New()
	defer it.Close()

	// Plain LET evaluates every initializer against the *outer* scope, so a
	// shadowed X inside the binding list must not be visible to Y's init
	// form; Y's reference to X resolves to the unbound global instead.
	_, err := evalSrc(t, it, "(let ((x 3) (y x)) y)")
	require.Error(t, err)
}

func Test_Eval_LambdaClosureCapturesEnv(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, "(let ((x 5)) ((lambda (y) (+ x y)) 2))")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int())
}

func Test_Eval_FletIsNotRecursive(t *testing.T) {
	it := New()
	defer it.Close()

	// An FLET-bound function's own body cannot see its own binding: calling
	// itself recursively must fail with a function-unbound failure, unlike
	// LABELS.
	_, err := evalSrc(t, it, "(flet ((f (n) (if (= n 0) 0 (f (- n 1))))) (f 3))")
	require.Error(t, err)
}

func Test_Eval_LabelsIsRecursive(t *testing.T) {
	it := New()
	defer it.Close()

	v, err := evalSrc(t, it, "(labels ((f (n) (if (= n 0) 0 (f (- n 1))))) (f 3))")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int())
}

func Test_Eval_UnboundVariableSignalsFailure(t *testing.T) {
	it := New()
	defer it.Close()

	_, err := evalSrc(t, it, "NO-SUCH-VARIABLE")
	require.Error(t, err)
	fail, ok := err.(*Failure)
	require.True(t, ok)
	assert.Equal(t, FailVariableUnbound, fail.Kind)
}

func Test_Eval_TooManyArguments(t *testing.T) {
	it := New()
	defer it.Close()

	_, err := evalSrc(t, it, "(car 1 2)")
	require.Error(t, err)
}
