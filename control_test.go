package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These exercise control.go's primitives directly, below the special-form
// layer already covered by special_forms_test.go.

func Test_RunBlock_CatchesMatchingReturnFrom(t *testing.T) {
	it := New()
	defer it.Close()
	env := newEnv(nil)

	rv, _, err := it.runBlock(env, "DONE", func(blockEnv *Env) (Value, []Value, error) {
		err := it.returnFrom(blockEnv, "DONE", []Value{Fixnum(7)})
		return Nil, nil, err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rv.Int())
}

func Test_RunBlock_UnmatchedReturnFromPropagates(t *testing.T) {
	it := New()
	defer it.Close()
	env := newEnv(nil)

	err := it.returnFrom(env, "NOWHERE", nil)
	fail, ok := err.(*Failure)
	require.True(t, ok)
	assert.Equal(t, FailBlockNotBound, fail.Kind)
}

func Test_RunBlock_ReturnFromInactiveBlockFails(t *testing.T) {
	it := New()
	defer it.Close()
	env := newEnv(nil)

	var escaped *Env
	_, _, err := it.runBlock(env, "DONE", func(blockEnv *Env) (Value, []Value, error) {
		escaped = blockEnv
		return Fixnum(1), nil, nil
	})
	require.NoError(t, err)

	err = it.returnFrom(escaped, "DONE", nil)
	require.Error(t, err)
	fail, ok := err.(*Failure)
	require.True(t, ok)
	assert.Equal(t, FailBlockExtentExited, fail.Kind, "returning into an already-exited block's extent must fail")
}

func Test_RunCatch_ThrowMatchesByTagIdentity(t *testing.T) {
	it := New()
	defer it.Close()

	tag := it.intern(it.userPackage, "MY-TAG")
	rv, _, err := it.runCatch(tag, func() (Value, []Value, error) {
		err := it.throwTag(tag, []Value{Fixnum(3)})
		return Nil, nil, err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), rv.Int())
}

func Test_RunCatch_ThrowToUnrelatedTagFails(t *testing.T) {
	it := New()
	defer it.Close()

	tag := it.intern(it.userPackage, "MY-TAG")
	other := it.intern(it.userPackage, "OTHER-TAG")

	err := it.throwTag(other, nil)
	_ = tag
	require.Error(t, err)
	fail, ok := err.(*Failure)
	require.True(t, ok)
	assert.Equal(t, FailCatchTagNotBound, fail.Kind)
}

// Test_RunUnwindProtect_CleanupRunsExactlyOnceOnPanic verifies the Go
// defer-based rendering of UNWIND-PROTECT still runs cleanup exactly once
// even when the protected thunk's own non-local exit unwinds through it, at
// the control.go layer rather than through the special-form evaluator.
func Test_RunUnwindProtect_CleanupRunsExactlyOnceOnPanic(t *testing.T) {
	it := New()
	defer it.Close()
	env := newEnv(nil)

	ran := 0
	_, _, err := it.runBlock(env, "DONE", func(blockEnv *Env) (Value, []Value, error) {
		return it.runUnwindProtect(
			func() (Value, []Value, error) {
				return Nil, nil, it.returnFrom(blockEnv, "DONE", []Value{Fixnum(1)})
			},
			func() { ran++ },
		)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ran)
}

func Test_TheValues_DefaultsToSingleValue(t *testing.T) {
	it := New()
	defer it.Close()

	it.values = nil
	vs := it.theValues(Fixnum(5))
	assert.Equal(t, []Value{Fixnum(5)}, vs)
}

func Test_TheValues_ConsumesAndClearsRegister(t *testing.T) {
	it := New()
	defer it.Close()

	it.setValues([]Value{Fixnum(1), Fixnum(2)})
	vs := it.theValues(Fixnum(1))
	assert.Len(t, vs, 2)
	assert.Nil(t, it.values, "theValues consumes the register, leaving it clear for the next form")
}
