package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_SignalFailure_RoutesThroughInstalledBreakHandler covers spec §7's
// "a user-installed *BREAK-HANDLER* function intercepts every failure
// instead of dropping into the interactive break loop".
func Test_SignalFailure_RoutesThroughInstalledBreakHandler(t *testing.T) {
	it := New()
	defer it.Close()

	_, err := evalSrc(t, it, `(setq *break-handler* (lambda (kind offender) 99))`)
	require.NoError(t, err)

	v, err := it.signalFailure(newEnv(nil), FailVariableUnbound, Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(99), v.Int())
}

// Test_RunBreakLoop_ReturnRestart covers the `(return FORM)` restart: it
// resumes signalFailure's caller with FORM's value instead of propagating
// the failure.
func Test_RunBreakLoop_ReturnRestart(t *testing.T) {
	it := New()
	defer it.Close()
	rebindStdout(it)
	it.Input.Queue = []io.Reader{strings.NewReader("(return 7)")}

	fail := &Failure{Kind: FailVariableUnbound, Offender: Nil}
	v, err := it.runBreakLoop(newEnv(nil), fail)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int())
}

// Test_RunBreakLoop_AbortRestart covers the `(abort)` restart: it
// propagates the original failure back out of signalFailure.
func Test_RunBreakLoop_AbortRestart(t *testing.T) {
	it := New()
	defer it.Close()
	rebindStdout(it)
	it.Input.Queue = []io.Reader{strings.NewReader("(abort)")}

	fail := &Failure{Kind: FailVariableUnbound, Offender: Nil}
	_, err := it.runBreakLoop(newEnv(nil), fail)
	require.Error(t, err)
	assert.Same(t, fail, err)
}

// Test_RunBreakLoop_EOFAbortsWithOriginalFailure covers the case where the
// break loop's input runs dry before a restart is given.
func Test_RunBreakLoop_EOFAbortsWithOriginalFailure(t *testing.T) {
	it := New()
	defer it.Close()
	rebindStdout(it)

	fail := &Failure{Kind: FailFunctionUnbound, Offender: Nil}
	_, err := it.runBreakLoop(newEnv(nil), fail)
	require.Error(t, err)
	assert.Same(t, fail, err)
}
