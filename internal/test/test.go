package test

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// CodedError is implemented by meta.Error and parser.Error.
type CodedError interface {
	error
	ErrorCode() int
}

func caller() string {
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	return fmt.Sprintf("at %s:%d", file, line)
}

func Assert(t *testing.T, cond bool, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	require.True(t, cond, message+" "+caller())
}

func Expect(t *testing.T, cond bool, expected, got any) {
	t.Helper()
	require.True(t, cond, "expecting %v, got %v %s", expected, got, caller())
}

func ExpectBool(t *testing.T, expected, got bool) {
	t.Helper()
	require.Equal(t, expected, got, caller())
}

func ExpectInt(t *testing.T, expected, got int) {
	t.Helper()
	require.Equal(t, expected, got, caller())
}

func ExpectNoError(t *testing.T, e error) {
	t.Helper()
	require.NoError(t, e, caller())
}

// ExpectErrorCode fails unless e (or an error it wraps) carries expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	var ce CodedError
	if errors.As(e, &ce) && ce.ErrorCode() == expected {
		return
	}

	require.Failf(t, "wrong error", "expecting error code %d, got %v %s", expected, e, caller())
}
