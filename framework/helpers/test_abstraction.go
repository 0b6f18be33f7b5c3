package helpers

import (
	"errors"
	"fmt"
	"strings"
)

// TestContext is a minimal interface for types like *testing.T and *aridtest.T representing a
// test that can fail. It is also compatible with testify's require.TestingT.
type TestContext interface {
	Errorf(msgFormat string, msgArgs ...interface{})
	FailNow()
}

type helperMarker interface {
	Helper()
}

// MarkHelper calls t.Helper() if t supports it.
func MarkHelper(t TestContext) {
	if h, ok := t.(helperMarker); ok {
		h.Helper()
	}
}

// Failf reports a failure and terminates the test.
func Failf(t TestContext, msgFormat string, msgArgs ...interface{}) {
	MarkHelper(t)
	t.Errorf(msgFormat, msgArgs...)
	t.FailNow()
}

// TestRecorder is a TestContext that records failures instead of reporting them, so that
// assertion helpers can themselves be tested.
//
// If PanicOnTerminate is true, FailNow panics with the recorder as the value; this is how a
// caller observes that the code under test stopped at that point. Use RunRecorded to contain
// the panic.
type TestRecorder struct {
	Errors           []string
	Terminated       bool
	PanicOnTerminate bool
}

func (r *TestRecorder) Errorf(msgFormat string, msgArgs ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(msgFormat, msgArgs...))
}

func (r *TestRecorder) FailNow() {
	r.Terminated = true
	if r.PanicOnTerminate {
		panic(r)
	}
}

func (r *TestRecorder) Helper() {}

// Err returns all recorded failure messages joined into one error, or nil if there were none.
func (r *TestRecorder) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, ", "))
}

// RunRecorded calls action and recovers from a FailNow panic raised by this recorder. It
// returns true if the action ran to completion.
func (r *TestRecorder) RunRecorded(action func()) (completed bool) {
	defer func() {
		if p := recover(); p != nil {
			if p != r {
				panic(p)
			}
			completed = false
		}
	}()
	action()
	return true
}
