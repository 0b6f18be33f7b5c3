package aridtest

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/jsgarvin/arid/framework"
)

// TestConfiguration contains options for the entire test run.
type TestConfiguration struct {
	// Filter is an optional way of deciding which tests to run based on their IDs.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger
}

type environment struct {
	config  TestConfiguration
	results Results
}

// T is the scope of one test, in the manner of testing.T. A scenario file and each scenario in
// it get their own T.
type T struct {
	env         *environment
	id          TestID
	debugLogger framework.CapturingLogger
	nonCritical string
	failed      bool
	skipped     bool
	skipReason  string
	cleanups    []func()
	errors      []error
	helperFns   []string
}

var errFailedWithoutMessage = errors.New("test failed with no failure message")

// Run runs action in a new top-level scope and returns the results of it and of all the tests
// it started.
func Run(config TestConfiguration, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &environment{config: config}
	(&T{env: env}).run(action)
	return env.results
}

// Run runs a subtest in its own scope, unless the Filter excludes it.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)
	logger := t.env.config.TestLogger

	logger.TestStarted(id)
	if filter := t.env.config.Filter; filter != nil && !filter.Match(id) {
		logger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	sub := &T{id: id, env: t.env}
	t.debugLogger.AddChildLogger(&sub.debugLogger)
	result := sub.run(action)
	t.debugLogger.RemoveChildLogger(&sub.debugLogger)

	if sub.skipped {
		logger.TestSkipped(id, sub.skipReason)
		return
	}
	logger.TestFinished(id, result, sub.debugLogger.Output())
}

func (t *T) run(action func(*T)) (result TestResult) {
	defer func() {
		t.recoverFrom(recover())
		for i := len(t.cleanups) - 1; i >= 0; i-- {
			t.cleanups[i]()
		}
		if !t.skipped {
			result = t.record()
		}
	}()
	action(t)
	return
}

// recoverFrom turns a panic into a failure. FailNow and Skip panic with the T itself.
func (t *T) recoverFrom(p interface{}) {
	if p == nil {
		return
	}
	if p == t {
		if t.skipped || len(t.errors) != 0 {
			return
		}
		t.addError(errFailedWithoutMessage)
		return
	}
	t.addError(fmt.Errorf("unexpected panic in test: %+v\n%s", p, debug.Stack()))
}

func (t *T) addError(err error) {
	t.failed = true
	t.errors = append(t.errors, err)
	t.env.config.TestLogger.TestError(t.id, err)
}

func (t *T) record() TestResult {
	result := TestResult{TestID: t.id, Errors: t.errors}
	results := &t.env.results
	if t.failed {
		if t.nonCritical != "" {
			result.NonCritical = true
			result.Explanation = t.nonCritical
			results.NonCriticalFailures = append(results.NonCriticalFailures, result)
		} else {
			results.Failures = append(results.Failures, result)
		}
	}
	results.Tests = append(results.Tests, result)
	return result
}

// NonCritical marks the test as one whose failure is reported, with this explanation, but does
// not make the arid command fail.
func (t *T) NonCritical(explanation string) {
	t.nonCritical = explanation
}

// Errorf records a failure without stopping the test.
func (t *T) Errorf(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	t.addError(transformError(err, getStacktrace(false, t.helperFns)))
}

// FailNow marks the test as failed and stops it.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Skip stops the test and reports it as skipped.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason is Skip with an explanation for the test log.
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Debug writes a message to the output of this test.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns the Logger for the output of this test. That output is passed to
// TestLogger.TestFinished. A subtest's output starts with a copy of its parent's output so far,
// and also receives whatever the parent logs while the subtest runs.
func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Defer schedules a function to be called when this test ends, however it ends. Deferred
// functions run in reverse order.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}

// Helper marks the calling function as a helper to be left out of failure stacktraces.
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	if f := runtime.FuncForPC(pc); f != nil {
		t.helperFns = append(t.helperFns, f.Name())
	}
}
