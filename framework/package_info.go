// Package framework contains the reusable infrastructure underneath arid's CRUD test DSL. The
// base package holds shared logging types; the subpackages provide the test-scope runner
// (aridtest), small assertion helpers (helpers), optional values (opt) and a readiness probe for
// the service under test (harness).
//
// The general model is:
//
// 1. A test scope, similar to Go's testing.T, accumulates failures and debug output for one
// test. The DSL in package resttest reports every failed expectation through that scope.
//
// 2. The application under test is reached over plain HTTP; arid never starts or owns it,
// apart from the in-process demo application used by the self-test.
//
// The domain-specific code (resttest, scenario) decides what requests to make and what to
// expect; nothing in this package knows about resources or forms.
package framework
