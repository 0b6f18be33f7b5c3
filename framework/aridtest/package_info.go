// Package aridtest contains the test runner used by the arid command. It is similar to Go's
// testing package, but runs as regular application code so that scenario files can be executed
// against a live service outside of "go test". It adds console and JUnit result reporting and
// regex-based filtering of test IDs.
//
// *T implements helpers.TestContext, so a resttest.Session can report failures to it exactly as
// it would to a *testing.T.
package aridtest
