// Package internal contains test helpers for aridtest.
package internal

// RunAction is used only in unit tests, but exported because it has to be in a separate package
// for the stacktrace tests to see a non-aridtest frame.
func RunAction(action func()) {
	action()
}
