// Package testutil holds tiny test helpers shared by this module's
// package-level test suites.
package testutil

import "testing"

// Asserter is a closure-based assertion helper: asserter(cond, fmt, args...)
// calls t.Fatalf(fmt, args...) when cond is false.
type Asserter func(cond bool, format string, args ...interface{})

// NewAsserter returns an Asserter bound to t.
func NewAsserter(t *testing.T) Asserter {
	t.Helper()
	return func(cond bool, format string, args ...interface{}) {
		if !cond {
			t.Helper()
			t.Fatalf(format, args...)
		}
	}
}
