/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package testutil

// MockT records failures instead of stopping the test.
type MockT struct {
	Failed bool
	Format string
	Args   []interface{}
}

func (t *MockT) FailNow() {
	t.Failed = true
}

func (t *MockT) Errorf(format string, args ...interface{}) {
	t.Failed = true
	t.Format, t.Args = format, args
}

func (t *MockT) Helper() {}
