/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"
)

// RequireErrorIsAll asserts that every target matches some error in err's chain.
// This is a wrapper for errors.Is.
func RequireErrorIsAll(t require.TestingT, err error, targets []error, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	var missing []string
	for _, targetErr := range targets {
		if !errors.Is(err, targetErr) {
			missing = append(missing, fmt.Sprintf("%q", targetErr.Error()))
		}
	}
	if len(missing) == 0 {
		return
	}
	require.FailNow(t, fmt.Sprintf("All target errors should be in err chain:\n"+
		"missing: [%s]\n"+
		"in chain: %s", strings.Join(missing, "; "), buildErrorChainString(err),
	), msgAndArgs...)
}

// RequireErrorIsAny asserts that at least one of the errors in err's chain matches at least one target.
// This is a wrapper for errors.Is.
func RequireErrorIsAny(t require.TestingT, err error, targets []error, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for _, targetErr := range targets {
		if errors.Is(err, targetErr) {
			return
		}
	}
	expectedErrTexts := make([]string, 0, len(targets))
	for _, targetErr := range targets {
		expectedErrTexts = append(expectedErrTexts, fmt.Sprintf("%q", targetErr.Error()))
	}
	require.FailNow(t, fmt.Sprintf("At least one target error should be in err chain:\n"+
		"expected: [%s]\n"+
		"in chain: %s", strings.Join(expectedErrTexts, "; "), buildErrorChainString(err),
	), msgAndArgs...)
}

func buildErrorChainString(err error) string {
	if err == nil {
		return "<nil>"
	}
	chain := fmt.Sprintf("%q", err.Error())
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		chain += fmt.Sprintf("\n\t%q", e.Error())
	}
	return chain
}
