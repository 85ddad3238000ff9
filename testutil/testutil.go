/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package testutil contains assertion helpers shared by the tests of this module.
package testutil

type tHelper interface {
	Helper()
}
