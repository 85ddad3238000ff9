/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package logtest provides log.FieldLogger implementations for tests:
// Recorder keeps every entry in memory for later inspection, NewLogger writes JSON lines.
package logtest
