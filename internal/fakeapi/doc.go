/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package fakeapi provides an in-process stand-in for the document registration API.
// It serves POST /api/v3/lk/documents/create and enforces its own request rate limit
// (GCRA or sliding window) per client host, answering 429 with Retry-After when the limit is exceeded.
// It's used by the demo application and by tests that check clients stay within their budget.
package fakeapi
