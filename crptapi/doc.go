/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package crptapi provides a client for the document registration API (POST /api/v3/lk/documents/create).
// The client never sends more requests than the injected ratelimit.Acquirer permits:
// every document submission acquires exactly one permit right before the request is sent.
// A single Acquirer may be shared by several clients to keep them within one common budget.
package crptapi
