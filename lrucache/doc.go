/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package lrucache provides an in-memory cache with a bounded number of entries
// that evicts the least recently used entry when a new one doesn't fit.
// The fake registration API uses it to keep per-client rate limiting windows
// for a bounded set of the most active clients.
package lrucache
