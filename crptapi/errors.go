/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package crptapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const maxErrorBodyLen = 256

// APIError is returned when the registration API responds with a non-2xx status code.
type APIError struct {
	StatusCode int
	Body       []byte
	// RetryAfter is parsed from the Retry-After header (delay in seconds), it's zero if the header is absent.
	RetryAfter time.Duration
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: body}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		apiErr.RetryAfter = time.Duration(secs) * time.Second
	}
	return apiErr
}

func (e *APIError) Error() string {
	body := string(e.Body)
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen] + "..."
	}
	return fmt.Sprintf("registration API responded with status %d: %s", e.StatusCode, body)
}

// IsRateLimited reports whether the server rejected the request because of its own rate limit.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
