/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package fakeapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/acronis/go-crptapi/ratelimit"
)

type LeakyBucketLimiterTestSuite struct {
	suite.Suite
}

func TestLeakyBucketLimiter(t *testing.T) {
	suite.Run(t, new(LeakyBucketLimiterTestSuite))
}

func (ts *LeakyBucketLimiterTestSuite) TestAllowSequential() {
	limiter, err := NewLeakyBucketLimiter(ratelimit.Rate{Count: 2, Duration: time.Second}, 1, 100)
	ts.Require().NoError(err)

	ctx := context.Background()
	key := "127.0.0.1"

	// Burst capacity is exhausted after two requests.
	for i := 0; i < 2; i++ {
		allow, _, allowErr := limiter.Allow(ctx, key)
		ts.NoError(allowErr)
		ts.True(allow)
	}

	allow, retryAfter, err := limiter.Allow(ctx, key)
	ts.NoError(err)
	ts.False(allow)
	ts.Greater(retryAfter, time.Duration(0))
	ts.LessOrEqual(retryAfter, time.Second)

	// Other keys have their own buckets.
	allow, _, err = limiter.Allow(ctx, "10.0.0.1")
	ts.NoError(err)
	ts.True(allow)
}

func (ts *LeakyBucketLimiterTestSuite) TestAllowAfterEmissionInterval() {
	limiter, err := NewLeakyBucketLimiter(ratelimit.Rate{Count: 10, Duration: time.Second}, 0, 10)
	ts.Require().NoError(err)

	ctx := context.Background()
	allow, _, err := limiter.Allow(ctx, "key")
	ts.NoError(err)
	ts.True(allow)
	allow, _, err = limiter.Allow(ctx, "key")
	ts.NoError(err)
	ts.False(allow)

	time.Sleep(150 * time.Millisecond)
	allow, _, err = limiter.Allow(ctx, "key")
	ts.NoError(err)
	ts.True(allow)
}

func (ts *LeakyBucketLimiterTestSuite) TestServedRequestHasNoRetryAfter() {
	limiter, err := NewLeakyBucketLimiter(ratelimit.Rate{Count: 1, Duration: time.Minute}, 0, 10)
	ts.Require().NoError(err)

	allow, retryAfter, err := limiter.Allow(context.Background(), "key")
	ts.Require().NoError(err)
	ts.True(allow)
	ts.Equal(time.Duration(0), retryAfter)
}

func (ts *LeakyBucketLimiterTestSuite) TestInvalidParams() {
	_, err := NewLeakyBucketLimiter(ratelimit.Rate{Count: 0, Duration: time.Second}, 0, 10)
	ts.ErrorIs(err, ratelimit.ErrInvalidLimit)
	_, err = NewLeakyBucketLimiter(ratelimit.Rate{Count: 1, Duration: time.Second}, -1, 10)
	ts.EqualError(err, "max burst should be non-negative, got -1")
}

type SlidingWindowLimiterTestSuite struct {
	suite.Suite
}

func TestSlidingWindowLimiter(t *testing.T) {
	suite.Run(t, new(SlidingWindowLimiterTestSuite))
}

func (ts *SlidingWindowLimiterTestSuite) TestAllowSequential() {
	limiter, err := NewSlidingWindowLimiter(ratelimit.Rate{Count: 2, Duration: time.Second}, 100)
	ts.Require().NoError(err)

	ctx := context.Background()
	key := "127.0.0.1"

	for i := 0; i < 2; i++ {
		allow, retryAfter, allowErr := limiter.Allow(ctx, key)
		ts.NoError(allowErr)
		ts.True(allow)
		ts.Equal(time.Duration(0), retryAfter)
	}

	allow, retryAfter, err := limiter.Allow(ctx, key)
	ts.NoError(err)
	ts.False(allow)
	ts.Greater(retryAfter, time.Duration(0))
	ts.LessOrEqual(retryAfter, time.Second)
}

func (ts *SlidingWindowLimiterTestSuite) TestMaxKeysEvictsLeastRecentlyUsed() {
	limiter, err := NewSlidingWindowLimiter(ratelimit.Rate{Count: 1, Duration: time.Hour}, 2)
	ts.Require().NoError(err)

	ctx := context.Background()
	requireAllow := func(key string, want bool) {
		allow, _, allowErr := limiter.Allow(ctx, key)
		ts.Require().NoError(allowErr)
		ts.Require().Equal(want, allow, "key %q", key)
	}

	requireAllow("a", true)
	requireAllow("a", false)
	requireAllow("b", true)
	requireAllow("a", false) // "b" is the least recently used now

	// The third key pushes out only the window of "b".
	requireAllow("c", true)
	requireAllow("a", false)
	requireAllow("c", false)
	requireAllow("b", true)
}

func (ts *SlidingWindowLimiterTestSuite) TestInvalidParams() {
	_, err := NewSlidingWindowLimiter(ratelimit.Rate{Count: 1, Duration: 0}, 1)
	ts.ErrorIs(err, ratelimit.ErrInvalidInterval)
	_, err = NewSlidingWindowLimiter(ratelimit.Rate{Count: 1, Duration: time.Second}, 0)
	ts.EqualError(err, "max keys should be positive, got 0")
}
