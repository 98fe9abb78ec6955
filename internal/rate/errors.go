package rate

import "errors"

var (
	// ErrRateLimited is returned when an identity's refresh budget for the
	// current window is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable is returned when the backing Redis store cannot be
	// reached.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
