// Package ratelimit decides whether a keyed caller may proceed. The HTTP
// middleware owns the response; limiters only count.
package ratelimit

import (
	"context"
	"time"
)

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type Config struct {
	Max    int
	Window time.Duration
}
