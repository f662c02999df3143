// Package ratelimit enforces a fixed-window request ceiling per client.
//
// Each client identity gets a counter that resets on window boundaries. A
// request is admitted while the counter is at or below the ceiling and
// denied with a retry-after hint otherwise. The window store is pluggable:
// an in-process map by default, Redis when several instances must share
// one budget.
//
// The limiter fails open: when the store errors the request is admitted,
// because dropping traffic over a broken counter is worse than briefly
// exceeding the ceiling.
package ratelimit
