package ratelimit

import "time"

// LimitConfig caps the number of requests allowed within a sliding window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps each scope to the limits that apply to it.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy returns the limits applied when an endpoint has no custom configuration.
// Redirects dominate traffic, so reads get a far larger budget than writes.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {
				{Window: time.Minute, Max: 2000},
			},
			ScopeRead: {
				{Window: time.Minute, Max: 1000},
			},
			ScopeWrite: {
				{Window: time.Minute, Max: 30},
				{Window: time.Hour, Max: 300},
			},
		},
	}
}
