package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded describes the limit a request ran into.
// Scope is empty for endpoint-specific limits.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// PolicyLimiter enforces sliding-window limits per client.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request against every policy limit of the given scopes and
// reports whether all of them still hold. Scopes without policy limits are skipped.
// The returned LimitExceeded is nil when the request is allowed.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		exceeded, err := l.check(ctx, scope, clientKey+":"+string(scope), l.policy.Limits[scope])
		if err != nil || exceeded != nil {
			return false, exceeded, err
		}
	}

	return true, nil, nil
}

// AllowLimits is Allow for an explicit set of limits tracked under bucket,
// bypassing the policy. Routes with their own budget use it.
func (l *PolicyLimiter) AllowLimits(
	ctx context.Context, clientKey, bucket string, limits []LimitConfig,
) (bool, *LimitExceeded, error) {
	exceeded, err := l.check(ctx, "", clientKey+":custom:"+bucket, limits)
	if err != nil || exceeded != nil {
		return false, exceeded, err
	}

	return true, nil, nil
}

func (l *PolicyLimiter) check(ctx context.Context, scope Scope, prefix string, limits []LimitConfig) (*LimitExceeded, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:%d", prefix, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return nil, fmt.Errorf("record request: %w", err)
		}

		if count > limit.Max {
			return &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
		}
	}

	return nil, nil //nolint:nilnil // within limits
}
