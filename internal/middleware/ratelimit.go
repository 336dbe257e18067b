package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/arjunstein/url-shortener/internal/ratelimit"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a huma middleware that applies policy-based rate limiting.
// Clients are identified by IP and User-Agent.
//
// Operations may carry a ratelimit.EndpointConfig under ratelimit.MetadataKey to
// disable limiting, override the scope, or define their own limits. Custom limits
// are tracked per route template, so every code behind "/{code}" shares a counter.
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		var (
			key  = clientKey(ctx)
			path = operationPath(ctx)

			allowed  bool
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		if cfg != nil && len(cfg.Limits) > 0 {
			allowed, exceeded, err = limiter.AllowLimits(ctx.Context(), key, path, cfg.Limits)
		} else {
			allowed, exceeded, err = limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		}

		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")

			return
		}

		if !allowed {
			rejectRequest(api, ctx, exceeded, path, logger)

			return
		}

		next(ctx)
	}
}

func rejectRequest(
	api huma.API,
	ctx huma.Context,
	exceeded *ratelimit.LimitExceeded,
	path string,
	logger *zap.Logger,
) {
	msg := "rate limit exceeded"

	if exceeded != nil {
		msg = fmt.Sprintf("rate limit exceeded: %d/%d requests in %s",
			exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)

		logger.Warn("rate limit exceeded",
			zap.String("path", path),
			zap.String("method", ctx.Method()),
			zap.String("scope", string(exceeded.Scope)),
			zap.Int64("count", exceeded.Count),
			zap.Int64("max", exceeded.Config.Max),
			zap.Duration("window", exceeded.Config.Window),
			zap.String("client_ip", clientIP(ctx)),
		)
	}

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}

// clientKey hashes IP and User-Agent into a fixed-size key.
func clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}
