package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	// X-Forwarded-For may carry a chain; the first entry is the original client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
