package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusOK        = "ok"
	statusDegraded  = "degraded"
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresChecker adapts a pgx pool to Checker interface.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresChecker creates a new PostgreSQL health checker.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

// Ping acquires a pooled connection and checks it.
func (p *PostgresChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Handler handles health check operations.
// A nil checker marks a dependency that is not configured; it is omitted from the report.
type Handler struct {
	postgres Checker
	redis    Checker
}

// NewHandler creates a new health handler.
func NewHandler(postgres, redis Checker) *Handler {
	return &Handler{postgres: postgres, redis: redis}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status   string `doc:"ok when every configured dependency is reachable" enum:"ok,degraded" json:"status"`
		Postgres string `json:"postgres,omitempty"`
		Redis    string `json:"redis,omitempty"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = statusOK

	if h.postgres != nil {
		resp.Body.Postgres = h.probe(ctx, h.postgres, &resp.Body.Status)
	}

	if h.redis != nil {
		resp.Body.Redis = h.probe(ctx, h.redis, &resp.Body.Status)
	}

	return resp, nil
}

func (h *Handler) probe(ctx context.Context, c Checker, overall *string) string {
	if err := c.Ping(ctx); err != nil {
		*overall = statusDegraded

		return statusUnhealthy
	}

	return statusHealthy
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Service health",
		Tags:        []string{"Health"},
	}, h.Check)
}
