package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/arjunstein/url-shortener/internal/analytics"
	analyticsstore "github.com/arjunstein/url-shortener/internal/analytics/store"
	"github.com/arjunstein/url-shortener/internal/cleanup"
	"github.com/arjunstein/url-shortener/internal/handlers"
	"github.com/arjunstein/url-shortener/internal/health"
	"github.com/arjunstein/url-shortener/internal/messaging"
	"github.com/arjunstein/url-shortener/internal/middleware"
	"github.com/arjunstein/url-shortener/internal/ratelimit"
	"github.com/arjunstein/url-shortener/internal/shortener"
	"github.com/arjunstein/url-shortener/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// PostgresHealthName names the health.Checker provided for the database.
const PostgresHealthName = "health.postgres"

const (
	connectTimeout = 10 * time.Second
	consumerGroup  = "analytics"
)

// Postgres owns the shared connection pool and closes it on injector shutdown.
type Postgres struct {
	*pgxpool.Pool
}

func (p *Postgres) Shutdown() error {
	p.Close()

	return nil
}

// Redis owns the shared client and closes it on injector shutdown.
type Redis struct {
	*redis.Client
}

func (r *Redis) Shutdown() error {
	return r.Close()
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat, opts.LogLevel, opts.LogFile)
	})
}

// PostgresPackage connects the pool and fails if the database is unreachable.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}

		cfg, err := pgxpool.ParseConfig(opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}

		if opts.DBMaxConns > 0 {
			cfg.MaxConns = int32(opts.DBMaxConns) //nolint:gosec // small configured value
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create database pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping database: %w", err)
		}

		return &Postgres{Pool: pool}, nil
	})
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// RepositoryPackage provides the PostgreSQL link store with its schema applied.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*store.PostgresStore, error) {
		pg := do.MustInvoke[*Postgres](i)
		repo := store.NewPostgresStore(pg.Pool)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate schema: %w", err)
		}

		return repo, nil
	})

	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		repo, err := do.Invoke[*store.PostgresStore](i)
		if err != nil {
			return nil, err
		}

		return repo, nil
	})

	do.ProvideNamed(i, PostgresHealthName, func(i *do.Injector) (health.Checker, error) {
		return health.NewPostgresChecker(do.MustInvoke[*Postgres](i).Pool), nil
	})
}

func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		gen, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			gen,
			shortener.WithCodeRetries(opts.CodeRetries),
		), nil
	})
}

// CleanupPackage provides the expiry sweeper and the background group that runs it.
func CleanupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.Group, error) {
		group := messaging.NewGroup("background", nil, do.MustInvoke[*zap.Logger](i))
		group.Add(do.MustInvoke[*cleanup.Sweeper](i))

		return group, nil
	})

	do.Provide(i, func(i *do.Injector) (*cleanup.Sweeper, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return cleanup.NewSweeper(
			do.MustInvoke[*shortener.Service](i),
			opts.cleanupInterval(),
			publishFunc[analytics.LinksSweptEvent](i, analytics.TopicLinksSwept),
			logger,
		), nil
	})
}

func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		opts := do.MustInvoke[*Options](i)

		var rlStore ratelimit.Store

		switch opts.RateLimitBackend {
		case "redis":
			rlStore = store.NewRateLimitRedisStore(do.MustInvoke[*Redis](i).Client)
		default:
			rlStore = store.NewRateLimitMemoryStore()
		}

		return ratelimit.NewPolicyLimiter(rlStore, ratelimit.DefaultPolicy()), nil
	})
}

// PublisherGroupPackage provides the Redis streams publisher for link events.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client:     client.Client,
				Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
			},
			messaging.NewZapLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// publishFunc returns a typed publisher for topic, or a discarding one when
// no Redis address is configured.
func publishFunc[T any](i *do.Injector, topic string) messaging.Publish[T] {
	if do.MustInvoke[*Options](i).RedisAddr == "" {
		return messaging.Discard[T]()
	}

	group := do.MustInvoke[*messaging.PublisherGroup](i)

	return messaging.NewPublishFunc[T](group.Publisher(), topic)
}

func HealthPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		var redisChecker health.Checker

		if do.MustInvoke[*Options](i).RedisAddr != "" {
			redisChecker = health.NewRedisChecker(do.MustInvoke[*Redis](i).Client)
		}

		return health.NewHandler(do.MustInvokeNamed[health.Checker](i, PostgresHealthName), redisChecker), nil
	})
}

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(chimw.Recoverer)

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		handlers.ReportValidationAsBadRequest()
		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.PolicyRateLimiter(
			api,
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			ratelimit.NewOperationScopeResolver(),
			logger.Named("ratelimit"),
		))

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*shortener.Service](i),
			publishFunc[analytics.LinkCreatedEvent](i, analytics.TopicLinkCreated),
			publishFunc[analytics.LinkAccessedEvent](i, analytics.TopicLinkAccessed),
			publishFunc[analytics.LinkDeletedEvent](i, analytics.TopicLinkDeleted),
			logger.Named("handlers"),
		)

		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))
		handlers.RegisterRoutes(api, linkHandler)

		return api, nil
	})
}

// ConsumerGroupPackage provides the analytics consumers reading link events from Redis streams.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.Group, error) {
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client.Client,
				Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
				ConsumerGroup: consumerGroup,
			},
			messaging.NewZapLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		events := analyticsstore.NewNoop(logger.Named("analytics"))
		consumerLogger := logger.Named("consumer")

		group := messaging.NewGroup("consumers", subscriber, consumerLogger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated, events.SaveLinkCreated, consumerLogger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkAccessed, events.SaveLinkAccessed, consumerLogger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkDeleted, events.SaveLinkDeleted, consumerLogger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinksSwept, events.SaveLinksSwept, consumerLogger))

		return group, nil
	})
}
