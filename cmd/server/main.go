package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/arjunstein/url-shortener/internal/container"
	"github.com/arjunstein/url-shortener/internal/messaging"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.ServicePackage(injector)
	container.CleanupPackage(injector)
	container.RateLimitPackage(injector)
	container.PublisherGroupPackage(injector)
	container.HealthPackage(injector)
	container.HTTPPackage(injector)
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		registerPackages(injector, options)

		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			if err := options.ApplyEnvFallbacks(os.LookupEnv, cli.Root().PersistentFlags().Changed); err != nil {
				logger.Fatal("invalid configuration", zap.Error(err))
			}

			if err := options.Validate(); err != nil {
				logger.Fatal("invalid configuration", zap.Error(err))
			}

			router := do.MustInvoke[*chi.Mux](injector)

			// Invoking the API connects the database and registers every route.
			if _, err := do.Invoke[huma.API](injector); err != nil {
				logger.Fatal("failed to initialize", zap.Error(err))
			}

			background := do.MustInvoke[*messaging.Group](injector)
			if err := background.Start(context.Background()); err != nil {
				logger.Fatal("failed to start background tasks", zap.Error(err))
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.Int("cleanup_interval_secs", options.CleanupInterval),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			// The injector stops the background group before it closes the pool the sweeper uses.
			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Run()
}
