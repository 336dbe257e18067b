package main

import (
	"context"

	"github.com/arjunstein/url-shortener/internal/container"
	"github.com/arjunstein/url-shortener/internal/messaging"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// The consumer reads the same SERVICE_* settings as the server but only
// needs Redis and logging.
func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		do.ProvideValue(injector, options)
		container.LoggerPackage(injector)
		container.RedisPackage(injector)
		container.ConsumerGroupPackage(injector)

		logger := do.MustInvoke[*zap.Logger](injector)

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})

		hooks.OnStart(func() {
			if options.RedisAddr == "" {
				logger.Fatal("consumer requires a redis address")
			}

			group := do.MustInvoke[*messaging.Group](injector)
			if err := group.Start(ctx); err != nil {
				logger.Fatal("failed to start consumer group", zap.Error(err))
			}

			logger.Info("consumer running", zap.String("redis", options.RedisAddr))

			<-stopped
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")
			cancel()

			if err := injector.Shutdown(); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			close(stopped)
		})
	})

	cli.Run()
}
