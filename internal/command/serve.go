package command

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bloglist/internal/app"
	"bloglist/internal/cache"
	"bloglist/internal/config"
	"bloglist/internal/metrics"
	"bloglist/internal/models"
	"bloglist/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the blog list HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, log, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			st, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, st.Close())
			}()

			grp, ctx := errgroup.WithContext(cmd.Context())
			deps := app.Deps{
				Config:  cfg,
				Log:     log,
				Metrics: metrics.New(),
				Users:   st.users,
				Blogs:   st.blogs,
			}

			if cfg.RedisAddr != "" {
				client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
				if err != nil {
					return err
				}
				defer client.Close()
				deps.Cache = cache.NewRedisStatsCache(client, cfg.StatsCacheTTL)
				log.Info("stats cache enabled", zap.String("addr", cfg.RedisAddr))
			}

			if cfg.RabbitMQURL != "" {
				mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
				if err != nil {
					return err
				}
				defer mq.Close()
				deps.Events = mq
				consumeEvents(ctx, grp, mq, log)
			}

			serveHTTP(ctx, grp, cfg, log, deps)
			return grp.Wait()
		},
	}
}

func serveHTTP(ctx context.Context, grp *errgroup.Group, cfg *config.Config, log *zap.Logger, deps app.Deps) {
	srv, _ := app.New(deps)

	grp.Go(func() error {
		log.Info("starting server", zap.String("address", cfg.AppPort))
		return srv.Listen(cfg.AppPort)
	})
	grp.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := srv.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return err
		}
		log.Info("server gracefully stopped")
		return nil
	})
}

func consumeEvents(ctx context.Context, grp *errgroup.Group, mq *rabbitmq.Client, log *zap.Logger) {
	grp.Go(func() error {
		log.Info("starting blog event consumer")
		err := mq.ConsumeBlogEvents(ctx, func(event models.BlogEvent) error {
			log.Info("blog event",
				zap.String("type", event.Type),
				zap.String("blog_id", event.BlogID),
				zap.String("user_id", event.UserID),
				zap.Time("at", event.At),
			)
			return nil
		})
		if err != nil {
			// Events are optional; the API keeps serving without the consumer.
			log.Error("blog event consumer stopped", zap.Error(err))
		}
		return nil
	})
}
