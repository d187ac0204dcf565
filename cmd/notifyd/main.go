package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/kstorelabs/notify/pkg/channel"
	"github.com/kstorelabs/notify/pkg/config"
	"github.com/kstorelabs/notify/pkg/dispatch"
	"github.com/kstorelabs/notify/pkg/email"
	"github.com/kstorelabs/notify/pkg/event"
	"github.com/kstorelabs/notify/pkg/inbox"
	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/mongo"
	"github.com/kstorelabs/notify/pkg/notification"
	"github.com/kstorelabs/notify/pkg/pg"
	"github.com/kstorelabs/notify/pkg/redis"
	"github.com/kstorelabs/notify/pkg/scheduler"
	"github.com/kstorelabs/notify/pkg/template"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"notifyd"`

	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"notify"`
	AWSRegion     string `env:"AWS_REGION" envDefault:"us-east-1"`

	// Static FCM bearer token; push delivery is disabled when empty.
	FCMAccessToken string `env:"FCM_ACCESS_TOKEN"`

	DispatchConcurrency int `env:"DISPATCH_CONCURRENCY" envDefault:"16"`

	DueInterval   time.Duration `env:"SCHEDULER_DUE_INTERVAL" envDefault:"30s"`
	RetryInterval time.Duration `env:"SCHEDULER_RETRY_INTERVAL" envDefault:"5m"`
	CleanupHour   int           `env:"SCHEDULER_CLEANUP_HOUR" envDefault:"2"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("notifyd exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("failed to load app config: %w", err)
	}

	log := logger.New(logger.WithEnvironment(cfg.Environment, cfg.ServiceName))
	logger.SetAsDefault(log)

	// Postgres: notification and template storage.
	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return fmt.Errorf("failed to load postgres config: %w", err)
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	store := notification.NewPostgresStore(pool)
	templates := template.NewPostgresStore(pool)
	if err := template.SeedDefaults(ctx, templates, log); err != nil {
		return fmt.Errorf("failed to seed default templates: %w", err)
	}

	// Mongo: web inbox storage.
	var mongoCfg mongo.Config
	if err := config.Load(&mongoCfg); err != nil {
		return fmt.Errorf("failed to load mongo config: %w", err)
	}
	db, err := mongo.NewWithDatabase(ctx, mongoCfg, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect mongo", logger.Error(err))
		}
	}()
	inboxManager := inbox.NewManager(inbox.NewMongoStore(db), log)

	// Redis: inbound event streams.
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return fmt.Errorf("failed to load redis config: %w", err)
	}
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis client", logger.Error(err))
		}
	}()

	router, err := buildRouter(ctx, cfg, inboxManager, log)
	if err != nil {
		return err
	}

	dispatcher := dispatch.NewDispatcher(store, router, templates, log,
		dispatch.WithConcurrency(cfg.DispatchConcurrency))

	sched := scheduler.New(store, dispatcher, inboxManager, log,
		scheduler.WithDueInterval(cfg.DueInterval),
		scheduler.WithRetryInterval(cfg.RetryInterval),
		scheduler.WithCleanupHour(cfg.CleanupHour),
	)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	var sourceCfg event.RedisSourceConfig
	if err := config.Load(&sourceCfg); err != nil {
		return fmt.Errorf("failed to load event source config: %w", err)
	}
	source, err := event.NewRedisSource(ctx, redisClient, sourceCfg)
	if err != nil {
		return fmt.Errorf("failed to create event source: %w", err)
	}
	consumer := event.NewConsumer(source, dispatcher, log)
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event consumer: %w", err)
	}

	log.Info("notifyd started", slog.String("environment", cfg.Environment))
	<-ctx.Done()
	log.Info("shutdown signal received, draining")

	if err := consumer.Stop(); err != nil {
		log.Error("failed to stop event consumer", logger.Error(err))
	}
	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler", logger.Error(err))
	}
	return nil
}

// buildRouter assembles the channel adapters. Adapters without usable
// credentials are left unregistered, so their channels fail deliveries
// with a clear error instead of crashing startup.
func buildRouter(ctx context.Context, cfg appConfig, inboxManager *inbox.Manager, log *slog.Logger) (*channel.Router, error) {
	var emailCfg email.Config
	if err := config.Load(&emailCfg); err != nil {
		return nil, fmt.Errorf("failed to load email config: %w", err)
	}

	var sender email.Sender
	if emailCfg.PostmarkServerToken != "" {
		s, err := email.NewPostmarkClient(emailCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create postmark client: %w", err)
		}
		sender = s
	}
	if sender == nil {
		log.Warn("postmark token not set, writing emails to disk",
			slog.String("dir", emailCfg.DevDir))
		sender = email.NewDevSender(emailCfg.DevDir)
	}

	router := channel.NewRouter(log, channel.NewEmailAdapter(sender, log))

	var smsCfg channel.SMSConfig
	if err := config.Load(&smsCfg); err != nil {
		return nil, fmt.Errorf("failed to load sms config: %w", err)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Warn("aws credentials unavailable, sms channel disabled", logger.Error(err))
	} else {
		router.Register(channel.NewSMSAdapter(sns.NewFromConfig(awsCfg), smsCfg, log))
	}

	var pushCfg channel.PushConfig
	if err := config.Load(&pushCfg); err != nil {
		return nil, fmt.Errorf("failed to load push config: %w", err)
	}
	if pushCfg.ProjectID != "" && cfg.FCMAccessToken != "" {
		token := cfg.FCMAccessToken
		router.Register(channel.NewPushAdapter(pushCfg,
			func(ctx context.Context) (string, error) { return token, nil }, log))
	} else {
		log.Warn("fcm not configured, push channel disabled")
	}

	router.Register(channel.NewWebAdapter(inboxManager, log))
	return router, nil
}
