package container

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/config"
	"github.com/oksasatya/realio-auth/internal/devbackend"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	pginfra "github.com/oksasatya/realio-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/realio-auth/internal/router"
	"github.com/oksasatya/realio-auth/pkg/helpers"
)

// Backend is the dev server object graph.
type Backend struct {
	Service *devbackend.Service
	Engine  *gin.Engine

	closers []func()
}

// BackendDeps overrides infrastructure NewBackend would otherwise build
// from config. Zero fields are built.
type BackendDeps struct {
	Redis    *redis.Client
	Accounts repository.AccountRepository
	Avatars  devbackend.AvatarStore
	Notifier devbackend.Notifier
}

// NewBackend connects Postgres (when configured), Redis, GCS (when a
// bucket is set) and RabbitMQ (when mail is enabled), then builds the
// service and the HTTP engine.
func NewBackend(ctx context.Context, cfg *config.Config, logger *logrus.Logger, deps BackendDeps) (*Backend, error) {
	b := &Backend{}
	fail := func(err error) (*Backend, error) {
		b.Close()
		return nil, err
	}

	rdb := deps.Redis
	if rdb == nil {
		rdb = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fail(fmt.Errorf("redis: %w", err))
		}
	}

	accounts := deps.Accounts
	if accounts == nil {
		if cfg.UsePostgres() {
			pool, err := openPostgres(ctx, cfg, logger)
			if err != nil {
				return fail(err)
			}
			b.closers = append(b.closers, pool.Close)
			accounts = pginfra.NewAccountRepository(pool)
		} else {
			logger.Warn("DB_HOST not set; accounts are kept in memory")
			accounts = devbackend.NewMemoryAccounts()
		}
	}

	avatars := deps.Avatars
	if avatars == nil {
		if cfg.GCSBucket != "" {
			gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
			if err != nil {
				return fail(fmt.Errorf("gcs: %w", err))
			}
			b.closers = append(b.closers, func() { _ = gcs.Close() })
			avatars = devbackend.NewGCSAvatars(gcs, cfg.GCSBucket)
		} else {
			avatars = devbackend.NewMemoryAvatars()
		}
	}

	notifier := deps.Notifier
	if notifier == nil {
		if cfg.MailSendEnabled {
			pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
			if err != nil {
				return fail(fmt.Errorf("rabbitmq: %w", err))
			}
			b.closers = append(b.closers, pub.Close)
			notifier = devbackend.QueueNotifier{Pub: pub, AppName: cfg.AppName}
		} else {
			notifier = devbackend.LogNotifier{Logger: logger}
		}
	}

	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	b.Service = devbackend.NewService(
		accounts,
		jwt,
		devbackend.NewSessions(rdb, cfg.RefreshTTL),
		devbackend.NewOtpCodes(rdb, cfg.OTPTTL),
		avatars,
		notifier,
		logger,
		cfg.OTPTTL,
	)
	b.Engine = router.NewEngine(b.Service, rdb, logger, router.Options{
		CORSOrigins:  cfg.CORSOrigins(),
		HTTPLog:      cfg.HTTPLogEnabled,
		DebugMetrics: cfg.DebugMetricsEnabled,
	})
	return b, nil
}

// Close releases every connection NewBackend opened, newest first.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*pgxpool.Pool, error) {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return pool, nil
}
