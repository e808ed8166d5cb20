// Package container builds the object graph from configuration. Nothing is
// global; callers own the returned values and close them.
package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/config"
	"github.com/oksasatya/realio-auth/internal/application"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/internal/infrastructure/authrepo"
	"github.com/oksasatya/realio-auth/internal/infrastructure/remote"
	"github.com/oksasatya/realio-auth/internal/infrastructure/tokenstore"
	"github.com/oksasatya/realio-auth/pkg/helpers"
)

// Container is the client side of the auth flow.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Store    repository.TokenStore
	Remote   *remote.Client
	Repo     *authrepo.AuthRepository
	UseCases *application.UseCases

	rdb *redis.Client
}

// New wires the token store selected by cfg.TokenStore, the HTTP client,
// the repository and the use cases.
func New(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	switch cfg.TokenStore {
	case tokenstore.KindFile:
		c.Store = tokenstore.NewFile(cfg.TokenFile)
	case tokenstore.KindMemory:
		c.Store = tokenstore.NewMemory()
	case tokenstore.KindRedis:
		c.rdb = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		c.Store = tokenstore.NewRedis(c.rdb, cfg.TokenNamespace)
	default:
		return nil, tokenstore.ErrUnknownKind(cfg.TokenStore)
	}

	c.Remote = remote.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	c.Repo = authrepo.NewAuthRepository(c.Remote, c.Store, logger)
	c.UseCases = application.NewUseCases(c.Repo)
	logger.WithFields(logrus.Fields{
		"token_store": cfg.TokenStore,
		"api":         cfg.APIBaseURL,
	}).Debug("client container ready")
	return c, nil
}

// Close releases the Redis connection if the Redis store is in use.
func (c *Container) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
