// Package di wires the application's dependency graph.
package di

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/application/services"
	"userapi-backend/infrastructure/cache"
	memorycache "userapi-backend/infrastructure/cache/memory"
	rediscache "userapi-backend/infrastructure/cache/redis"
	"userapi-backend/infrastructure/config"
	"userapi-backend/infrastructure/observability"
	memorystore "userapi-backend/infrastructure/persistence/memory"
	"userapi-backend/infrastructure/persistence/postgres"
	"userapi-backend/pkg/auth"
)

// metricsNamespace prefixes every metric exported by this service
const metricsNamespace = "userapi"

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Metrics        *observability.Collector
	Cache          ports.Cache
	UserRepository ports.UserRepository
	UserService    *services.UserService
	AuthService    *services.AuthService
}

// Shutdown releases held resources (connection pools, cache clients)
func (c *Container) Shutdown() {
	if closer, ok := c.Cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.Logger.Warn("cache close failed", zap.Error(err))
		}
	}
	if closer, ok := c.UserRepository.(interface{ Close() }); ok {
		closer.Close()
	}
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideMetrics creates the metrics collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideCache creates the configured cache backend
func ProvideCache(cfg *config.Config, logger *zap.Logger) (ports.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		return rediscache.New(cfg.RedisURL, logger)
	case config.CacheMemory:
		return memorycache.New(memorycache.DefaultMaxItems), nil
	case config.CacheNone:
		return cache.NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// ProvideUserRepository creates the configured user store. The Postgres
// backend is wrapped in a circuit breaker; the in-memory backend is not
// (it cannot fail).
func ProvideUserRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.UserRepository, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolConfig{
			MaxConns:       cfg.DBMaxConns,
			ConnectTimeout: cfg.DBConnectTimeout,
			QueryTimeout:   cfg.DBQueryTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		repo := postgres.NewUserRepository(pool, cfg.DBQueryTimeout, logger)
		if err := repo.Bootstrap(ctx); err != nil {
			return nil, err
		}

		return postgres.NewBreakerRepository(repo, logger), nil
	case config.StoreMemory:
		return memorystore.NewUserRepository(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// ProvidePasswordHasher creates the credential hasher
func ProvidePasswordHasher(cfg *config.Config) ports.PasswordHasher {
	return auth.NewBcryptHasher(cfg.BcryptCost)
}

// ProvideUserService creates the user CRUD service
func ProvideUserService(
	repo ports.UserRepository,
	cacheBackend ports.Cache,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.UserService {
	return services.NewUserService(repo, cacheBackend, cfg.UsersListTTL, cfg.UserTTL, logger, metrics)
}

// ProvideAuthService creates the auth service
func ProvideAuthService(
	users *services.UserService,
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.AuthService {
	return services.NewAuthService(users, repo, hasher, logger, metrics)
}
