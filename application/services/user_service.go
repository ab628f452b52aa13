// Package services holds the application services behind the HTTP layer.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/domain/user"
	"userapi-backend/infrastructure/observability"
	"userapi-backend/pkg/common"
	apperrors "userapi-backend/pkg/errors"
)

// usersListKey caches the full listing; userKeyFormat caches single records.
const (
	usersListKey  = "users:all"
	userKeyFormat = "user:%d"
)

// CreateUserInput carries the fields accepted on user creation
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
}

// UpdateUserInput carries the fields accepted on user update
type UpdateUserInput struct {
	Name  string
	Email string
	Age   *int
}

// UserService implements user CRUD with a cache-aside read path.
//
// Reads check the cache first and fall back to the store on a miss,
// repopulating the cache with the operation's TTL. The cache is strictly
// an optimization: lookup failures, corrupt entries, and write failures
// are downgraded to misses or no-ops, so reads only fail when the store
// fails. Writes invalidate the affected keys after they succeed.
type UserService struct {
	repo    ports.UserRepository
	cache   ports.Cache
	listTTL time.Duration
	userTTL time.Duration
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewUserService creates a user service
func NewUserService(
	repo ports.UserRepository,
	cache ports.Cache,
	listTTL, userTTL time.Duration,
	logger *zap.Logger,
	metrics *observability.Collector,
) *UserService {
	return &UserService{
		repo:    repo,
		cache:   cache,
		listTTL: listTTL,
		userTTL: userTTL,
		logger:  logger,
		metrics: metrics,
	}
}

// List returns all users, served from cache when possible. The returned
// source tag reports where the data came from.
func (s *UserService) List(ctx context.Context) ([]user.User, string, error) {
	if data, ok := s.cacheGet(ctx, usersListKey); ok {
		var users []user.User
		if err := json.Unmarshal(data, &users); err == nil {
			s.metrics.CacheHits.Inc()
			return users, common.SourceCache, nil
		}
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", usersListKey))
	}
	s.metrics.CacheMisses.Inc()

	users, err := s.repo.FindAll(ctx)
	s.metrics.ObserveDBOperation("find_all", err)
	if err != nil {
		return nil, "", err
	}

	// Empty results are not cached
	if len(users) > 0 {
		s.cacheSet(ctx, usersListKey, users, s.listTTL)
	}

	return users, common.SourceDatabase, nil
}

// ListPage returns one page of users straight from the store. The
// paginated listing bypasses the cache entirely: a page is a view, not a
// snapshot worth invalidating.
func (s *UserService) ListPage(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	result, err := s.repo.FindPage(ctx, page, limit)
	s.metrics.ObserveDBOperation("find_page", err)
	return result, err
}

// Get returns a single user by id, served from cache when possible
func (s *UserService) Get(ctx context.Context, id int64) (*user.User, string, error) {
	key := fmt.Sprintf(userKeyFormat, id)

	if data, ok := s.cacheGet(ctx, key); ok {
		var u user.User
		if err := json.Unmarshal(data, &u); err == nil {
			s.metrics.CacheHits.Inc()
			return &u, common.SourceCache, nil
		}
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}
	s.metrics.CacheMisses.Inc()

	u, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveDBOperation("find_by_id", err)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		// Negative results are not cached
		return nil, "", apperrors.NewNotFoundError("user")
	}

	s.cacheSet(ctx, key, u, s.userTTL)

	return u, common.SourceDatabase, nil
}

// Create inserts a new user after checking email uniqueness. The check
// and the insert are separate steps; the store's unique constraint backs
// them up, so a concurrent duplicate surfaces as a conflict either way.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*user.User, error) {
	email := user.NormalizeEmail(input.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	s.metrics.ObserveDBOperation("find_by_email", err)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("user with this email already exists")
	}

	created, err := s.repo.Create(ctx, &user.User{
		Name:     input.Name,
		Email:    email,
		Password: input.Password,
		Age:      input.Age,
	})
	s.metrics.ObserveDBOperation("create", err)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, usersListKey)

	return created, nil
}

// Update overwrites an existing user's fields. An email change is
// rejected when the address belongs to a different user.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*user.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveDBOperation("find_by_id", err)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	email := user.NormalizeEmail(input.Email)
	owner, err := s.repo.FindByEmail(ctx, email)
	s.metrics.ObserveDBOperation("find_by_email", err)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.ID != id {
		return nil, apperrors.NewConflictError("email is already taken by another user")
	}

	updated, err := s.repo.Update(ctx, &user.User{
		ID:    id,
		Name:  input.Name,
		Email: email,
		Age:   input.Age,
	})
	s.metrics.ObserveDBOperation("update", err)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	s.invalidate(ctx, usersListKey, fmt.Sprintf(userKeyFormat, id))

	return updated, nil
}

// Delete removes a user and returns the deleted snapshot
func (s *UserService) Delete(ctx context.Context, id int64) (*user.User, error) {
	deleted, err := s.repo.Delete(ctx, id)
	s.metrics.ObserveDBOperation("delete", err)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	s.invalidate(ctx, usersListKey, fmt.Sprintf(userKeyFormat, id))

	return deleted, nil
}

// cacheGet looks up a key, downgrading any failure to a miss
func (s *UserService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, found
}

// cacheSet stores a JSON snapshot, best-effort
func (s *UserService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate removes keys after a successful write, best-effort
func (s *UserService) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}
