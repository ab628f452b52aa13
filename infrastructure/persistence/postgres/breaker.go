package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/domain/user"
	apperrors "userapi-backend/pkg/errors"
)

// BreakerRepository decorates a user store with a circuit breaker so a
// down database sheds load immediately instead of tying up handlers.
// While the circuit is open every call fails fast with an unavailable
// error, which clients may retry.
type BreakerRepository struct {
	inner  ports.UserRepository
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakerRepository wraps a user store with a circuit breaker
func NewBreakerRepository(inner ports.UserRepository, logger *zap.Logger) *BreakerRepository {
	settings := gobreaker.Settings{
		Name:        "users-store",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		// Business outcomes (conflicts) are not store failures
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.IsConflict(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerRepository{
		inner:  inner,
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

func (r *BreakerRepository) execute(op func() (interface{}, error)) (interface{}, error) {
	result, err := r.cb.Execute(op)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apperrors.NewUnavailableError("database").WithCause(err)
	}
	return result, err
}

// FindAll delegates through the breaker
func (r *BreakerRepository) FindAll(ctx context.Context) ([]user.User, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]user.User), nil
}

// FindPage delegates through the breaker
func (r *BreakerRepository) FindPage(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.FindPage(ctx, page, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ports.UserPage), nil
}

// FindByID delegates through the breaker
func (r *BreakerRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*user.User), nil
}

// FindByEmail delegates through the breaker
func (r *BreakerRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.FindByEmail(ctx, email)
	})
	if err != nil {
		return nil, err
	}
	return result.(*user.User), nil
}

// Create delegates through the breaker
func (r *BreakerRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return result.(*user.User), nil
}

// Update delegates through the breaker
func (r *BreakerRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return result.(*user.User), nil
}

// Delete delegates through the breaker
func (r *BreakerRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.inner.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*user.User), nil
}

// Ping delegates through the breaker
func (r *BreakerRepository) Ping(ctx context.Context) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.inner.Ping(ctx)
	})
	return err
}
