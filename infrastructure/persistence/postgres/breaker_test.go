package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/domain/user"
	apperrors "userapi-backend/pkg/errors"
)

// stubRepository returns a fixed error from every operation
type stubRepository struct {
	err   error
	calls int
}

func (s *stubRepository) FindAll(ctx context.Context) ([]user.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []user.User{}, nil
}

func (s *stubRepository) FindPage(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &ports.UserPage{}, nil
}

func (s *stubRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	s.calls++
	return nil, s.err
}

func (s *stubRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	s.calls++
	return nil, s.err
}

func (s *stubRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return u, nil
}

func (s *stubRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	s.calls++
	return nil, s.err
}

func (s *stubRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	s.calls++
	return nil, s.err
}

func (s *stubRepository) Ping(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestBreakerRepository_PassesThroughSuccess(t *testing.T) {
	ctx := context.Background()
	stub := &stubRepository{}
	repo := NewBreakerRepository(stub, zap.NewNop())

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 1, stub.calls)
}

func TestBreakerRepository_OpensAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	stub := &stubRepository{err: errors.New("conn refused")}
	repo := NewBreakerRepository(stub, zap.NewNop())

	// Enough consecutive failures to trip the breaker
	for i := 0; i < 10; i++ {
		_, err := repo.FindAll(ctx)
		require.Error(t, err)
	}

	callsBeforeOpen := stub.calls

	_, err := repo.FindAll(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err), "open breaker should fail fast as unavailable")
	assert.Equal(t, callsBeforeOpen, stub.calls, "open breaker must not reach the store")
}

func TestBreakerRepository_ConflictsDoNotTrip(t *testing.T) {
	ctx := context.Background()
	stub := &stubRepository{err: apperrors.NewConflictError("email taken")}
	repo := NewBreakerRepository(stub, zap.NewNop())

	for i := 0; i < 20; i++ {
		_, err := repo.Create(ctx, &user.User{Email: "dup@example.com"})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err), "conflicts pass through unchanged")
	}

	assert.Equal(t, 20, stub.calls, "business conflicts must not open the circuit")
}

func TestBreakerRepository_PingThroughBreaker(t *testing.T) {
	ctx := context.Background()
	stub := &stubRepository{}
	repo := NewBreakerRepository(stub, zap.NewNop())

	assert.NoError(t, repo.Ping(ctx))
}
