package services

import (
	"context"

	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/domain/user"
	"userapi-backend/infrastructure/observability"
	apperrors "userapi-backend/pkg/errors"
)

// SignupInput carries the fields accepted on signup
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
}

// AuthService implements signup and login. Passwords are stored and
// verified as bcrypt hashes; the wire contract is unchanged (a failed
// comparison and an unknown email both yield the same 401).
type AuthService struct {
	users   *UserService
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewAuthService creates an auth service
func NewAuthService(
	users *UserService,
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	logger *zap.Logger,
	metrics *observability.Collector,
) *AuthService {
	return &AuthService{
		users:   users,
		repo:    repo,
		hasher:  hasher,
		logger:  logger,
		metrics: metrics,
	}
}

// Signup registers a new account. The email must not be taken.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*user.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to process credentials").WithCause(err)
	}

	created, err := s.users.Create(ctx, CreateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Age:      input.Age,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.UserRegistrations.Inc()
	s.logger.Info("user registered", zap.Int64("userID", created.ID))

	return created, nil
}

// Login verifies credentials and returns the account on success
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.FindByEmail(ctx, user.NormalizeEmail(email))
	s.metrics.ObserveDBOperation("find_by_email", err)
	if err != nil {
		return nil, err
	}

	if u == nil || s.hasher.Compare(u.Password, password) != nil {
		s.metrics.ObserveLogin(false)
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	s.metrics.ObserveLogin(true)
	s.logger.Info("user logged in", zap.Int64("userID", u.ID))

	return u, nil
}
