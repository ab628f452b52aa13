// Package ports defines the interfaces between the application layer and
// infrastructure adapters.
package ports

import (
	"context"
	"time"

	"userapi-backend/domain/user"
)

// UserRepository abstracts the user store. Implementations exist for
// Postgres and for an in-process map; both honor the same contract so the
// backend is selected by configuration alone.
//
// Lookup methods return (nil, nil) when no record matches: absence is an
// expected outcome for uniqueness pre-checks, not an error. Errors are
// reserved for infrastructure failures.
type UserRepository interface {
	FindAll(ctx context.Context) ([]user.User, error)

	// FindPage returns the window [(page-1)*limit, page*limit) of the
	// ordered listing. Callers pass page >= 1 and limit >= 1;
	// implementations degrade smaller values to an empty or clamped
	// window (or an error), never a panic.
	FindPage(ctx context.Context, page, limit int) (*UserPage, error)
	FindByID(ctx context.Context, id int64) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)

	// Delete removes a user and returns the deleted snapshot, or
	// (nil, nil) when the id does not exist.
	Delete(ctx context.Context, id int64) (*user.User, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// UserPage is one page of an ordered user listing
type UserPage struct {
	Users []user.User
	Total int
}

// Cache abstracts the caching backend. The cache is strictly an
// optimization: callers treat every error as a miss or no-op and never
// propagate it.
type Cache interface {
	// Get returns the raw cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Ping reports whether the cache backend is reachable.
	Ping(ctx context.Context) error
}

// PasswordHasher hashes and verifies login credentials
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
