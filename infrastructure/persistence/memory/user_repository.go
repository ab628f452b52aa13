// Package memory implements the user store with an in-process map.
// It is a standalone, non-persistent CRUD backend used for development
// and tests; it is never fronted by the cache layer.
package memory

import (
	"context"
	"sync"
	"time"

	"userapi-backend/application/ports"
	"userapi-backend/domain/user"
)

// UserRepository stores users in an insertion-ordered, mutex-guarded map.
//
// Ids derive from the wall clock in milliseconds. Within one process, ids
// that would collide under rapid creation are bumped forward while the
// lock is held, which keeps them unique for the session; across restarts
// the scheme offers no guarantee.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*user.User
	order  []int64
	lastID int64
}

// NewUserRepository creates an empty in-memory store
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[int64]*user.User),
	}
}

// nextID derives an id from the wall clock (must be called with lock held)
func (r *UserRepository) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

// FindAll returns all users in insertion order
func (r *UserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]user.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, *r.users[id])
	}
	return users, nil
}

// FindPage returns the slice [(page-1)*limit, page*limit) of the
// insertion-ordered listing along with the total count.
func (r *UserRepository) FindPage(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end < start {
		end = start
	}
	if end > total {
		end = total
	}

	users := make([]user.User, 0, end-start)
	for _, id := range r.order[start:end] {
		users = append(users, *r.users[id])
	}

	return &ports.UserPage{Users: users, Total: total}, nil
}

// FindByID returns the user with the given id, or (nil, nil) when absent
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// FindByEmail returns the user with the given email, or (nil, nil) when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = user.NormalizeEmail(email)
	for _, id := range r.order {
		if r.users[id].Email == email {
			copied := *r.users[id]
			return &copied, nil
		}
	}
	return nil, nil
}

// Create assigns an id and timestamps and stores the user
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *u
	stored.ID = r.nextID()
	stored.Email = user.NormalizeEmail(stored.Email)
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.users[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	copied := stored
	return &copied, nil
}

// Update overwrites the stored fields of an existing user and refreshes
// its update timestamp. Returns (nil, nil) when the id does not exist.
func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return nil, nil
	}

	existing.Name = u.Name
	existing.Email = user.NormalizeEmail(u.Email)
	if u.Age != nil {
		existing.Age = u.Age
	}
	if u.Password != "" {
		existing.Password = u.Password
	}
	existing.Touch()

	copied := *existing
	return &copied, nil
}

// Delete removes a user and returns the deleted snapshot, or (nil, nil)
// when the id does not exist.
func (r *UserRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	delete(r.users, id)
	for i, orderedID := range r.order {
		if orderedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	copied := *existing
	return &copied, nil
}

// Ping always succeeds: the store lives in-process
func (r *UserRepository) Ping(ctx context.Context) error {
	return nil
}
