// Package user defines the User entity shared by every store backend.
package user

import (
	"strings"
	"time"
)

// User is a registered account. The password hash never leaves the
// process: it is excluded from JSON so neither API responses nor cached
// snapshots can carry it.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail canonicalizes an email address for storage and lookups.
// Uniqueness is enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Touch refreshes the update timestamp
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}
