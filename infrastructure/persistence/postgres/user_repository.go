// Package postgres implements the user store against a relational users
// table using pgx.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/domain/user"
	apperrors "userapi-backend/pkg/errors"
)

const userColumns = "id, name, email, password, age, created_at, updated_at"

// uniqueViolation is the SQLSTATE for a unique constraint conflict
const uniqueViolation = "23505"

// PoolConfig bounds the connection pool
type PoolConfig struct {
	MaxConns       int
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// NewPool creates a bounded pgx connection pool. Connection acquisition
// fails fast instead of blocking indefinitely: every repository call runs
// under the configured query timeout.
func NewPool(ctx context.Context, databaseURL string, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// UserRepository issues parameterized queries against the users table.
// Email uniqueness is backed by a unique constraint, so the application
// layer's friendlier pre-check can race without corrupting the table: the
// loser of the race gets a conflict error from the constraint.
type UserRepository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewUserRepository creates a Postgres-backed user store
func NewUserRepository(pool *pgxpool.Pool, queryTimeout time.Duration, logger *zap.Logger) *UserRepository {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &UserRepository{
		pool:         pool,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// Bootstrap creates the users table if it does not exist yet
func (r *UserRepository) Bootstrap(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT        NOT NULL,
			email      TEXT        NOT NULL UNIQUE,
			password   TEXT        NOT NULL DEFAULT '',
			age        INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return apperrors.NewDatabaseError("bootstrap", err)
	}
	return nil
}

// FindAll returns all users, newest first
func (r *UserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.NewDatabaseError("find_all", err)
	}
	defer rows.Close()

	return scanUsers(rows, "find_all")
}

// FindPage returns one page of the listing plus the total row count
func (r *UserRepository) FindPage(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, apperrors.NewDatabaseError("find_page", err)
	}

	rows, err := r.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find_page", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows, "find_page")
	if err != nil {
		return nil, err
	}

	return &ports.UserPage{Users: users, Total: total}, nil
}

// FindByID returns the user with the given id, or (nil, nil) when absent
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row, "find_by_id")
}

// FindByEmail returns the user with the given email, or (nil, nil) when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", user.NormalizeEmail(email))
	return scanUser(row, "find_by_email")
}

// Create inserts a user and returns the stored row
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		"INSERT INTO users (name, email, password, age) VALUES ($1, $2, $3, $4) RETURNING "+userColumns,
		u.Name, user.NormalizeEmail(u.Email), u.Password, u.Age)

	created, err := scanUser(row, "create")
	if err != nil {
		return nil, translateConflict(err)
	}
	return created, nil
}

// Update overwrites the mutable fields of an existing row and refreshes
// updated_at. Returns (nil, nil) when the id does not exist.
func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET name = $1, email = $2, age = COALESCE($3, age), updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+userColumns,
		u.Name, user.NormalizeEmail(u.Email), u.Age, u.ID)

	updated, err := scanUser(row, "update")
	if err != nil {
		return nil, translateConflict(err)
	}
	return updated, nil
}

// Delete removes a user and returns the deleted snapshot, or (nil, nil)
// when the id does not exist.
func (r *UserRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, "DELETE FROM users WHERE id = $1 RETURNING "+userColumns, id)
	return scanUser(row, "delete")
}

// Ping reports whether the database is reachable
func (r *UserRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.pool.Ping(ctx)
}

// Close releases the connection pool
func (r *UserRepository) Close() {
	r.pool.Close()
}

func (r *UserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

func scanUser(row pgx.Row, operation string) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Age, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError(operation, err)
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows, operation string) ([]user.User, error) {
	users := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Age, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, apperrors.NewDatabaseError(operation, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(operation, err)
	}
	return users, nil
}

// translateConflict maps a unique constraint violation on the email column
// to a conflict error; everything else passes through.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.NewConflictError("user with this email already exists").WithCause(err)
	}
	return err
}
