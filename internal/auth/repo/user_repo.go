package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/UBelaid/SAgency4U/internal/auth/entity"
)

// ErrDuplicate is returned when an insert violates the unique constraint
// on username or email.
var ErrDuplicate = errors.New("duplicate user")

// ErrNotFound is returned when a lookup matches no user row.
var ErrNotFound = errors.New("user not found")

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row and returns the generated ID.
// A unique violation on username or email surfaces as ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (int64, error) {
	const q = `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := r.db.GetContext(ctx, &id, q, username, email, passwordHash); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// GetByEmail returns the user matched by email or ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT id, username, email, password_hash, created_at FROM users WHERE email=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Exists reports whether any user already holds the given username or email.
func (r *UserRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1 OR email=$2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, q, username, email); err != nil {
		return false, err
	}
	return ok, nil
}
