package repo

import (
	"context"

	dom "taskapi/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// Create inserts a new user and returns it. Unique violations on username
// or email surface as pgconn errors with code 23505.
func (r *PGUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, username, email, passwordHash).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	return u, err
}
