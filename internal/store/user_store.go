package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"checkpoint/internal/models"
)

const uniqueViolation = "23505"

// UserStore persists user identities in Postgres.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, created_at`

// Create inserts a new user. Email must already be normalized by the caller.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		uuid.New(), username, email, passwordHash).StructScan(&u)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, ErrUsernameExists
			}
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListSummaries returns every registered user, ordered by username.
func (s *UserStore) ListSummaries(ctx context.Context) ([]models.UserSummary, error) {
	var out []models.UserSummary
	err := s.db.SelectContext(ctx, &out, `SELECT id, username, email FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	return out, nil
}
