package repository

import (
	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLRepo implements AuctionDB on database/sql for SQLite and Postgres
type SQLRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLRepo wraps an open database
func NewSQLRepo(db *sql.DB, dialect Dialect) *SQLRepo {
	return &SQLRepo{db: db, dialect: dialect}
}

// Ensure implementation of AuctionDB at compile time.
var (
	_ AuctionDB = (*SQLRepo)(nil)
	_ AuctionDB = (*MemoryRepo)(nil)
)

// Close releases the underlying database
func (r *SQLRepo) Close() error {
	return r.db.Close()
}

func (r *SQLRepo) q(query string) string {
	return r.dialect.Rebind(query)
}

const (
	insertUserSQL              = `INSERT INTO users (id, username, email, password_hash, is_admin, date_joined) VALUES (?, ?, ?, ?, ?, ?)`
	insertTokenSQL             = `INSERT INTO auth_tokens (token, user_id, created_at) VALUES (?, ?, ?)`
	insertTokenIfAbsentSQL     = `INSERT INTO auth_tokens (token, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id) DO NOTHING`
	selectTokenByUserSQL       = `SELECT token FROM auth_tokens WHERE user_id = ?`
	userColumns                = `u.id, u.username, u.email, u.password_hash, u.is_admin, u.date_joined`
	selectUserByIDSQL          = `SELECT ` + userColumns + ` FROM users u WHERE u.id = ?`
	selectUserByUsernameSQL    = `SELECT ` + userColumns + ` FROM users u WHERE u.username = ?`
	selectUserByTokenSQL       = `SELECT ` + userColumns + ` FROM users u JOIN auth_tokens t ON t.user_id = u.id WHERE t.token = ?`
	selectUsersSQL             = `SELECT ` + userColumns + ` FROM users u ORDER BY u.seq`
	selectListingIDsByOwnerSQL = `SELECT id FROM listings WHERE owner_id = ? ORDER BY seq`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.DateJoined)
	return u, err
}

// CreateUser inserts the user and its token in one transaction
func (r *SQLRepo) CreateUser(ctx context.Context, user model.User, token string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapSQLError("begin create user", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, r.q(insertUserSQL),
		user.UserID, user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.DateJoined.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", user.Username, auctionerrors.ErrDuplicateUsername)
		}
		return wrapSQLError(fmt.Sprintf("insert user %q", user.Username), err)
	}

	if token != "" {
		if _, err := tx.ExecContext(ctx, r.q(insertTokenSQL), token, user.UserID, user.DateJoined.UTC()); err != nil {
			return wrapSQLError(fmt.Sprintf("insert token for user %q", user.Username), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapSQLError("commit create user", err)
	}
	return nil
}

func (r *SQLRepo) getUser(ctx context.Context, query, arg, op string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.q(query), arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("%s: %w", op, auctionerrors.ErrUserNotFound)
		}
		return model.User{}, wrapSQLError(op, err)
	}
	return u, nil
}

// GetUserByID fetches a user by id
func (r *SQLRepo) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	return r.getUser(ctx, selectUserByIDSQL, userID, fmt.Sprintf("select user %s", userID))
}

// GetUserByUsername fetches a user by username
func (r *SQLRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, selectUserByUsernameSQL, username, fmt.Sprintf("select user %q", username))
}

// GetUserByToken resolves a token to its user
func (r *SQLRepo) GetUserByToken(ctx context.Context, token string) (model.User, error) {
	return r.getUser(ctx, selectUserByTokenSQL, token, "select user by token")
}

// GetOrCreateToken stores candidate unless the user already has a token, then
// returns whichever token is on record.
func (r *SQLRepo) GetOrCreateToken(ctx context.Context, userID, candidate string) (string, error) {
	if _, err := r.db.ExecContext(ctx, r.q(insertTokenIfAbsentSQL), candidate, userID, time.Now().UTC()); err != nil {
		return "", wrapSQLError(fmt.Sprintf("insert token for user %s", userID), err)
	}

	var token string
	if err := r.db.QueryRowContext(ctx, r.q(selectTokenByUserSQL), userID).Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("select token for user %s: %w", userID, auctionerrors.ErrUserNotFound)
		}
		return "", wrapSQLError(fmt.Sprintf("select token for user %s", userID), err)
	}
	return token, nil
}

// ListUsers returns all users in registration order
func (r *SQLRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, r.q(selectUsersSQL))
	if err != nil {
		return nil, wrapSQLError("select users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// GetListingIDsByOwner returns the ids of listings a user owns
func (r *SQLRepo) GetListingIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.q(selectListingIDsByOwnerSQL), ownerID)
	if err != nil {
		return nil, wrapSQLError(fmt.Sprintf("select listings of %s", ownerID), err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan listing id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing ids: %w", err)
	}
	return ids, nil
}
