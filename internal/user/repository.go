package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(ctx context.Context, user *User) error
	getUserByID(ctx context.Context, id string) (*User, error)
	getUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	findConflictingUser(ctx context.Context, username, email, excludeID string) (*User, error)
	updateProfile(ctx context.Context, user *User) error
	updateUserPasswordAndHashToken(ctx context.Context, userID, newPasswordHash, newHashToken string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, email, username, full_name, password_hash, hash_token, is_active, two_factor_enabled, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FullName, &user.PasswordHash, &user.HashToken,
		&user.IsActive, &user.TwoFactorEnabled, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, username, full_name, password_hash, hash_token, is_active, two_factor_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $8)
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Username, user.FullName, user.PasswordHash,
		user.HashToken, user.IsActive, user.CreatedAt)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

// uniqueViolation maps a failed UNIQUE constraint on users to the matching
// conflict error, or returns nil for any other error.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return ErrUsernameAlreadyExists
	case "users_email_key":
		return ErrEmailAlreadyExists
	}
	return nil
}

func (r *userRepository) getUserByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) getUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR LOWER(email) = LOWER($1) LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, loginOrEmail))
}

// findConflictingUser returns another user holding the username or email.
func (r *userRepository) findConflictingUser(ctx context.Context, username, email, excludeID string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (username = $1 OR LOWER(email) = LOWER($2)) AND ($3 = '' OR id::text <> $3)
		LIMIT 1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, username, email, excludeID))
}

func (r *userRepository) updateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $1, username = $2, full_name = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, user.Email, user.Username, user.FullName, user.UpdatedAt, user.ID)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("could not update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) updateUserPasswordAndHashToken(ctx context.Context, userID, newPasswordHash, newHashToken string) error {
	query := `
        UPDATE users
        SET password_hash = $1,
            hash_token = $2,
            updated_at = $3
        WHERE id = $4
    `
	_, err := r.db.ExecContext(ctx, query, newPasswordHash, newHashToken, time.Now(), userID)
	return err
}
