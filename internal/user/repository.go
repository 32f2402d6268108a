package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// Repository handles user persistence on Postgres. Uniqueness of username
// and email is enforced by the database constraints declared in the schema
// migration, so concurrent inserts cannot both succeed; the constraint name
// in the driver error tells us which field collided.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. ID and timestamps are assigned here, never
// taken from input.
func (r *Repository) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(u).
		Exec(ctx)
	if err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return u, nil
}

// UsernameExists reports whether a user with the given username exists.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("username = ?", username).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return count > 0, nil
}

// EmailExists reports whether a user with the given email exists.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("email = ?", email).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return count > 0, nil
}

// UpdateProfile writes the mutable profile fields (email, first name, last
// name) and bumps updated_at. Username and timestamps from input are ignored.
func (r *Repository) UpdateProfile(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now().UTC()

	result, err := r.db.NewUpdate().
		Model(u).
		Column("email", "first_name", "last_name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdatePassword replaces a user's password hash and bumps updated_at.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDuplicateError translates a Postgres unique-violation error into the
// matching sentinel, or returns nil for anything else.
func mapDuplicateError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value violates unique constraint") {
		return nil
	}
	if strings.Contains(msg, "users_username_key") {
		return ErrDuplicateUsername
	}
	if strings.Contains(msg, "users_email_key") {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("unique constraint violation: %w", err)
}
