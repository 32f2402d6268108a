package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted account record. Username and email are unique across
// all users; username is immutable after creation. PasswordHash is never
// empty once the user exists and is excluded from JSON at the type level.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Username     string    `bun:"username,notnull" json:"username"`
	Email        string    `bun:"email,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	FirstName    string    `bun:"first_name" json:"first_name"`
	LastName     string    `bun:"last_name" json:"last_name"`
	IsActive     bool      `bun:"is_active" json:"is_active"`
	IsStaff      bool      `bun:"is_staff" json:"is_staff"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// Profile is the public view of a user returned by the API. It has no
// password field at all, so credential material cannot leak through any
// serialization path.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile converts the entity to its public view.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
