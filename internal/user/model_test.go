package user

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUser() *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		FirstName:    "Alice",
		LastName:     "Smith",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestProfileConversion(t *testing.T) {
	u := sampleUser()
	p := u.Profile()

	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, u.Username, p.Username)
	assert.Equal(t, u.Email, p.Email)
	assert.Equal(t, u.FirstName, p.FirstName)
	assert.Equal(t, u.LastName, p.LastName)
	assert.Equal(t, u.CreatedAt, p.CreatedAt)
	assert.Equal(t, u.UpdatedAt, p.UpdatedAt)
}

func TestProfileJSONHasNoCredentialMaterial(t *testing.T) {
	u := sampleUser()

	raw, err := json.Marshal(u.Profile())
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	for key := range keys {
		assert.NotContains(t, strings.ToLower(key), "password")
	}
	assert.NotContains(t, string(raw), "argon2id")
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	raw, err := json.Marshal(sampleUser())
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "password_hash")
	assert.NotContains(t, string(raw), "argon2id")
}
