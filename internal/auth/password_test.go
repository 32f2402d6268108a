package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"login-system-api/internal/auth"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.True(t, auth.VerifyPassword(hash, "secret1"))
	assert.False(t, auth.VerifyPassword(hash, "secret2"))
	assert.False(t, auth.VerifyPassword(hash, ""))
}

func TestHashPasswordUsesRandomSalt(t *testing.T) {
	first, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	second, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, auth.VerifyPassword(first, "secret1"))
	assert.True(t, auth.VerifyPassword(second, "secret1"))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	assert.False(t, auth.VerifyPassword("", "secret1"))
	assert.False(t, auth.VerifyPassword("not-a-hash", "secret1"))
	assert.False(t, auth.VerifyPassword("$argon2id$v=19$m=65536,t=3,p=4$bogus", "secret1"))
}

func TestPasswordPolicyValidate(t *testing.T) {
	policy := auth.DefaultPasswordPolicy()

	assert.Empty(t, policy.Validate("secret1", "alice", "a@x.com"))
	assert.NotEmpty(t, policy.Validate("abc", "alice", "a@x.com"))
	assert.NotEmpty(t, policy.Validate("12345678", "alice", "a@x.com"))
	assert.NotEmpty(t, policy.Validate("ALICE", "alice", ""))

	// Multiple violations are all reported.
	problems := policy.Validate("123", "alice", "a@x.com")
	assert.Len(t, problems, 2)
}

func TestPasswordPolicyConfigurableLength(t *testing.T) {
	policy := auth.PasswordPolicy{MinLength: 10}

	assert.NotEmpty(t, policy.Validate("secret1", "", ""))
	assert.Empty(t, policy.Validate("longenough1", "", ""))
}
