package auth

import (
	"errors"
	"fmt"

	"aidanwoods.dev/go-paseto"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims are the claims this service reads from an access token.
type TokenClaims struct {
	UserID   string
	Username string
}

// TokenVerifier validates PASETO v4.local access tokens issued by the
// external token authority, using the symmetric key shared with it. This
// service never creates tokens; issuance and refresh belong to the authority.
type TokenVerifier struct {
	symmetricKey paseto.V4SymmetricKey
}

func NewTokenVerifier(symmetricKey []byte) (*TokenVerifier, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &TokenVerifier{symmetricKey: key}, nil
}

// VerifyToken validates a token and returns its claims.
func (v *TokenVerifier) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(v.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	userID, err := token.GetString("user_id")
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Username is informational; tokens from older authority versions may
	// not carry it.
	username, _ := token.GetString("username")

	return &TokenClaims{
		UserID:   userID,
		Username: username,
	}, nil
}
