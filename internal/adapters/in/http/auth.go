package http

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
)

// ErrInvalidToken covers every token defect: bad signature, wrong signing
// method, malformed claims. Clients treat it the same as an expired session.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload: the subject carries the user id, jti the
// session token id, and Role the account kind.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256-signed session tokens. The jti claim
// ties each token to exactly one session row, so invalidating the row
// revokes the token.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec with the given signing secret.
func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{secret: secret}
}

// Issue signs a token for the session. The token expires together with the
// session row.
func (c *TokenCodec) Issue(s *session.Session) (string, error) {
	claims := Claims{
		Role: s.Identity().Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Identity().UserID.String(),
			ID:        s.TokenID().String(),
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt()),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and extracts the identity and session token id.
// Returns ErrInvalidToken for anything that does not verify, including
// tokens signed with a different method.
func (c *TokenCodec) Parse(tokenString string) (kernel.Identity, kernel.UUID, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return kernel.Identity{}, kernel.UUID{}, ErrInvalidToken
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.Identity{}, kernel.UUID{}, ErrInvalidToken
	}
	tokenID, err := kernel.UUIDFromString(claims.ID)
	if err != nil {
		return kernel.Identity{}, kernel.UUID{}, ErrInvalidToken
	}
	identity, err := kernel.NewIdentity(userID, kernel.Role(claims.Role))
	if err != nil {
		return kernel.Identity{}, kernel.UUID{}, ErrInvalidToken
	}

	return identity, tokenID, nil
}
