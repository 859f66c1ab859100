package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes access tokens from refresh tokens. Both are signed
// with the same key, so the type claim prevents one being accepted as the other.
type TokenType string

const (
	AccessTokenType  TokenType = "access"
	RefreshTokenType TokenType = "refresh"
)

// TokenClaims is the JWT claim set used by both token kinds.
//
// Subject carries the account ID, ID carries a random jti so that tokens issued
// within the same second are still distinct. Role is only set on access tokens.
type TokenClaims struct {
	jwt.RegisteredClaims

	Role Role      `json:"role,omitempty"`
	Type TokenType `json:"typ"`
}

// Token is a freshly signed or successfully parsed JWT.
type Token struct {
	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// AccountID is the owner identifier taken from the "sub" claim.
	AccountID string `json:"-"`

	// Role is the role claim of an access token.
	Role Role `json:"-"`

	// ExpiresAt is the "exp" claim.
	ExpiresAt time.Time `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
