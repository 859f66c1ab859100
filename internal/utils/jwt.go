package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/dev-profiles/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidTokenParams is returned by [NewTokenIssuer] when the signing
	// key, issuer or one of the durations is missing.
	ErrInvalidTokenParams = errors.New("invalid params for token issuer")

	// ErrWrongTokenType is returned when a refresh token is presented where an
	// access token is expected, or the other way round.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrEmptySubject is returned when a token carries no account ID.
	ErrEmptySubject = errors.New("empty subject")
)

// TokenIssuer signs and verifies HMAC-SHA256 JWT access and refresh tokens.
//
// Both token kinds share the signing key and issuer; they are told apart by
// the "typ" claim. The clock is injectable so that expiry can be tested
// without sleeping.
type TokenIssuer struct {
	signKey         []byte
	issuer          string
	accessDuration  time.Duration
	refreshDuration time.Duration
	now             func() time.Time
}

// NewTokenIssuer constructs a [TokenIssuer]. All parameters are required;
// now may be nil, in which case [time.Now] is used.
//
// Example usage:
//
//	issuer, err := utils.NewTokenIssuer("secret", "dev-profiles", 15*time.Minute, 7*24*time.Hour, nil)
func NewTokenIssuer(signKey, issuer string, accessDuration, refreshDuration time.Duration, now func() time.Time) (*TokenIssuer, error) {
	if signKey == "" || issuer == "" || accessDuration <= 0 || refreshDuration <= 0 {
		return nil, ErrInvalidTokenParams
	}
	if now == nil {
		now = time.Now
	}

	return &TokenIssuer{
		signKey:         []byte(signKey),
		issuer:          issuer,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		now:             now,
	}, nil
}

// IssueAccessToken creates a short-lived token embedding the account ID and role.
func (i *TokenIssuer) IssueAccessToken(accountID string, role models.Role) (models.Token, error) {
	return i.issue(accountID, role, models.AccessTokenType, i.accessDuration)
}

// IssueRefreshToken creates a long-lived token that only carries the account ID.
func (i *TokenIssuer) IssueRefreshToken(accountID string) (models.Token, error) {
	return i.issue(accountID, "", models.RefreshTokenType, i.refreshDuration)
}

// ParseAccessToken verifies signature, issuer and expiry of an access token.
func (i *TokenIssuer) ParseAccessToken(tokenString string) (models.Token, error) {
	return i.parse(tokenString, models.AccessTokenType)
}

// ParseRefreshToken verifies signature, issuer and expiry of a refresh token.
func (i *TokenIssuer) ParseRefreshToken(tokenString string) (models.Token, error) {
	return i.parse(tokenString, models.RefreshTokenType)
}

func (i *TokenIssuer) issue(accountID string, role models.Role, tokenType models.TokenType, duration time.Duration) (models.Token, error) {
	if accountID == "" {
		return models.Token{}, ErrEmptySubject
	}

	now := i.now()
	expiresAt := now.Add(duration)
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
		Type: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{
		SignedString: signed,
		AccountID:    accountID,
		Role:         role,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

func (i *TokenIssuer) parse(tokenString string, want models.TokenType) (models.Token, error) {
	claims := &models.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return i.signKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Type != want {
		return models.Token{}, ErrWrongTokenType
	}
	if claims.Subject == "" {
		return models.Token{}, ErrEmptySubject
	}

	return models.Token{
		SignedString: tokenString,
		AccountID:    claims.Subject,
		Role:         claims.Role,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
