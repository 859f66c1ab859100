package models

import "time"

// Role is the authorization level attached to an account and embedded into
// every access token.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// UserType decides which profile sections an account owns.
type UserType string

const (
	UserTypeDeveloper UserType = "DEVELOPER"
	UserTypeCompany   UserType = "COMPANY"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	return t == UserTypeDeveloper || t == UserTypeCompany
}

// Account is the stored authentication record of a user together with the
// public identity fields that are returned to clients.
//
// Credential, lockout and session fields are tagged `json:"-"` and never leave
// the server.
type Account struct {
	// ID is a UUIDv7 string assigned by the service at registration time.
	ID string `json:"id"`

	Email       string   `json:"email"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	UserType    UserType `json:"userType"`
	Role        Role     `json:"role"`

	GitHubURL      string `json:"githubUrl,omitempty"`
	GitHubUsername string `json:"githubUsername,omitempty"`

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string `json:"-"`

	// FailedLoginAttempts counts consecutive failed logins since the last
	// successful one or the last lock reset.
	FailedLoginAttempts int `json:"-"`

	// AccountLocked together with LockUntil describes the lockout state.
	// A lock is only active while LockUntil is in the future.
	AccountLocked bool       `json:"-"`
	LockUntil     *time.Time `json:"-"`

	// RefreshTokenHash is the keyed digest of the current refresh token.
	RefreshTokenHash   string     `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email       string   `json:"email" validate:"required,email,max=254"`
	Username    string   `json:"username" validate:"required,min=3,max=32,username"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	DisplayName string   `json:"displayName" validate:"max=100"`
	UserType    UserType `json:"userType" validate:"required,oneof=DEVELOPER COMPANY"`
	GitHubURL   string   `json:"githubUrl,omitempty" validate:"omitempty,url"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	User         Account `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

// TokenPair is returned by the refresh-token exchange.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the refresh token state persisted on an account.
type Session struct {
	// RefreshTokenHash is the keyed digest of the refresh token.
	RefreshTokenHash string
	ExpiresAt        time.Time
}

// LoginFailure is the lockout state of an account right after a failed
// login attempt was recorded.
type LoginFailure struct {
	Attempts  int
	Locked    bool
	LockUntil *time.Time
}
