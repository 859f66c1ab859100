// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// password hashing, HTTP response writing, HTTP client initialization,
// JWT token issuing and validation, and ID generation.
package utils

import (
	"context"

	"github.com/MKhiriev/dev-profiles/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

var (
	// AccountIDCtxKey is the key used to store the authenticated account ID
	// in the context.
	AccountIDCtxKey = contextKey("accountID")

	// RoleCtxKey is the key used to store the authenticated account role.
	RoleCtxKey = contextKey("role")
)

// WithAccount returns a copy of ctx carrying the authenticated account ID and role.
func WithAccount(ctx context.Context, accountID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, AccountIDCtxKey, accountID)
	return context.WithValue(ctx, RoleCtxKey, role)
}

// GetAccountIDFromContext retrieves the account identifier from the context.
//
// Returns ok == false when the value is missing, empty or of another type.
//
// Example usage:
//
//	accountID, ok := utils.GetAccountIDFromContext(ctx)
//	if !ok {
//	    // handle missing account in context
//	}
func GetAccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDCtxKey).(string)
	return accountID, ok && accountID != ""
}

// GetRoleFromContext retrieves the role of the authenticated account.
func GetRoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(RoleCtxKey).(models.Role)
	return role, ok
}
