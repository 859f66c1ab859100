package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when a lookup or a targeted update
	// matches no account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailAlreadyExists is returned when an insert violates the unique
	// email constraint.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUsernameAlreadyExists is returned when an insert violates the unique
	// username constraint.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrAccountLocked is returned when a successful login is recorded for an
	// account that got locked after the password was checked.
	ErrAccountLocked = errors.New("account is locked")

	// ErrRefreshTokenNotRotated is returned when the compare-and-swap on the
	// stored refresh token digest matched no row: the token was already
	// rotated, cleared or expired.
	ErrRefreshTokenNotRotated = errors.New("refresh token was not rotated")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan account rows")

	// ErrRateLimitStore is returned when the Redis rate limit backend fails.
	ErrRateLimitStore = errors.New("rate limit store failure")
)
