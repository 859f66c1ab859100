package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/internal/validators"
	"github.com/MKhiriev/dev-profiles/models"
)

const (
	// AccessTokenDuration is the lifetime of an access token.
	AccessTokenDuration = 15 * time.Minute
	// RefreshTokenDuration is the lifetime of a refresh token.
	RefreshTokenDuration = 7 * 24 * time.Hour
)

// authService is the concrete implementation of [AuthService].
type authService struct {
	accounts store.AccountRepository

	tokens    *utils.TokenIssuer
	passwords *utils.BcryptHasher
	ids       *utils.UUIDGenerator
	validator validators.Validator
	policy    LockoutPolicy

	// digestKey keys the refresh token digests stored in the database.
	digestKey string

	now func() time.Time

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] that signs tokens with
// cfg.TokenSignKey and uses the wall clock.
func NewAuthService(accounts store.AccountRepository, cfg config.App, validator validators.Validator, logger *logger.Logger) (AuthService, error) {
	return newAuthService(accounts, cfg, utils.NewBcryptHasher(utils.DefaultPasswordCost), validator, time.Now, logger)
}

func newAuthService(accounts store.AccountRepository, cfg config.App, passwords *utils.BcryptHasher,
	validator validators.Validator, now func() time.Time, logger *logger.Logger) (*authService, error) {
	tokens, err := utils.NewTokenIssuer(cfg.TokenSignKey, cfg.TokenIssuer, AccessTokenDuration, RefreshTokenDuration, now)
	if err != nil {
		return nil, fmt.Errorf("error creating token issuer: %w", err)
	}

	return &authService{
		accounts:  accounts,
		tokens:    tokens,
		passwords: passwords,
		ids:       utils.NewUUIDGenerator(),
		validator: validator,
		policy:    DefaultLockoutPolicy(),
		digestKey: cfg.TokenSignKey,
		now:       now,
		logger:    logger,
	}, nil
}

// Register validates req, rejects an email or username that is already
// taken, and stores the new account together with its first session.
//
// Returns:
//   - ErrInvalidDataProvided (wrapping a *validators.ValidationError) for
//     malformed input.
//   - *DuplicateCredentialError for an email or username that
//     belongs to another account.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.GitHubURL = strings.TrimSpace(req.GitHubURL)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.AuthResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	existing, err := a.accounts.FindByEmailOrUsername(ctx, req.Email, req.Username)
	switch {
	case err == nil:
		field := "username"
		if existing.Email == req.Email {
			field = "email"
		}
		return models.AuthResult{}, &DuplicateCredentialError{Field: field}
	case !errors.Is(err, store.ErrAccountNotFound):
		return models.AuthResult{}, fmt.Errorf("error checking existing credentials: %w", err)
	}

	passwordHash, err := a.passwords.Hash(req.Password)
	if err != nil {
		return models.AuthResult{}, err
	}

	account := models.Account{
		ID:           a.ids.Generate(),
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		UserType:     req.UserType,
		Role:         models.RoleUser,
		GitHubURL:    req.GitHubURL,
		PasswordHash: passwordHash,
	}
	if account.DisplayName == "" {
		account.DisplayName = account.Username
	}
	if handle, ok := LenientGitHubUsername(req.GitHubURL); ok {
		account.GitHubUsername = handle
	}

	access, refresh, err := a.issuePair(account)
	if err != nil {
		return models.AuthResult{}, err
	}
	account.RefreshTokenHash = a.digest(refresh.SignedString)
	account.RefreshTokenExpiry = &refresh.ExpiresAt

	created, err := a.accounts.Create(ctx, account)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailAlreadyExists):
			return models.AuthResult{}, &DuplicateCredentialError{Field: "email"}
		case errors.Is(err, store.ErrUsernameAlreadyExists):
			return models.AuthResult{}, &DuplicateCredentialError{Field: "username"}
		}
		log.Err(err).Str("func", "*authService.Register").Msg("account creation ended with error")
		return models.AuthResult{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	log.Info().Str("account_id", created.ID).Str("user_type", string(created.UserType)).Msg("account registered")

	return models.AuthResult{
		User:         created,
		AccessToken:  access.SignedString,
		RefreshToken: refresh.SignedString,
	}, nil
}

// Login authenticates email and password.
//
// A failed attempt increments the failure counter; the attempt that reaches
// the threshold locks the account for [LockDuration]. While the lock is
// active every attempt fails with [ErrAccountLocked] without checking the
// password. An expired lock is cleared first and the attempt is evaluated
// normally.
func (a *authService) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.AuthResult{}, ErrInvalidDataProvided
	}

	account, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.AuthResult{}, ErrInvalidCredentials
		}
		return models.AuthResult{}, fmt.Errorf("account search by email failed: %w", err)
	}

	now := a.now()
	if account, err = a.resolveLock(ctx, account, now); err != nil {
		return models.AuthResult{}, err
	}

	if !a.passwords.Verify(password, account.PasswordHash) {
		failure, err := a.accounts.RecordFailedLogin(ctx, account.ID, a.policy.Threshold, a.policy.LockUntil(now))
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				return models.AuthResult{}, ErrInvalidCredentials
			}
			return models.AuthResult{}, fmt.Errorf("error recording failed login: %w", err)
		}

		event := log.Warn().Str("account_id", account.ID).Int("failed_attempts", failure.Attempts)
		if failure.Locked && failure.LockUntil != nil {
			event.Time("lock_until", *failure.LockUntil).Msg("account locked after repeated failed logins")
		} else {
			event.Msg("failed login")
		}
		return models.AuthResult{}, ErrInvalidCredentials
	}

	access, refresh, err := a.issuePair(account)
	if err != nil {
		return models.AuthResult{}, err
	}

	session := models.Session{RefreshTokenHash: a.digest(refresh.SignedString), ExpiresAt: refresh.ExpiresAt}
	if err = a.accounts.RecordSuccessfulLogin(ctx, account.ID, session, now); err != nil {
		if errors.Is(err, store.ErrAccountLocked) {
			log.Info().Str("account_id", account.ID).Msg("account locked while login was in flight")
			return models.AuthResult{}, ErrAccountLocked
		}
		return models.AuthResult{}, fmt.Errorf("error recording successful login: %w", err)
	}

	account.FailedLoginAttempts = 0
	account.AccountLocked = false
	account.LockUntil = nil
	account.LastLogin = &now
	account.RefreshTokenHash = session.RefreshTokenHash
	account.RefreshTokenExpiry = &session.ExpiresAt

	return models.AuthResult{
		User:         account,
		AccessToken:  access.SignedString,
		RefreshToken: refresh.SignedString,
	}, nil
}

// resolveLock returns ErrAccountLocked for an active lock and clears an
// expired one. When another request changed the lock in between, the
// account is re-read and evaluated again.
func (a *authService) resolveLock(ctx context.Context, account models.Account, now time.Time) (models.Account, error) {
	switch a.policy.State(account, now) {
	case LockStateLocked:
		logger.FromContext(ctx).Info().Str("account_id", account.ID).Msg("login attempt on locked account")
		return models.Account{}, ErrAccountLocked
	case LockStateUnlocked:
		return account, nil
	}

	cleared, err := a.accounts.ClearExpiredLock(ctx, account.ID, now)
	if err != nil {
		return models.Account{}, fmt.Errorf("error clearing expired lock: %w", err)
	}
	if !cleared {
		fresh, err := a.accounts.FindByID(ctx, account.ID)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				return models.Account{}, ErrInvalidCredentials
			}
			return models.Account{}, fmt.Errorf("account search by id failed: %w", err)
		}
		if a.policy.State(fresh, now) == LockStateLocked {
			return models.Account{}, ErrAccountLocked
		}
		return fresh, nil
	}

	account.FailedLoginAttempts = 0
	account.AccountLocked = false
	account.LockUntil = nil
	return account, nil
}

// RefreshToken verifies refreshToken, checks it against the stored digest and
// rotates the session. The swap only succeeds while the stored digest still
// belongs to refreshToken, so a token can be exchanged at most once.
func (a *authService) RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return models.TokenPair{}, ErrInvalidDataProvided
	}

	claims, err := a.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		log.Debug().Err(err).Msg("refresh token rejected")
		return models.TokenPair{}, ErrInvalidRefreshToken
	}

	now := a.now()
	oldDigest := a.digest(refreshToken)

	account, err := a.accounts.FindByRefreshTokenHash(ctx, oldDigest, now)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.TokenPair{}, ErrInvalidRefreshToken
		}
		return models.TokenPair{}, fmt.Errorf("account search by refresh token failed: %w", err)
	}
	if account.ID != claims.AccountID {
		return models.TokenPair{}, ErrInvalidRefreshToken
	}

	access, refresh, err := a.issuePair(account)
	if err != nil {
		return models.TokenPair{}, err
	}

	session := models.Session{RefreshTokenHash: a.digest(refresh.SignedString), ExpiresAt: refresh.ExpiresAt}
	if err = a.accounts.RotateRefreshToken(ctx, account.ID, oldDigest, session, now); err != nil {
		if errors.Is(err, store.ErrRefreshTokenNotRotated) {
			log.Warn().Str("account_id", account.ID).Msg("refresh token reused")
			return models.TokenPair{}, ErrInvalidRefreshToken
		}
		return models.TokenPair{}, fmt.Errorf("error rotating refresh token: %w", err)
	}

	return models.TokenPair{AccessToken: access.SignedString, RefreshToken: refresh.SignedString}, nil
}

// Logout clears the stored session. Logging out an account that no longer
// exists is not an error.
func (a *authService) Logout(ctx context.Context, accountID string) error {
	if accountID == "" {
		return ErrMissingIdentity
	}

	if err := a.accounts.ClearRefreshToken(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("error clearing refresh token: %w", err)
	}

	return nil
}

func (a *authService) Unlock(ctx context.Context, accountID string) error {
	if accountID == "" {
		return ErrMissingIdentity
	}

	if err := a.accounts.Unlock(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("error unlocking account: %w", err)
	}

	logger.FromContext(ctx).Info().Str("account_id", accountID).Msg("account unlocked")
	return nil
}

// ParseAccessToken normalises every validation failure to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := a.tokens.ParseAccessToken(tokenString)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func (a *authService) issuePair(account models.Account) (models.Token, models.Token, error) {
	access, err := a.tokens.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return models.Token{}, models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	refresh, err := a.tokens.IssueRefreshToken(account.ID)
	if err != nil {
		return models.Token{}, models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return access, refresh, nil
}

func (a *authService) digest(refreshToken string) string {
	return utils.HashString(refreshToken, a.digestKey)
}
