package service

import (
	"time"

	"github.com/MKhiriev/dev-profiles/models"
)

const (
	// MaxFailedLoginAttempts is the failure count at which an account locks.
	MaxFailedLoginAttempts = 5
	// LockDuration is how long a lock lasts.
	LockDuration = 30 * time.Minute
)

// LockState is the lockout status of an account at a given instant.
type LockState int

const (
	// LockStateUnlocked means logins are evaluated normally.
	LockStateUnlocked LockState = iota
	// LockStateLocked means every login is rejected until the lock expires.
	LockStateLocked
	// LockStateExpired means the account is still flagged as locked but the
	// lock time has passed (or was never set). The flag must be cleared
	// before the password is checked.
	LockStateExpired
)

func (s LockState) String() string {
	switch s {
	case LockStateUnlocked:
		return "unlocked"
	case LockStateLocked:
		return "locked"
	case LockStateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// LockoutPolicy decides when failed logins lock an account. It holds no
// state and never touches storage.
type LockoutPolicy struct {
	Threshold    int
	LockDuration time.Duration
}

// DefaultLockoutPolicy locks after 5 failures for 30 minutes.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Threshold: MaxFailedLoginAttempts, LockDuration: LockDuration}
}

// State returns the lock state of account at now.
func (p LockoutPolicy) State(account models.Account, now time.Time) LockState {
	if !account.AccountLocked {
		return LockStateUnlocked
	}
	if account.LockUntil != nil && account.LockUntil.After(now) {
		return LockStateLocked
	}
	return LockStateExpired
}

// LockUntil returns the end of a lock that starts at now.
func (p LockoutPolicy) LockUntil(now time.Time) time.Time {
	return now.Add(p.LockDuration)
}
