// Package admin gates operator access to the shared learner directory.
package admin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// maxFailures before the gate locks out further attempts.
	maxFailures = 5

	// lockoutPeriod is how long the gate stays locked after too many failures.
	lockoutPeriod = 30 * time.Second
)

// ErrNotConfigured indicates no operator secret hash is configured, so the
// directory view is disabled entirely.
var ErrNotConfigured = errors.New("admin access is not configured")

// ErrLockedOut indicates too many failed attempts in a row.
var ErrLockedOut = errors.New("too many failed attempts, try again later")

// ErrWrongSecret indicates the supplied secret did not match.
var ErrWrongSecret = errors.New("wrong operator secret")

// Gate verifies the operator secret against a bcrypt hash and throttles
// repeated failures.
type Gate struct {
	hash []byte
	now  func() time.Time

	mu          sync.Mutex
	failures    int
	lockedUntil time.Time
}

// NewGate creates a gate for the given bcrypt hash. An empty hash produces
// a gate that always refuses with ErrNotConfigured.
func NewGate(secretHash string) *Gate {
	return &Gate{hash: []byte(secretHash), now: time.Now}
}

// HashSecret produces a bcrypt hash suitable for the config file.
func HashSecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(h), nil
}

// Verify checks the supplied secret. On success the failure counter resets.
// After maxFailures consecutive failures the gate refuses further attempts
// for lockoutPeriod.
func (g *Gate) Verify(secret string) error {
	if len(g.hash) == 0 {
		return ErrNotConfigured
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Before(g.lockedUntil) {
		return ErrLockedOut
	}

	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(secret)); err != nil {
		g.failures++
		if g.failures >= maxFailures {
			g.lockedUntil = now.Add(lockoutPeriod)
			g.failures = 0
			return ErrLockedOut
		}
		return ErrWrongSecret
	}

	g.failures = 0
	g.lockedUntil = time.Time{}
	return nil
}

// Configured reports whether a secret hash is present.
func (g *Gate) Configured() bool {
	return len(g.hash) > 0
}
