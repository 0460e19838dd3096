// Package session tracks which authenticated identities currently hold a
// valid credential. Credentials are signed JWTs, but possession of a
// well-formed token is not enough: the token must also be the currently
// registered session for its subject. Re-login replaces the prior session,
// so at most one credential per identity is live at a time.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-house/internal/auctionerrors"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "auction-house"

type entry struct {
	token     string
	expiresAt time.Time
}

// Store issues and validates session credentials.
type Store struct {
	secret []byte
	ttl    time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time

	mu     sync.RWMutex
	active map[string]entry // key: identity
}

// New creates a session store signing credentials with secret, each valid
// for ttl from issuance.
func New(secret []byte, ttl time.Duration) *Store {
	return &Store{
		secret: secret,
		ttl:    ttl,
		Now:    time.Now,
		active: make(map[string]entry),
	}
}

// Issue creates a new credential bound to identity, overwriting any prior
// session for that identity. Two logins racing for the same identity are
// resolved by last write wins.
func (s *Store) Issue(identity string) (string, error) {
	if identity == "" {
		return "", fmt.Errorf("issue session: %w - empty identity", auctionerrors.ErrInvalidInput)
	}

	now := s.Now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue session for %s: %w", identity, err)
	}

	s.mu.Lock()
	s.active[identity] = entry{token: token, expiresAt: expiresAt}
	s.mu.Unlock()

	return token, nil
}

// Validate returns the identity bound to credential if it is structurally
// valid, unexpired, and still the registered session for that identity.
// Expired registry entries are evicted on the way out.
func (s *Store) Validate(credential string) (string, error) {
	if credential == "" {
		return "", fmt.Errorf("validate session: %w", auctionerrors.ErrUnauthorized)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		// An expired token still decodes its claims; use them to evict
		// the dead registry entry on the way out.
		if errors.Is(err, jwt.ErrTokenExpired) && claims.Subject != "" {
			s.evictIfExpired(claims.Subject)
		}
		return "", fmt.Errorf("validate session: %w: %v", auctionerrors.ErrUnauthorized, err)
	}

	identity := claims.Subject
	now := s.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.active[identity]
	if !ok {
		return "", fmt.Errorf("validate session for %s: %w", identity, auctionerrors.ErrUnauthorized)
	}
	if !now.Before(current.expiresAt) {
		delete(s.active, identity)
		return "", fmt.Errorf("validate session for %s: %w", identity, auctionerrors.ErrUnauthorized)
	}
	if current.token != credential {
		// A newer login replaced this credential.
		return "", fmt.Errorf("validate session for %s: %w", identity, auctionerrors.ErrUnauthorized)
	}
	return identity, nil
}

func (s *Store) evictIfExpired(identity string) {
	now := s.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.active[identity]; ok && !now.Before(e.expiresAt) {
		delete(s.active, identity)
	}
}

// Sweep removes all expired sessions and reports how many were evicted.
// Run periodically so abandoned sessions do not accumulate.
func (s *Store) Sweep() int {
	now := s.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for identity, e := range s.active {
		if !now.Before(e.expiresAt) {
			delete(s.active, identity)
			evicted++
		}
	}
	return evicted
}

// ActiveCount reports the number of registered sessions, expired or not.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}
