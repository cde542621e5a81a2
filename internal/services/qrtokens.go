package services

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// QRTokenStore holds short-lived one-shot pairing tokens for the mobile
// QR login flow. It is process-local: running multiple replicas behind a
// balancer would require an external shared store instead.
type QRTokenStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]*qrToken
	now    func() time.Time
}

type qrToken struct {
	expiresAt time.Time
	used      bool
}

func NewQRTokenStore(ttl time.Duration) *QRTokenStore {
	return &QRTokenStore{
		ttl:    ttl,
		tokens: map[string]*qrToken{},
		now:    time.Now,
	}
}

// Generate mints a new pairing token and returns it with its expiry.
func (s *QRTokenStore) Generate() (string, time.Time, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	expiresAt := s.now().Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.tokens[token] = &qrToken{expiresAt: expiresAt}
	return token, expiresAt, nil
}

// Validate consumes a pairing token. A token validates exactly once;
// repeat attempts and expired tokens fail with the matching taxonomy
// error.
func (s *QRTokenStore) Validate(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return ErrNotFound("Invalid or expired token")
	}
	if s.now().After(entry.expiresAt) {
		delete(s.tokens, token)
		return ErrBadRequest("Token expired")
	}
	if entry.used {
		return ErrBadRequest("Token already used")
	}
	entry.used = true
	return nil
}

// prune drops expired entries; callers hold the lock.
func (s *QRTokenStore) prune() {
	now := s.now()
	for token, entry := range s.tokens {
		if now.After(entry.expiresAt) {
			delete(s.tokens, token)
		}
	}
}

// NewOpaqueToken returns a long-lived bearer token for a paired mobile
// client. It carries no claims and is never verified against anything;
// the mobile API treats possession as sufficient.
func NewOpaqueToken() (string, error) {
	raw := make([]byte, 48)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
