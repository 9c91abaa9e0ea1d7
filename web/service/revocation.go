package service

import (
	"sync"
	"time"
)

// RevocationService tracks tokens invalidated before their natural expiry.
// Each entry keeps the token's own expiry so the sweep can drop it once the
// signature check would reject it anyway.
type RevocationService struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewRevocationService() *RevocationService {
	return &RevocationService{
		tokens: make(map[string]time.Time),
	}
}

// Revoke marks the token as invalid until expiresAt. Idempotent.
func (s *RevocationService) Revoke(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = expiresAt
}

// IsRevoked reports whether the token has been revoked.
func (s *RevocationService) IsRevoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, revoked := s.tokens[token]
	return revoked
}

// Sweep removes entries whose tokens have expired on their own and returns
// how many were dropped.
func (s *RevocationService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, expiresAt := range s.tokens {
		if now.After(expiresAt) {
			delete(s.tokens, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of currently tracked tokens.
func (s *RevocationService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
