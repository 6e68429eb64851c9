// Package memory holds the in-process OTP store, the default backend for
// single-instance deployments. A process restart drops every pending code.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bookworm-api/internal/domain"
)

// OTPStore is a mutex-guarded map from normalized phone number to the one
// pending code for that phone. Put unconditionally overwrites, so issuing a
// new code invalidates the previous one.
type OTPStore struct {
	mu    sync.Mutex
	codes map[string]domain.PendingOTP

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

func NewOTPStore() *OTPStore {
	s := &OTPStore{
		codes: make(map[string]domain.PendingOTP),
		now:   time.Now,
	}
	go s.sweep()
	return s
}

func (s *OTPStore) Put(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = domain.PendingOTP{
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *OTPStore) Get(_ context.Context, phone string) (*domain.PendingOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[phone]
	if !ok {
		return nil, fmt.Errorf("no pending OTP for phone: %w", domain.ErrNotFound)
	}
	return &entry, nil
}

func (s *OTPStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
	return nil
}

// sweep drops expired entries every minute. The auth service already rejects
// expired codes on lookup; this only bounds memory for codes never verified.
func (s *OTPStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := s.now()
		for phone, entry := range s.codes {
			if now.After(entry.ExpiresAt) {
				delete(s.codes, phone)
			}
		}
		s.mu.Unlock()
	}
}

// SetClock overrides the store's time source. Tests only.
func (s *OTPStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
