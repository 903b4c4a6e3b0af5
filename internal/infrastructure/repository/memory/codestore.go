package memory

import (
	"context"
	"sync"
	"time"

	"lexora/internal/domain/binding"
)

// CodeStore is an in-memory binding.CodeStore. TryConsume holds the store
// mutex for the whole check-and-set, so exactly one of two racing consumers
// of the same code succeeds.
type CodeStore struct {
	mu     sync.Mutex
	codes  map[string]*binding.BindingCode
	nextID uint
}

// NewCodeStore creates an empty in-memory code store.
func NewCodeStore() *CodeStore {
	return &CodeStore{codes: make(map[string]*binding.BindingCode)}
}

// Issue persists a fresh code for the tenant.
func (s *CodeStore) Issue(ctx context.Context, tenantID string, ttl time.Duration, now time.Time) (*binding.BindingCode, error) {
	code, err := binding.NewBindingCode(tenantID, ttl, now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	code.SetRowID(s.nextID)
	s.codes[code.Code()] = code
	return snapshot(code), nil
}

// Peek is a read-only lookup.
func (s *CodeStore) Peek(ctx context.Context, code string) (*binding.BindingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[code]
	if !ok {
		return nil, binding.ErrCodeNotFound
	}
	return snapshot(c), nil
}

// TryConsume atomically marks the code consumed. Expired codes are deleted
// so a later retry reports ErrCodeNotFound rather than ErrCodeExpired.
func (s *CodeStore) TryConsume(ctx context.Context, code string, now time.Time) (*binding.BindingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[code]
	if !ok {
		return nil, binding.ErrCodeNotFound
	}
	if c.Consumed() {
		return nil, binding.ErrCodeAlreadyUsed
	}
	if c.IsExpired(now) {
		delete(s.codes, code)
		return nil, binding.ErrCodeExpired
	}
	if err := c.MarkConsumed(now); err != nil {
		return nil, err
	}
	return snapshot(c), nil
}

// SweepExpired deletes unconsumed codes past their expiry.
func (s *CodeStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for k, c := range s.codes {
		if !c.Consumed() && c.IsExpired(now) {
			delete(s.codes, k)
			removed++
		}
	}
	return removed, nil
}

func snapshot(c *binding.BindingCode) *binding.BindingCode {
	return binding.ReconstructBindingCode(c.RowID(), c.Code(), c.TenantID(), c.IssuedAt(), c.ExpiresAt(), c.Consumed())
}
