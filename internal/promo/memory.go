package promo

import (
	"context"
	"fmt"
	"sync"

	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// InMemoryCodeStore stores promo codes in memory for tests and dev mode.
type InMemoryCodeStore struct {
	mu    sync.RWMutex
	codes map[id.PromoCodeID]*Code
}

// NewInMemoryCodeStore constructs an empty in-memory code store.
func NewInMemoryCodeStore() *InMemoryCodeStore {
	return &InMemoryCodeStore{codes: make(map[id.PromoCodeID]*Code)}
}

func (s *InMemoryCodeStore) Save(_ context.Context, code *Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *code
	s.codes[code.ID] = &cp
	return nil
}

func (s *InMemoryCodeStore) FindByID(_ context.Context, codeID id.PromoCodeID) (*Code, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if code, ok := s.codes[codeID]; ok {
		cp := *code
		return &cp, nil
	}
	return nil, fmt.Errorf("promo code not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryCodeStore) Decrement(_ context.Context, codeID id.PromoCodeID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[codeID]
	if !ok {
		// Already-deleted code: no-op, matches the re-run semantics.
		return 0, nil
	}
	if code.Redemptions > 0 {
		code.Redemptions--
	}
	return code.Redemptions, nil
}

// InMemoryRedemptionStore stores redemptions in memory.
type InMemoryRedemptionStore struct {
	mu          sync.RWMutex
	redemptions map[id.RedemptionID]*Redemption
}

// NewInMemoryRedemptionStore constructs an empty in-memory redemption store.
func NewInMemoryRedemptionStore() *InMemoryRedemptionStore {
	return &InMemoryRedemptionStore{redemptions: make(map[id.RedemptionID]*Redemption)}
}

func (s *InMemoryRedemptionStore) Save(_ context.Context, redemption *Redemption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *redemption
	s.redemptions[redemption.ID] = &cp
	return nil
}

func (s *InMemoryRedemptionStore) FindByAccount(_ context.Context, accountID id.AccountID) (*Redemption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, redemption := range s.redemptions {
		if redemption.AccountID == accountID {
			cp := *redemption
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("redemption not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryRedemptionStore) Delete(_ context.Context, redemptionID id.RedemptionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.redemptions[redemptionID]; !ok {
		return fmt.Errorf("redemption not found: %w", sentinel.ErrNotFound)
	}
	delete(s.redemptions, redemptionID)
	return nil
}
