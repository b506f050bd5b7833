package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"doorway/internal/account/models"
	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// InMemoryProfileStore stores accounts in memory for tests and dev mode.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*models.Account
}

// NewInMemoryProfileStore constructs an empty in-memory profile store.
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{accounts: make(map[id.AccountID]*models.Account)}
}

func (s *InMemoryProfileStore) Save(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *InMemoryProfileStore) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if account, ok := s.accounts[accountID]; ok {
		cp := *account
		return &cp, nil
	}
	return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryProfileStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, email) {
			cp := *account
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryProfileStore) Delete(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; ok {
		delete(s.accounts, accountID)
		return nil
	}
	return fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryProfileStore) SetVerified(_ context.Context, accountID id.AccountID, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	account.Verified = verified
	return nil
}

// InMemoryListingStore stores listings and media in memory.
type InMemoryListingStore struct {
	mu       sync.RWMutex
	listings map[id.ListingID]*Listing
	media    map[string]*MediaItem
}

// NewInMemoryListingStore constructs an empty in-memory listing store.
func NewInMemoryListingStore() *InMemoryListingStore {
	return &InMemoryListingStore{
		listings: make(map[id.ListingID]*Listing),
		media:    make(map[string]*MediaItem),
	}
}

func (s *InMemoryListingStore) Save(_ context.Context, listing *Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *listing
	s.listings[listing.ID] = &cp
	return nil
}

func (s *InMemoryListingStore) AddMedia(_ context.Context, item *MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.media[item.ID] = &cp
	return nil
}

func (s *InMemoryListingStore) DeleteMediaByOwner(_ context.Context, ownerID id.AccountID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := make(map[id.ListingID]bool)
	for listingID, listing := range s.listings {
		if listing.OwnerID == ownerID {
			owned[listingID] = true
		}
	}
	var deleted int64
	for mediaID, item := range s.media {
		if owned[item.ListingID] {
			delete(s.media, mediaID)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryListingStore) DeleteByOwner(_ context.Context, ownerID id.AccountID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for listingID, listing := range s.listings {
		if listing.OwnerID == ownerID {
			delete(s.listings, listingID)
			deleted++
		}
	}
	return deleted, nil
}

// InMemoryFavoriteStore stores favorites in memory, including the legacy
// email-keyed linkage.
type InMemoryFavoriteStore struct {
	mu        sync.RWMutex
	favorites []Favorite
	legacy    map[string][]id.ListingID
}

// NewInMemoryFavoriteStore constructs an empty in-memory favorite store.
func NewInMemoryFavoriteStore() *InMemoryFavoriteStore {
	return &InMemoryFavoriteStore{legacy: make(map[string][]id.ListingID)}
}

func (s *InMemoryFavoriteStore) Save(_ context.Context, favorite *Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = append(s.favorites, *favorite)
	return nil
}

func (s *InMemoryFavoriteStore) SaveLegacy(_ context.Context, email string, listingID id.ListingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	s.legacy[key] = append(s.legacy[key], listingID)
	return nil
}

func (s *InMemoryFavoriteStore) DeleteByAccount(_ context.Context, accountID id.AccountID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.favorites[:0]
	var deleted int64
	for _, f := range s.favorites {
		if f.AccountID == accountID {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	s.favorites = kept
	return deleted, nil
}

func (s *InMemoryFavoriteStore) DeleteLegacyByEmail(_ context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	deleted := int64(len(s.legacy[key]))
	delete(s.legacy, key)
	return deleted, nil
}

// InMemoryDraftStore stores drafts in memory.
type InMemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

// NewInMemoryDraftStore constructs an empty in-memory draft store.
func NewInMemoryDraftStore() *InMemoryDraftStore {
	return &InMemoryDraftStore{drafts: make(map[string]*Draft)}
}

func (s *InMemoryDraftStore) Save(_ context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *draft
	s.drafts[draft.ID] = &cp
	return nil
}

func (s *InMemoryDraftStore) DeleteByAccount(_ context.Context, accountID id.AccountID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for draftID, draft := range s.drafts {
		if draft.AccountID == accountID {
			delete(s.drafts, draftID)
			deleted++
		}
	}
	return deleted, nil
}

// InMemoryInquiryStore stores inquiries in memory.
type InMemoryInquiryStore struct {
	mu        sync.RWMutex
	inquiries map[string]*Inquiry
}

// NewInMemoryInquiryStore constructs an empty in-memory inquiry store.
func NewInMemoryInquiryStore() *InMemoryInquiryStore {
	return &InMemoryInquiryStore{inquiries: make(map[string]*Inquiry)}
}

func (s *InMemoryInquiryStore) Save(_ context.Context, inquiry *Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *inquiry
	s.inquiries[inquiry.ID] = &cp
	return nil
}

func (s *InMemoryInquiryStore) DeleteByAccount(_ context.Context, accountID id.AccountID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for inquiryID, inquiry := range s.inquiries {
		if inquiry.AccountID == accountID {
			delete(s.inquiries, inquiryID)
			deleted++
		}
	}
	return deleted, nil
}
