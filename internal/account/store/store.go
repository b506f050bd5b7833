// Package store persists account profiles and their dependent listing-side
// records. Contracts live here; memory and postgres implementations satisfy
// them.
//
// Error Contract: all Find methods return sentinel.ErrNotFound (wrapped) when
// the entity does not exist. DeleteBy* methods are idempotent and report how
// many rows went away; zero is a success, not an error.
package store

import (
	"context"
	"time"

	"doorway/internal/account/models"
	id "doorway/pkg/domain"
)

// ProfileStore persists the account record itself.
type ProfileStore interface {
	Save(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Delete(ctx context.Context, accountID id.AccountID) error
	SetVerified(ctx context.Context, accountID id.AccountID, verified bool) error
}

// Listing is the minimal view of a property listing this subsystem needs:
// ownership for cascade deletion. The listing domain owns the full shape.
type Listing struct {
	ID        id.ListingID
	OwnerID   id.AccountID
	Title     string
	CreatedAt time.Time
}

// MediaItem is an image or document attached to a listing.
type MediaItem struct {
	ID        string
	ListingID id.ListingID
	URL       string
}

// ListingStore persists listings and their media.
type ListingStore interface {
	Save(ctx context.Context, listing *Listing) error
	AddMedia(ctx context.Context, item *MediaItem) error
	// DeleteMediaByOwner removes media of every listing owned by the account.
	// Media rows reference listings, so they go first.
	DeleteMediaByOwner(ctx context.Context, ownerID id.AccountID) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID id.AccountID) (int64, error)
}

// Favorite links an account to a listing it saved. Legacy rows predate
// account IDs and are keyed by email only.
type Favorite struct {
	AccountID id.AccountID
	Email     string
	ListingID id.ListingID
}

// FavoriteStore persists favorites, including the legacy email-keyed table.
type FavoriteStore interface {
	Save(ctx context.Context, favorite *Favorite) error
	SaveLegacy(ctx context.Context, email string, listingID id.ListingID) error
	DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error)
	DeleteLegacyByEmail(ctx context.Context, email string) (int64, error)
}

// Draft is an unsubmitted listing form.
type Draft struct {
	ID        string
	AccountID id.AccountID
	Payload   string
}

// DraftStore persists listing drafts.
type DraftStore interface {
	Save(ctx context.Context, draft *Draft) error
	DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error)
}

// Inquiry is a lead message sent to an account about a listing.
type Inquiry struct {
	ID        string
	AccountID id.AccountID
	ListingID id.ListingID
	Message   string
}

// InquiryStore persists inquiries.
type InquiryStore interface {
	Save(ctx context.Context, inquiry *Inquiry) error
	DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error)
}
