// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "doorway/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing an AccountID where a ListingID is expected.
type (
	AccountID    uuid.UUID
	ListingID    uuid.UUID
	PromoCodeID  uuid.UUID
	RedemptionID uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseAccountID(s string) (AccountID, error) {
	id, err := parseUUID(s, "account ID")
	return AccountID(id), err
}

func ParseListingID(s string) (ListingID, error) {
	id, err := parseUUID(s, "listing ID")
	return ListingID(id), err
}

func ParsePromoCodeID(s string) (PromoCodeID, error) {
	id, err := parseUUID(s, "promo code ID")
	return PromoCodeID(id), err
}

// New functions - for generating identifiers at creation sites.

func NewAccountID() AccountID       { return AccountID(uuid.New()) }
func NewListingID() ListingID       { return ListingID(uuid.New()) }
func NewPromoCodeID() PromoCodeID   { return PromoCodeID(uuid.New()) }
func NewRedemptionID() RedemptionID { return RedemptionID(uuid.New()) }

// String methods - for logging and debugging.

func (id AccountID) String() string    { return uuid.UUID(id).String() }
func (id ListingID) String() string    { return uuid.UUID(id).String() }
func (id PromoCodeID) String() string  { return uuid.UUID(id).String() }
func (id RedemptionID) String() string { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ListingID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PromoCodeID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id RedemptionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic. Nil UUIDs are allowed here;
// use IsNil() at the service layer for business validation so store lookups
// can return proper "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return parsed, nil
}
