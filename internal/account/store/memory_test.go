package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doorway/internal/account/models"
	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

func TestProfileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryProfileStore()
	account := &models.Account{
		ID:          id.NewAccountID(),
		Email:       "agent@example.com",
		Role:        models.RoleAgent,
		AdminLevel:  models.LevelNone,
		TerritoryID: "GY",
	}
	require.NoError(t, s.Save(ctx, account))

	found, err := s.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, found.Email)

	byEmail, err := s.FindByEmail(ctx, "AGENT@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID, "email lookup is case-insensitive")

	require.NoError(t, s.Delete(ctx, account.ID))
	_, err = s.FindByID(ctx, account.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, account.ID), sentinel.ErrNotFound)
}

func TestProfileStoreSetVerified(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryProfileStore()
	account := &models.Account{ID: id.NewAccountID(), Email: "a@example.com", Role: models.RoleAgent}
	require.NoError(t, s.Save(ctx, account))

	require.NoError(t, s.SetVerified(ctx, account.ID, true))
	found, err := s.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, found.Verified)

	assert.ErrorIs(t, s.SetVerified(ctx, id.NewAccountID(), true), sentinel.ErrNotFound)
}

func TestListingStoreDeleteByOwner(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryListingStore()
	owner := id.NewAccountID()
	other := id.NewAccountID()

	for i := 0; i < 3; i++ {
		listing := &Listing{ID: id.NewListingID(), OwnerID: owner}
		require.NoError(t, s.Save(ctx, listing))
		require.NoError(t, s.AddMedia(ctx, &MediaItem{ID: listing.ID.String() + "-img", ListingID: listing.ID}))
	}
	require.NoError(t, s.Save(ctx, &Listing{ID: id.NewListingID(), OwnerID: other}))

	// Media first: rows reference listings.
	media, err := s.DeleteMediaByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), media)

	listings, err := s.DeleteByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), listings)

	// Idempotent: second pass finds nothing and does not fail.
	media, err = s.DeleteMediaByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, media)
	listings, err = s.DeleteByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, listings)
}

func TestFavoriteStoreDeletesBothLinkages(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryFavoriteStore()
	accountID := id.NewAccountID()

	require.NoError(t, s.Save(ctx, &Favorite{AccountID: accountID, ListingID: id.NewListingID()}))
	require.NoError(t, s.Save(ctx, &Favorite{AccountID: accountID, ListingID: id.NewListingID()}))
	require.NoError(t, s.Save(ctx, &Favorite{AccountID: id.NewAccountID(), ListingID: id.NewListingID()}))
	require.NoError(t, s.SaveLegacy(ctx, "Agent@Example.com", id.NewListingID()))

	byAccount, err := s.DeleteByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byAccount)

	legacy, err := s.DeleteLegacyByEmail(ctx, "agent@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), legacy, "legacy rows match by email regardless of case")

	legacy, err = s.DeleteLegacyByEmail(ctx, "agent@example.com")
	require.NoError(t, err)
	assert.Zero(t, legacy)
}

func TestDraftAndInquiryStores(t *testing.T) {
	ctx := context.Background()
	accountID := id.NewAccountID()

	drafts := NewInMemoryDraftStore()
	require.NoError(t, drafts.Save(ctx, &Draft{ID: "d1", AccountID: accountID}))
	require.NoError(t, drafts.Save(ctx, &Draft{ID: "d2", AccountID: id.NewAccountID()}))
	n, err := drafts.DeleteByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	inquiries := NewInMemoryInquiryStore()
	require.NoError(t, inquiries.Save(ctx, &Inquiry{ID: "i1", AccountID: accountID}))
	n, err = inquiries.DeleteByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
