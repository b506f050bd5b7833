package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"doorway/internal/account/models"
	"doorway/internal/account/store"
	"doorway/internal/audit"
	"doorway/internal/identity"
	"doorway/internal/promo"
	id "doorway/pkg/domain"
	dErrors "doorway/pkg/domain-errors"
	"doorway/pkg/platform/sentinel"
)

func notFoundErr(what string) error {
	return fmt.Errorf("%s not found: %w", what, sentinel.ErrNotFound)
}

func identityRecord(accountID id.AccountID, email string) *identity.Record {
	return &identity.Record{AccountID: accountID, Email: email}
}

// seedOwnedResources attaches a realistic resource graph to a target:
// three listings (one carrying two media items), two favorites, one
// legacy favorite, one draft and one inquiry.
func (s *ServiceSuite) seedOwnedResources(target *models.Account) {
	ctx := context.Background()
	var first id.ListingID
	for i := 0; i < 3; i++ {
		listing := &store.Listing{ID: id.NewListingID(), OwnerID: target.ID, Title: fmt.Sprintf("Listing %d", i+1)}
		if i == 0 {
			first = listing.ID
		}
		s.Require().NoError(s.listings.Save(ctx, listing))
	}
	s.Require().NoError(s.listings.AddMedia(ctx, &store.MediaItem{ID: "m1", ListingID: first, URL: "https://img.example.com/1.jpg"}))
	s.Require().NoError(s.listings.AddMedia(ctx, &store.MediaItem{ID: "m2", ListingID: first, URL: "https://img.example.com/2.jpg"}))

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.favorites.Save(ctx, &store.Favorite{AccountID: target.ID, ListingID: id.NewListingID()}))
	}
	s.Require().NoError(s.favorites.SaveLegacy(ctx, target.Email, id.NewListingID()))
	s.Require().NoError(s.drafts.Save(ctx, &store.Draft{ID: "d1", AccountID: target.ID, Payload: `{"title":"wip"}`}))
	s.Require().NoError(s.inquiries.Save(ctx, &store.Inquiry{ID: "q1", AccountID: target.ID, Message: "still available?"}))
}

func (s *ServiceSuite) TestDeleteAccountFullCascade() {
	ctx := context.Background()
	actor := s.newAdmin(models.LevelSuper, "")
	target := s.newAgent("north")
	s.seedOwnedResources(target)
	s.allowAuditEmits()

	s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
	s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
	s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
	s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)

	result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.OutcomeSuccess, result.Outcome())
	assert.Equal(s.T(), int64(2), result.StepDeleted(models.ResourceListingMedia))
	assert.Equal(s.T(), int64(3), result.StepDeleted(models.ResourceListings))
	assert.Equal(s.T(), int64(2), result.StepDeleted(models.ResourceFavorites))
	assert.Equal(s.T(), int64(1), result.StepDeleted(models.ResourceLegacyFavorites))
	assert.Equal(s.T(), int64(1), result.StepDeleted(models.ResourceDrafts))
	assert.Equal(s.T(), int64(1), result.StepDeleted(models.ResourceInquiries))
	assert.True(s.T(), result.Profile)
	assert.True(s.T(), result.Identity)
	assert.Equal(s.T(), identityLayerDirect, result.IdentityLayer)
	assert.False(s.T(), result.FoundingMember)
}

func (s *ServiceSuite) TestDeleteAccountProtectedTarget() {
	ctx := context.Background()
	target := s.newAgent("north")
	target.Email = protectedEmail

	s.T().Run("super admin denied", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)

		var denial audit.Event
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, event audit.Event) error {
				denial = event
				return nil
			})

		result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeProtected))
		assert.Equal(t, string(audit.EventDeletionDenied), denial.Action)
		assert.Equal(t, "protected_account", denial.Reason)
	})

	s.T().Run("case-insensitive email match", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		shouting := *target
		shouting.Email = "ROOT@Doorway.Local"
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(&shouting, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeProtected))
	})
}

func (s *ServiceSuite) TestDeleteAccountTerritoryScoping() {
	ctx := context.Background()

	s.T().Run("owner admin within own territory", func(t *testing.T) {
		actor := s.newAdmin(models.LevelOwner, "north")
		target := s.newAgent("north")
		// One-shot allowance: an AnyTimes expectation would outlive this
		// subtest on the shared controller and swallow the Emit calls the
		// later subtests match specifically.
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
		s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)

		result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSuccess, result.Outcome())
	})

	s.T().Run("owner admin cross-territory denied", func(t *testing.T) {
		actor := s.newAdmin(models.LevelOwner, "north")
		target := s.newAgent("south")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)

		var denial audit.Event
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, event audit.Event) error {
				denial = event
				return nil
			})

		_, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Equal(t, "territory_mismatch", denial.Reason)
		assert.Equal(t, target.ID, denial.TargetID)
	})

	s.T().Run("owner admin without territory denied", func(t *testing.T) {
		actor := s.newAdmin(models.LevelOwner, "")
		target := s.newAgent("north")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("basic admin denied before target lookup", func(t *testing.T) {
		actor := s.newAdmin(models.LevelBasic, "north")
		target := s.newAgent("north")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestDeleteAccountProtectedActorGrant() {
	// The protected identity may delete anywhere without an admin level.
	ctx := context.Background()
	actor := s.newAgent("north")
	actor.Email = protectedEmail
	target := s.newAgent("south")
	s.allowAuditEmits()

	s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
	s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
	s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
	s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)

	result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OutcomeSuccess, result.Outcome())
}

func (s *ServiceSuite) TestDeleteAccountOrphanPath() {
	ctx := context.Background()

	s.T().Run("identity-only record cleaned up", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		targetID := id.NewAccountID()
		// One-shot allowance: an AnyTimes expectation would outlive this
		// subtest on the shared controller and swallow the Emit call the
		// later denial subtest matches specifically.
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), targetID).Return(nil, notFoundErr("account"))
		s.mockIdentity.EXPECT().FindByID(gomock.Any(), targetID).Return(identityRecord(targetID, "ghost@example.com"), nil)
		s.mockIdentity.EXPECT().Delete(gomock.Any(), targetID).Return(nil)

		result, err := s.service.DeleteAccount(ctx, actor.ID, targetID)
		require.NoError(t, err)
		assert.True(t, result.OrphanCleanup)
		assert.True(t, result.Identity)
		assert.False(t, result.Profile)
		assert.Empty(t, result.Steps)
		assert.Equal(t, models.OutcomeSuccess, result.Outcome())
	})

	s.T().Run("wholly absent target is not found", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		targetID := id.NewAccountID()
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), targetID).Return(nil, notFoundErr("account"))
		s.mockIdentity.EXPECT().FindByID(gomock.Any(), targetID).Return(nil, notFoundErr("identity"))

		_, err := s.service.DeleteAccount(ctx, actor.ID, targetID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.T().Run("territory-scoped actor cannot clean orphans", func(t *testing.T) {
		actor := s.newAdmin(models.LevelOwner, "north")
		targetID := id.NewAccountID()
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), targetID).Return(nil, notFoundErr("account"))
		s.mockIdentity.EXPECT().FindByID(gomock.Any(), targetID).Return(identityRecord(targetID, "ghost@example.com"), nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.DeleteAccount(ctx, actor.ID, targetID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestDeleteAccountStepFailureIsolation() {
	ctx := context.Background()
	actor := s.newAdmin(models.LevelSuper, "")
	target := s.newAgent("north")
	s.seedOwnedResources(target)
	s.allowAuditEmits()

	// Swap in a listing store whose media pass is broken. The rest of the
	// cascade must still run and the run must degrade to partial, not fail.
	logger := discardLogger()
	svc := NewService(
		s.mockProfiles,
		&brokenMediaListingStore{inner: s.listings},
		s.favorites,
		s.drafts,
		s.inquiries,
		s.mockIdentity,
		promo.NewAdjuster(s.codes, s.redemptions, logger),
		s.service.policy,
		WithLogger(logger),
		WithAuditPublisher(s.mockAudit),
	)

	s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
	s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
	s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
	s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)

	result, err := svc.DeleteAccount(ctx, actor.ID, target.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.OutcomePartial, result.Outcome())
	assert.Equal(s.T(), 1, result.FailedSteps())
	assert.Equal(s.T(), int64(3), result.StepDeleted(models.ResourceListings))
	assert.Equal(s.T(), int64(2), result.StepDeleted(models.ResourceFavorites))
	assert.Equal(s.T(), int64(1), result.StepDeleted(models.ResourceDrafts))
	assert.Equal(s.T(), int64(1), result.StepDeleted(models.ResourceInquiries))
}

func (s *ServiceSuite) TestDeleteAccountFoundingMemberRelease() {
	ctx := context.Background()
	actor := s.newAdmin(models.LevelSuper, "")
	target := s.newAgent("north")
	target.FoundingMember = true
	s.allowAuditEmits()

	code := &promo.Code{ID: id.NewPromoCodeID(), Code: "FOUNDING50", Redemptions: 5}
	s.Require().NoError(s.codes.Save(ctx, code))
	redemption := &promo.Redemption{ID: id.NewRedemptionID(), AccountID: target.ID, CodeID: code.ID}
	s.Require().NoError(s.redemptions.Save(ctx, redemption))

	s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
	s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
	s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
	s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)

	result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), result.FoundingMember)

	remaining, err := s.codes.FindByID(ctx, code.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(4), remaining.Redemptions)

	_, err = s.redemptions.FindByAccount(ctx, target.ID)
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *ServiceSuite) TestDeleteAccountSecondRun() {
	// Re-running a completed deletion finds the target in neither store:
	// the second run reports not-found and must not touch the released
	// promo counter again.
	ctx := context.Background()
	actor := s.newAdmin(models.LevelSuper, "")
	target := s.newAgent("north")
	target.FoundingMember = true
	s.allowAuditEmits()

	code := &promo.Code{ID: id.NewPromoCodeID(), Code: "FOUNDING50", Redemptions: 1}
	s.Require().NoError(s.codes.Save(ctx, code))
	redemption := &promo.Redemption{ID: id.NewRedemptionID(), AccountID: target.ID, CodeID: code.ID}
	s.Require().NoError(s.redemptions.Save(ctx, redemption))

	s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil).Times(2)
	gomock.InOrder(
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil),
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(nil, notFoundErr("account")),
	)
	s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
	s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
	s.mockIdentity.EXPECT().FindByID(gomock.Any(), target.ID).Return(nil, notFoundErr("identity"))

	result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OutcomeSuccess, result.Outcome())
	assert.True(s.T(), result.FoundingMember)

	_, err = s.service.DeleteAccount(ctx, actor.ID, target.ID)
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeNotFound))

	remaining, err := s.codes.FindByID(ctx, code.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), remaining.Redemptions)
}

func (s *ServiceSuite) TestDeleteAccountProfileAlreadyGone() {
	// A re-run after a partial failure: profile row vanished between fetch
	// and delete. Absent counts as removed.
	ctx := context.Background()
	actor := s.newAdmin(models.LevelSuper, "")
	target := s.newAgent("north")
	s.allowAuditEmits()

	s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
	s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
	s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(notFoundErr("account"))
	s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)

	result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), result.Profile)
	assert.Equal(s.T(), models.OutcomeSuccess, result.Outcome())
}

func (s *ServiceSuite) TestDeleteAccountActorLoadFailure() {
	ctx := context.Background()
	actorID := id.NewAccountID()

	s.T().Run("unknown actor is forbidden", func(t *testing.T) {
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actorID).Return(nil, notFoundErr("account"))
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.DeleteAccount(ctx, actorID, id.NewAccountID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("store failure surfaces", func(t *testing.T) {
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actorID).Return(nil, errors.New("db down"))

		_, err := s.service.DeleteAccount(ctx, actorID, id.NewAccountID())
		require.Error(t, err)
		assert.False(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

// brokenMediaListingStore delegates listing deletion but fails the media pass.
type brokenMediaListingStore struct {
	inner *store.InMemoryListingStore
}

func (b *brokenMediaListingStore) DeleteMediaByOwner(context.Context, id.AccountID) (int64, error) {
	return 0, errors.New("media store unavailable")
}

func (b *brokenMediaListingStore) DeleteByOwner(ctx context.Context, ownerID id.AccountID) (int64, error) {
	return b.inner.DeleteByOwner(ctx, ownerID)
}
