package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"doorway/internal/account/models"
	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

func (s *ServiceSuite) TestIdentityDeletionLadder() {
	ctx := context.Background()
	accountID := id.NewAccountID()
	conflictErr := fmt.Errorf("identity has active sessions: %w", sentinel.ErrConflict)

	s.T().Run("direct delete resolves", func(t *testing.T) {
		s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(nil)

		outcome := s.service.deleteIdentity(ctx, accountID)
		assert.True(t, outcome.deleted)
		assert.Equal(t, identityLayerDirect, outcome.layer)
	})

	s.T().Run("absent record counts as direct", func(t *testing.T) {
		s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(notFoundErr("identity"))

		outcome := s.service.deleteIdentity(ctx, accountID)
		assert.True(t, outcome.deleted)
		assert.Equal(t, identityLayerDirect, outcome.layer)
	})

	s.T().Run("race with concurrent removal verified absent", func(t *testing.T) {
		gomock.InOrder(
			s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(errors.New("write conflict")),
			s.mockIdentity.EXPECT().ExistsByID(ctx, accountID).Return(false, nil),
		)

		outcome := s.service.deleteIdentity(ctx, accountID)
		assert.True(t, outcome.deleted)
		assert.Equal(t, identityLayerAbsent, outcome.layer)
	})

	s.T().Run("session sweep unblocks delete", func(t *testing.T) {
		gomock.InOrder(
			s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(conflictErr),
			s.mockIdentity.EXPECT().ExistsByID(ctx, accountID).Return(true, nil),
			s.mockIdentity.EXPECT().InvalidateSessions(ctx, accountID).Return(int64(2), nil),
			s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(nil),
		)

		outcome := s.service.deleteIdentity(ctx, accountID)
		assert.True(t, outcome.deleted)
		assert.Equal(t, identityLayerSessionSweep, outcome.layer)
	})

	s.T().Run("force delete is the last resort", func(t *testing.T) {
		gomock.InOrder(
			s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(conflictErr),
			s.mockIdentity.EXPECT().ExistsByID(ctx, accountID).Return(true, nil),
			s.mockIdentity.EXPECT().InvalidateSessions(ctx, accountID).Return(int64(0), nil),
			s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(conflictErr),
			s.mockIdentity.EXPECT().ForceDelete(ctx, accountID).Return(nil),
		)

		outcome := s.service.deleteIdentity(ctx, accountID)
		assert.True(t, outcome.deleted)
		assert.Equal(t, identityLayerForced, outcome.layer)
	})

	s.T().Run("every layer exhausted", func(t *testing.T) {
		storeDown := errors.New("identity store down")
		gomock.InOrder(
			s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(storeDown),
			s.mockIdentity.EXPECT().ExistsByID(ctx, accountID).Return(false, storeDown),
			s.mockIdentity.EXPECT().InvalidateSessions(ctx, accountID).Return(int64(0), storeDown),
			s.mockIdentity.EXPECT().Delete(ctx, accountID).Return(storeDown),
			s.mockIdentity.EXPECT().ForceDelete(ctx, accountID).Return(storeDown),
		)

		outcome := s.service.deleteIdentity(ctx, accountID)
		assert.False(t, outcome.deleted)
		assert.Equal(t, identityLayerExhausted, outcome.layer)
		assert.Error(t, outcome.err)
	})
}

func (s *ServiceSuite) TestIdentityLadderDrivesOutcome() {
	// A session conflict on the identity step must not fail the run; the
	// sweep layer resolves it and the run still aggregates to success.
	ctx := context.Background()
	actor := s.newAdmin(models.LevelSuper, "")
	target := s.newAgent("north")
	conflictErr := fmt.Errorf("identity has active sessions: %w", sentinel.ErrConflict)
	s.allowAuditEmits()

	s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
	s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
	s.mockProfiles.EXPECT().Delete(gomock.Any(), target.ID).Return(nil)
	gomock.InOrder(
		s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(conflictErr),
		s.mockIdentity.EXPECT().ExistsByID(gomock.Any(), target.ID).Return(true, nil),
		s.mockIdentity.EXPECT().InvalidateSessions(gomock.Any(), target.ID).Return(int64(1), nil),
		s.mockIdentity.EXPECT().Delete(gomock.Any(), target.ID).Return(nil),
	)

	result, err := s.service.DeleteAccount(ctx, actor.ID, target.ID)
	s.Require().NoError(err)
	s.Assert().Equal(models.OutcomeSuccess, result.Outcome())
	s.Assert().Equal(identityLayerSessionSweep, result.IdentityLayer)
}
