package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"doorway/internal/account/models"
	"doorway/internal/audit"
	dErrors "doorway/pkg/domain-errors"
)

func (s *ServiceSuite) TestSetAgentVerification() {
	ctx := context.Background()

	s.T().Run("super admin verifies any agent", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		target := s.newAgent("south")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockProfiles.EXPECT().SetVerified(ctx, target.ID, true).Return(nil)

		var event audit.Event
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				event = e
				return nil
			})

		updated, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.Verified)
		assert.Equal(t, string(audit.EventAgentVerified), event.Action)
	})

	s.T().Run("revoke emits the revocation event", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		target := s.newAgent("south")
		target.Verified = true
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockProfiles.EXPECT().SetVerified(ctx, target.ID, false).Return(nil)

		var event audit.Event
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				event = e
				return nil
			})

		updated, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, false)
		require.NoError(t, err)
		assert.False(t, updated.Verified)
		assert.Equal(t, string(audit.EventAgentVerifyRevoked), event.Action)
	})

	s.T().Run("owner admin within own territory", func(t *testing.T) {
		actor := s.newAdmin(models.LevelOwner, "north")
		target := s.newAgent("north")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockProfiles.EXPECT().SetVerified(ctx, target.ID, true).Return(nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, true)
		require.NoError(t, err)
	})

	s.T().Run("owner admin cross-territory denied", func(t *testing.T) {
		actor := s.newAdmin(models.LevelOwner, "north")
		target := s.newAgent("south")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, true)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("non-agent target rejected", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		target := s.newAgent("north")
		target.Role = models.RoleLandlord
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, true)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("protected account is never a target", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		target := s.newAgent("north")
		target.Email = protectedEmail
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, true)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("non-admin actor denied", func(t *testing.T) {
		actor := s.newAgent("north")
		target := s.newAgent("north")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, true)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("missing target is not found", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		target := s.newAgent("north")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil).MaxTimes(1)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(nil, notFoundErr("account"))

		_, err := s.service.SetAgentVerification(ctx, actor.ID, target.ID, true)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestVerificationStatus() {
	ctx := context.Background()

	s.T().Run("reports the badge and toggle grant", func(t *testing.T) {
		actor := s.newAdmin(models.LevelSuper, "")
		target := s.newAgent("north")
		target.Verified = true
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)

		verified, canToggle, err := s.service.VerificationStatus(ctx, actor.ID, target.ID)
		require.NoError(t, err)
		assert.True(t, verified)
		assert.True(t, canToggle)
	})

	s.T().Run("cross-territory owner reads but cannot toggle", func(t *testing.T) {
		actor := s.newAdmin(models.LevelOwner, "north")
		target := s.newAgent("south")
		target.Verified = true
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)

		verified, canToggle, err := s.service.VerificationStatus(ctx, actor.ID, target.ID)
		require.NoError(t, err)
		assert.True(t, verified)
		assert.False(t, canToggle)
	})

	s.T().Run("non-admin actor cannot toggle", func(t *testing.T) {
		actor := s.newAgent("north")
		target := s.newAgent("north")
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), actor.ID).Return(actor, nil)
		s.mockProfiles.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)

		verified, canToggle, err := s.service.VerificationStatus(ctx, actor.ID, target.ID)
		require.NoError(t, err)
		assert.False(t, verified)
		assert.False(t, canToggle)
	})
}
