package service

import (
	"context"

	"doorway/internal/account/models"
)

// cascadeStep deletes one owned-resource class for the target account.
// Each step is independently fallible; a failure is recorded and the
// cascade moves on so a single broken store cannot wedge the whole run.
type cascadeStep struct {
	resource string
	run      func(ctx context.Context) (int64, error)
}

// cascadeManifest returns the ordered deletion plan for an account.
// Media before listings, favorites before drafts and inquiries; the
// order matters where one resource references another.
func (s *Service) cascadeManifest(target *models.Account) []cascadeStep {
	return []cascadeStep{
		{
			resource: models.ResourceListingMedia,
			run: func(ctx context.Context) (int64, error) {
				return s.listings.DeleteMediaByOwner(ctx, target.ID)
			},
		},
		{
			resource: models.ResourceListings,
			run: func(ctx context.Context) (int64, error) {
				return s.listings.DeleteByOwner(ctx, target.ID)
			},
		},
		{
			resource: models.ResourceFavorites,
			run: func(ctx context.Context) (int64, error) {
				return s.favorites.DeleteByAccount(ctx, target.ID)
			},
		},
		{
			resource: models.ResourceLegacyFavorites,
			run: func(ctx context.Context) (int64, error) {
				return s.favorites.DeleteLegacyByEmail(ctx, target.Email)
			},
		},
		{
			resource: models.ResourceDrafts,
			run: func(ctx context.Context) (int64, error) {
				return s.drafts.DeleteByAccount(ctx, target.ID)
			},
		},
		{
			resource: models.ResourceInquiries,
			run: func(ctx context.Context) (int64, error) {
				return s.inquiries.DeleteByAccount(ctx, target.ID)
			},
		},
	}
}

// runCascade executes every step in order, recording per-step outcomes
// on the result. Absent rows count as success; stores report zero.
func (s *Service) runCascade(ctx context.Context, target *models.Account, result *models.DeletionResult) {
	for _, step := range s.cascadeManifest(target) {
		deleted, err := step.run(ctx)
		result.RecordStep(step.resource, deleted, err)
		if err != nil {
			s.logger.ErrorContext(ctx, "cascade step failed",
				"resource", step.resource,
				"target_id", target.ID.String(),
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.IncrementCascadeFailure(step.resource)
			}
			continue
		}
		if deleted > 0 {
			s.logger.InfoContext(ctx, "cascade step completed",
				"resource", step.resource,
				"target_id", target.ID.String(),
				"deleted", deleted,
			)
		}
	}
}
