package handler

import (
	"fmt"

	"doorway/internal/account/models"
	id "doorway/pkg/domain"
)

// SetVerificationRequest carries the badge action: "verify" or "revoke".
type SetVerificationRequest struct {
	Action string `json:"action"`
}

func (r SetVerificationRequest) verifiedState() (bool, error) {
	switch r.Action {
	case "verify":
		return true, nil
	case "revoke":
		return false, nil
	}
	return false, fmt.Errorf("action must be %q or %q", "verify", "revoke")
}

// VerificationResponse echoes a badge toggle: the resulting state and the
// actor who applied it.
type VerificationResponse struct {
	AccountID string `json:"accountId"`
	Verified  bool   `json:"verified"`
	ActorID   string `json:"actorId"`
}

// VerificationStatusResponse reports the badge state and whether the
// requesting actor is permitted to toggle it.
type VerificationStatusResponse struct {
	AccountID string `json:"accountId"`
	Verified  bool   `json:"verified"`
	CanToggle bool   `json:"canToggle"`
}

// DeletionResponse is the documented wire shape for a deletion run. The
// deleted block carries the per-resource counts plus the profile and
// identity booleans; specialStatus reports a released founding-tier
// redemption.
type DeletionResponse struct {
	Status        string        `json:"status"`
	AccountID     string        `json:"accountId"`
	Deleted       DeletedCounts `json:"deleted"`
	IdentityLayer string        `json:"identityLayer,omitempty"`
	SpecialStatus bool          `json:"specialStatus,omitempty"`
	OrphanCleanup bool          `json:"orphanCleanup,omitempty"`
	Failures      []StepFailure `json:"failures,omitempty"`
}

type DeletedCounts struct {
	ListingMedia    int64 `json:"listingMedia"`
	Listings        int64 `json:"listings"`
	Favorites       int64 `json:"favorites"`
	LegacyFavorites int64 `json:"legacyFavorites"`
	Drafts          int64 `json:"drafts"`
	Inquiries       int64 `json:"inquiries"`
	Profile         bool  `json:"profile"`
	Identity        bool  `json:"identity"`
}

type StepFailure struct {
	Resource string `json:"resource"`
	Error    string `json:"error"`
}

func toVerificationResponse(actorID id.AccountID, target *models.Account) *VerificationResponse {
	return &VerificationResponse{
		AccountID: target.ID.String(),
		Verified:  target.Verified,
		ActorID:   actorID.String(),
	}
}

func toDeletionResponse(result *models.DeletionResult) *DeletionResponse {
	resp := &DeletionResponse{
		Status:    string(result.Outcome()),
		AccountID: result.TargetID.String(),
		Deleted: DeletedCounts{
			ListingMedia:    result.StepDeleted(models.ResourceListingMedia),
			Listings:        result.StepDeleted(models.ResourceListings),
			Favorites:       result.StepDeleted(models.ResourceFavorites),
			LegacyFavorites: result.StepDeleted(models.ResourceLegacyFavorites),
			Drafts:          result.StepDeleted(models.ResourceDrafts),
			Inquiries:       result.StepDeleted(models.ResourceInquiries),
			Profile:         result.Profile,
			Identity:        result.Identity,
		},
		IdentityLayer: result.IdentityLayer,
		SpecialStatus: result.FoundingMember,
		OrphanCleanup: result.OrphanCleanup,
	}
	for _, step := range result.Steps {
		if !step.OK {
			resp.Failures = append(resp.Failures, StepFailure{Resource: step.Resource, Error: step.Err})
		}
	}
	return resp
}
