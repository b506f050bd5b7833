package models

import id "doorway/pkg/domain"

// CascadeOutcome is the aggregate status of a deletion run.
type CascadeOutcome string

const (
	OutcomeSuccess CascadeOutcome = "success"
	OutcomePartial CascadeOutcome = "partial"
	OutcomeFailed  CascadeOutcome = "failed"
)

// Resource names for cascade steps. The order they are recorded in a
// DeletionResult mirrors the order the cascade executed them.
const (
	ResourceListingMedia    = "listing_media"
	ResourceListings        = "listings"
	ResourceFavorites       = "favorites"
	ResourceLegacyFavorites = "legacy_favorites"
	ResourceDrafts          = "drafts"
	ResourceInquiries       = "inquiries"
)

// StepResult records the outcome of one cascade step.
type StepResult struct {
	Resource string
	Deleted  int64
	OK       bool
	Err      string
}

// DeletionResult is the per-run value object built up as the cascade
// progresses. It is created at the start of an orchestration run, mutated
// incrementally, returned once, and never persisted.
type DeletionResult struct {
	TargetID id.AccountID

	Steps    []StepResult
	Profile  bool
	Identity bool

	// IdentityLayer names the retry layer that resolved identity deletion,
	// or "exhausted" when every layer failed.
	IdentityLayer string

	// FoundingMember is set when the target carried the founding tier and
	// its promo redemption was released as a side effect.
	FoundingMember bool

	// OrphanCleanup marks the shortened path for identity-only records.
	OrphanCleanup bool
}

// NewDeletionResult starts an empty result for one orchestration run.
func NewDeletionResult(targetID id.AccountID) *DeletionResult {
	return &DeletionResult{TargetID: targetID}
}

// RecordStep appends the outcome of a dependent-resource step.
func (r *DeletionResult) RecordStep(resource string, deleted int64, err error) {
	step := StepResult{Resource: resource, Deleted: deleted, OK: err == nil}
	if err != nil {
		step.Err = err.Error()
	}
	r.Steps = append(r.Steps, step)
}

// StepDeleted returns the deleted count recorded for a resource, zero if the
// step was not recorded or failed.
func (r *DeletionResult) StepDeleted(resource string) int64 {
	for _, s := range r.Steps {
		if s.Resource == resource && s.OK {
			return s.Deleted
		}
	}
	return 0
}

// FailedSteps returns the number of dependent-resource steps that failed.
func (r *DeletionResult) FailedSteps() int {
	n := 0
	for _, s := range r.Steps {
		if !s.OK {
			n++
		}
	}
	return n
}

// Outcome aggregates the run status. Success requires both the profile and
// identity records confirmed removed (or already absent) and no failed
// dependent steps; losing both is a total failure. On the orphan path there
// was never a profile record, so only the identity removal counts.
func (r *DeletionResult) Outcome() CascadeOutcome {
	if r.OrphanCleanup {
		if r.Identity {
			return OutcomeSuccess
		}
		return OutcomeFailed
	}
	if !r.Profile && !r.Identity {
		return OutcomeFailed
	}
	if r.Profile && r.Identity && r.FailedSteps() == 0 {
		return OutcomeSuccess
	}
	return OutcomePartial
}
