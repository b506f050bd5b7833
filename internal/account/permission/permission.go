// Package permission is the single home for capability and territory rules.
// Every gated operation (deletion, verification badges, settings) resolves
// its authorization here instead of re-deriving it in handlers.
package permission

import (
	"strings"

	"doorway/internal/account/models"
)

// Scope bounds a capability set to a slice of the account population.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeTerritory Scope = "territory"
	ScopeNone      Scope = "none"
)

// Policy carries the injected protected-identity value so the invariant is
// testable with fixtures rather than a hard-coded literal.
type Policy struct {
	ProtectedEmail string
}

// IsProtected reports whether an email designates the protected account.
// The protected account can never be approved as a deletion or mutation
// target, regardless of actor privilege.
func (p Policy) IsProtected(email string) bool {
	return email != "" && strings.EqualFold(email, p.ProtectedEmail)
}

// Set is the derived capability set for one actor. Computed fresh per
// request and never cached.
type Set struct {
	CanView   bool
	CanEdit   bool
	CanDelete bool

	Scope       Scope
	TerritoryID string
}

// AllowsAccount reports whether the set's scope covers an account assigned
// to the given territory.
func (s Set) AllowsAccount(territoryID string) bool {
	switch s.Scope {
	case ScopeAll:
		return true
	case ScopeTerritory:
		return s.TerritoryID != "" && s.TerritoryID == territoryID
	default:
		return false
	}
}

// Resolve computes the general capability set for an actor.
//
// The protected identity and super admins hold the full set over all
// territories. Owner admins hold view and edit within their own territory;
// delete is deliberately absent from the owner tier here - the deletion
// flow layers a narrower owner-within-territory grant on top via
// DeletionScope. Everyone else holds nothing.
func Resolve(policy Policy, email string, level models.AdminLevel, territoryID string) Set {
	if policy.IsProtected(email) || level == models.LevelSuper {
		return Set{CanView: true, CanEdit: true, CanDelete: true, Scope: ScopeAll}
	}
	if level == models.LevelOwner {
		return Set{CanView: true, CanEdit: true, Scope: ScopeTerritory, TerritoryID: territoryID}
	}
	return Set{Scope: ScopeNone}
}

// adminScope is the shared territory-scoping rule for privileged mutations:
// super admins act everywhere, owner admins act within their own territory.
func adminScope(actor *models.Account) (Scope, string) {
	switch actor.AdminLevel {
	case models.LevelSuper:
		return ScopeAll, ""
	case models.LevelOwner:
		if actor.TerritoryID == "" {
			return ScopeNone, ""
		}
		return ScopeTerritory, actor.TerritoryID
	default:
		return ScopeNone, ""
	}
}

// DeletionScope returns the scope under which an actor may delete accounts.
// This is the narrower grant the orchestrator applies on top of Resolve:
// owner admins may delete strictly within their own territory even though
// their general Set excludes delete.
func DeletionScope(actor *models.Account) (Scope, string) {
	return adminScope(actor)
}

// AgentManagementScope returns the scope under which an actor may toggle
// agent trust badges. Identical rule to DeletionScope; kept as a named
// entry point so each gated operation states its own requirement.
func AgentManagementScope(actor *models.Account) (Scope, string) {
	return adminScope(actor)
}
