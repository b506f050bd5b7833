package models

import (
	"time"

	id "doorway/pkg/domain"
)

// Role identifies what kind of participant an account represents.
type Role string

const (
	RoleAgent    Role = "agent"
	RoleLandlord Role = "landlord"
	RoleFSBO     Role = "fsbo"
	RoleAdmin    Role = "admin"
)

// AdminLevel is the ordered privilege tier: none < basic < owner < super.
type AdminLevel string

const (
	LevelNone  AdminLevel = "none"
	LevelBasic AdminLevel = "basic"
	LevelOwner AdminLevel = "owner"
	LevelSuper AdminLevel = "super"
)

// Rank returns the ordinal position of the level for comparisons.
// Unknown levels rank below none.
func (l AdminLevel) Rank() int {
	switch l {
	case LevelNone:
		return 1
	case LevelBasic:
		return 2
	case LevelOwner:
		return 3
	case LevelSuper:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether this level meets or exceeds the other.
func (l AdminLevel) AtLeast(other AdminLevel) bool {
	return l.Rank() >= other.Rank()
}

// Account is the profile-store record for a platform participant.
// TerritoryID is empty for accounts not assigned to a territory.
type Account struct {
	ID             id.AccountID
	Email          string
	Role           Role
	AdminLevel     AdminLevel
	TerritoryID    string
	FoundingMember bool
	Verified       bool
	CreatedAt      time.Time
}

// IsAgent reports whether the verified-badge rules apply to this account.
func (a *Account) IsAgent() bool {
	return a.Role == RoleAgent
}
