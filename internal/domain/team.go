package domain

import (
	"github.com/shopspring/decimal"
)

// RoleNeeds maps each role to the minimum number of players a team wants.
type RoleNeeds map[Role]int

// Team represents a franchise competing in the auction.
// Purse and Squad are mutated only by the auction engine at sale time and
// by the setup flow when retentions are applied.
type Team struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Purse           decimal.Decimal `json:"purse"` // remaining budget in Crores
	Squad           []*Player       `json:"squad"`
	RetainedPlayers []*Player       `json:"retained_players"`
	RoleNeeds       RoleNeeds       `json:"role_needs"`
	Aggression      float64         `json:"aggression"` // 0-100 bidding propensity
	OverseasCount   int             `json:"overseas_count"`
}

// RoleCount returns the number of squad players with the given role.
func (t *Team) RoleCount(role Role) int {
	n := 0
	for _, p := range t.Squad {
		if p.Role == role {
			n++
		}
	}
	return n
}

// NeedsRole reports whether the team is still short of its minimum for the
// role. Wicket-keeper batsmen count toward the wicket-keeper minimum.
func (t *Team) NeedsRole(role Role) bool {
	current := t.RoleCount(role)
	if role == RoleWicketKeeper {
		current += t.RoleCount(RoleWicketKeeperBatsman)
	}
	return current < t.RoleNeeds[role]
}

// HoldsPlayer reports whether the player is in the squad or retained list.
func (t *Team) HoldsPlayer(id string) bool {
	for _, p := range t.Squad {
		if p.ID == id {
			return true
		}
	}
	for _, p := range t.RetainedPlayers {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CanAfford reports whether the purse covers the amount.
func (t *Team) CanAfford(amount decimal.Decimal) bool {
	return t.Purse.GreaterThanOrEqual(amount)
}
