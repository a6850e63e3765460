// Package squad implements squad composition rules: role minimums, squad
// size and overseas caps, and the bid-eligibility checks built on them.
package squad

import (
	"fmt"

	"github.com/Jit017/iplauction/internal/domain"
)

const (
	// MaxSquadSize is the hard cap on squad membership.
	MaxSquadSize = 25

	// MaxOverseasPlayers is the cap on overseas squad members.
	MaxOverseasPlayers = 8
)

// OverseasCheck reports whether a player counts against the overseas cap.
type OverseasCheck func(*domain.Player) bool

// DefaultOverseasCheck uses the player's Overseas flag.
func DefaultOverseasCheck(p *domain.Player) bool {
	return p.Overseas
}

// CountByRole tallies players per role.
func CountByRole(players []*domain.Player) map[domain.Role]int {
	counts := make(map[domain.Role]int)
	for _, p := range players {
		counts[p.Role]++
	}
	return counts
}

// CountOverseas tallies players flagged by the overseas check.
func CountOverseas(players []*domain.Player, overseas OverseasCheck) int {
	n := 0
	for _, p := range players {
		if overseas(p) {
			n++
		}
	}
	return n
}

// RoleNeed describes how far a team is from its minimum for one role.
type RoleNeed struct {
	Needs    bool
	Current  int
	Required int
}

// RoleStatus computes the team's standing against its minimum for the role.
// Wicket-keeper batsmen count toward the wicket-keeper minimum.
func RoleStatus(t *domain.Team, role domain.Role) RoleNeed {
	counts := CountByRole(t.Squad)
	current := counts[role]
	if role == domain.RoleWicketKeeper {
		current += counts[domain.RoleWicketKeeperBatsman]
	}
	required := t.RoleNeeds[role]
	return RoleNeed{Needs: current < required, Current: current, Required: required}
}

// RemainingRoleSlots returns how many players of the role the team still
// needs to reach its minimum.
func RemainingRoleSlots(t *domain.Team, role domain.Role) int {
	s := RoleStatus(t, role)
	if s.Required <= s.Current {
		return 0
	}
	return s.Required - s.Current
}

// RemainingSlots returns how many more players the team may acquire.
func RemainingSlots(t *domain.Team) int {
	if len(t.Squad) >= MaxSquadSize {
		return 0
	}
	return MaxSquadSize - len(t.Squad)
}

// CanBid checks the squad-level constraints on acquiring the player:
// squad size and, for overseas players, the overseas cap. The returned
// reason is empty when the bid is allowed.
func CanBid(t *domain.Team, p *domain.Player, overseas OverseasCheck) (bool, string) {
	if len(t.Squad) >= MaxSquadSize {
		return false, fmt.Sprintf("squad is full (%d/%d players)", len(t.Squad), MaxSquadSize)
	}
	if overseas(p) && CountOverseas(t.Squad, overseas) >= MaxOverseasPlayers {
		return false, fmt.Sprintf("overseas player limit reached (%d)", MaxOverseasPlayers)
	}
	return true, ""
}

// ValidationResult holds the outcome of a full squad validation.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate checks a team's squad against the composition rules: size cap,
// overseas cap, and role minimums. Wicket-keeper batsmen satisfy both the
// batsman and wicket-keeper minimums.
func Validate(t *domain.Team, overseas OverseasCheck) ValidationResult {
	var errs, warns []string

	counts := CountByRole(t.Squad)
	overseasCount := CountOverseas(t.Squad, overseas)

	if len(t.Squad) > MaxSquadSize {
		errs = append(errs, fmt.Sprintf("squad size (%d) exceeds maximum (%d)", len(t.Squad), MaxSquadSize))
	}
	if overseasCount > MaxOverseasPlayers {
		errs = append(errs, fmt.Sprintf("overseas players (%d) exceed maximum (%d)", overseasCount, MaxOverseasPlayers))
	}

	batsmen := counts[domain.RoleBatsman] + counts[domain.RoleWicketKeeperBatsman]
	if min := t.RoleNeeds[domain.RoleBatsman]; batsmen < min {
		errs = append(errs, fmt.Sprintf("insufficient batsmen: %d (minimum %d required)", batsmen, min))
	}
	if min := t.RoleNeeds[domain.RoleBowler]; counts[domain.RoleBowler] < min {
		errs = append(errs, fmt.Sprintf("insufficient bowlers: %d (minimum %d required)", counts[domain.RoleBowler], min))
	}
	if min := t.RoleNeeds[domain.RoleAllRounder]; counts[domain.RoleAllRounder] < min {
		errs = append(errs, fmt.Sprintf("insufficient all-rounders: %d (minimum %d required)", counts[domain.RoleAllRounder], min))
	}
	keepers := counts[domain.RoleWicketKeeper] + counts[domain.RoleWicketKeeperBatsman]
	if min := t.RoleNeeds[domain.RoleWicketKeeper]; keepers < min {
		errs = append(errs, fmt.Sprintf("insufficient wicket-keepers: %d (minimum %d required)", keepers, min))
	}

	if len(t.Squad) >= MaxSquadSize-2 {
		warns = append(warns, fmt.Sprintf("squad size (%d) is close to maximum (%d)", len(t.Squad), MaxSquadSize))
	}
	if overseasCount >= MaxOverseasPlayers-1 {
		warns = append(warns, fmt.Sprintf("overseas players (%d) is close to maximum (%d)", overseasCount, MaxOverseasPlayers))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}
