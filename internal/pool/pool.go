// Package pool tracks which players are available for auction and guards
// against a player entering the auction twice.
package pool

import (
	"fmt"

	"github.com/Jit017/iplauction/internal/domain"
)

// Location names where a duplicate player was found.
type Location string

const (
	LocationSquad     Location = "squad"
	LocationRetained  Location = "retained"
	LocationAuctioned Location = "auctioned"
)

// DuplicateCheck is the outcome of a duplicate lookup for one player.
type DuplicateCheck struct {
	Duplicate bool
	Reason    string
	Location  Location
}

// RetainedIDs returns the union of retained player IDs across teams.
func RetainedIDs(teams []*domain.Team) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, team := range teams {
		for _, p := range team.RetainedPlayers {
			ids[p.ID] = struct{}{}
		}
	}
	return ids
}

// SquadIDs returns the union of squad player IDs across teams.
func SquadIDs(teams []*domain.Team) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, team := range teams {
		for _, p := range team.Squad {
			ids[p.ID] = struct{}{}
		}
	}
	return ids
}

// UnavailableIDs returns every player ID held by any team, retained or
// acquired.
func UnavailableIDs(teams []*domain.Team) map[string]struct{} {
	ids := RetainedIDs(teams)
	for id := range SquadIDs(teams) {
		ids[id] = struct{}{}
	}
	return ids
}

// IsRetained reports whether any team retains the player.
func IsRetained(p *domain.Player, teams []*domain.Team) bool {
	_, ok := RetainedIDs(teams)[p.ID]
	return ok
}

// IsInSquad reports whether any team already holds the player in its squad.
func IsInSquad(p *domain.Player, teams []*domain.Team) bool {
	_, ok := SquadIDs(teams)[p.ID]
	return ok
}

// IsAvailable reports whether the player may still go to auction.
func IsAvailable(p *domain.Player, teams []*domain.Team) bool {
	return !IsRetained(p, teams) && !IsInSquad(p, teams)
}

// Auctionable filters the pool down to players no team holds yet.
func Auctionable(players []*domain.Player, teams []*domain.Team) []*domain.Player {
	unavailable := UnavailableIDs(teams)
	out := make([]*domain.Player, 0, len(players))
	for _, p := range players {
		if _, held := unavailable[p.ID]; !held {
			out = append(out, p)
		}
	}
	return out
}

// CheckDuplicate looks the player up in retained lists, squads and the
// optional set of already-auctioned IDs, in that order.
func CheckDuplicate(p *domain.Player, teams []*domain.Team, auctioned map[string]struct{}) DuplicateCheck {
	if IsRetained(p, teams) {
		holder := "a team"
		if t := RetainingTeam(p, teams); t != nil {
			holder = t.Name
		}
		return DuplicateCheck{
			Duplicate: true,
			Reason:    fmt.Sprintf("player %q is already retained by %s", p.Name, holder),
			Location:  LocationRetained,
		}
	}

	if IsInSquad(p, teams) {
		holder := "a team"
		if t := OwningTeam(p, teams); t != nil {
			holder = t.Name
		}
		return DuplicateCheck{
			Duplicate: true,
			Reason:    fmt.Sprintf("player %q is already in the squad of %s", p.Name, holder),
			Location:  LocationSquad,
		}
	}

	if auctioned != nil {
		if _, done := auctioned[p.ID]; done {
			return DuplicateCheck{
				Duplicate: true,
				Reason:    fmt.Sprintf("player %q has already been auctioned", p.Name),
				Location:  LocationAuctioned,
			}
		}
	}

	return DuplicateCheck{}
}

// ValidateForAuction returns ErrPlayerUnavailable (wrapped with the
// duplicate reason) if the player may not enter the auction.
func ValidateForAuction(p *domain.Player, teams []*domain.Team, auctioned map[string]struct{}) error {
	if check := CheckDuplicate(p, teams, auctioned); check.Duplicate {
		return fmt.Errorf("%s: %w", check.Reason, domain.ErrPlayerUnavailable)
	}
	return nil
}

// Stats summarizes the auction pool.
type Stats struct {
	TotalPlayers       int `json:"total_players"`
	RetainedPlayers    int `json:"retained_players"`
	SquadPlayers       int `json:"squad_players"`
	AuctionablePlayers int `json:"auctionable_players"`
	UnavailablePlayers int `json:"unavailable_players"`
}

// PoolStats counts pool membership across players and teams.
func PoolStats(players []*domain.Player, teams []*domain.Team) Stats {
	unavailable := UnavailableIDs(teams)
	auctionable := 0
	for _, p := range players {
		if _, held := unavailable[p.ID]; !held {
			auctionable++
		}
	}
	return Stats{
		TotalPlayers:       len(players),
		RetainedPlayers:    len(RetainedIDs(teams)),
		SquadPlayers:       len(SquadIDs(teams)),
		AuctionablePlayers: auctionable,
		UnavailablePlayers: len(unavailable),
	}
}

// RetainingTeam returns the team that retained the player, or nil.
func RetainingTeam(p *domain.Player, teams []*domain.Team) *domain.Team {
	for _, team := range teams {
		for _, r := range team.RetainedPlayers {
			if r.ID == p.ID {
				return team
			}
		}
	}
	return nil
}

// OwningTeam returns the team holding the player in its squad, or nil.
func OwningTeam(p *domain.Player, teams []*domain.Team) *domain.Team {
	for _, team := range teams {
		for _, s := range team.Squad {
			if s.ID == p.ID {
				return team
			}
		}
	}
	return nil
}
