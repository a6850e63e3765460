package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Role classifies a player for squad composition purposes.
type Role string

const (
	RoleBatsman             Role = "Batsman"
	RoleBowler              Role = "Bowler"
	RoleAllRounder          Role = "All-rounder"
	RoleWicketKeeper        Role = "Wicket-keeper"
	RoleWicketKeeperBatsman Role = "Wicket-keeper Batsman"
)

// ParseRole maps a raw role string to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBatsman, RoleBowler, RoleAllRounder, RoleWicketKeeper, RoleWicketKeeperBatsman:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidPlayer, s)
}

// Player is the unit being auctioned. All prices are in Crores.
// A Player is immutable once created; the engine only reads it.
type Player struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       Role            `json:"role"`
	BasePrice  decimal.Decimal `json:"base_price"` // opening bid
	MinPrice   decimal.Decimal `json:"min_price"`  // floor
	MaxPrice   decimal.Decimal `json:"max_price"`  // ceiling
	Rating     float64         `json:"rating"`     // 0-100
	Popularity float64         `json:"popularity"` // 0-100
	IsCapped   bool            `json:"is_capped"`  // has played internationally
	Overseas   bool            `json:"overseas"`
}

// Validate checks the price invariant 0 < min <= base <= max.
func (p *Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidPlayer)
	}
	if !p.MinPrice.IsPositive() {
		return fmt.Errorf("%w: player %s min price %s must be positive",
			ErrInvalidPlayer, p.ID, p.MinPrice)
	}
	if p.BasePrice.LessThan(p.MinPrice) {
		return fmt.Errorf("%w: player %s base price %s below min price %s",
			ErrInvalidPlayer, p.ID, p.BasePrice, p.MinPrice)
	}
	if p.MaxPrice.LessThan(p.BasePrice) {
		return fmt.Errorf("%w: player %s max price %s below base price %s",
			ErrInvalidPlayer, p.ID, p.MaxPrice, p.BasePrice)
	}
	if p.Rating < 0 || p.Rating > 100 {
		return fmt.Errorf("%w: player %s rating %.1f out of range", ErrInvalidPlayer, p.ID, p.Rating)
	}
	return nil
}
