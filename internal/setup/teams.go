package setup

import (
	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
)

// defaultPurse is the full purse every franchise starts with, in Crores.
var defaultPurse = decimal.NewFromInt(100)

// DefaultRoleNeeds is the minimum squad composition every franchise
// starts from. The wicket-keeper-batsman entry is zero because those
// players count toward the wicket-keeper requirement.
func DefaultRoleNeeds() domain.RoleNeeds {
	return domain.RoleNeeds{
		domain.RoleBatsman:             6,
		domain.RoleBowler:              6,
		domain.RoleAllRounder:          2,
		domain.RoleWicketKeeper:        1,
		domain.RoleWicketKeeperBatsman: 0,
	}
}

type franchise struct {
	id         string
	name       string
	aggression float64
}

var franchises = []franchise{
	{"mi", "Mumbai Indians", 70},
	{"csk", "Chennai Super Kings", 65},
	{"rcb", "Royal Challengers Bangalore", 75},
	{"kkr", "Kolkata Knight Riders", 60},
	{"dc", "Delhi Capitals", 65},
	{"srh", "Sunrisers Hyderabad", 68},
	{"rr", "Rajasthan Royals", 72},
	{"pbks", "Punjab Kings", 70},
	{"gt", "Gujarat Titans", 68},
	{"lsg", "Lucknow Super Giants", 70},
}

// DefaultTeams returns fresh Team records for the ten franchises, each
// with a full purse and empty squad.
func DefaultTeams() []*domain.Team {
	out := make([]*domain.Team, 0, len(franchises))
	for _, f := range franchises {
		out = append(out, &domain.Team{
			ID:         f.id,
			Name:       f.name,
			Purse:      defaultPurse,
			Aggression: f.aggression,
			RoleNeeds:  DefaultRoleNeeds(),
		})
	}
	return out
}
