package squad

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
)

func player(id string, role domain.Role, overseas bool) *domain.Player {
	return &domain.Player{
		ID:        id,
		Name:      id,
		Role:      role,
		MinPrice:  decimal.NewFromInt(1),
		BasePrice: decimal.NewFromInt(1),
		MaxPrice:  decimal.NewFromInt(10),
		Rating:    75,
		Overseas:  overseas,
	}
}

func team(squad ...*domain.Player) *domain.Team {
	return &domain.Team{
		ID:    "t1",
		Name:  "Test XI",
		Purse: decimal.NewFromInt(100),
		Squad: squad,
		RoleNeeds: domain.RoleNeeds{
			domain.RoleBatsman:      2,
			domain.RoleBowler:       2,
			domain.RoleAllRounder:   1,
			domain.RoleWicketKeeper: 1,
		},
	}
}

func TestRoleStatus_WicketKeeperBatsmanDualCount(t *testing.T) {
	tm := team(player("wkb", domain.RoleWicketKeeperBatsman, false))

	// A wicket-keeper batsman satisfies the wicket-keeper minimum.
	if s := RoleStatus(tm, domain.RoleWicketKeeper); s.Needs {
		t.Errorf("RoleStatus(wicket-keeper) = %+v, want satisfied", s)
	}

	// But the batsman minimum is still tracked on the plain batsman role.
	if s := RoleStatus(tm, domain.RoleBatsman); !s.Needs {
		t.Errorf("RoleStatus(batsman) = %+v, want needed", s)
	}
}

func TestRemainingRoleSlots(t *testing.T) {
	tm := team(player("b1", domain.RoleBatsman, false))
	if got := RemainingRoleSlots(tm, domain.RoleBatsman); got != 1 {
		t.Errorf("RemainingRoleSlots = %d, want 1", got)
	}
	tm.Squad = append(tm.Squad, player("b2", domain.RoleBatsman, false), player("b3", domain.RoleBatsman, false))
	if got := RemainingRoleSlots(tm, domain.RoleBatsman); got != 0 {
		t.Errorf("RemainingRoleSlots over minimum = %d, want 0", got)
	}
}

func TestCanBid(t *testing.T) {
	t.Run("full squad", func(t *testing.T) {
		var squad []*domain.Player
		for i := 0; i < MaxSquadSize; i++ {
			squad = append(squad, player(string(rune('a'+i)), domain.RoleBatsman, false))
		}
		ok, reason := CanBid(team(squad...), player("new", domain.RoleBowler, false), DefaultOverseasCheck)
		if ok {
			t.Fatal("CanBid on full squad = true, want false")
		}
		if !strings.Contains(reason, "full") {
			t.Errorf("reason = %q, want mention of full squad", reason)
		}
	})

	t.Run("overseas cap", func(t *testing.T) {
		var squad []*domain.Player
		for i := 0; i < MaxOverseasPlayers; i++ {
			squad = append(squad, player(string(rune('a'+i)), domain.RoleBowler, true))
		}
		tm := team(squad...)

		ok, reason := CanBid(tm, player("ovr", domain.RoleBatsman, true), DefaultOverseasCheck)
		if ok {
			t.Fatal("CanBid past overseas cap = true, want false")
		}
		if !strings.Contains(reason, "overseas") {
			t.Errorf("reason = %q, want mention of overseas limit", reason)
		}

		// Domestic players are unaffected by the overseas cap.
		if ok, _ := CanBid(tm, player("dom", domain.RoleBatsman, false), DefaultOverseasCheck); !ok {
			t.Error("CanBid for domestic player = false, want true")
		}
	})
}

func TestValidate(t *testing.T) {
	tm := team(
		player("b1", domain.RoleBatsman, false),
		player("b2", domain.RoleBatsman, false),
		player("bw1", domain.RoleBowler, false),
		player("bw2", domain.RoleBowler, false),
		player("ar1", domain.RoleAllRounder, false),
		player("wk1", domain.RoleWicketKeeper, false),
	)
	res := Validate(tm, DefaultOverseasCheck)
	if !res.Valid {
		t.Fatalf("Validate = %+v, want valid", res)
	}

	// Removing the bowlers makes the squad invalid.
	tm.Squad = tm.Squad[:2]
	res = Validate(tm, DefaultOverseasCheck)
	if res.Valid {
		t.Fatal("Validate with missing roles = valid, want invalid")
	}
	if len(res.Errors) == 0 {
		t.Error("expected validation errors")
	}
}
