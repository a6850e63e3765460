// Package setup covers the pre-auction phase: franchise data, team
// selection and retention choices, applied to the teams before the
// sequencer starts.
package setup

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
	"github.com/Jit017/iplauction/internal/retention"
)

// State is the current pre-auction selection.
type State struct {
	AuctionType    retention.AuctionType
	SelectedTeam   *domain.Team
	PreviousSquad  []*domain.Player
	Retained       []*domain.Player
	RetentionCost  decimal.Decimal
	RemainingPurse decimal.Decimal
}

// Manager walks one team through the pre-auction flow: pick a team,
// toggle retentions from its previous-season squad, then apply the
// result. Not safe for concurrent use.
type Manager struct {
	teams map[string]*domain.Team
	state State

	// lookup of previous-season squads per team
	previousSquads map[string][]*domain.Player
}

// NewManager builds a setup manager over the teams. previousSquads maps
// team ID to the squad that team ended last season with.
func NewManager(teams []*domain.Team, previousSquads map[string][]*domain.Player) *Manager {
	byID := make(map[string]*domain.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return &Manager{
		teams:          byID,
		previousSquads: previousSquads,
		state: State{
			AuctionType:    retention.AuctionMega,
			RetentionCost:  decimal.Zero,
			RemainingPurse: defaultPurse,
		},
	}
}

// State returns the current selection.
func (m *Manager) State() State {
	return m.state
}

// SetAuctionType switches between mega and mini auction rules.
func (m *Manager) SetAuctionType(t retention.AuctionType) {
	m.state.AuctionType = t
	m.recalculate()
}

// SelectTeam picks the team being configured and loads its previous
// squad. Clears any retention choices made so far.
func (m *Manager) SelectTeam(teamID string) error {
	team, ok := m.teams[teamID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	m.state.SelectedTeam = team
	m.state.PreviousSquad = m.previousSquads[teamID]
	m.state.Retained = nil
	m.state.RemainingPurse = team.Purse
	m.recalculate()
	return nil
}

// ToggleRetention adds or removes a previous-squad player from the
// retention list.
func (m *Manager) ToggleRetention(playerID string) error {
	var player *domain.Player
	for _, p := range m.state.PreviousSquad {
		if p.ID == playerID {
			player = p
			break
		}
	}
	if player == nil {
		return fmt.Errorf("player %s not found in previous squad", playerID)
	}

	for i, p := range m.state.Retained {
		if p.ID == playerID {
			m.state.Retained = append(m.state.Retained[:i], m.state.Retained[i+1:]...)
			m.recalculate()
			return nil
		}
	}
	m.state.Retained = append(m.state.Retained, player)
	m.recalculate()
	return nil
}

// recalculate refreshes cost and remaining purse. An over-limit retention
// set is still priced for display; RetentionError surfaces it instead.
func (m *Manager) recalculate() {
	cost, err := retention.ValidateRetentions(m.state.Retained, m.state.AuctionType)
	if err != nil {
		if breakdown, berr := retention.Cost(m.state.Retained, retention.AuctionMini); berr == nil {
			cost = breakdown.Total
		} else {
			cost = decimal.Zero
		}
	}
	m.state.RetentionCost = cost

	base := defaultPurse
	if m.state.SelectedTeam != nil {
		base = m.state.SelectedTeam.Purse
	}
	m.state.RemainingPurse = base.Sub(cost)
}

// RetentionError returns the current retention rule violation, or nil.
func (m *Manager) RetentionError() error {
	_, err := retention.ValidateRetentions(m.state.Retained, m.state.AuctionType)
	return err
}

// Breakdown itemizes the current retention cost.
func (m *Manager) Breakdown() (retention.CostBreakdown, error) {
	return retention.Cost(m.state.Retained, m.state.AuctionType)
}

// Complete reports whether a team is selected with a valid retention set.
func (m *Manager) Complete() bool {
	return m.state.SelectedTeam != nil && m.RetentionError() == nil
}

// Apply commits the setup to the selected team: retained players enter
// both the retained list and the squad, the retention cost is debited
// from the purse, and the overseas count is seeded.
func (m *Manager) Apply() (State, error) {
	if !m.Complete() {
		if err := m.RetentionError(); err != nil {
			return State{}, err
		}
		return State{}, errors.New("setup incomplete: no team selected")
	}

	team := m.state.SelectedTeam
	team.RetainedPlayers = append([]*domain.Player(nil), m.state.Retained...)
	team.Squad = append([]*domain.Player(nil), m.state.Retained...)
	team.Purse = m.state.RemainingPurse

	overseas := 0
	for _, p := range m.state.Retained {
		if p.Overseas {
			overseas++
		}
	}
	team.OverseasCount = overseas

	return m.state, nil
}
