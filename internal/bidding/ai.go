// Package bidding implements the autonomous bidding policy: a short-circuit
// eligibility chain followed by a probabilistic raise decision tuned per
// rating band, plus an independent stop circuit breaker.
package bidding

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
	"github.com/Jit017/iplauction/internal/pricing"
	"github.com/Jit017/iplauction/internal/squad"
)

const (
	// lowPurseFloor: teams conserve funds once the purse drops below this.
	lowPurseFloor = 10
	// reserveFloor: a bid must not leave the purse below this.
	reserveFloor = 5
	// starRating: above this rating aggression gets boosted.
	starRating = 85
	// largeSquadSize: past this size a team stops chasing filled roles.
	largeSquadSize = 20
)

var (
	lowPurseFloorDec = decimal.NewFromInt(lowPurseFloor)
	reserveFloorDec  = decimal.NewFromInt(reserveFloor)
	ceilingGapDec    = decimal.NewFromInt(2) // minimum absolute gap to max price
)

// Config tunes the autonomous bidding policy.
type Config struct {
	// MinRatingThreshold is the rating below which a team never bids.
	MinRatingThreshold float64
	// BaseBidProbability is the base probability for the legacy
	// (non-band) model.
	BaseBidProbability float64
	// UseRatingBands selects the band-based probability model.
	UseRatingBands bool
}

// DefaultConfig returns the standard policy tuning.
func DefaultConfig() Config {
	return Config{
		MinRatingThreshold: 50,
		BaseBidProbability: 0.3,
		UseRatingBands:     true,
	}
}

// Result is the outcome of one bidding decision.
type Result struct {
	ShouldBid bool
	Amount    decimal.Decimal // valid only when ShouldBid is true
	Reason    string
}

func pass(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Decider makes autonomous bidding decisions. The random source is
// injectable so tests can pin the draw.
type Decider struct {
	cfg Config
	rng func() float64
}

// NewDecider returns a Decider using the package-level random source.
func NewDecider(cfg Config) *Decider {
	return &Decider{cfg: cfg, rng: rand.Float64}
}

// NewDeciderWithRand returns a Decider with a fixed random source.
func NewDeciderWithRand(cfg Config, rng func() float64) *Decider {
	return &Decider{cfg: cfg, rng: rng}
}

// Decide combines the stop circuit breaker with the raise decision. The
// stop check runs first; only teams that have not dropped out consult the
// probability model.
func (d *Decider) Decide(team *domain.Team, p *domain.Player, currentBid decimal.Decimal, consecutiveBids int) Result {
	if ShouldStop(team, p, currentBid, consecutiveBids) {
		return pass("team %s dropped out (band: %s)", team.Name, BandFor(p.Rating))
	}
	return d.decide(team, p, currentBid)
}

// decide runs the eligibility chain and, if every check passes, the
// probabilistic raise decision. The first failing check wins.
func (d *Decider) decide(team *domain.Team, p *domain.Player, currentBid decimal.Decimal) Result {
	if currentBid.GreaterThanOrEqual(p.MaxPrice) {
		return pass("current bid %s is at or above max price %s", currentBid, p.MaxPrice)
	}

	nextBid := pricing.NextBid(currentBid)
	if !team.CanAfford(nextBid) {
		return pass("insufficient purse: required %s, available %s", nextBid, team.Purse)
	}

	// Deliberate early exit near the ceiling so bidding tapers off instead
	// of grinding to the exact max price.
	gap := p.MaxPrice.Sub(currentBid)
	gapPct := gap.Div(p.MaxPrice).InexactFloat64() * 100
	if gapPct < 5 || gap.LessThan(ceilingGapDec) {
		return pass("too close to max price: gap %s Cr (%.1f%%)", gap, gapPct)
	}

	if team.Purse.LessThan(lowPurseFloorDec) {
		return pass("purse too low (%s Cr), conserving funds", team.Purse)
	}
	if team.Purse.Sub(nextBid).LessThan(reserveFloorDec) {
		return pass("bid would leave insufficient purse (%s Cr remaining)", team.Purse.Sub(nextBid))
	}

	if p.Rating < d.cfg.MinRatingThreshold {
		return pass("rating %.0f below team threshold %.0f", p.Rating, d.cfg.MinRatingThreshold)
	}

	if len(team.Squad) >= squad.MaxSquadSize {
		return pass("squad is full (%d/%d players)", len(team.Squad), squad.MaxSquadSize)
	}

	// A filled role plus a large squad ends interest, except for near-elite
	// players, which remain worth an opportunistic upgrade.
	roleNeeded := team.NeedsRole(p.Role)
	if !roleNeeded && len(team.Squad) >= largeSquadSize && p.Rating <= starRating {
		return pass("role %s already filled and squad is large (%d/%d)",
			p.Role, len(team.Squad), squad.MaxSquadSize)
	}

	if nextBid.GreaterThan(p.MaxPrice) {
		return pass("next bid %s would exceed max price %s", nextBid, p.MaxPrice)
	}

	aggression := effectiveAggression(team.Aggression, p.Rating)

	var probability float64
	if d.cfg.UseRatingBands {
		probability = bandProbability(team, p, currentBid, aggression)
	} else {
		probability = d.legacyProbability(p, currentBid, aggression)
	}

	if draw := d.rng(); draw > probability {
		return pass("bid probability %.1f%% not met (band: %s, draw: %.1f%%)",
			probability*100, BandFor(p.Rating), draw*100)
	}

	return Result{
		ShouldBid: true,
		Amount:    nextBid,
		Reason: fmt.Sprintf("bidding %s (aggression: %.0f, probability: %.1f%%, band: %s)",
			nextBid, aggression, probabilityClamp(probability)*100, BandFor(p.Rating)),
	}
}

// effectiveAggression boosts aggression up to 30% for star players, scaled
// linearly with the rating above the star threshold and capped at 100.
func effectiveAggression(aggression, rating float64) float64 {
	if rating <= starRating {
		return aggression
	}
	boost := 1 + ((rating-starRating)/(100-starRating))*0.3
	return math.Min(100, aggression*boost)
}

// bandProbability computes the raise probability under the rating-band
// model, then applies the situational adjustments and ceiling decay.
func bandProbability(team *domain.Team, p *domain.Player, currentBid decimal.Decimal, aggression float64) float64 {
	params := bandTable[BandFor(p.Rating)]
	priceRatio := currentBid.Div(p.MaxPrice).InexactFloat64()

	probability := params.baseProbability * (1 + (aggression/100-0.5)*params.aggressionWeight)

	// Encourage early engagement while the bid is near the opening price.
	openingBand := p.BasePrice.Mul(decimal.RequireFromString("1.1"))
	if currentBid.LessThanOrEqual(openingBand) {
		probability *= 1.2
	}

	if p.IsCapped {
		probability *= 1.15
	}

	probability *= 0.8 + 0.2*p.Popularity/100

	// A filled role reduces interest without eliminating it; upgrades for
	// star-rated players keep more of their probability.
	if !team.NeedsRole(p.Role) {
		if p.Rating > starRating {
			probability *= 0.8
		} else {
			probability *= 0.6
		}
	}

	// Exponential decay toward the ceiling: once the ratio crosses the
	// band's decay start, probability falls away, gently for elite players
	// and steeply for conservative ones.
	if priceRatio >= params.decayStart {
		progress := (priceRatio - params.decayStart) / (1 - params.decayStart)
		probability *= math.Pow(1-progress, 1/params.decayRate)
	}

	return probabilityClamp(probability)
}

// legacyProbability is the pre-band model, kept selectable via config.
func (d *Decider) legacyProbability(p *domain.Player, currentBid decimal.Decimal, aggression float64) float64 {
	probability := (aggression / 100) * d.cfg.BaseBidProbability
	probability *= 0.5 + 0.5*p.Rating/100
	if p.IsCapped {
		probability *= 1.2
	}
	probability *= 0.7 + 0.3*p.Popularity/100

	priceRatio := currentBid.Div(p.MaxPrice).InexactFloat64()
	if priceRatio > 0.8 {
		probability *= 1 - (priceRatio-0.8)*2
	}
	return probabilityClamp(probability)
}

func probabilityClamp(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}

// ShouldStop is the circuit breaker that drops a team out of contention
// for the current player, independent of the raise probability: too many
// consecutive bids, price too close to the ceiling (by ratio or absolute
// gap), or a depleted purse.
func ShouldStop(team *domain.Team, p *domain.Player, currentBid decimal.Decimal, consecutiveBids int) bool {
	params := bandTable[BandFor(p.Rating)]

	if consecutiveBids >= params.maxConsecutive {
		return true
	}

	priceRatio := currentBid.Div(p.MaxPrice).InexactFloat64()
	if priceRatio >= params.stopRatio {
		return true
	}

	if team.Purse.LessThan(lowPurseFloorDec) {
		return true
	}

	gap := p.MaxPrice.Sub(currentBid)
	if gap.LessThanOrEqual(decimal.NewFromFloat(params.stopGap)) {
		return true
	}

	return false
}
