package bidding

// Band buckets a player's rating; it drives every band-dependent parameter
// of the bidding policy.
type Band int

const (
	BandConservative Band = iota // rating < 70
	BandStandard                 // 70-80
	BandPremium                  // 80-90
	BandElite                    // > 90
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandElite:
		return "elite"
	case BandPremium:
		return "premium"
	case BandStandard:
		return "standard"
	default:
		return "conservative"
	}
}

// BandFor classifies a rating.
func BandFor(rating float64) Band {
	switch {
	case rating > 90:
		return BandElite
	case rating >= 80:
		return BandPremium
	case rating >= 70:
		return BandStandard
	default:
		return BandConservative
	}
}

// bandParams hold the per-band tuning for the probability model and the
// stop circuit breaker. Higher bands stay contested longer: higher base
// probability, later and gentler decay, more consecutive bids allowed.
type bandParams struct {
	baseProbability  float64 // starting bid probability
	aggressionWeight float64 // sensitivity to team aggression
	decayStart       float64 // price/max ratio where decay begins
	decayRate        float64 // decay exponent input; lower decays gentler
	maxConsecutive   int     // stop after this many bids in a row
	stopRatio        float64 // stop once price/max reaches this ratio
	stopGap          float64 // stop once max-price gap (Cr) is at most this
}

var bandTable = map[Band]bandParams{
	BandElite: {
		baseProbability:  0.7,
		aggressionWeight: 1.5,
		decayStart:       0.85,
		decayRate:        0.3,
		maxConsecutive:   5,
		stopRatio:        0.95,
		stopGap:          0.5,
	},
	BandPremium: {
		baseProbability:  0.5,
		aggressionWeight: 1.2,
		decayStart:       0.80,
		decayRate:        0.5,
		maxConsecutive:   4,
		stopRatio:        0.90,
		stopGap:          0.25,
	},
	BandStandard: {
		baseProbability:  0.35,
		aggressionWeight: 1.0,
		decayStart:       0.75,
		decayRate:        0.7,
		maxConsecutive:   3,
		stopRatio:        0.85,
		stopGap:          0.25,
	},
	BandConservative: {
		baseProbability:  0.2,
		aggressionWeight: 0.8,
		decayStart:       0.70,
		decayRate:        0.9,
		maxConsecutive:   2,
		stopRatio:        0.80,
		stopGap:          0.25,
	},
}
