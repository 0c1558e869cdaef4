package challenge

import "time"

// Tier is a performance bracket derived from total time.
type Tier string

const (
	TierGold   Tier = "GOLD"
	TierSilver Tier = "SILVER"
	TierBronze Tier = "BRONZE"
	TierFail   Tier = "FAIL"
)

// Classify returns the tier for a total time (elapsed plus penalty).
// Boundaries are inclusive: exactly GoldTime minutes is still gold.
func Classify(total time.Duration, c Challenge) Tier {
	m := total.Minutes()
	switch {
	case m <= c.GoldTime:
		return TierGold
	case m <= c.SilverTime:
		return TierSilver
	case m <= c.BronzeTime:
		return TierBronze
	default:
		return TierFail
	}
}

// TimeToNextTier returns how long until total crosses the cutoff of its
// current tier. It is zero once the challenge has failed and never negative.
func TimeToNextTier(total time.Duration, c Challenge) time.Duration {
	var cutoff float64
	switch Classify(total, c) {
	case TierGold:
		cutoff = c.GoldTime
	case TierSilver:
		cutoff = c.SilverTime
	case TierBronze:
		cutoff = c.BronzeTime
	default:
		return 0
	}

	left := minutes(cutoff) - total
	if left < 0 {
		return 0
	}
	return left
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
