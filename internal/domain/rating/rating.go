// Package rating computes level scores, rank tiers and creator points.
package rating

import (
	"encoding/json"
	"math"
)

// Tier thresholds, inclusive lower bounds.
const (
	normalThreshold    = 10
	epicThreshold      = 18
	legendaryThreshold = 23
	mythicThreshold    = 27

	pointsDivisor = 10

	// MinSubScore and MaxSubScore bound a well-formed sub-score.
	MinSubScore = 0
	MaxSubScore = 10
)

// Tier is the qualitative badge derived from a level's total rating.
type Tier string

// Rank tiers. TierNone means the level is unranked.
const (
	TierNone      Tier = ""
	TierNormal    Tier = "normal"
	TierEpic      Tier = "epic"
	TierLegendary Tier = "legendary"
	TierMythic    Tier = "mythic"
)

// Ranked reports whether t is a real tier.
func (t Tier) Ranked() bool { return t != TierNone }

// Rank classifies a total rating into a tier.
func Rank(total float64) Tier {
	switch {
	case total >= mythicThreshold:
		return TierMythic
	case total >= legendaryThreshold:
		return TierLegendary
	case total >= epicThreshold:
		return TierEpic
	case total >= normalThreshold:
		return TierNormal
	default:
		return TierNone
	}
}

// CreatorPoints converts a level's total rating into creator points.
// No rounding is applied.
func CreatorPoints(total float64) float64 {
	return total / pointsDivisor
}

// numeric converts a decoded sub-score into a finite float64.
func numeric(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
