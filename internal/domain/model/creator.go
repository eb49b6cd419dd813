package model

// Criterion names one of the independent creator orderings.
type Criterion string

// Ranking criteria.
const (
	CriterionPoints   Criterion = "points"
	CriterionTotal    Criterion = "total"
	CriterionSpeedrun Criterion = "speedrun"
	CriterionHard     Criterion = "hard"
)

// Criteria lists every criterion in a fixed order.
func Criteria() []Criterion {
	return []Criterion{CriterionPoints, CriterionTotal, CriterionSpeedrun, CriterionHard}
}

// ParseCriterion validates a criterion name.
func ParseCriterion(s string) (Criterion, bool) {
	for _, c := range Criteria() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// CreatorStats is the derived aggregate for one creator.
//
// TotalLevels == SpeedrunCount + HardCount == len(Levels). A criterion
// missing from Positions means the creator is unranked under it.
type CreatorStats struct {
	Name          string
	Levels        []Level
	SpeedrunCount int
	HardCount     int
	TotalLevels   int
	TotalPoints   float64
	Positions     map[Criterion]int
}

// Position returns the 1-based position under c, or false when unranked.
func (s CreatorStats) Position(c Criterion) (int, bool) {
	p, ok := s.Positions[c]
	if !ok || p < 1 {
		return 0, false
	}
	return p, true
}
