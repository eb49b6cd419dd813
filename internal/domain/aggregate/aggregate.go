// Package aggregate groups rated levels by creator and derives per-creator
// counts and points.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/rating"
)

// Result is the output of one aggregation run. Every call returns fresh maps
// and slices; nothing is shared with a previous Result.
type Result struct {
	// Creators maps creator name (exact, case-sensitive) to stats.
	// Positions are left empty for the ranking stage.
	Creators map[string]model.CreatorStats
	// Accepted holds the levels that contributed, per category, in input order.
	Accepted map[model.Category][]model.Level
	// Diagnostics lists excluded records (errors) and kept-but-suspect
	// records (warnings) in scan order.
	Diagnostics []Diagnostic
}

// Build aggregates speedrun levels followed by hard levels.
//
// Each level is stamped with the category of the collection it came from. A
// malformed level is excluded and reported; the rest of the batch is still
// processed. Points are accumulated in input order so repeated runs over the
// same input produce identical floating-point totals.
func Build(reg *rating.Registry, speedrun, hard []model.Level) Result {
	res := Result{
		Creators: make(map[string]model.CreatorStats),
		Accepted: map[model.Category][]model.Level{
			model.CategorySpeedrun: make([]model.Level, 0, len(speedrun)),
			model.CategoryHard:     make([]model.Level, 0, len(hard)),
		},
	}
	acc := make(map[string]*model.CreatorStats)

	scan := func(category model.Category, levels []model.Level) {
		seenIDs := make(map[string]struct{}, len(levels))
		for i, lvl := range levels {
			lvl.Category = category

			points, warns, err := evaluate(reg, lvl)
			if err != nil {
				res.Diagnostics = append(res.Diagnostics, NewDiagnostic(SeverityError, lvl, i, err))
				continue
			}
			for _, w := range warns {
				res.Diagnostics = append(res.Diagnostics, NewDiagnostic(SeverityWarning, lvl, i, w))
			}
			if _, dup := seenIDs[lvl.ID]; dup {
				res.Diagnostics = append(res.Diagnostics, NewDiagnostic(SeverityWarning, lvl, i, ErrDuplicateID))
			}
			seenIDs[lvl.ID] = struct{}{}

			stats, ok := acc[lvl.Creator]
			if !ok {
				stats = &model.CreatorStats{Name: lvl.Creator}
				acc[lvl.Creator] = stats
			}
			stats.Levels = append(stats.Levels, lvl)
			switch category {
			case model.CategorySpeedrun:
				stats.SpeedrunCount++
			case model.CategoryHard:
				stats.HardCount++
			}
			stats.TotalPoints += points
			res.Accepted[category] = append(res.Accepted[category], lvl)
		}
	}

	scan(model.CategorySpeedrun, speedrun)
	scan(model.CategoryHard, hard)

	for name, stats := range acc {
		stats.TotalLevels = stats.SpeedrunCount + stats.HardCount
		res.Creators[name] = *stats
	}
	return res
}

// evaluate validates one level and returns its creator points plus any
// warnings. A non-nil error means the level must be excluded.
func evaluate(reg *rating.Registry, lvl model.Level) (float64, []error, error) {
	if strings.TrimSpace(lvl.Creator) == "" {
		return 0, nil, ErrMissingCreator
	}
	schema, err := reg.Resolve(lvl)
	if err != nil {
		return 0, nil, err
	}
	total, err := schema.Total(lvl.Ratings)
	if err != nil {
		return 0, nil, err
	}
	var warns []error
	if fields := schema.OutOfRange(lvl.Ratings); len(fields) > 0 {
		warns = append(warns, fmt.Errorf("%w: %s", ErrRatingOutOfRange, strings.Join(fields, ", ")))
	}
	return rating.CreatorPoints(total), warns, nil
}
