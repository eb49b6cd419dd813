// Package ranking orders creators under each ranking criterion.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/levelboard/internal/domain/model"
)

// Entry is one row of a criterion's board.
type Entry struct {
	Position int
	Creator  string
	Value    float64
}

// Standings is the output of one ranking run.
type Standings struct {
	// Creators is a copy of the input with Positions filled in.
	Creators map[string]model.CreatorStats
	// Boards holds each criterion's order, best first.
	Boards map[model.Criterion][]Entry
}

// rule describes one criterion: who is eligible and what is compared.
type rule struct {
	criterion model.Criterion
	eligible  func(model.CreatorStats) bool
	key       func(model.CreatorStats) float64
}

var rules = []rule{ //nolint:gochecknoglobals // fixed criterion table
	{
		criterion: model.CriterionPoints,
		eligible:  func(model.CreatorStats) bool { return true },
		key:       func(s model.CreatorStats) float64 { return s.TotalPoints },
	},
	{
		criterion: model.CriterionTotal,
		eligible:  func(model.CreatorStats) bool { return true },
		key:       func(s model.CreatorStats) float64 { return float64(s.TotalLevels) },
	},
	{
		criterion: model.CriterionSpeedrun,
		eligible:  func(s model.CreatorStats) bool { return s.SpeedrunCount > 0 },
		key:       func(s model.CreatorStats) float64 { return float64(s.SpeedrunCount) },
	},
	{
		criterion: model.CriterionHard,
		eligible:  func(s model.CreatorStats) bool { return s.HardCount > 0 },
		key:       func(s model.CreatorStats) float64 { return float64(s.HardCount) },
	},
}

// Apply ranks creators under every criterion.
//
// Ordering is key DESC, then creator name ASC (byte order), so ties always
// resolve the same way. Ineligible creators get no position for that
// criterion. The input map and its values are not modified.
func Apply(creators map[string]model.CreatorStats) Standings {
	out := Standings{
		Creators: make(map[string]model.CreatorStats, len(creators)),
		Boards:   make(map[model.Criterion][]Entry, len(rules)),
	}
	for name, s := range creators {
		s.Positions = make(map[model.Criterion]int, len(rules))
		out.Creators[name] = s
	}

	for _, r := range rules {
		board := make([]Entry, 0, len(creators))
		for name, s := range creators {
			if r.eligible(s) {
				board = append(board, Entry{Creator: name, Value: r.key(s)})
			}
		}
		slices.SortFunc(board, compare)
		for i := range board {
			board[i].Position = i + 1
			out.Creators[board[i].Creator].Positions[r.criterion] = i + 1
		}
		out.Boards[r.criterion] = board
	}
	return out
}

func compare(a, b Entry) int {
	if a.Value != b.Value {
		return cmp.Compare(b.Value, a.Value)
	}
	return cmp.Compare(a.Creator, b.Creator)
}

// Top returns at most n entries of a board. n <= 0 returns the whole board.
func Top(board []Entry, n int) []Entry {
	if n <= 0 || n >= len(board) {
		return board
	}
	return board[:n]
}
