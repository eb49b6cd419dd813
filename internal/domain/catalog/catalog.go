// Package catalog implements level browsing: search, sort and lookup over the
// accepted levels of a snapshot.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/rating"
)

// SortOrder selects how a level list is ordered.
type SortOrder string

// Sort orders.
const (
	SortRecent SortOrder = "recent"
	SortRated  SortOrder = "rated"
)

// ParseSort validates a sort order. The empty string means SortRecent.
func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRecent:
		return SortRecent, nil
	case SortRated:
		return SortRated, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}

// Query narrows and orders a level list.
type Query struct {
	Search string
	Sort   SortOrder
}

// Item is a level together with its derived rating values. Average is the
// total divided by the number of schema fields, so levels rated on different
// schemas compare on one scale.
type Item struct {
	Level   model.Level
	Total   float64
	Average float64
	Tier    rating.Tier
	Points  float64
}

// Evaluate derives rating values for accepted levels. Levels that fail
// evaluation are skipped; the aggregator has already reported them.
func Evaluate(reg *rating.Registry, levels []model.Level) []Item {
	out := make([]Item, 0, len(levels))
	for _, lvl := range levels {
		ev, err := reg.Evaluate(lvl)
		if err != nil {
			continue
		}
		var avg float64
		if n := len(ev.Schema.Fields); n > 0 {
			avg = ev.Total / float64(n)
		}
		out = append(out, Item{Level: lvl, Total: ev.Total, Average: avg, Tier: ev.Tier, Points: ev.Points})
	}
	return out
}

// Filter returns the items whose name or creator contains q.Search
// (case-insensitive), ordered by q.Sort. Ties fall back to level ID. The
// input slice is not modified.
func Filter(items []Item, q Query) []Item {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	return order(filter(items, func(it Item) bool {
		return needle == "" ||
			strings.Contains(strings.ToLower(it.Level.Name), needle) ||
			strings.Contains(strings.ToLower(it.Level.Creator), needle)
	}), q.Sort)
}

// CreatorLevels returns the items created by creator (exact match). Search
// applies to the level name only.
func CreatorLevels(items []Item, creator string, q Query) []Item {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	return order(filter(items, func(it Item) bool {
		return it.Level.Creator == creator &&
			(needle == "" || strings.Contains(strings.ToLower(it.Level.Name), needle))
	}), q.Sort)
}

// Find looks up an item by level ID. The first match wins when an ID repeats.
func Find(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.Level.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ResolveProfile returns the display profile of a creator, filling a
// missing avatar or banner from defaults.
func ResolveProfile(profiles map[string]model.Profile, name string, defaults model.Profile) model.Profile {
	p := profiles[name]
	p.Name = name
	if p.Avatar == "" {
		p.Avatar = defaults.Avatar
	}
	if p.Banner == "" {
		p.Banner = defaults.Banner
	}
	return p
}

func filter(items []Item, keep func(Item) bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func order(items []Item, by SortOrder) []Item {
	slices.SortStableFunc(items, func(a, b Item) int {
		var c int
		if by == SortRated {
			c = cmp.Compare(b.Average, a.Average)
		} else {
			c = b.Level.Created.Compare(a.Level.Created)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Level.ID, b.Level.ID)
	})
	return items
}
