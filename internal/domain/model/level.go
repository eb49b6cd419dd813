// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies which collection a level was loaded from.
type Category string

// Known categories. Order matters: aggregation scans speedrun first.
const (
	CategorySpeedrun Category = "speedrun"
	CategoryHard     Category = "hard"
)

// Categories lists every category in scan order.
func Categories() []Category {
	return []Category{CategorySpeedrun, CategoryHard}
}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategorySpeedrun:
		return CategorySpeedrun, nil
	case CategoryHard:
		return CategoryHard, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Level is one rated community-submitted level. Levels are never mutated
// after they are loaded.
type Level struct {
	ID        string
	Name      string
	Creator   string
	Category  Category
	Ratings   map[string]any // sub-score name -> decoded JSON value
	Schema    string         // rating schema version; empty means category default
	Created   time.Time
	Thumbnail string
	Link      string
}

// Profile carries display metadata for a creator.
type Profile struct {
	Name   string
	Avatar string
	Banner string
}
