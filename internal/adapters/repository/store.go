// Package repository holds the published catalog snapshot and answers reads
// against it.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/levelboard/internal/domain/aggregate"
	"github.com/okian/levelboard/internal/domain/catalog"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
)

// Snapshot is one immutable, fully derived view of the datasets. A new
// snapshot replaces the previous one wholesale; nothing is merged.
type Snapshot struct {
	ID          uuid.UUID
	LoadedAt    time.Time
	Levels      map[model.Category][]catalog.Item
	Profiles    map[string]model.Profile
	Creators    map[string]model.CreatorStats
	Boards      map[model.Criterion][]ranking.Entry
	Diagnostics []aggregate.Diagnostic
}

// LevelCount returns the number of accepted levels across categories.
func (s *Snapshot) LevelCount() int {
	n := 0
	for _, items := range s.Levels {
		n += len(items)
	}
	return n
}

// Store provides access to the current snapshot.
type Store interface {
	// Current returns the published snapshot or ErrNoSnapshot.
	Current(ctx context.Context) (*Snapshot, error)
	// Publish atomically replaces the current snapshot.
	Publish(ctx context.Context, snap *Snapshot) error

	// TopN returns the first n entries of a criterion's board.
	TopN(ctx context.Context, criterion model.Criterion, n int) ([]ranking.Entry, error)
	// Creator returns one creator's stats. Returns ErrNotFound if unknown.
	Creator(ctx context.Context, name string) (model.CreatorStats, error)
	// Level returns one accepted level. Returns ErrNotFound if unknown.
	Level(ctx context.Context, category model.Category, id string) (catalog.Item, error)
	// Levels returns the accepted levels of a category in load order.
	Levels(ctx context.Context, category model.Category) ([]catalog.Item, error)

	// Count returns the number of creators in the current snapshot.
	Count(ctx context.Context) int
}
