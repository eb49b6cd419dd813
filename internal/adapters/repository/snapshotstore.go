package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/okian/levelboard/internal/domain/catalog"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
	"github.com/okian/levelboard/pkg/metrics"
)

const defaultMaxLimit = 1000

// SnapshotStore is an in-memory Store. Readers load the current snapshot
// pointer and never block the single writer.
type SnapshotStore struct {
	current  atomic.Pointer[Snapshot]
	maxLimit int
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current implements Store.Current.
func (s *SnapshotStore) Current(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Publish implements Store.Publish.
func (s *SnapshotStore) Publish(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.New("publish: nil snapshot")
	}
	start := time.Now()
	s.current.Store(snap)

	metrics.UpdateCreators(len(snap.Creators))
	metrics.UpdateProfiles(len(snap.Profiles))
	for _, c := range model.Categories() {
		metrics.UpdateLevels(string(c), len(snap.Levels[c]))
	}
	metrics.RecordSnapshotPublished(snap.LoadedAt, float64(time.Since(start).Microseconds())/1000)
	return nil
}

// TopN implements Store.TopN.
func (s *SnapshotStore) TopN(ctx context.Context, criterion model.Criterion, n int) ([]ranking.Entry, error) {
	if n < 1 || n > s.maxLimit {
		return nil, ErrInvalidLimit
	}
	if _, ok := model.ParseCriterion(string(criterion)); !ok {
		return nil, ErrUnknownCriterion
	}
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Top(snap.Boards[criterion], n), nil
}

// Creator implements Store.Creator.
func (s *SnapshotStore) Creator(ctx context.Context, name string) (model.CreatorStats, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return model.CreatorStats{}, err
	}
	c, ok := snap.Creators[name]
	if !ok {
		return model.CreatorStats{}, ErrNotFound
	}
	return c, nil
}

// Level implements Store.Level.
func (s *SnapshotStore) Level(ctx context.Context, category model.Category, id string) (catalog.Item, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return catalog.Item{}, err
	}
	it, ok := catalog.Find(snap.Levels[category], id)
	if !ok {
		return catalog.Item{}, ErrNotFound
	}
	return it, nil
}

// Levels implements Store.Levels.
func (s *SnapshotStore) Levels(ctx context.Context, category model.Category) ([]catalog.Item, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Levels[category], nil
}

// Count implements Store.Count.
func (s *SnapshotStore) Count(_ context.Context) int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Creators)
}
