// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/levelboard/internal/adapters/dataset"
	reloadqueue "github.com/okian/levelboard/internal/adapters/mq/queue"
	reloadworker "github.com/okian/levelboard/internal/adapters/mq/worker"
	"github.com/okian/levelboard/internal/adapters/repository"
	"github.com/okian/levelboard/internal/adapters/watcher"
	"github.com/okian/levelboard/internal/domain/aggregate"
	"github.com/okian/levelboard/internal/domain/catalog"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
	"github.com/okian/levelboard/internal/domain/rating"
	"github.com/okian/levelboard/pkg/logger"
	"github.com/okian/levelboard/pkg/metrics"
)

const (
	defaultQueueSize = 4
	shutdownTimeout  = 10 * time.Second
)

// Loader reads the current datasets.
type Loader interface {
	Load(ctx context.Context) (dataset.Dataset, error)
}

// Service owns the snapshot lifecycle: it loads the datasets, derives a
// snapshot, publishes it, and answers reads against the current one.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	loader      Loader
	registry    *rating.Registry
	reloadQueue *reloadqueue.InMemoryQueue
	worker      *reloadworker.ReloadWorker
	watcher     *watcher.Watcher

	// Configuration
	queueSize       int
	watchPaths      []string
	debounce        time.Duration
	profileDefaults model.Profile

	// reloadMu serializes Reload so that the startup load and the worker
	// never publish concurrently.
	reloadMu   sync.Mutex
	lastReload time.Time
	lastErr    error

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the first snapshot synchronously, then starts the reload
// worker and, when watch paths are set, the file watcher. A failed first
// load aborts the start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.loader == nil {
		return ErrNoLoader
	}
	if s.registry == nil {
		s.registry = rating.MustRegistry()
	}
	if s.store == nil {
		s.store = repository.NewSnapshotStore()
	}

	s.logger.Info(ctx, "starting levelboard service...")

	if err := s.Reload(ctx, newRequest(model.TriggerStartup)); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.reloadQueue = reloadqueue.NewInMemoryQueue(reloadqueue.WithCapacity(s.queueSize))
	s.worker = reloadworker.NewReloadWorker(s.reloadQueue, s)
	go s.worker.Run(runCtx)

	if len(s.watchPaths) > 0 {
		opts := []watcher.Option{}
		if s.debounce > 0 {
			opts = append(opts, watcher.WithDebounce(s.debounce))
		}
		w, err := watcher.New(s.watchPaths, func(ctx context.Context, path string) {
			s.logger.Info(ctx, "dataset file changed", logger.String("path", path))
			_, _ = s.RequestReload(ctx, model.TriggerWatcher)
		}, opts...)
		if err != nil {
			cancel()
			_ = s.reloadQueue.Close()
			return fmt.Errorf("start watcher: %w", err)
		}
		w.Start(runCtx)
		s.watcher = w
	}

	s.started = true
	s.logger.Info(ctx, "levelboard service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("watchedFiles", len(s.watchPaths)),
	)
	return nil
}

// Stop gracefully shuts down the watcher, the queue and the worker.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping levelboard service...")

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn(ctx, "error closing watcher", logger.Error(err))
		}
	}
	_ = s.reloadQueue.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "reload worker did not stop in time", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "levelboard service stopped")
}

// Reload loads the datasets, derives a new snapshot and publishes it. On
// error the previous snapshot stays current.
func (s *Service) Reload(ctx context.Context, req model.ReloadRequest) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	err := s.reload(ctx, req)
	s.lastReload = time.Now()
	s.lastErr = err
	return err
}

func (s *Service) reload(ctx context.Context, req model.ReloadRequest) error {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	snap := BuildSnapshot(s.registry, ds)
	recordDiagnostics(snap.Diagnostics)
	if err := s.store.Publish(ctx, snap); err != nil {
		return err
	}

	errs, warns := aggregate.Split(snap.Diagnostics)
	s.logger.Info(ctx, "snapshot published",
		logger.String("snapshot_id", snap.ID.String()),
		logger.String("request_id", req.ID),
		logger.String("trigger", req.Trigger),
		logger.Int("creators", len(snap.Creators)),
		logger.Int("levels", snap.LevelCount()),
		logger.Int("excluded", len(errs)),
		logger.Int("warnings", len(warns)),
	)
	for _, d := range errs {
		s.logger.Warn(ctx, "level excluded", logger.String("reason", d.Reason), logger.Error(d))
	}
	return nil
}

// BuildSnapshot derives a complete snapshot from one dataset. It never
// shares mutable state with earlier snapshots.
func BuildSnapshot(reg *rating.Registry, ds dataset.Dataset) *repository.Snapshot {
	agg := aggregate.Build(reg, ds.Speedrun, ds.Hard)
	standings := ranking.Apply(agg.Creators)

	levels := make(map[model.Category][]catalog.Item, len(model.Categories()))
	for _, c := range model.Categories() {
		levels[c] = catalog.Evaluate(reg, agg.Accepted[c])
	}
	profiles := ds.Profiles
	if profiles == nil {
		profiles = map[string]model.Profile{}
	}

	diags := make([]aggregate.Diagnostic, 0, len(ds.Diagnostics)+len(agg.Diagnostics))
	diags = append(diags, ds.Diagnostics...)
	diags = append(diags, agg.Diagnostics...)

	return &repository.Snapshot{
		ID:          uuid.New(),
		LoadedAt:    time.Now(),
		Levels:      levels,
		Profiles:    profiles,
		Creators:    standings.Creators,
		Boards:      standings.Boards,
		Diagnostics: diags,
	}
}

func recordDiagnostics(diags []aggregate.Diagnostic) {
	for _, d := range diags {
		if d.Severity == aggregate.SeverityError {
			metrics.RecordMalformedLevel(string(d.Category), d.Reason)
		} else {
			metrics.RecordDatasetWarning(string(d.Category), d.Reason)
		}
	}
}

func newRequest(trigger string) model.ReloadRequest {
	return model.ReloadRequest{ID: uuid.NewString(), Trigger: trigger, At: time.Now()}
}

// RequestReload queues an asynchronous reload. A full queue coalesces the
// request into the pending ones.
func (s *Service) RequestReload(ctx context.Context, trigger string) (reloadqueue.Outcome, error) {
	s.mu.RLock()
	q := s.reloadQueue
	started := s.started
	s.mu.RUnlock()
	if !started || q == nil {
		return reloadqueue.OutcomeRejected, ErrNotStarted
	}
	return q.Enqueue(ctx, newRequest(trigger))
}

// TopN returns the first n entries of a criterion's board.
func (s *Service) TopN(ctx context.Context, criterion model.Criterion, n int) ([]ranking.Entry, error) {
	return s.getStore().TopN(ctx, criterion, n)
}

// Creator returns a creator's stats with positions.
func (s *Service) Creator(ctx context.Context, name string) (model.CreatorStats, error) {
	return s.getStore().Creator(ctx, name)
}

// CreatorDetail returns a creator's stats and display profile read from one
// snapshot. Missing profile images are filled from the configured defaults.
func (s *Service) CreatorDetail(ctx context.Context, name string) (model.CreatorStats, model.Profile, error) {
	snap, err := s.getStore().Current(ctx)
	if err != nil {
		return model.CreatorStats{}, model.Profile{}, err
	}
	stats, ok := snap.Creators[name]
	if !ok {
		return model.CreatorStats{}, model.Profile{}, repository.ErrNotFound
	}
	return stats, catalog.ResolveProfile(snap.Profiles, name, s.profileDefaults), nil
}

// Level returns one accepted level.
func (s *Service) Level(ctx context.Context, category model.Category, id string) (catalog.Item, error) {
	return s.getStore().Level(ctx, category, id)
}

// Levels lists a category's levels filtered and ordered by q.
func (s *Service) Levels(ctx context.Context, category model.Category, q catalog.Query) ([]catalog.Item, error) {
	items, err := s.getStore().Levels(ctx, category)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(items, q), nil
}

// CreatorLevels lists a creator's levels across both categories.
func (s *Service) CreatorLevels(ctx context.Context, name string, q catalog.Query) ([]catalog.Item, error) {
	snap, err := s.getStore().Current(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Creators[name]; !ok {
		return nil, repository.ErrNotFound
	}
	var all []catalog.Item
	for _, c := range model.Categories() {
		all = append(all, snap.Levels[c]...)
	}
	return catalog.CreatorLevels(all, name, q), nil
}

// Diagnostics returns the data problems found by the current snapshot.
func (s *Service) Diagnostics(ctx context.Context) ([]aggregate.Diagnostic, error) {
	snap, err := s.getStore().Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Diagnostics, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"queueSize": s.queueSize,
		"watching":  len(s.watchPaths) > 0,
	}

	s.reloadMu.Lock()
	if !s.lastReload.IsZero() {
		stats["lastReload"] = s.lastReload.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastReloadError"] = s.lastErr.Error()
	}
	s.reloadMu.Unlock()

	if s.reloadQueue != nil {
		stats["queueLength"] = s.reloadQueue.Len(ctx)
	}
	if s.store != nil {
		if snap, err := s.store.Current(ctx); err == nil {
			errs, warns := aggregate.Split(snap.Diagnostics)
			stats["snapshotId"] = snap.ID.String()
			stats["loadedAt"] = snap.LoadedAt.UTC().Format(time.RFC3339)
			stats["totalCreators"] = len(snap.Creators)
			stats["speedrunLevels"] = len(snap.Levels[model.CategorySpeedrun])
			stats["hardLevels"] = len(snap.Levels[model.CategoryHard])
			stats["excludedLevels"] = len(errs)
			stats["warnings"] = len(warns)
		}
	}
	return stats
}

func (s *Service) getStore() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return emptyStore
	}
	return s.store
}

// emptyStore answers reads before Start with ErrNoSnapshot.
var emptyStore = repository.NewSnapshotStore() //nolint:gochecknoglobals // read-only sentinel
