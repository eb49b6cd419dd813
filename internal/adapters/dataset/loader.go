// Package dataset reads the level and profile feeds and turns them into
// domain levels.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/levelboard/internal/domain/aggregate"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/pkg/logger"
	"github.com/okian/levelboard/pkg/metrics"
)

// Dataset is the decoded content of all feeds for one reload.
type Dataset struct {
	Speedrun []model.Level
	Hard     []model.Level
	Profiles map[string]model.Profile
	// Diagnostics lists records dropped or flagged while decoding.
	Diagnostics []aggregate.Diagnostic
}

// Loader fetches and decodes the feeds.
type Loader struct {
	speedrun Source
	hard     Source
	profiles Source
	validate *recordValidator
	logger   logger.Logger
}

// NewLoader creates a loader for the two required level feeds.
func NewLoader(speedrun, hard Source, opts ...Option) *Loader {
	l := &Loader{
		speedrun: speedrun,
		hard:     hard,
		validate: newRecordValidator(),
		logger:   logger.Get().Named("dataset"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Sources lists the configured sources, profiles last when present.
func (l *Loader) Sources() []Source {
	out := []Source{l.speedrun, l.hard}
	if l.profiles != nil {
		out = append(out, l.profiles)
	}
	return out
}

// Load fetches every feed. Failure of a required feed fails the whole load;
// a missing profile feed only logs a warning.
func (l *Loader) Load(ctx context.Context) (Dataset, error) {
	start := time.Now()
	ds, err := l.load(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordDatasetLoad(status, float64(time.Since(start).Milliseconds()))
	return ds, err
}

func (l *Loader) load(ctx context.Context) (Dataset, error) {
	if l.speedrun == nil || l.hard == nil {
		return Dataset{}, fmt.Errorf("%w: speedrun and hard sources are required", ErrFetch)
	}

	var ds Dataset
	for _, feed := range []struct {
		category model.Category
		src      Source
		into     *[]model.Level
	}{
		{model.CategorySpeedrun, l.speedrun, &ds.Speedrun},
		{model.CategoryHard, l.hard, &ds.Hard},
	} {
		data, err := feed.src.Fetch(ctx)
		if err != nil {
			return Dataset{}, fmt.Errorf("%s feed: %w", feed.category, err)
		}
		levels, diags, err := decodeLevels(data, feed.category, l.validate)
		if err != nil {
			return Dataset{}, err
		}
		*feed.into = levels
		ds.Diagnostics = append(ds.Diagnostics, diags...)
	}

	ds.Profiles = l.loadProfiles(ctx)

	dropped, flagged := aggregate.Split(ds.Diagnostics)
	l.logger.Debug(ctx, "dataset decoded",
		logger.Int("speedrun", len(ds.Speedrun)),
		logger.Int("hard", len(ds.Hard)),
		logger.Int("profiles", len(ds.Profiles)),
		logger.Int("dropped", len(dropped)),
		logger.Int("flagged", len(flagged)),
	)
	return ds, nil
}

func (l *Loader) loadProfiles(ctx context.Context) map[string]model.Profile {
	empty := map[string]model.Profile{}
	if l.profiles == nil {
		return empty
	}
	data, err := l.profiles.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrSourceNotFound) {
			l.logger.Warn(ctx, "profile feed not found, using defaults", logger.String("source", l.profiles.String()))
		} else {
			l.logger.Warn(ctx, "profile feed unavailable, using defaults", logger.Error(err))
		}
		metrics.RecordDatasetWarning("profiles", "unavailable")
		return empty
	}
	profiles, skipped, err := decodeProfiles(data, l.validate)
	if err != nil {
		l.logger.Warn(ctx, "profile feed is not valid JSON, using defaults", logger.Error(err))
		metrics.RecordDatasetWarning("profiles", "decode")
		return empty
	}
	for _, e := range skipped {
		l.logger.Warn(ctx, "skipping profile", logger.Error(e))
		metrics.RecordDatasetWarning("profiles", "invalid_record")
	}
	return profiles
}
