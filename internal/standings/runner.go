package standings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/okian/levelboard/internal/adapters/dataset"
	"github.com/okian/levelboard/internal/adapters/repository"
	app "github.com/okian/levelboard/internal/app"
	"github.com/okian/levelboard/internal/domain/aggregate"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
	"github.com/okian/levelboard/internal/domain/rating"
	"github.com/okian/levelboard/pkg/logger"
)

const defaultTopN = 10

// ErrMismatch is returned when a checked service disagrees with the feeds.
var ErrMismatch = errors.New("service standings differ from feeds")

// Run loads the feeds, prints the requested boards and, when BaseURL is set,
// compares them with the running service.
func Run(ctx context.Context, cfg *Config, reg *rating.Registry) (Result, error) {
	log := logger.Get().Named("standings")
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	criteria := cfg.Criteria
	if len(criteria) == 0 {
		criteria = model.Criteria()
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	var opts []dataset.Option
	if p := dataset.NewSource(cfg.ProfilesSource, cfg.Timeout); p != nil {
		opts = append(opts, dataset.WithProfileSource(p))
	}
	loader := dataset.NewLoader(
		dataset.NewSource(cfg.SpeedrunSource, cfg.Timeout),
		dataset.NewSource(cfg.HardSource, cfg.Timeout),
		append(opts, dataset.WithLogger(log))...,
	)
	ds, err := loader.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load feeds: %w", err)
	}
	snap := app.BuildSnapshot(reg, ds)

	errs, warns := aggregate.Split(snap.Diagnostics)
	res := Result{
		Creators: len(snap.Creators),
		Levels:   snap.LevelCount(),
		Errors:   len(errs),
		Warnings: len(warns),
	}
	log.Info(ctx, "standings computed",
		logger.Int("creators", res.Creators),
		logger.Int("levels", res.Levels),
		logger.Int("excluded", res.Errors),
		logger.Int("warnings", res.Warnings),
	)

	for _, c := range criteria {
		printBoard(out, c, snap.Boards[c], topN)
	}
	if cfg.Diagnostics {
		printDiagnostics(out, snap.Diagnostics)
	}

	if cfg.BaseURL == "" {
		return res, nil
	}
	res.Mismatches = verify(ctx, cfg, snap, criteria, topN, log)
	if len(res.Mismatches) > 0 {
		return res, fmt.Errorf("%w: %d of %d boards", ErrMismatch, len(res.Mismatches), len(criteria))
	}
	return res, nil
}

func verify(ctx context.Context, cfg *Config, snap *repository.Snapshot, criteria []model.Criterion, topN int, log logger.Logger) map[model.Criterion]error {
	client := newHTTPClient(cfg.Timeout)
	mismatches := make(map[model.Criterion]error)
	for _, c := range criteria {
		remote, err := fetchBoard(ctx, client, cfg.BaseURL, c, topN)
		if err == nil {
			err = verifyBoard(snap.Boards[c], remote, topN)
		}
		if err != nil {
			log.Warn(ctx, "leaderboard mismatch", logger.String("criterion", string(c)), logger.Error(err))
			mismatches[c] = err
			continue
		}
		log.Info(ctx, "leaderboard verified", logger.String("criterion", string(c)))
	}
	return mismatches
}

func printBoard(out io.Writer, c model.Criterion, board []ranking.Entry, n int) {
	fmt.Fprintf(out, "== %s ==\n", c)
	if len(board) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCREATOR\tVALUE")
	for _, e := range ranking.Top(board, n) {
		fmt.Fprintf(tw, "%d\t%s\t%g\n", e.Position, e.Creator, e.Value)
	}
	_ = tw.Flush()
}

func printDiagnostics(out io.Writer, diags []aggregate.Diagnostic) {
	fmt.Fprintf(out, "== diagnostics (%d) ==\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(out, "%s\t%s\t%v\n", d.Severity, d.Reason, d)
	}
}
