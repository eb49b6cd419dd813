package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okian/levelboard/internal/config"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/standings"
	"github.com/okian/levelboard/pkg/logger"
)

const (
	defaultTopN       = 10
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		speedrun    = flag.String("speedrun", "", "Speedrun feed, file path or URL")
		hard        = flag.String("hard", "", "Hard feed, file path or URL")
		profiles    = flag.String("profiles", "", "Profiles feed, file path or URL")
		criteria    = flag.String("criterion", "", "Comma-separated boards to print (default all)")
		topN        = flag.Int("top", defaultTopN, "Entries printed per board")
		baseURL     = flag.String("url", "", "Base URL of a running service to verify")
		timeout     = flag.Duration("timeout", 0, "Feed and HTTP timeout (default from config)")
		diagnostics = flag.Bool("diagnostics", false, "Print every excluded record and warning")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		standings.ShowHelp()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	// Logs go to stderr so the boards on stdout stay clean.
	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat, Output: os.Stderr}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	reg, err := cfg.Registry()
	if err != nil {
		os.Stderr.WriteString("invalid rating schemas: " + err.Error() + "\n")
		os.Exit(1)
	}
	crit, err := parseCriteria(*criteria)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	run := &standings.Config{
		SpeedrunSource: pick(*speedrun, cfg.SpeedrunSource),
		HardSource:     pick(*hard, cfg.HardSource),
		ProfilesSource: pick(*profiles, cfg.ProfilesSource),
		Criteria:       crit,
		TopN:           *topN,
		BaseURL:        *baseURL,
		Timeout:        cfg.FetchTimeout(),
		Diagnostics:    *diagnostics,
		Output:         os.Stdout,
	}
	if *timeout > 0 {
		run.Timeout = *timeout
	}

	if _, err := standings.Run(ctx, run, reg); err != nil {
		os.Stderr.WriteString("standings failed: " + err.Error() + "\n")
		if errors.Is(err, standings.ErrMismatch) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func pick(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func parseCriteria(s string) ([]model.Criterion, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []model.Criterion
	for _, part := range strings.Split(s, ",") {
		c, ok := model.ParseCriterion(strings.TrimSpace(part))
		if !ok {
			return nil, errors.New("unknown criterion: " + part)
		}
		out = append(out, c)
	}
	return out, nil
}
