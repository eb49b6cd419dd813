// Package standings computes leaderboards from dataset feeds without running
// the server, and optionally checks a running server against them.
package standings

import (
	"io"
	"time"

	"github.com/okian/levelboard/internal/domain/model"
)

// Config holds the settings of one standings run.
type Config struct {
	SpeedrunSource string            // file path or URL of the speedrun feed
	HardSource     string            // file path or URL of the hard feed
	ProfilesSource string            // optional profiles feed
	Criteria       []model.Criterion // boards to print; empty means all
	TopN           int               // entries printed per board
	BaseURL        string            // running service to verify; empty skips verification
	Timeout        time.Duration     // feed and HTTP timeout
	Diagnostics    bool              // print every diagnostic
	Output         io.Writer         // defaults to stdout
}

// Result is what a run computed and, when a service was checked, the
// boards that did not match it.
type Result struct {
	Creators   int
	Levels     int
	Errors     int
	Warnings   int
	Mismatches map[model.Criterion]error
}
