package standings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
	"github.com/okian/levelboard/internal/domain/rating"
	"github.com/okian/levelboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func writeFeed(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func sampleConfig(t *testing.T, out *bytes.Buffer) *Config {
	dir := t.TempDir()
	return &Config{
		SpeedrunSource: writeFeed(t, dir, "speedrun.json", `[
			{"id": "1", "name": "Lava Run", "creator": "alice", "ratings": {"gameplay": 8, "design": 7, "speedrunning": 6}},
			{"id": "2", "name": "Sky Dash", "creator": "carol", "ratings": {"gameplay": 5, "design": 5, "speedrunning": 5}},
			{"id": "3", "name": "", "creator": "carol", "ratings": {}}
		]`),
		HardSource: writeFeed(t, dir, "hard.json", `[
			{"id": "1", "name": "Spike Pit", "creator": "bob", "ratings": {"gameplay": 3, "design": 3, "balancing": 3}}
		]`),
		TopN:    10,
		Timeout: time.Second,
		Output:  out,
	}
}

func TestRun(t *testing.T) {
	Convey("Given feeds on disk", t, func() {
		var out bytes.Buffer
		cfg := sampleConfig(t, &out)
		reg := rating.MustRegistry()

		Convey("When running without a service", func() {
			cfg.Diagnostics = true
			res, err := Run(context.Background(), cfg, reg)

			Convey("Then every board should be printed", func() {
				So(err, ShouldBeNil)
				So(res.Creators, ShouldEqual, 3)
				So(res.Levels, ShouldEqual, 3)
				So(res.Errors, ShouldEqual, 1)
				So(res.Warnings, ShouldEqual, 1)
				So(res.Mismatches, ShouldBeNil)
				text := out.String()
				for _, c := range model.Criteria() {
					So(text, ShouldContainSubstring, "== "+string(c)+" ==")
				}
				So(text, ShouldContainSubstring, "alice")
				So(text, ShouldContainSubstring, "diagnostics (2)")
			})
		})

		Convey("When only the hard board is requested", func() {
			cfg.Criteria = []model.Criterion{model.CriterionHard}
			_, err := Run(context.Background(), cfg, reg)

			Convey("Then only bob should be listed", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldNotContainSubstring, "== points ==")
				So(out.String(), ShouldContainSubstring, "bob")
				So(out.String(), ShouldNotContainSubstring, "alice")
			})
		})

		Convey("When a required feed is missing", func() {
			cfg.HardSource = filepath.Join(t.TempDir(), "missing.json")
			_, err := Run(context.Background(), cfg, reg)

			Convey("Then the run should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "load feeds")
			})
		})
	})
}

func TestRunAgainstService(t *testing.T) {
	Convey("Given feeds and a fake service", t, func() {
		var out bytes.Buffer
		cfg := sampleConfig(t, &out)
		cfg.Criteria = []model.Criterion{model.CriterionPoints}
		reg := rating.MustRegistry()

		board := []remoteEntry{
			{Position: 1, Creator: "alice", Value: 2.1},
			{Position: 2, Creator: "carol", Value: 1.5},
			{Position: 3, Creator: "bob", Value: 0.9},
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/leaderboard/points" || r.URL.Query().Get("limit") != "10" {
				http.NotFound(w, r)
				return
			}
			_ = json.NewEncoder(w).Encode(board)
		}))
		defer srv.Close()
		cfg.BaseURL = srv.URL

		Convey("When the service agrees", func() {
			res, err := Run(context.Background(), cfg, reg)

			Convey("Then there should be no mismatches", func() {
				So(err, ShouldBeNil)
				So(res.Mismatches, ShouldBeEmpty)
			})
		})

		Convey("When the service disagrees", func() {
			board[0], board[1] = board[1], board[0]
			res, err := Run(context.Background(), cfg, reg)

			Convey("Then the board should be reported", func() {
				So(errors.Is(err, ErrMismatch), ShouldBeTrue)
				So(res.Mismatches, ShouldContainKey, model.CriterionPoints)
			})
		})
	})
}

func TestVerifyBoard(t *testing.T) {
	Convey("Given a local board", t, func() {
		local := []ranking.Entry{
			{Position: 1, Creator: "alice", Value: 3},
			{Position: 2, Creator: "bob", Value: 2},
			{Position: 3, Creator: "carol", Value: 1},
		}

		Convey("Then a matching prefix should verify", func() {
			So(verifyBoard(local, local[:2], 2), ShouldBeNil)
		})

		Convey("Then a short remote board should fail", func() {
			err := verifyBoard(local, local[:1], 2)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "expected 2 entries")
		})

		Convey("Then a different value should fail", func() {
			remote := []ranking.Entry{{Position: 1, Creator: "alice", Value: 3.5}}
			err := verifyBoard(local, remote, 1)
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "alice"), ShouldBeTrue)
		})

		Convey("Then a different position should fail", func() {
			remote := []ranking.Entry{{Position: 2, Creator: "alice", Value: 3}}
			So(verifyBoard(local, remote, 1), ShouldNotBeNil)
		})
	})
}
