package catalog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/levelboard/internal/domain/catalog"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func level(id, name, creator string, created time.Time, g, d, s float64) model.Level {
	return model.Level{
		ID:       id,
		Name:     name,
		Creator:  creator,
		Category: model.CategorySpeedrun,
		Created:  created,
		Ratings:  map[string]any{"gameplay": g, "design": d, "speedrunning": s},
	}
}

func ids(items []catalog.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Level.ID)
	}
	return out
}

func fixture() []catalog.Item {
	reg := rating.MustRegistry()
	return catalog.Evaluate(reg, []model.Level{
		level("1", "Lava Run", "alice", day(1), 9, 9, 9),
		level("2", "Ice Cave", "bob", day(3), 5, 5, 5),
		level("3", "Sky Tower", "Alice", day(2), 7, 7, 7),
		level("4", "Lava Lake", "carol", day(3), 2, 2, 2),
	})
}

func TestParseSort(t *testing.T) {
	Convey("Given sort names", t, func() {
		Convey("Then empty should default to recent", func() {
			s, err := catalog.ParseSort("")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, catalog.SortRecent)
		})

		Convey("Then rated should parse in any case", func() {
			s, err := catalog.ParseSort("Rated")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, catalog.SortRated)
		})

		Convey("Then anything else should be rejected", func() {
			_, err := catalog.ParseSort("oldest")
			So(errors.Is(err, catalog.ErrUnknownSort), ShouldBeTrue)
		})
	})
}

func TestEvaluate(t *testing.T) {
	Convey("Given levels with one broken record", t, func() {
		reg := rating.MustRegistry()
		broken := level("9", "Broken", "dave", day(1), 1, 1, 1)
		delete(broken.Ratings, "design")
		items := catalog.Evaluate(reg, []model.Level{level("1", "Lava Run", "alice", day(1), 8, 7, 6), broken})

		Convey("Then only rateable levels should come back with derived values", func() {
			So(items, ShouldHaveLength, 1)
			So(items[0].Total, ShouldEqual, 21.0)
			So(items[0].Average, ShouldEqual, 7.0)
			So(items[0].Tier, ShouldEqual, rating.TierEpic)
			So(items[0].Points, ShouldEqual, 2.1)
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given a catalog of four levels", t, func() {
		items := fixture()

		Convey("When no query is given", func() {
			got := catalog.Filter(items, catalog.Query{})

			Convey("Then the newest should come first with ties by id", func() {
				So(ids(got), ShouldResemble, []string{"2", "4", "3", "1"})
			})
		})

		Convey("When sorting by rating", func() {
			got := catalog.Filter(items, catalog.Query{Sort: catalog.SortRated})

			Convey("Then the highest average should come first", func() {
				So(ids(got), ShouldResemble, []string{"1", "3", "2", "4"})
			})
		})

		Convey("When sorting levels rated on schemas of different width", func() {
			wide := level("5", "Wide", "dave", day(4), 7, 7, 7)
			narrow := model.Level{
				ID: "6", Name: "Narrow", Creator: "dave", Category: model.CategorySpeedrun, Schema: "v1",
				Created: day(4), Ratings: map[string]any{"gameplay": 9.0, "design": 9.0},
			}
			mixed := catalog.Evaluate(rating.MustRegistry(), []model.Level{wide, narrow})
			got := catalog.Filter(mixed, catalog.Query{Sort: catalog.SortRated})

			Convey("Then the higher average should win over the higher total", func() {
				So(mixed[0].Total, ShouldEqual, 21.0)
				So(mixed[1].Total, ShouldEqual, 18.0)
				So(ids(got), ShouldResemble, []string{"6", "5"})
			})
		})

		Convey("When searching case-insensitively", func() {
			Convey("Then level names should match", func() {
				So(ids(catalog.Filter(items, catalog.Query{Search: "LAVA"})), ShouldResemble, []string{"4", "1"})
			})

			Convey("Then creator names should match", func() {
				So(ids(catalog.Filter(items, catalog.Query{Search: "alice"})), ShouldResemble, []string{"3", "1"})
			})

			Convey("Then a miss should return an empty list", func() {
				So(catalog.Filter(items, catalog.Query{Search: "desert"}), ShouldBeEmpty)
			})
		})

		Convey("Then the input order should be untouched", func() {
			_ = catalog.Filter(items, catalog.Query{Sort: catalog.SortRated})
			So(ids(items), ShouldResemble, []string{"1", "2", "3", "4"})
		})
	})
}

func TestCreatorLevels(t *testing.T) {
	Convey("Given a catalog with creators that differ by case", t, func() {
		items := fixture()

		Convey("Then only the exact creator's levels should be listed", func() {
			So(ids(catalog.CreatorLevels(items, "alice", catalog.Query{})), ShouldResemble, []string{"1"})
			So(ids(catalog.CreatorLevels(items, "Alice", catalog.Query{})), ShouldResemble, []string{"3"})
		})

		Convey("Then search should apply to level names only", func() {
			So(catalog.CreatorLevels(items, "bob", catalog.Query{Search: "bob"}), ShouldBeEmpty)
			So(ids(catalog.CreatorLevels(items, "bob", catalog.Query{Search: "cave"})), ShouldResemble, []string{"2"})
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Given a catalog", t, func() {
		items := fixture()

		Convey("Then a known id should be found", func() {
			it, ok := catalog.Find(items, "3")
			So(ok, ShouldBeTrue)
			So(it.Level.Name, ShouldEqual, "Sky Tower")
		})

		Convey("Then an unknown id should not", func() {
			_, ok := catalog.Find(items, "42")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestResolveProfile(t *testing.T) {
	Convey("Given profiles and defaults", t, func() {
		defaults := model.Profile{Avatar: "default-avatar.png", Banner: "default-banner.png"}
		profiles := map[string]model.Profile{
			"alice": {Name: "alice", Avatar: "alice.png"},
		}

		Convey("Then a partial profile should be completed from defaults", func() {
			p := catalog.ResolveProfile(profiles, "alice", defaults)
			So(p.Avatar, ShouldEqual, "alice.png")
			So(p.Banner, ShouldEqual, "default-banner.png")
		})

		Convey("Then a creator without a profile should get the defaults", func() {
			p := catalog.ResolveProfile(profiles, "bob", defaults)
			So(p, ShouldResemble, model.Profile{Name: "bob", Avatar: "default-avatar.png", Banner: "default-banner.png"})
		})
	})
}
