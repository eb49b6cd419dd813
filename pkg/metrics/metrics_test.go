package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should apply", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "test_namespace_test_subsystem_")
				}
			})
		})

		Convey("When registering twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			_ = NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto should panic on the duplicate", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording dataset metrics", func() {
			before := gathered("levelboard_catalog_malformed_levels_total", "reason", "missing_rating")
			RecordMalformedLevel("hard", "missing_rating")
			UpdateLevels("speedrun", 12)
			UpdateCreators(4)

			Convey("Then the collectors should reflect them", func() {
				after := gathered("levelboard_catalog_malformed_levels_total", "reason", "missing_rating")
				So(after-before, ShouldEqual, 1.0)
				So(gathered("levelboard_catalog_levels", "category", "speedrun"), ShouldEqual, 12.0)
				So(gathered("levelboard_catalog_creators", "", ""), ShouldEqual, 4.0)
			})
		})

		Convey("When recording every helper", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordDatasetLoad("success", 12.5)
					UpdateProfiles(3)
					RecordDatasetWarning("speedrun", "duplicate_id")
					RecordSnapshotPublished(time.Now(), 1.5)
					RecordReloadRequest("api", "queued")
					UpdateReloadQueueSize(1)
					RecordReloadError()
					RecordHTTPRequest("levels", "GET", "200")
					RecordHTTPRequestDuration("levels", "GET", "200", 3)
					RecordErrorByEndpoint("levels", "GET", "not_found")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(8)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then it should be the custom one", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}

// gathered reads a counter or gauge value from the custom registry. An empty
// label name matches the first sample of the family.
func gathered(name, label, value string) float64 {
	families, err := customRegistry.Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			match := label == ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					match = true
				}
			}
			if !match {
				continue
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}
