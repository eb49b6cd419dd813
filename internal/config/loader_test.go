package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/levelboard/internal/config"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.SpeedrunSource, convey.ShouldEqual, "data/speedrun.json")
			convey.So(cfg.HardSource, convey.ShouldEqual, "data/hard.json")
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Watch, convey.ShouldBeTrue)
			convey.So(cfg.FetchTimeout().Seconds(), convey.ShouldEqual, 10.0)
			convey.So(cfg.ReloadDebounce().Milliseconds(), convey.ShouldEqual, int64(500))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ReloadQueueSize, convey.ShouldEqual, 4)
				convey.So(cfg.RatingSchemas, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LEVELBOARD_ADDR", ":8080")
			_ = os.Setenv("LEVELBOARD_MAX_LEADERBOARD_LIMIT", "25")
			_ = os.Setenv("LEVELBOARD_WATCH", "false")
			_ = os.Setenv("LEVELBOARD_HARD_SOURCE", "https://example.com/hard.json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.Watch, convey.ShouldBeFalse)
				convey.So(cfg.HardSource, convey.ShouldEqual, "https://example.com/hard.json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
speedrun_source: /srv/feeds/speedrun.json
profiles_source: ""
reload_queue_size: 8
rating_schemas:
  hard:
    default: v3
    versions:
      v2: [gameplay, design, balancing]
      v3: [gameplay, design, balancing, fairness]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LEVELBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.SpeedrunSource, convey.ShouldEqual, "/srv/feeds/speedrun.json")
				convey.So(cfg.ProfilesSource, convey.ShouldEqual, "")
				convey.So(cfg.ReloadQueueSize, convey.ShouldEqual, 8)
				convey.So(cfg.RatingSchemas["hard"].Default, convey.ShouldEqual, "v3")
			})

			convey.Convey("Then the schema override should reach the registry", func() {
				reg, err := cfg.Registry()
				convey.So(err, convey.ShouldBeNil)
				convey.So(reg.Versions(model.CategoryHard), convey.ShouldResemble, []string{"v2", "v3"})
				convey.So(reg.Versions(model.CategorySpeedrun), convey.ShouldResemble, []string{"v1", "v2", "v3"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nreload_queue_size: 8\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LEVELBOARD_CONFIG", tmpFile)
			_ = os.Setenv("LEVELBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ReloadQueueSize, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("LEVELBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a number is not a number", func() {
			_ = os.Setenv("LEVELBOARD_RELOAD_QUEUE_SIZE", "many")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the address is empty", func() {
			_ = os.Setenv("LEVELBOARD_ADDR", " ")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation should reject it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a valid default config", t, func() {
		cfg := config.New()

		convey.Convey("When required feeds are missing", func() {
			cfg.HardSource = ""

			convey.Convey("Then it should be invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the profile feed is missing", func() {
			cfg.ProfilesSource = ""

			convey.Convey("Then it should still be valid", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When limits are not positive", func() {
			cfg.MaxLeaderboardLimit = 0

			convey.Convey("Then it should be invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log format is unknown", func() {
			cfg.LogFormat = "xml"

			convey.Convey("Then it should be invalid", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a schema override names an unknown category", func() {
			cfg.RatingSchemas = map[string]config.RatingSchema{
				"casual": {Default: "v1", Versions: map[string][]string{"v1": {"fun"}}},
			}

			convey.Convey("Then it should be invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When two schema overrides name the same category", func() {
			cfg.RatingSchemas = map[string]config.RatingSchema{
				"hard": {Default: "v1", Versions: map[string][]string{"v1": {"fun"}}},
				"Hard": {Default: "v2", Versions: map[string][]string{"v2": {"pain"}}},
			}

			convey.Convey("Then it should be invalid whatever the map order", func() {
				for range 10 {
					_, err := cfg.Registry()
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, "given twice")
				}
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a schema override has no default version", func() {
			cfg.RatingSchemas = map[string]config.RatingSchema{
				"speedrun": {Default: "v9", Versions: map[string][]string{"v1": {"fun"}}},
			}

			convey.Convey("Then it should be invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "levelboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"LEVELBOARD_CONFIG",
		"LEVELBOARD_ADDR",
		"LEVELBOARD_MAX_LEADERBOARD_LIMIT",
		"LEVELBOARD_WATCH",
		"LEVELBOARD_HARD_SOURCE",
		"LEVELBOARD_RELOAD_QUEUE_SIZE",
	} {
		_ = os.Unsetenv(name)
	}
}
