package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/ecoscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.ArtifactPath, convey.ShouldEqual, "best_sustainability_model.json")
			convey.So(cfg.CacheSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.Validate(context.Background()), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid settings", t, func() {
		ctx := context.Background()
		cases := map[string]func(*config.Config){
			"addr must not be empty":          func(c *config.Config) { c.Addr = " " },
			"artifact_path must not be empty": func(c *config.Config) { c.ArtifactPath = "" },
			"cache_size must not be negative": func(c *config.Config) { c.CacheSize = -1 },
			"onnx_intra_threads":              func(c *config.Config) { c.ONNXIntraThreads = -2 },
			"log_format must be text or json": func(c *config.Config) { c.LogFormat = "xml" },
		}

		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
		}
	})
}
