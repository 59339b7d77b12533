package config_test

import (
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/touchline/scoutsim/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.SnapshotIntervalMS, convey.ShouldEqual, 1000)
			convey.So(cfg.TopCacheSize, convey.ShouldEqual, 500)
			convey.So(cfg.MaxBoardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Mode, convey.ShouldEqual, "fullObservation")
			convey.So(cfg.FixtureCount, convey.ShouldEqual, 64)
			convey.So(cfg.MasterSeed, convey.ShouldEqual, 0)
			convey.So(cfg.Weather, convey.ShouldEqual, "")
		})
	})
}
