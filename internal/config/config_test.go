package config_test

import (
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/talentco/skillsearch/internal/config"
	"github.com/talentco/skillsearch/internal/domain/model"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.SnapshotPath, convey.ShouldEqual, "data/user_db.json")
			convey.So(cfg.IngestWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.TopKSkills, convey.ShouldEqual, 20)
			convey.So(cfg.TopNUsers, convey.ShouldEqual, 5)
			convey.So(cfg.MinSimilarity, convey.ShouldEqual, 0.35)
			convey.So(cfg.SimilarityExponent, convey.ShouldEqual, 2.0)
			convey.So(cfg.ExcellentMinScore, convey.ShouldEqual, 80)
			convey.So(cfg.StrongMinScore, convey.ShouldEqual, 60)
			convey.So(cfg.GoodMinScore, convey.ShouldEqual, 40)
			convey.So(cfg.SearchTimeoutMS, convey.ShouldEqual, 10_000)
			convey.So(cfg.SearchMaxRetries, convey.ShouldEqual, 3)
			convey.So(cfg.EmbedCacheSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.EmbeddingModelID, convey.ShouldEqual, "amazon.titan-embed-text-v2:0")
			convey.So(cfg.EmbeddingDim, convey.ShouldEqual, 1024)
		})
	})
}

func TestConfig_RatingMultiplierTable(t *testing.T) {
	convey.Convey("Given a config with default rating multipliers", t, func() {
		cfg := config.New()

		convey.Convey("When converting to the rating-keyed table", func() {
			table, err := cfg.RatingMultiplierTable()

			convey.Convey("Then it should contain the default multipliers", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(table[model.RatingBeginner], convey.ShouldEqual, 1.0)
				convey.So(table[model.RatingIntermediate], convey.ShouldEqual, 3.0)
				convey.So(table[model.RatingAdvanced], convey.ShouldEqual, 6.0)
			})
		})
	})

	convey.Convey("Given a config with a non-integer multiplier key", t, func() {
		cfg := config.New()
		cfg.RatingMultipliers = map[string]float64{"beginner": 1.0}

		convey.Convey("When converting to the rating-keyed table", func() {
			table, err := cfg.RatingMultiplierTable()

			convey.Convey("Then it should return an invalid config error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "rating multiplier key")
				convey.So(table, convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a config with a non-positive multiplier", t, func() {
		cfg := config.New()
		cfg.RatingMultipliers = map[string]float64{"2": 0}

		convey.Convey("When converting to the rating-keyed table", func() {
			table, err := cfg.RatingMultiplierTable()

			convey.Convey("Then it should return an invalid config error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "must be positive")
				convey.So(table, convey.ShouldBeNil)
			})
		})
	})
}
