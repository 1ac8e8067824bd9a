package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/talentco/skillsearch/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TopKSkills, convey.ShouldEqual, 20)
				convey.So(cfg.TopNUsers, convey.ShouldEqual, 5)
				convey.So(cfg.MinSimilarity, convey.ShouldEqual, 0.35)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SKILLSEARCH_ADDR", ":8080")
			_ = os.Setenv("SKILLSEARCH_TOP_K_SKILLS", "30")
			_ = os.Setenv("SKILLSEARCH_TOP_N_USERS", "10")
			_ = os.Setenv("SKILLSEARCH_MIN_SIMILARITY", "0.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TopKSkills, convey.ShouldEqual, 30)
				convey.So(cfg.TopNUsers, convey.ShouldEqual, 10)
				convey.So(cfg.MinSimilarity, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
top_k_skills: 25
min_similarity: 0.4
snapshot_path: "/var/lib/skillsearch/user_db.json"
rating_multipliers:
  "1": 1.0
  "2": 2.5
  "3": 5.0
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLSEARCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.TopKSkills, convey.ShouldEqual, 25)
				convey.So(cfg.MinSimilarity, convey.ShouldEqual, 0.4)
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "/var/lib/skillsearch/user_db.json")
				convey.So(cfg.RatingMultipliers["2"], convey.ShouldEqual, 2.5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
top_k_skills: 25
top_n_users: 8
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLSEARCH_CONFIG", tmpFile)
			_ = os.Setenv("SKILLSEARCH_ADDR", ":8080")        // This should override the file
			_ = os.Setenv("SKILLSEARCH_TOP_K_SKILLS", "40")   // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.TopKSkills, convey.ShouldEqual, 40)     // Overridden by env
				convey.So(cfg.TopNUsers, convey.ShouldEqual, 8)       // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLSEARCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SKILLSEARCH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SKILLSEARCH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an out-of-range similarity floor", func() {
			_ = os.Setenv("SKILLSEARCH_MIN_SIMILARITY", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "min_similarity")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with descending score bands", func() {
			_ = os.Setenv("SKILLSEARCH_GOOD_MIN_SCORE", "90")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "score band minimums")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
top_n_users: 7
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLSEARCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")     // From file
				convey.So(cfg.TopNUsers, convey.ShouldEqual, 7)      // From file
				convey.So(cfg.TopKSkills, convey.ShouldEqual, 20)    // From defaults
				convey.So(cfg.MinSimilarity, convey.ShouldEqual, 0.35) // From defaults
			})
		})
	})
}

func clearConfigEnvVars() {
	vars := []string{
		"SKILLSEARCH_CONFIG",
		"SKILLSEARCH_ADDR",
		"SKILLSEARCH_TOP_K_SKILLS",
		"SKILLSEARCH_TOP_N_USERS",
		"SKILLSEARCH_MIN_SIMILARITY",
		"SKILLSEARCH_GOOD_MIN_SCORE",
		"SKILLSEARCH_SNAPSHOT_PATH",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "skillsearch-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	_ = tmpFile.Close()
	return tmpFile.Name()
}
