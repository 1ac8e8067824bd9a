package scoring_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/talentco/skillsearch/internal/domain/match"
	"github.com/talentco/skillsearch/internal/domain/model"
	"github.com/talentco/skillsearch/internal/domain/scoring"
	"github.com/talentco/skillsearch/internal/domain/types"
	"github.com/talentco/skillsearch/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func contribution(skillID string, similarity float64, rating int) types.SkillContribution {
	return types.SkillContribution{
		SkillID:    skillID,
		Similarity: similarity,
		Rating:     rating,
	}
}

func TestScorer_SingleStrongMatch(t *testing.T) {
	Convey("Given a user with one matched skill at similarity 0.7669 rated Advanced", t, func() {
		scorer := scoring.New()
		candidates := []match.Candidate{
			{
				Email: "dev@example.com",
				Contributions: []types.SkillContribution{
					contribution("aws-lambda", 0.7669, 3),
				},
			},
		}

		Convey("When scoring", func() {
			scored := scorer.ScoreAll(context.Background(), candidates)

			Convey("Then coverage, expertise and raw score match the known breakdown", func() {
				So(scored, ShouldHaveLength, 1)
				b := scored[0].Breakdown
				So(b.CoverageScore, ShouldAlmostEqual, 0.5881, 0.0001)
				So(b.ExpertiseMultiplier, ShouldAlmostEqual, 6.0, 1e-9)
				So(b.ExpertiseLabel, ShouldEqual, "Expert")
				So(b.RawScore, ShouldAlmostEqual, 3.5288, 0.0001)
				So(b.TotalMatchedSkills, ShouldEqual, 1)
				So(b.CoveragePercentage, ShouldEqual, 100)
			})

			Convey("And the contribution carries its derived weights", func() {
				c := scored[0].Breakdown.SkillContributions[0]
				So(c.RelevancyWeight, ShouldAlmostEqual, 0.5881, 0.0001)
				So(c.RatingMultiplier, ShouldEqual, 6.0)
				So(c.CoverageContribution, ShouldEqual, c.RelevancyWeight)
				So(c.ExpertiseContribution, ShouldAlmostEqual, c.RelevancyWeight*6.0, 1e-9)
			})
		})
	})
}

func TestScorer_ThreeSkillBreakdown(t *testing.T) {
	Convey("Given a user matching three skills at 0.95, 0.88, 0.75", t, func() {
		scorer := scoring.New()
		candidates := []match.Candidate{
			{
				Email: "dev@example.com",
				Contributions: []types.SkillContribution{
					contribution("k8s", 0.95, 3),
					contribution("docker", 0.88, 2),
					contribution("terraform", 0.75, 3),
				},
			},
		}

		Convey("When scoring", func() {
			scored := scorer.ScoreAll(context.Background(), candidates)

			Convey("Then the breakdown matches the known values", func() {
				So(scored, ShouldHaveLength, 1)
				b := scored[0].Breakdown
				So(b.CoverageScore, ShouldAlmostEqual, 2.2394, 0.0001)
				So(b.ExpertiseMultiplier, ShouldAlmostEqual, 4.96, 0.005)
				So(b.ExpertiseLabel, ShouldEqual, "Advanced")
				So(b.RawScore, ShouldAlmostEqual, 11.11, 0.005)
			})
		})
	})
}

func TestScorer_CoveragePercentage(t *testing.T) {
	Convey("Given two users with different coverage", t, func() {
		scorer := scoring.New()
		candidates := []match.Candidate{
			{
				Email: "broad@example.com",
				Contributions: []types.SkillContribution{
					contribution("a", 1.0, 1),
					contribution("b", 1.0, 1),
				},
			},
			{
				Email: "narrow@example.com",
				Contributions: []types.SkillContribution{
					contribution("a", 1.0, 3),
				},
			},
		}

		Convey("When scoring", func() {
			scored := scorer.ScoreAll(context.Background(), candidates)

			Convey("Then percentages are relative to the best coverage this query produced", func() {
				So(scored, ShouldHaveLength, 2)
				So(scored[0].Breakdown.CoveragePercentage, ShouldEqual, 100)
				So(scored[1].Breakdown.CoveragePercentage, ShouldEqual, 50)
			})
		})
	})
}

func TestScorer_CorruptRating(t *testing.T) {
	Convey("Given a user with one valid and one corrupt-rating contribution", t, func() {
		scorer := scoring.New()
		candidates := []match.Candidate{
			{
				Email: "dev@example.com",
				Contributions: []types.SkillContribution{
					contribution("good", 0.9, 2),
					contribution("bad", 0.9, 7),
				},
			},
		}

		Convey("When scoring", func() {
			scored := scorer.ScoreAll(context.Background(), candidates)

			Convey("Then the corrupt contribution is excluded and the rest scored", func() {
				So(scored, ShouldHaveLength, 1)
				b := scored[0].Breakdown
				So(b.TotalMatchedSkills, ShouldEqual, 1)
				So(b.SkillContributions[0].SkillID, ShouldEqual, "good")
				So(b.ExpertiseMultiplier, ShouldAlmostEqual, 3.0, 1e-9)
			})
		})
	})

	Convey("Given a user whose every contribution is corrupt", t, func() {
		scorer := scoring.New()
		candidates := []match.Candidate{
			{
				Email: "broken@example.com",
				Contributions: []types.SkillContribution{
					contribution("bad", 0.9, 0),
					contribution("worse", 0.9, -1),
				},
			},
		}

		Convey("When scoring", func() {
			scored := scorer.ScoreAll(context.Background(), candidates)

			Convey("Then the user is excluded entirely", func() {
				So(scored, ShouldBeEmpty)
			})
		})
	})
}

func TestScorer_Monotonicity(t *testing.T) {
	Convey("Given two identical users except for one skill's similarity", t, func() {
		scorer := scoring.New()
		lower := []match.Candidate{{
			Email: "a@example.com",
			Contributions: []types.SkillContribution{
				contribution("x", 0.60, 2),
				contribution("y", 0.50, 3),
			},
		}}
		higher := []match.Candidate{{
			Email: "a@example.com",
			Contributions: []types.SkillContribution{
				contribution("x", 0.61, 2),
				contribution("y", 0.50, 3),
			},
		}}

		Convey("When scoring both", func() {
			ctx := context.Background()
			low := scorer.ScoreAll(ctx, lower)
			high := scorer.ScoreAll(ctx, higher)

			Convey("Then the higher similarity strictly increases the raw score", func() {
				So(high[0].Breakdown.RawScore, ShouldBeGreaterThan, low[0].Breakdown.RawScore)
			})
		})
	})
}

func TestScorer_CustomConfiguration(t *testing.T) {
	Convey("Given a scorer with the earlier multiplier generation", t, func() {
		scorer := scoring.New(
			scoring.WithMultipliers(map[model.Rating]float64{
				model.RatingBeginner:     1.0,
				model.RatingIntermediate: 2.0,
				model.RatingAdvanced:     4.0,
			}),
		)
		candidates := []match.Candidate{{
			Email: "dev@example.com",
			Contributions: []types.SkillContribution{
				contribution("a", 1.0, 3),
			},
		}}

		Convey("When scoring", func() {
			scored := scorer.ScoreAll(context.Background(), candidates)

			Convey("Then the configured table drives the expertise multiplier", func() {
				So(scored[0].Breakdown.ExpertiseMultiplier, ShouldAlmostEqual, 4.0, 1e-9)
				So(scored[0].Breakdown.ExpertiseLabel, ShouldEqual, "Advanced")
			})
		})
	})

	Convey("Given a scorer with exponent 1", t, func() {
		scorer := scoring.New(scoring.WithSimilarityExponent(1.0))
		candidates := []match.Candidate{{
			Email: "dev@example.com",
			Contributions: []types.SkillContribution{
				contribution("a", 0.5, 1),
			},
		}}

		Convey("When scoring", func() {
			scored := scorer.ScoreAll(context.Background(), candidates)

			Convey("Then relevancy weights are linear in similarity", func() {
				So(scored[0].Breakdown.CoverageScore, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})
	})
}

func TestExpertiseLabel(t *testing.T) {
	Convey("Given the expertise label breakpoints", t, func() {
		cases := []struct {
			multiplier float64
			label      string
		}{
			{6.0, "Expert"},
			{5.0, "Expert"},
			{4.9, "Advanced"},
			{3.5, "Advanced"},
			{3.4, "Intermediate"},
			{2.0, "Intermediate"},
			{1.9, "Early Career"},
			{1.3, "Early Career"},
			{1.2, "Beginner"},
			{1.0, "Beginner"},
		}

		Convey("Then each multiplier maps to its label", func() {
			for _, c := range cases {
				So(scoring.ExpertiseLabel(c.multiplier), ShouldEqual, c.label)
			}
		})
	})
}
