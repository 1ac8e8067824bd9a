package rank_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/talentco/skillsearch/internal/domain/rank"
	"github.com/talentco/skillsearch/internal/domain/scoring"
	"github.com/talentco/skillsearch/internal/domain/types"
)

func scored(email string, raw float64) scoring.Scored {
	return scoring.Scored{
		Email:     email,
		Breakdown: types.ScoreBreakdown{RawScore: raw},
	}
}

func TestRanker_Rank(t *testing.T) {
	Convey("Given scored users with distinct raw scores", t, func() {
		r := rank.New()
		input := []scoring.Scored{
			scored("mid@example.com", 5.0),
			scored("top@example.com", 10.0),
			scored("low@example.com", 2.5),
		}

		Convey("When ranking", func() {
			ranked := r.Rank(input)

			Convey("Then users are ordered by raw score descending with 1-based ranks", func() {
				So(ranked, ShouldHaveLength, 3)
				So(ranked[0].Email, ShouldEqual, "top@example.com")
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[1].Email, ShouldEqual, "mid@example.com")
				So(ranked[1].Rank, ShouldEqual, 2)
				So(ranked[2].Email, ShouldEqual, "low@example.com")
				So(ranked[2].Rank, ShouldEqual, 3)
			})

			Convey("Then display scores are ratios against the best raw score", func() {
				So(ranked[0].Score.DisplayScore, ShouldEqual, 100)
				So(ranked[1].Score.DisplayScore, ShouldEqual, 50)
				So(ranked[2].Score.DisplayScore, ShouldEqual, 25)
			})

			Convey("Then the input slice is untouched", func() {
				So(input[0].Email, ShouldEqual, "mid@example.com")
			})
		})
	})

	Convey("Given users with tied raw scores", t, func() {
		r := rank.New()
		input := []scoring.Scored{
			scored("zoe@example.com", 4.0),
			scored("amy@example.com", 4.0),
			scored("top@example.com", 8.0),
		}

		Convey("When ranking", func() {
			ranked := r.Rank(input)

			Convey("Then ties break by email ascending and ranks stay gapless", func() {
				So(ranked[1].Email, ShouldEqual, "amy@example.com")
				So(ranked[1].Rank, ShouldEqual, 2)
				So(ranked[2].Email, ShouldEqual, "zoe@example.com")
				So(ranked[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When ranking the same input twice", func() {
			first := r.Rank(input)
			second := r.Rank(input)

			Convey("Then the output is identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given no scored users", t, func() {
		r := rank.New()

		Convey("When ranking", func() {
			ranked := r.Rank(nil)

			Convey("Then the output is empty", func() {
				So(ranked, ShouldBeEmpty)
			})
		})
	})
}

// The display-score denominator is deliberately the maximum raw score among
// every user who matched at least one skill, not a sum over all vector
// results. A single user with one strong match must be able to display 100.
func TestRanker_QueryAdaptiveDenominator(t *testing.T) {
	Convey("Given one user with a single strong match", t, func() {
		r := rank.New()
		input := []scoring.Scored{
			scored("only@example.com", 3.5288),
		}

		Convey("When ranking", func() {
			ranked := r.Rank(input)

			Convey("Then that user displays exactly 100", func() {
				So(ranked, ShouldHaveLength, 1)
				So(ranked[0].Score.DisplayScore, ShouldEqual, 100)
			})
		})
	})

	Convey("Given many weak users alongside one strong one", t, func() {
		r := rank.New()
		input := []scoring.Scored{
			scored("strong@example.com", 3.0),
			scored("weak1@example.com", 0.3),
			scored("weak2@example.com", 0.03),
		}

		Convey("When ranking", func() {
			ranked := r.Rank(input)

			Convey("Then weak users scale against the strong one, never against a fixed corpus total", func() {
				So(ranked[0].Score.DisplayScore, ShouldEqual, 100)
				So(ranked[1].Score.DisplayScore, ShouldEqual, 10)
				So(ranked[2].Score.DisplayScore, ShouldEqual, 1)
			})
		})
	})
}
